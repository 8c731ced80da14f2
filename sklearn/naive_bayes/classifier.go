package naive_bayes

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/scitext/core/model"
	"github.com/YuminosukeSato/scitext/pkg/errors"
	"github.com/YuminosukeSato/scitext/preprocessing"
)

// Classifier adapts MultinomialNB to model.Classifier over string labels.
// Every Fit trains a fresh estimator with the same options.
type Classifier struct {
	opts []MultinomialNBOption
}

var _ model.Classifier = (*Classifier)(nil)

// NewClassifier creates a naive Bayes classifier adapter.
func NewClassifier(opts ...MultinomialNBOption) *Classifier {
	return &Classifier{opts: opts}
}

// Fit implements model.Classifier.Fit.
func (c *Classifier) Fit(X mat.Matrix, y []string) (model.FittedModel, error) {
	const name = "MultinomialNB"
	if _, err := model.ValidateTrainingData(name, X, y); err != nil {
		return nil, err
	}

	encoder := preprocessing.NewLabelEncoder()
	codes, err := encoder.FitTransform(y)
	if err != nil {
		return nil, errors.Wrapf(err, "%s: encode labels", name)
	}

	nb := NewMultinomialNB(c.opts...)
	if err := nb.Fit(X, codes); err != nil {
		return nil, err
	}
	_, nFeatures := X.Dims()
	return model.NewEncodedModel(name, nb, encoder, nFeatures), nil
}
