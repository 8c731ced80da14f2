package linear_model

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/scitext/core/model"
	"github.com/YuminosukeSato/scitext/pkg/errors"
	"github.com/YuminosukeSato/scitext/preprocessing"
)

// Classifier adapts LogisticRegression to model.Classifier over string
// labels. Every Fit trains a fresh estimator with the same options.
type Classifier struct {
	name string
	opts []LogisticRegressionOption
}

var _ model.Classifier = (*Classifier)(nil)

// NewClassifier creates a logistic regression classifier adapter.
func NewClassifier(opts ...LogisticRegressionOption) *Classifier {
	return &Classifier{name: "LogisticRegression", opts: opts}
}

// NewRidgeClassifier is logistic regression with an L2 penalty of strength 1/C.
func NewRidgeClassifier(C float64, seed int64, opts ...LogisticRegressionOption) *Classifier {
	base := []LogisticRegressionOption{WithLRPenalty(PenaltyL2), WithLRC(C), WithLRRandomState(seed)}
	return &Classifier{name: "ridge", opts: append(base, opts...)}
}

// NewLassoClassifier is logistic regression with an L1 penalty of strength 1/C.
func NewLassoClassifier(C float64, seed int64, opts ...LogisticRegressionOption) *Classifier {
	base := []LogisticRegressionOption{WithLRPenalty(PenaltyL1), WithLRC(C), WithLRRandomState(seed)}
	return &Classifier{name: "lasso", opts: append(base, opts...)}
}

// Fit implements model.Classifier.Fit.
func (c *Classifier) Fit(X mat.Matrix, y []string) (model.FittedModel, error) {
	if _, err := model.ValidateTrainingData(c.name, X, y); err != nil {
		return nil, err
	}

	encoder := preprocessing.NewLabelEncoder()
	codes, err := encoder.FitTransform(y)
	if err != nil {
		return nil, errors.Wrapf(err, "%s: encode labels", c.name)
	}

	lr := NewLogisticRegression(c.opts...)
	if err := lr.Fit(X, codes); err != nil {
		return nil, errors.Wrapf(err, "%s: fit", c.name)
	}
	_, nFeatures := X.Dims()
	return model.NewEncodedModel(c.name, lr, encoder, nFeatures), nil
}
