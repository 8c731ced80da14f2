package model

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/scitext/pkg/errors"
)

// LabelDecoder maps class indices predicted by a numeric estimator back to
// string labels. preprocessing.LabelEncoder satisfies it.
type LabelDecoder interface {
	InverseTransform(y mat.Matrix) ([]string, error)
	Classes() []string
}

// EncodedModel is a FittedModel over a numeric Predictor trained on
// label-encoded targets.
type EncodedModel struct {
	name      string
	predictor Predictor
	decoder   LabelDecoder
	nFeatures int
}

var _ FittedModel = (*EncodedModel)(nil)

// NewEncodedModel wraps a fitted numeric predictor.
func NewEncodedModel(name string, predictor Predictor, decoder LabelDecoder, nFeatures int) *EncodedModel {
	return &EncodedModel{
		name:      name,
		predictor: predictor,
		decoder:   decoder,
		nFeatures: nFeatures,
	}
}

// Predict implements FittedModel.Predict. An input with no rows yields an
// empty prediction.
func (m *EncodedModel) Predict(X mat.Matrix) ([]string, error) {
	r, c := X.Dims()
	if c != m.nFeatures {
		return nil, errors.NewDimensionMismatchError(m.name+".Predict", m.nFeatures, c, 1)
	}
	if r == 0 {
		return []string{}, nil
	}
	codes, err := m.predictor.Predict(X)
	if err != nil {
		return nil, errors.Wrapf(err, "%s: predict", m.name)
	}
	return m.decoder.InverseTransform(codes)
}

// NFeatures implements FittedModel.NFeatures.
func (m *EncodedModel) NFeatures() int {
	return m.nFeatures
}

// Classes implements FittedModel.Classes.
func (m *EncodedModel) Classes() []string {
	return m.decoder.Classes()
}
