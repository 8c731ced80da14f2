package model

import (
	"github.com/YuminosukeSato/scitext/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// ValidateTrainingData enforces the Classifier.Fit preconditions and
// returns the number of distinct labels in y.
func ValidateTrainingData(modelName string, X mat.Matrix, y []string) (int, error) {
	if X == nil {
		return 0, errors.NewTrainingError(modelName, "empty training split", 0, 0)
	}
	r, _ := X.Dims()
	if r == 0 || len(y) == 0 {
		return 0, errors.NewTrainingError(modelName, "empty training split", r, 0)
	}
	distinct := make(map[string]struct{}, 2)
	for _, label := range y {
		distinct[label] = struct{}{}
	}
	if r != len(y) {
		return len(distinct), errors.Wrapf(
			errors.NewTrainingError(modelName, "feature rows and labels differ in length", r, len(distinct)),
			"rows=%d labels=%d", r, len(y))
	}
	if len(distinct) < 2 {
		return len(distinct), errors.NewTrainingError(modelName, "fewer than 2 distinct classes", r, len(distinct))
	}
	return len(distinct), nil
}
