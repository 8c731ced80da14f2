package linear_model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/scitext/pkg/errors"
)

// unigram counts over [a, n, j, o, h, m, r, y, k]
func namesMatrix() *mat.Dense {
	return mat.NewDense(4, 9, []float64{
		2, 2, 0, 0, 0, 0, 0, 0, 0, // anna
		0, 1, 1, 1, 1, 0, 0, 0, 0, // john
		1, 0, 0, 0, 0, 1, 1, 1, 0, // mary
		1, 0, 0, 0, 0, 1, 1, 0, 1, // mark
	})
}

func adapters() map[string]*Classifier {
	return map[string]*Classifier{
		"ridge":    NewRidgeClassifier(10, 1, WithLRMaxIter(500)),
		"lasso":    NewLassoClassifier(10, 1, WithLRMaxIter(500)),
		"logistic": NewClassifier(WithLRPenalty(PenaltyNone), WithLRMaxIter(50)),
	}
}

func TestClassifierFitPredictStrings(t *testing.T) {
	errors.SetWarningHandler(func(error) {})
	t.Cleanup(func() { errors.SetWarningHandler(func(error) {}) })

	y := []string{"F", "M", "F", "M"}
	for name, c := range adapters() {
		t.Run(name, func(t *testing.T) {
			fitted, err := c.Fit(namesMatrix(), y)
			require.NoError(t, err)
			assert.Equal(t, []string{"F", "M"}, fitted.Classes())
			assert.Equal(t, 9, fitted.NFeatures())

			pred, err := fitted.Predict(namesMatrix())
			require.NoError(t, err)
			require.Len(t, pred, 4)
			for _, p := range pred {
				assert.Contains(t, []string{"F", "M"}, p)
			}

			empty, err := fitted.Predict(noRows{cols: 9})
			require.NoError(t, err)
			assert.Empty(t, empty)
		})
	}
}

func TestClassifierFitErrors(t *testing.T) {
	tests := []struct {
		name string
		X    mat.Matrix
		y    []string
	}{
		{
			name: "single class",
			X:    mat.NewDense(3, 2, []float64{1, 0, 0, 1, 1, 1}),
			y:    []string{"F", "F", "F"},
		},
		{
			name: "length mismatch",
			X:    mat.NewDense(3, 2, []float64{1, 0, 0, 1, 1, 1}),
			y:    []string{"F", "M"},
		},
		{
			name: "no rows",
			X:    nil,
			y:    nil,
		},
	}
	for name, c := range map[string]*Classifier{
		"ridge": NewRidgeClassifier(10, 1),
		"lasso": NewLassoClassifier(10, 1),
	} {
		for _, tt := range tests {
			t.Run(name+"/"+tt.name, func(t *testing.T) {
				_, err := c.Fit(tt.X, tt.y)
				var trainingErr *errors.TrainingError
				require.True(t, errors.As(err, &trainingErr), "got %v", err)
				assert.Equal(t, name, trainingErr.Model)
			})
		}
	}
}

func TestClassifierInvalidParams(t *testing.T) {
	_, err := NewRidgeClassifier(0, 1).Fit(namesMatrix(), []string{"F", "M", "F", "M"})
	var validationErr *errors.ValidationError
	assert.True(t, errors.As(err, &validationErr), "got %v", err)
}

func TestClassifierPredictDimensionMismatch(t *testing.T) {
	X := mat.NewDense(2, 3, []float64{1, 0, 2, 0, 3, 1})
	fitted, err := NewLassoClassifier(10, 1).Fit(X, []string{"F", "M"})
	require.NoError(t, err)

	_, err = fitted.Predict(mat.NewDense(1, 4, nil))
	var dimErr *errors.DimensionMismatchError
	require.True(t, errors.As(err, &dimErr), "got %v", err)
	assert.Equal(t, 3, dimErr.Expected)
	assert.Equal(t, 4, dimErr.Got)
}

// noRows is a 0×cols matrix, which mat.NewDense cannot build.
type noRows struct{ cols int }

func (m noRows) Dims() (int, int)    { return 0, m.cols }
func (m noRows) At(_, _ int) float64 { panic(mat.ErrRowAccess) }
func (m noRows) T() mat.Matrix       { return mat.Transpose{Matrix: m} }
