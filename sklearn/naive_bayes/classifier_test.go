package naive_bayes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/scitext/pkg/errors"
)

func TestClassifierFitPredictStrings(t *testing.T) {
	// unigram counts over [a, n, j, o, h, m, r, y, k]
	X := mat.NewDense(4, 9, []float64{
		2, 2, 0, 0, 0, 0, 0, 0, 0, // anna
		0, 1, 1, 1, 1, 0, 0, 0, 0, // john
		1, 0, 0, 0, 0, 1, 1, 1, 0, // mary
		1, 0, 0, 0, 0, 1, 1, 0, 1, // mark
	})
	y := []string{"F", "M", "F", "M"}

	fitted, err := NewClassifier().Fit(X, y)
	require.NoError(t, err)
	assert.Equal(t, []string{"F", "M"}, fitted.Classes())
	assert.Equal(t, 9, fitted.NFeatures())

	pred, err := fitted.Predict(X)
	require.NoError(t, err)
	assert.Len(t, pred, 4)
	for _, p := range pred {
		assert.Contains(t, []string{"F", "M"}, p)
	}
	assert.Equal(t, "F", pred[0])

	empty, err := fitted.Predict(noRows{cols: 9})
	require.NoError(t, err)
	assert.Empty(t, empty)
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
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClassifier().Fit(tt.X, tt.y)
			var trainingErr *errors.TrainingError
			assert.True(t, errors.As(err, &trainingErr), "got %v", err)
		})
	}
}

func TestClassifierPredictDimensionMismatch(t *testing.T) {
	X := mat.NewDense(2, 3, []float64{1, 0, 2, 0, 3, 1})
	fitted, err := NewClassifier(WithAlpha(0.5)).Fit(X, []string{"F", "M"})
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
