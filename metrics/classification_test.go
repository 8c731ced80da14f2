package metrics

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/scitext/pkg/errors"
	"github.com/YuminosukeSato/scitext/pkg/log"
)

func quietLogger() log.Logger {
	l, _ := log.NewTestLogger(log.LevelDebug)
	return l
}

func captureWarnings(t *testing.T) *[]error {
	t.Helper()
	var warnings []error
	errors.SetWarningHandler(func(w error) { warnings = append(warnings, w) })
	t.Cleanup(func() { errors.SetWarningHandler(func(error) {}) })
	return &warnings
}

func TestNewConfusionMatrix(t *testing.T) {
	tests := []struct {
		name      string
		predicted []string
		truth     []string
		classes   []string
		wantErr   bool
	}{
		{
			name:      "derived classes",
			predicted: []string{"F", "F", "M", "M"},
			truth:     []string{"F", "M", "M", "M"},
		},
		{
			name:      "explicit classes",
			predicted: []string{"F"},
			truth:     []string{"F"},
			classes:   []string{"M", "F"},
		},
		{
			name:      "length mismatch",
			predicted: []string{"F"},
			truth:     []string{"F", "M"},
			wantErr:   true,
		},
		{
			name:    "empty",
			wantErr: true,
		},
		{
			name:      "label outside classes",
			predicted: []string{"X"},
			truth:     []string{"F"},
			classes:   []string{"F", "M"},
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cm, err := NewConfusionMatrix(tt.predicted, tt.truth, tt.classes)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewConfusionMatrix() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if cm.Total() != len(tt.truth) {
				t.Errorf("Total() = %d, want %d", cm.Total(), len(tt.truth))
			}
		})
	}
}

func TestConfusionMatrixErrorTypes(t *testing.T) {
	_, err := NewConfusionMatrix([]string{"F"}, []string{"F", "M"}, nil)
	var shapeErr *errors.InputShapeError
	assert.True(t, errors.As(err, &shapeErr), "got %v", err)

	_, err = NewConfusionMatrix(nil, nil, nil)
	var valueErr *errors.ValueError
	assert.True(t, errors.As(err, &valueErr), "got %v", err)

	_, err = NewConfusionMatrix([]string{"F"}, []string{"Q"}, []string{"F", "M"})
	assert.True(t, errors.As(err, &valueErr), "got %v", err)
}

func TestBinaryScenario(t *testing.T) {
	predicted := []string{"F", "F", "M", "M"}
	truth := []string{"F", "M", "M", "M"}

	cm, err := NewConfusionMatrix(predicted, truth, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"F", "M"}, cm.Classes)
	// [pred][true]
	assert.Equal(t, [][]int{{1, 1}, {0, 2}}, cm.Counts)

	tp, fp, fn, err := cm.BinaryCounts("F")
	require.NoError(t, err)
	assert.Equal(t, 1, tp)
	assert.Equal(t, 1, fp)
	assert.Equal(t, 0, fn)

	p, err := Precision(cm, "F")
	require.NoError(t, err)
	assert.InDelta(t, 0.5, p, 1e-12)

	r, err := Recall(cm, "F")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, r, 1e-12)

	a, err := Accuracy(cm)
	require.NoError(t, err)
	assert.InDelta(t, 0.75, a, 1e-12)

	f1, err := F1Score(cm, "F")
	require.NoError(t, err)
	assert.InDelta(t, 2.0/3.0, f1, 1e-12)
}

func TestUndefinedMetrics(t *testing.T) {
	warnings := captureWarnings(t)

	// F is never predicted and never true
	cm, err := NewConfusionMatrix([]string{"M", "M"}, []string{"M", "M"}, []string{"F", "M"})
	require.NoError(t, err)

	_, err = Precision(cm, "F")
	var undefinedErr *errors.UndefinedMetricError
	require.True(t, errors.As(err, &undefinedErr), "got %v", err)
	assert.Equal(t, "precision", undefinedErr.Metric)

	_, err = Recall(cm, "F")
	require.True(t, errors.As(err, &undefinedErr), "got %v", err)
	assert.Equal(t, "recall", undefinedErr.Metric)

	_, err = F1Score(cm, "F")
	assert.True(t, errors.As(err, &undefinedErr))

	require.NotEmpty(t, *warnings)
	var warning *errors.UndefinedMetricWarning
	assert.True(t, errors.As((*warnings)[0], &warning))

	_, err = Precision(cm, "X")
	var valueErr *errors.ValueError
	assert.True(t, errors.As(err, &valueErr), "unknown positive class should be a ValueError, got %v", err)
}

func TestMetricRanges(t *testing.T) {
	captureWarnings(t)

	cases := [][2][]string{
		{{"F", "F", "M", "M"}, {"F", "M", "M", "M"}},
		{{"F", "F", "F"}, {"M", "M", "M"}},
		{{"A", "B", "C", "A"}, {"A", "C", "B", "A"}},
		{{"M"}, {"M"}},
	}
	for _, c := range cases {
		cm, err := NewConfusionMatrix(c[0], c[1], nil)
		require.NoError(t, err)
		assert.Equal(t, len(c[1]), cm.Total())

		a, err := Accuracy(cm)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, a, 0.0)
		assert.LessOrEqual(t, a, 1.0)

		for _, class := range cm.Classes {
			for _, metric := range []func(*ConfusionMatrix, string) (float64, error){Precision, Recall} {
				v, err := metric(cm, class)
				if err != nil {
					var undefinedErr *errors.UndefinedMetricError
					assert.True(t, errors.As(err, &undefinedErr))
					continue
				}
				assert.GreaterOrEqual(t, v, 0.0)
				assert.LessOrEqual(t, v, 1.0)
			}
		}
	}
}

func TestClassificationReport(t *testing.T) {
	cm, err := NewConfusionMatrix([]string{"F", "F", "M", "M"}, []string{"F", "M", "M", "M"}, nil)
	require.NoError(t, err)

	rows := ClassificationReport(cm)
	require.Len(t, rows, 2)
	assert.Equal(t, "F", rows[0].Class)
	assert.Equal(t, 1, rows[0].Support)
	assert.InDelta(t, 0.5, rows[0].Precision, 1e-12)
	assert.Equal(t, "M", rows[1].Class)
	assert.Equal(t, 3, rows[1].Support)
	assert.InDelta(t, 1.0, rows[1].Precision, 1e-12)
	assert.InDelta(t, 2.0/3.0, rows[1].Recall, 1e-12)

	warnings := captureWarnings(t)
	cm, err = NewConfusionMatrix([]string{"M"}, []string{"M"}, []string{"F", "M"})
	require.NoError(t, err)
	rows = ClassificationReport(cm)
	assert.True(t, math.IsNaN(rows[0].Precision))
	assert.True(t, math.IsNaN(rows[0].F1))
	assert.Empty(t, *warnings, "per-class report should not warn")
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name          string
		predicted     []string
		truth         []string
		opts          []EvaluateOption
		wantPositive  string
		wantPrecision float64
		wantDefined   bool
		wantErr       bool
	}{
		{
			name:          "default positive is first class",
			predicted:     []string{"F", "F", "M", "M"},
			truth:         []string{"F", "M", "M", "M"},
			wantPositive:  "F",
			wantPrecision: 0.5,
			wantDefined:   true,
		},
		{
			name:          "explicit positive",
			predicted:     []string{"F", "F", "M", "M"},
			truth:         []string{"F", "M", "M", "M"},
			opts:          []EvaluateOption{WithPositiveClass("M")},
			wantPositive:  "M",
			wantPrecision: 1.0,
			wantDefined:   true,
		},
		{
			name:         "undefined precision recorded as NaN",
			predicted:    []string{"M", "M"},
			truth:        []string{"F", "M"},
			opts:         []EvaluateOption{WithPositiveClass("F")},
			wantPositive: "F",
			wantDefined:  false,
		},
		{
			name:      "unknown positive class",
			predicted: []string{"M"},
			truth:     []string{"M"},
			opts:      []EvaluateOption{WithPositiveClass("F")},
			wantErr:   true,
		},
		{
			name:    "empty",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			captureWarnings(t)
			opts := append([]EvaluateOption{WithLogger(quietLogger()), WithModelName("nb")}, tt.opts...)
			report, err := Evaluate(tt.predicted, tt.truth, opts...)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Evaluate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			assert.Equal(t, "nb", report.Model)
			assert.Equal(t, tt.wantPositive, report.PositiveClass)
			assert.Equal(t, tt.wantDefined, report.PrecisionDefined)
			if tt.wantDefined {
				assert.InDelta(t, tt.wantPrecision, report.Precision, 1e-12)
			} else {
				assert.True(t, math.IsNaN(report.Precision))
				assert.True(t, math.IsNaN(report.F1))
			}
			assert.Equal(t, len(tt.truth), report.ConfusionMatrix.Total())
		})
	}
}

func TestEvaluateLogsSummary(t *testing.T) {
	logger, _ := log.NewTestLogger(log.LevelInfo)
	_, err := Evaluate([]string{"F", "M"}, []string{"F", "F"}, WithLogger(logger))
	require.NoError(t, err)

	assert.True(t, logger.ContainsMessage("Evaluation finished"))
	assert.True(t, logger.ContainsField(log.AccuracyKey, 0.5))
	assert.True(t, logger.ContainsField(log.PositiveClassKey, "F"))
}

func TestConfusionMatrixString(t *testing.T) {
	cm, err := NewConfusionMatrix([]string{"F", "M"}, []string{"F", "F"}, nil)
	require.NoError(t, err)
	out := cm.String()
	assert.True(t, strings.HasPrefix(out, "pred\\true"))
	assert.Contains(t, out, "F")
	assert.Equal(t, 3, strings.Count(out, "\n"))
}

func BenchmarkEvaluate(b *testing.B) {
	n := 1000
	predicted := make([]string, n)
	truth := make([]string, n)
	for i := 0; i < n; i++ {
		predicted[i] = []string{"F", "M"}[i%2]
		truth[i] = []string{"F", "M", "M"}[i%3]
	}
	logger := quietLogger()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = Evaluate(predicted, truth, WithLogger(logger))
	}
}
