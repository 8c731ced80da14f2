package errors

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewModelError(t *testing.T) {
	tests := []struct {
		name    string
		op      string
		kind    string
		err     error
		wantMsg string
	}{
		{
			name:    "with original error",
			op:      "Fit",
			kind:    "invalid input",
			err:     fmt.Errorf("test error"),
			wantMsg: "scitext: Fit: invalid input: test error",
		},
		{
			name:    "without original error",
			op:      "Predict",
			kind:    "not fitted",
			err:     nil,
			wantMsg: "scitext: Predict: not fitted",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewModelError(tt.op, tt.kind, tt.err)

			if err.Error() != tt.wantMsg {
				t.Errorf("Error() = %v, want %v", err.Error(), tt.wantMsg)
			}

			// スタックトレースの存在確認
			formatted := fmt.Sprintf("%+v", err)
			if !strings.Contains(formatted, "errors_test.go") {
				t.Error("Expected stack trace to contain test file name")
			}

			var modelErr *ModelError
			if !As(err, &modelErr) {
				t.Error("Error should be castable to *ModelError")
			}
		})
	}
}

func TestNewDimensionMismatchError(t *testing.T) {
	err := NewDimensionMismatchError("MultinomialNB.Predict", 9, 7, 1)

	want := "scitext: MultinomialNB.Predict: dimension mismatch on axis 1 (features). Expected 9, got 7"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var dimErr *DimensionMismatchError
	if !As(err, &dimErr) {
		t.Fatal("Error should be castable to *DimensionMismatchError")
	}
	if dimErr.Expected != 9 || dimErr.Got != 7 {
		t.Errorf("unexpected fields: %+v", dimErr)
	}
}

func TestNewTrainingError(t *testing.T) {
	err := NewTrainingError("MultinomialNB", "fewer than 2 distinct classes", 3, 1)

	want := "scitext: MultinomialNB: training failed: fewer than 2 distinct classes (samples=3, classes=1)"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var trainErr *TrainingError
	if !As(err, &trainErr) {
		t.Error("Error should be castable to *TrainingError")
	}

	// ラップ後も型判定できること
	wrapped := Wrapf(err, "pipeline stage %s", "fit")
	if !As(wrapped, &trainErr) {
		t.Error("Wrapped error should still be castable to *TrainingError")
	}
}

func TestNewInputShapeError(t *testing.T) {
	err := NewInputShapeErrorFor("evaluation", "labels", []int{4}, []int{3})

	want := "scitext: input shape mismatch in evaluation phase for 'labels'. Expected shape [4], got [3]"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var shapeErr *InputShapeError
	if !As(err, &shapeErr) {
		t.Error("Error should be castable to *InputShapeError")
	}
}

func TestNewUndefinedMetricError(t *testing.T) {
	err := NewUndefinedMetricError("precision", "no predicted samples for positive class \"F\"")

	var metricErr *UndefinedMetricError
	if !As(err, &metricErr) {
		t.Fatal("Error should be castable to *UndefinedMetricError")
	}
	if metricErr.Metric != "precision" {
		t.Errorf("Metric = %q, want precision", metricErr.Metric)
	}
}

func TestNewNotFittedError(t *testing.T) {
	err := NewNotFittedError("CharNGramVectorizer", "Transform")

	want := "scitext: CharNGramVectorizer: this model is not fitted yet. Call Fit() before using Transform()"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError("train_proportion", "must be in (0, 1)", 1.5)

	want := "scitext: validation failed for parameter 'train_proportion': must be in (0, 1) (got: 1.5)"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}
}

func TestWarnUsesZerologFunc(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	SetZerologWarnFunc(func(w error) {
		event := logger.Warn()
		if m, ok := w.(zerolog.LogObjectMarshaler); ok {
			event = event.EmbedObject(m)
		}
		event.Msg(w.Error())
	})
	defer SetZerologWarnFunc(nil)

	Warn(NewUndefinedMetricWarning("recall", "no true samples", 0))

	out := buf.String()
	if !strings.Contains(out, `"type":"UndefinedMetricWarning"`) {
		t.Errorf("expected structured warning, got %s", out)
	}
	if !strings.Contains(out, `"metric":"recall"`) {
		t.Errorf("expected metric field, got %s", out)
	}
}

func TestWarnFallsBackToHandler(t *testing.T) {
	var got error
	SetWarningHandler(func(w error) { got = w })
	defer SetWarningHandler(func(w error) {})

	w := NewConvergenceWarning("LogisticRegression", 100, "")
	Warn(w)

	if got != w {
		t.Errorf("handler received %v, want %v", got, w)
	}
}
