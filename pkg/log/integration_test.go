package log

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/YuminosukeSato/scitext/pkg/errors"
)

func TestTestLoggerCapturesLevels(t *testing.T) {
	testLogger, buffer := NewTestLogger(LevelDebug)

	testLogger.Debug("debug message", "key1", "value1", "number", 42)
	testLogger.Info("info message", OperationKey, OperationFit)
	testLogger.Warn("warning message")
	testLogger.Error("error message", "error", fmt.Errorf("boom"))

	if buffer.String() == "" {
		t.Fatal("Expected log output, got empty string")
	}
	for _, msg := range []string{"debug message", "info message", "warning message", "error message"} {
		if !testLogger.ContainsMessage(msg) {
			t.Errorf("%q not found in output", msg)
		}
	}
	if !testLogger.ContainsField("number", 42.0) {
		t.Error("Expected field number=42 not found")
	}
	if !testLogger.ContainsField("error", "boom") {
		t.Error("Expected error rendered as its message")
	}
}

func TestTestLoggerWith(t *testing.T) {
	testLogger, _ := NewTestLogger(LevelDebug)

	contextLogger := testLogger.With(
		ModelNameKey, "MultinomialNB",
		ComponentKey, "naive_bayes",
	)
	contextLogger.Info("fitted", OperationKey, OperationFit, SamplesKey, 4)

	if !testLogger.ContainsField(ModelNameKey, "MultinomialNB") {
		t.Error("Model name context not found")
	}
	if !testLogger.ContainsField(SamplesKey, 4.0) {
		t.Error("Samples field not found")
	}
}

func TestTestLoggerEnabled(t *testing.T) {
	testLogger, _ := NewTestLogger(LevelInfo)
	ctx := context.Background()

	if !testLogger.Enabled(ctx, LevelError) {
		t.Error("Logger should be enabled for Error level")
	}
	if testLogger.Enabled(ctx, LevelDebug) {
		t.Error("Logger should not be enabled for Debug level")
	}

	testLogger.Debug("this should not appear")
	if testLogger.ContainsMessage("this should not appear") {
		t.Error("Debug message should not appear when level is Info")
	}
}

func TestTestLoggerConcurrent(t *testing.T) {
	testLogger, _ := NewTestLogger(LevelInfo)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 5; j++ {
				testLogger.Info("message", "goroutine_id", id, "message_id", j)
			}
		}(i)
	}
	wg.Wait()

	entries, err := testLogger.GetLogEntries()
	if err != nil {
		t.Fatalf("Failed to parse log entries: %v", err)
	}
	if len(entries) != 20 {
		t.Errorf("Expected 20 entries, got %d", len(entries))
	}
}

func TestZerologLoggerFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologLogger(&buf, LevelInfo).With(ComponentKey, "metrics")

	logger.Debug("hidden")
	logger.Info("evaluated",
		AccuracyKey, 0.75,
		SamplesKey, 4,
		PositiveClassKey, "F",
	)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d: %q", len(lines), buf.String())
	}

	var entry map[string]interface{}
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if entry["message"] != "evaluated" {
		t.Errorf("message = %v", entry["message"])
	}
	if entry[ComponentKey] != "metrics" {
		t.Errorf("component = %v", entry[ComponentKey])
	}
	if entry[AccuracyKey] != 0.75 {
		t.Errorf("accuracy = %v", entry[AccuracyKey])
	}
	if entry[SamplesKey] != 4.0 {
		t.Errorf("samples = %v", entry[SamplesKey])
	}
}

func TestZerologLoggerTypedErrorDetail(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologLogger(&buf, LevelDebug)

	err := errors.Wrap(errors.NewTrainingError("ridge", "fewer than 2 distinct classes", 3, 1), "fit")
	logger.Error("training failed", "error", err)

	out := buf.String()
	if !strings.Contains(out, `"type":"TrainingError"`) {
		t.Errorf("expected typed error detail, got %s", out)
	}
}

func TestZerologLoggerEnabled(t *testing.T) {
	logger := NewZerologLogger(&bytes.Buffer{}, LevelWarn)
	ctx := context.Background()

	if logger.Enabled(ctx, LevelInfo) {
		t.Error("Info should be disabled at Warn level")
	}
	if !logger.Enabled(ctx, LevelError) {
		t.Error("Error should be enabled at Warn level")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{in: "debug", want: LevelDebug},
		{in: "INFO", want: LevelInfo},
		{in: "", want: LevelInfo},
		{in: "warning", want: LevelWarn},
		{in: "error", want: LevelError},
		{in: "verbose", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestErrFmtHandlerAddsStacktrace(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(WrapByErrFmtHandler(slog.NewJSONHandler(&buf, nil)))

	logger.Error("split failed", ErrAttr(errors.NewValueError("RandomSplit", "no records")))

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if _, ok := entry[StacktraceAttrKey]; !ok {
		t.Errorf("expected %q attribute, got %v", StacktraceAttrKey, entry)
	}
}

func TestGetLoggerWithNameUsesProvider(t *testing.T) {
	provider, _ := NewTestLoggerProvider(LevelDebug)
	SetProvider(provider)
	defer SetProvider(NewZerologProvider(&bytes.Buffer{}, LevelInfo))

	GetLoggerWithName("pipeline").Info("run started")

	if !provider.Logger().ContainsField(ComponentKey, "pipeline") {
		t.Error("component field not found")
	}
}

func TestWarnHookSingleMessageKey(t *testing.T) {
	var buf bytes.Buffer
	InstallWarnHook(zerolog.New(&buf))
	t.Cleanup(func() { errors.SetZerologWarnFunc(nil) })

	errors.Warn(errors.NewConvergenceWarning("LogisticRegression", 200, "increase max_iter"))

	line := strings.TrimSpace(buf.String())
	if n := strings.Count(line, `"message":`); n != 1 {
		t.Fatalf("message key appears %d times: %s", n, line)
	}
	var entry map[string]interface{}
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if entry["detail"] != "increase max_iter" {
		t.Errorf("detail = %v", entry["detail"])
	}
	if entry["type"] != "ConvergenceWarning" {
		t.Errorf("type = %v", entry["type"])
	}
	if !strings.Contains(entry["message"].(string), "failed to converge after 200 iterations") {
		t.Errorf("message = %v", entry["message"])
	}
}
