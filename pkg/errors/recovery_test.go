package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestRecover_WithPanic(t *testing.T) {
	run := func() (err error) {
		defer Recover(&err, "pipeline.extract")
		var rows []int
		_ = rows[3]
		return nil
	}

	err := run()
	if err == nil {
		t.Fatal("Expected error from recovered panic, got nil")
	}

	var panicErr *PanicError
	if !errors.As(err, &panicErr) {
		t.Fatalf("Expected PanicError, got %T", err)
	}
	if panicErr.Stage != "pipeline.extract" {
		t.Errorf("Stage = %q, want pipeline.extract", panicErr.Stage)
	}
	if panicErr.StackTrace == "" {
		t.Error("Expected non-empty stack trace")
	}
	if !strings.Contains(panicErr.String(), "Stack trace:") {
		t.Error("String() should include the stack trace")
	}
}

func TestRecover_WithoutPanic(t *testing.T) {
	run := func() (err error) {
		defer Recover(&err, "pipeline.split")
		return nil
	}
	if err := run(); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
}

func TestRecover_KeepsExistingError(t *testing.T) {
	original := fmt.Errorf("row count differs")

	run := func() (err error) {
		defer Recover(&err, "pipeline.fit")
		err = original
		panic("after error")
	}

	err := run()
	if !errors.Is(err, original) {
		t.Errorf("errors.Is should find the original error in %v", err)
	}
	if !strings.Contains(err.Error(), "panic in pipeline.fit") {
		t.Errorf("message should name the stage: %s", err.Error())
	}
}
