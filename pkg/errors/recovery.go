package errors

import (
	"fmt"
	"runtime/debug"
)

// PanicError is a panic recovered at a pipeline stage boundary.
type PanicError struct {
	PanicValue interface{}
	StackTrace string
	// Stage identifies where the panic was recovered, e.g. "pipeline.extract".
	Stage string
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic in %s: %v", e.Stage, e.PanicValue)
}

// String includes the stack trace captured at recovery time.
func (e *PanicError) String() string {
	return fmt.Sprintf("panic in %s: %v\nStack trace:\n%s", e.Stage, e.PanicValue, e.StackTrace)
}

// NewPanicError creates a PanicError for stage.
func NewPanicError(stage string, panicValue interface{}) *PanicError {
	return &PanicError{
		PanicValue: panicValue,
		StackTrace: string(debug.Stack()),
		Stage:      stage,
	}
}

// Recover converts a panic into an error assigned to *err. Use with defer:
//
//	func (p *Pipeline) Run(...) (res *Result, err error) {
//	    defer errors.Recover(&err, "pipeline.Run")
//	    ...
//	}
//
// An error already held in *err is kept as the wrapped cause.
func Recover(err *error, stage string) {
	if r := recover(); r != nil {
		panicErr := NewPanicError(stage, r)
		if *err != nil {
			*err = fmt.Errorf("%s (original error: %w)", panicErr.Error(), *err)
			return
		}
		*err = panicErr
	}
}
