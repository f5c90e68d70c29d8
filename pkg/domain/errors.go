package domain

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

var (
	// ErrNoValue is returned when run memory holds no entry assignable to a
	// requested type.
	ErrNoValue = errors.New("no value of requested type in run memory")

	// ErrAmbiguousTuple is returned when a tuple input declares the same type
	// for two of its slots. Resolution cannot tell the slots apart, so the
	// shape is rejected outright.
	ErrAmbiguousTuple = errors.New("tuple input declares duplicate types")

	// ErrAmbiguousResolution is returned in strict mode when two distinct
	// concrete types both satisfy a requested interface.
	ErrAmbiguousResolution = errors.New("multiple candidates satisfy requested type")

	// ErrRunNotFound is returned when a run record cannot be found in a store.
	ErrRunNotFound = errors.New("run record not found")
)

// ResolutionError reports that run memory could not produce the inputs a
// step declared. Wanted lists the requested types in declaration order.
type ResolutionError struct {
	Step   string
	Wanted []reflect.Type
	Reason error
}

func (e *ResolutionError) Error() string {
	names := make([]string, 0, len(e.Wanted))
	for _, t := range e.Wanted {
		names = append(names, TypeName(t))
	}
	return fmt.Sprintf("step %q: cannot resolve input (%s): %v", e.Step, strings.Join(names, ", "), e.Reason)
}

func (e *ResolutionError) Unwrap() error { return e.Reason }

// StepError reports that a step body returned an error or panicked. The
// original error is preserved unwrapped so callers can inspect it with
// errors.Is / errors.As.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %q failed: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// CancelledError reports that the run's context was cancelled before or
// during a step.
type CancelledError struct {
	Step string
	Err  error
}

func (e *CancelledError) Error() string {
	return fmt.Sprintf("run cancelled at step %q: %v", e.Step, e.Err)
}

func (e *CancelledError) Unwrap() error { return e.Err }

// WorkflowError is the only error surfaced by a run's terminal Resolve. It
// identifies the workflow, the failing step when known, and wraps the
// captured cause.
type WorkflowError struct {
	Workflow string
	Step     string
	Err      error
}

func (e *WorkflowError) Error() string {
	if e.Step == "" {
		return fmt.Sprintf("workflow %q failed: %v", e.Workflow, e.Err)
	}
	return fmt.Sprintf("workflow %q failed at step %q: %v", e.Workflow, e.Step, e.Err)
}

func (e *WorkflowError) Unwrap() error { return e.Err }

// TypeName renders a reflect.Type for diagnostics, tolerating nil.
func TypeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}
