// Package outcome provides the two-track success/failure value a workflow
// run resolves to. It is deliberately minimal: composition happens through
// the engine's Chain operation, not through a combinator API.
package outcome

// Outcome carries either a success value or a failure cause, never both.
// The zero value is a failure with a nil error; construct values with OK or
// Fail.
type Outcome[T any] struct {
	val T
	err error
	ok  bool
}

// OK returns a success outcome holding v.
func OK[T any](v T) Outcome[T] {
	return Outcome[T]{val: v, ok: true}
}

// Fail returns a failure outcome holding err.
func Fail[T any](err error) Outcome[T] {
	return Outcome[T]{err: err}
}

// IsOK reports whether the outcome is on the success track.
func (o Outcome[T]) IsOK() bool { return o.ok }

// IsFail reports whether the outcome is on the failure track.
func (o Outcome[T]) IsFail() bool { return !o.ok }

// Value returns the success value, or the zero value and the failure cause.
func (o Outcome[T]) Value() (T, error) {
	if !o.ok {
		var zero T
		return zero, o.err
	}
	return o.val, nil
}

// Err returns the failure cause, or nil on the success track.
func (o Outcome[T]) Err() error {
	if o.ok {
		return nil
	}
	return o.err
}

// MustValue returns the success value and panics on the failure track. It is
// intended for tests and examples.
func (o Outcome[T]) MustValue() T {
	if !o.ok {
		panic(o.err)
	}
	return o.val
}
