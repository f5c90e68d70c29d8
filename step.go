package shunt

import (
	"context"
	"fmt"
	"reflect"
)

// Step is a single unit of work: one declared input type to one declared
// output type, or an error. Implementations are usually created through
// StepFn or NamedStepFn rather than by hand.
//
// Steps are stateless with respect to the pipeline; a step value may hold
// injected collaborators (clients, repositories) supplied by the composition
// root, which is orthogonal to the memory-based chaining mechanism.
type Step interface {
	// Name returns the step's name, or "" if it has none. Unnamed steps are
	// labelled by their input/output types in diagnostics.
	Name() string

	// InputType returns the declared input type. It may be an interface
	// type, or a tuple shape (Args2, Args3).
	InputType() reflect.Type

	// OutputType returns the declared output type.
	OutputType() reflect.Type

	// Execute runs the step. The engine guarantees in is assignable to
	// InputType.
	Execute(ctx context.Context, in any) (any, error)
}

type stepFn[In, Out any] struct {
	name string
	fn   func(context.Context, In) (Out, error)
}

func (s *stepFn[In, Out]) Name() string { return s.name }

func (s *stepFn[In, Out]) InputType() reflect.Type { return typeOf[In]() }

func (s *stepFn[In, Out]) OutputType() reflect.Type { return typeOf[Out]() }

func (s *stepFn[In, Out]) Execute(ctx context.Context, in any) (any, error) {
	typed, ok := in.(In)
	if !ok {
		return nil, fmt.Errorf("step input: expected %s, got %T", typeOf[In](), in)
	}
	return s.fn(ctx, typed)
}

// StepFn creates an unnamed step from a typed function.
func StepFn[In, Out any](fn func(context.Context, In) (Out, error)) Step {
	return &stepFn[In, Out]{fn: fn}
}

// NamedStepFn creates a step with a name used in diagnostics, run records
// and hook events.
func NamedStepFn[In, Out any](name string, fn func(context.Context, In) (Out, error)) Step {
	return &stepFn[In, Out]{name: name, fn: fn}
}

// typeOf resolves the reflect.Type of T, including interface types, which
// reflect.TypeOf on a zero value cannot express.
func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// tuple is the marker implemented by the ArgsN shapes. A step whose input
// type implements tuple has its slots resolved independently from run
// memory, in declaration order.
type tuple interface {
	tupleTypes() []reflect.Type
}

var tupleType = reflect.TypeOf((*tuple)(nil)).Elem()

// Args2 declares a two-slot tuple input. The two slot types must differ;
// duplicate-typed slots are rejected at resolution time.
type Args2[A, B any] struct {
	A A
	B B
}

func (Args2[A, B]) tupleTypes() []reflect.Type {
	return []reflect.Type{typeOf[A](), typeOf[B]()}
}

// Args3 declares a three-slot tuple input. All slot types must differ.
type Args3[A, B, C any] struct {
	A A
	B B
	C C
}

func (Args3[A, B, C]) tupleTypes() []reflect.Type {
	return []reflect.Type{typeOf[A](), typeOf[B](), typeOf[C]()}
}

// stepLabel names a step for diagnostics, falling back to its type shape
// when the step is unnamed.
func stepLabel(s Step) string {
	if name := s.Name(); name != "" {
		return name
	}
	return fmt.Sprintf("%s -> %s", s.InputType(), s.OutputType())
}

// buildTuple assembles a tuple struct of type t from resolved slot values.
func buildTuple(t reflect.Type, vals []any) any {
	out := reflect.New(t).Elem()
	for i, v := range vals {
		out.Field(i).Set(reflect.ValueOf(v))
	}
	return out.Interface()
}
