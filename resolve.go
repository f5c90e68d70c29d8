package shunt

import (
	"fmt"
	"reflect"

	"github.com/railyard/shunt/pkg/domain"
	"github.com/railyard/shunt/pkg/outcome"
)

// Resolve terminates the run and returns the most recent memory value
// assignable to Out. On the failure track it returns the zero value and a
// *domain.WorkflowError wrapping the captured cause.
func Resolve[Out any](r *Run) (Out, error) {
	var zero Out

	r.finalize()
	if r.finalErr != nil {
		return zero, r.finalErr
	}

	v, err := r.mem.Resolve(typeOf[Out]())
	if err != nil {
		return zero, &domain.WorkflowError{Workflow: r.wf.name, Err: err}
	}
	return v.(Out), nil
}

// ResolveOutcome terminates the run and folds it into a two-track Outcome.
func ResolveOutcome[Out any](r *Run) outcome.Outcome[Out] {
	v, err := Resolve[Out](r)
	if err != nil {
		return outcome.Fail[Out](err)
	}
	return outcome.OK(v)
}

// AddServiceAs registers impl in run memory under the interface type I,
// making it resolvable by interface for subsequent steps and IChain.
func AddServiceAs[I any](r *Run, impl I) *Run {
	if r.fail != nil || r.resolved {
		return r
	}
	if err := r.mem.AppendAs(impl, typeOf[I]()); err != nil {
		r.setFailure("add services", err)
	}
	return r
}

// IChain chains a step that was previously registered in run memory under
// the interface type I (via ServiceAs or AddServiceAs), instead of being
// passed by value. The registered instance must implement Step.
func IChain[I any](r *Run) *Run {
	if r.fail != nil || r.resolved {
		return r
	}

	want := typeOf[I]()
	v, err := r.mem.Resolve(want)
	if err != nil {
		r.setFailure(domain.TypeName(want), &domain.ResolutionError{
			Step:   domain.TypeName(want),
			Wanted: []reflect.Type{want},
			Reason: err,
		})
		return r
	}

	step, ok := v.(Step)
	if !ok {
		r.setFailure(domain.TypeName(want), &domain.ResolutionError{
			Step:   domain.TypeName(want),
			Wanted: []reflect.Type{want},
			Reason: fmt.Errorf("registered value of type %T does not implement Step", v),
		})
		return r
	}
	return r.Chain(step)
}

// Extract pulls the named exported field out of the most recent Outer value
// in run memory and appends it under the field's declared type, making it
// resolvable by subsequent steps without a full step and without modifying
// the Outer entry. Pointer Outers are dereferenced.
func Extract[Outer any](r *Run, field string) *Run {
	if r.fail != nil || r.resolved {
		return r
	}

	label := fmt.Sprintf("extract %s.%s", domain.TypeName(typeOf[Outer]()), field)

	v, err := r.mem.Resolve(typeOf[Outer]())
	if err != nil {
		r.setFailure(label, &domain.ResolutionError{
			Step:   label,
			Wanted: []reflect.Type{typeOf[Outer]()},
			Reason: err,
		})
		return r
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			r.setFailure(label, fmt.Errorf("cannot extract from nil %T", v))
			return r
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		r.setFailure(label, fmt.Errorf("cannot extract field from non-struct %T", v))
		return r
	}

	sf, ok := rv.Type().FieldByName(field)
	if !ok || !sf.IsExported() {
		r.setFailure(label, fmt.Errorf("%T has no exported field %q", v, field))
		return r
	}

	fv := rv.FieldByIndex(sf.Index).Interface()
	var appendErr error
	if sf.Type.Kind() == reflect.Interface {
		appendErr = r.mem.AppendAs(fv, sf.Type)
	} else {
		appendErr = r.mem.Append(fv)
	}
	if appendErr != nil {
		r.setFailure(label, appendErr)
	}
	return r
}
