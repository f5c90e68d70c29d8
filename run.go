package shunt

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/google/uuid"
	"github.com/railyard/shunt/pkg/domain"
	"github.com/railyard/shunt/pkg/memstore"
)

// Run is one execution of a workflow: a fresh memory store, a live
// success-or-failure track, and the fluent chaining surface. A Run is not
// reusable; Activate a new one for each execution.
//
// A Run is driven from a single goroutine. Steps may perform blocking or
// asynchronous work internally; Chain waits for each step to complete before
// resolving the next step's arguments.
type Run struct {
	ctx context.Context
	wf  *Workflow
	id  string
	mem *memstore.Store

	// failure track. Once fail is set, Chain calls are no-ops until a
	// ShortCircuit clears it or the run resolves.
	fail     error
	failStep string

	// last is the most recent successfully produced value, including the
	// activation input before any step has run.
	last any

	resolved  bool
	finalErr  *domain.WorkflowError
	startedAt time.Time
}

// Activate begins a new run seeded with the given inputs. Each input is
// recorded in run memory under its concrete type; tuple inputs (Args2,
// Args3) are decomposed into individually addressable typed entries.
// Pre-registered workflow services are seeded ahead of the inputs.
//
// Activation problems (an untyped nil input, a service not implementing its
// declared interface) do not panic: they place the run on the failure track
// and surface from Resolve, keeping the fluent call chain total.
func (w *Workflow) Activate(ctx context.Context, inputs ...any) *Run {
	if ctx == nil {
		ctx = context.Background()
	}

	var storeOpts []memstore.Option
	if w.strict {
		storeOpts = append(storeOpts, memstore.WithStrict())
	}

	r := &Run{
		ctx:       ctx,
		wf:        w,
		id:        uuid.NewString(),
		mem:       memstore.New(storeOpts...),
		startedAt: time.Now(),
	}

	w.fireRunStart(ctx, &domain.RunEvent{
		RunID:     r.id,
		Workflow:  w.name,
		Timestamp: r.startedAt,
	})

	for _, svc := range w.services {
		var err error
		if svc.as != nil {
			err = r.mem.AppendAs(svc.val, svc.as)
		} else {
			err = r.mem.Append(svc.val)
		}
		if err != nil {
			r.setFailure("activate", err)
			return r
		}
	}

	for _, in := range inputs {
		if err := r.seed(in); err != nil {
			r.setFailure("activate", err)
			return r
		}
		r.last = in
	}

	return r
}

// ID returns the unique identifier generated for this run.
func (r *Run) ID() string { return r.id }

// MemoryLen reports how many entries the run's memory holds. Exposed for
// observability and tests.
func (r *Run) MemoryLen() int { return r.mem.Len() }

// Failed reports whether the run is currently on the failure track.
func (r *Run) Failed() bool { return r.fail != nil }

// Chain resolves the step's declared input from run memory, executes the
// step, and appends its output back to memory. While the run is on the
// failure track, Chain is a no-op: the step body never executes and memory
// is not modified. Step errors are never returned from Chain; they surface
// from Resolve.
func (r *Run) Chain(step Step) *Run {
	if r.fail != nil || r.resolved {
		return r
	}
	in, err := r.resolveInput(step)
	if err != nil {
		r.setFailure(stepLabel(step), err)
		return r
	}
	r.executeStep(step, in)
	return r
}

// ChainFrom executes the step against an explicitly supplied input,
// bypassing memory resolution entirely. The output is still appended to
// memory for later steps.
func (r *Run) ChainFrom(step Step, input any) *Run {
	if r.fail != nil || r.resolved {
		return r
	}
	r.executeStep(step, input)
	return r
}

// ChainInto is ChainFrom plus output capture: on success the step's output
// is additionally written through outPtr, which must be a non-nil pointer to
// a type the output is assignable to. Useful for linear, readable
// composition without relying on memory lookup.
func (r *Run) ChainInto(step Step, input, outPtr any) *Run {
	if r.fail != nil || r.resolved {
		return r
	}
	out, ok := r.executeStep(step, input)
	if !ok {
		return r
	}

	pv := reflect.ValueOf(outPtr)
	if !pv.IsValid() || pv.Kind() != reflect.Pointer || pv.IsNil() {
		r.setFailure(stepLabel(step), fmt.Errorf("capture target must be a non-nil pointer, got %T", outPtr))
		return r
	}
	ov := reflect.ValueOf(out)
	if !ov.IsValid() || !ov.Type().AssignableTo(pv.Type().Elem()) {
		r.setFailure(stepLabel(step), fmt.Errorf("cannot capture %T into %T", out, outPtr))
		return r
	}
	pv.Elem().Set(ov)
	return r
}

// AddServices registers instances into run memory under their concrete
// types, for later resolution by subsequent steps. Use AddServiceAs to
// register under an interface type instead.
func (r *Run) AddServices(vals ...any) *Run {
	if r.fail != nil || r.resolved {
		return r
	}
	for _, v := range vals {
		if err := r.mem.Append(v); err != nil {
			r.setFailure("add services", err)
			return r
		}
	}
	return r
}

// ShortCircuit executes the step unconditionally as an alternate path. If
// the run reached this point on the failure track, the step's own outcome
// replaces the failure; if the step fails in turn the run stays on the
// failure track ("stays left"). Chain calls after a ShortCircuit honor
// whichever track is then live.
func (r *Run) ShortCircuit(step Step) *Run {
	if r.resolved {
		return r
	}
	r.fail = nil
	r.failStep = ""

	in, err := r.resolveInput(step)
	if err != nil {
		r.setFailure(stepLabel(step), err)
		return r
	}
	r.executeStep(step, in)
	return r
}

// ResolveAny terminates the run. On the success track it returns the final
// produced value; on the failure track it returns a *domain.WorkflowError
// wrapping the captured cause, the workflow name and the failing step.
func (r *Run) ResolveAny() (any, error) {
	r.finalize()
	if r.finalErr != nil {
		return nil, r.finalErr
	}
	return r.last, nil
}

// resolveInput produces the call argument for a step from run memory,
// destructuring tuple shapes slot by slot.
func (r *Run) resolveInput(step Step) (any, error) {
	want := step.InputType()
	if want == nil {
		return nil, &domain.ResolutionError{
			Step:   stepLabel(step),
			Reason: fmt.Errorf("step declares no input type"),
		}
	}

	if want.Kind() == reflect.Struct && want.Implements(tupleType) {
		shape := reflect.Zero(want).Interface().(tuple)
		wants := shape.tupleTypes()
		vals, err := r.mem.ResolveTuple(wants)
		if err != nil {
			return nil, &domain.ResolutionError{Step: stepLabel(step), Wanted: wants, Reason: err}
		}
		return buildTuple(want, vals), nil
	}

	v, err := r.mem.Resolve(want)
	if err != nil {
		return nil, &domain.ResolutionError{Step: stepLabel(step), Wanted: []reflect.Type{want}, Reason: err}
	}
	return v, nil
}

// executeStep runs one step with hooks, logging, cancellation conversion and
// panic containment. On success the output is appended to memory and
// recorded as the run's latest value. Returns the output and whether the
// step succeeded.
func (r *Run) executeStep(step Step, in any) (any, bool) {
	label := stepLabel(step)

	if err := r.ctx.Err(); err != nil {
		r.setFailure(label, &domain.CancelledError{Step: label, Err: err})
		return nil, false
	}

	started := time.Now()
	r.wf.fireStepStart(r.ctx, &domain.StepEvent{
		RunID:     r.id,
		Workflow:  r.wf.name,
		Step:      label,
		Timestamp: started,
	})

	out, err := runBody(r.ctx, step, in)

	duration := time.Since(started)
	r.wf.fireStepEnd(r.ctx, &domain.StepEvent{
		RunID:     r.id,
		Workflow:  r.wf.name,
		Step:      label,
		Timestamp: started,
		Duration:  duration,
		Err:       err,
	})

	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			r.setFailure(label, &domain.CancelledError{Step: label, Err: err})
		} else {
			r.setFailure(label, &domain.StepError{Step: label, Err: err})
		}
		return nil, false
	}

	r.wf.logger.Debug("step succeeded",
		"workflow", r.wf.name, "run_id", r.id, "step", label, "duration", duration)

	if out != nil {
		if err := r.seed(out); err != nil {
			r.setFailure(label, err)
			return nil, false
		}
		r.last = out
	}
	return out, true
}

// seed appends a produced value to memory, decomposing tuple shapes into
// individually addressable typed entries.
func (r *Run) seed(v any) error {
	shape, ok := v.(tuple)
	if !ok {
		return r.mem.Append(v)
	}

	rv := reflect.ValueOf(v)
	types := shape.tupleTypes()
	for i, t := range types {
		fv := rv.Field(i).Interface()
		var err error
		if t.Kind() == reflect.Interface {
			err = r.mem.AppendAs(fv, t)
		} else {
			err = r.mem.Append(fv)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// setFailure flips the run onto the failure track. The first failure wins;
// the run drains to Resolve without executing further step bodies.
func (r *Run) setFailure(step string, err error) {
	r.fail = err
	r.failStep = step
	r.wf.logger.Warn("run switched to failure track",
		"workflow", r.wf.name, "run_id", r.id, "step", step, "err", err)
}

// finalize performs the terminal transition exactly once: it freezes the
// outcome and notifies OnRunEnd. Subsequent Resolve calls only read state.
func (r *Run) finalize() {
	if r.resolved {
		return
	}
	r.resolved = true

	if r.fail != nil {
		r.finalErr = &domain.WorkflowError{
			Workflow: r.wf.name,
			Step:     r.failStep,
			Err:      r.fail,
		}
	}

	ev := &domain.RunEvent{
		RunID:     r.id,
		Workflow:  r.wf.name,
		Timestamp: time.Now(),
	}
	if r.finalErr != nil {
		ev.Err = r.finalErr
	}
	r.wf.fireRunEnd(r.ctx, ev)
}

// runBody executes the step body, containing panics so an unanticipated
// fault lands on the failure track instead of unwinding the caller.
func runBody(ctx context.Context, step Step, in any) (out any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
		}
	}()
	return step.Execute(ctx, in)
}
