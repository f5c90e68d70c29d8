/*
Package shunt is a Railway-Oriented-Programming workflow engine: it composes
discrete steps into a pipeline where each step either produces a value that
feeds the next step or short-circuits the whole run onto a failure track.

Step inputs are resolved implicitly from a per-run memory store: every value
a step produces is recorded under its type, and the next step's declared
input type is looked up from that store, newest entry first. Interface types
resolve against any assignable concrete value, and tuple inputs (Args2,
Args3) are destructured slot by slot.

A minimal pipeline:

	double := shunt.StepFn(func(ctx context.Context, n int) (int, error) {
		return n * 2, nil
	})
	describe := shunt.StepFn(func(ctx context.Context, n int) (string, error) {
		return fmt.Sprintf("got %d", n), nil
	})

	wf := shunt.New("doubler")
	run := wf.Activate(ctx, 21).
		Chain(double).
		Chain(describe)

	msg, err := shunt.Resolve[string](run)

Failures never escape a Chain call: a step error, a resolution miss, or a
context cancellation flips the run permanently to the failure track, the
remaining Chain calls become no-ops, and the captured cause surfaces once
from Resolve as a *domain.WorkflowError.

Runs are independent: each Activate call owns its own memory store and
failure track, so many runs of the same Workflow may execute concurrently as
long as the step implementations themselves are reentrant.
*/
package shunt
