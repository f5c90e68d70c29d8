package shunt_test

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/railyard/shunt"
	"github.com/railyard/shunt/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	double = shunt.NamedStepFn("double", func(ctx context.Context, n int) (int, error) {
		return n * 2, nil
	})
	stringify = shunt.NamedStepFn("stringify", func(ctx context.Context, n int) (string, error) {
		return strconv.Itoa(n), nil
	})
)

func TestRun_TransitiveComposition(t *testing.T) {
	// Each step's input type is exactly the previous step's output type; the
	// final value is the transitive application to the activation input.
	wf := shunt.New("pipeline")
	run := wf.Activate(context.Background(), 3).
		Chain(double).
		Chain(double).
		Chain(stringify)

	got, err := shunt.Resolve[string](run)
	require.NoError(t, err)
	assert.Equal(t, "12", got)
}

func TestRun_FailureShortCircuitsRemainingSteps(t *testing.T) {
	cause := errors.New("kaput")
	executed := false

	wf := shunt.New("failing")
	run := wf.Activate(context.Background(), 1).
		Chain(shunt.NamedStepFn("break", func(ctx context.Context, n int) (int, error) {
			return 0, cause
		}))

	memBefore := run.MemoryLen()

	run.Chain(shunt.NamedStepFn("after", func(ctx context.Context, n int) (int, error) {
		executed = true
		return n, nil
	}))

	assert.False(t, executed, "step after failure must not execute")
	assert.Equal(t, memBefore, run.MemoryLen(), "failure-track chains must not touch memory")

	_, err := shunt.Resolve[int](run)
	require.Error(t, err)

	var wfErr *domain.WorkflowError
	require.ErrorAs(t, err, &wfErr)
	assert.Equal(t, "failing", wfErr.Workflow)
	assert.Equal(t, "break", wfErr.Step)
	assert.ErrorIs(t, err, cause, "original error preserved unwrapped")

	var stepErr *domain.StepError
	assert.ErrorAs(t, err, &stepErr)
}

func TestRun_ResolutionFailure(t *testing.T) {
	wf := shunt.New("unresolvable")
	run := wf.Activate(context.Background(), "a string").
		Chain(double) // wants int, memory only has string

	_, err := shunt.Resolve[int](run)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNoValue)

	var resErr *domain.ResolutionError
	require.ErrorAs(t, err, &resErr)
	assert.Equal(t, "double", resErr.Step)
}

func TestRun_ShortCircuitReplacesFailure(t *testing.T) {
	wf := shunt.New("salvage")
	run := wf.Activate(context.Background(), 2).
		Chain(shunt.NamedStepFn("break", func(ctx context.Context, n int) (int, error) {
			return 0, errors.New("broken")
		})).
		ShortCircuit(shunt.NamedStepFn("fallback", func(ctx context.Context, n int) (int, error) {
			return n + 100, nil
		}))

	got, err := shunt.Resolve[int](run)
	require.NoError(t, err)
	assert.Equal(t, 102, got, "fallback resolves its input from pre-failure memory")
}

func TestRun_ShortCircuitStaysLeft(t *testing.T) {
	inner := errors.New("fallback also broken")

	wf := shunt.New("salvage")
	run := wf.Activate(context.Background(), 2).
		Chain(shunt.NamedStepFn("break", func(ctx context.Context, n int) (int, error) {
			return 0, errors.New("broken")
		})).
		ShortCircuit(shunt.NamedStepFn("fallback", func(ctx context.Context, n int) (int, error) {
			return 0, inner
		})).
		Chain(double) // must stay a no-op

	_, err := shunt.Resolve[int](run)
	require.Error(t, err)
	assert.ErrorIs(t, err, inner)

	var wfErr *domain.WorkflowError
	require.ErrorAs(t, err, &wfErr)
	assert.Equal(t, "fallback", wfErr.Step)
}

func TestRun_ShortCircuitOnSuccessTrackIsOrdinaryLink(t *testing.T) {
	wf := shunt.New("straight")
	run := wf.Activate(context.Background(), 5).
		ShortCircuit(double)

	got, err := shunt.Resolve[int](run)
	require.NoError(t, err)
	assert.Equal(t, 10, got)
}

func TestRun_LastWriteWins(t *testing.T) {
	wf := shunt.New("shadow")
	run := wf.Activate(context.Background(), 1).
		Chain(shunt.NamedStepFn("a", func(ctx context.Context, n int) (int, error) {
			return 7, nil
		})).
		Chain(stringify)

	got, err := shunt.Resolve[string](run)
	require.NoError(t, err)
	assert.Equal(t, "7", got, "stringify must see the most recent int")
}

func TestRun_TupleActivation(t *testing.T) {
	type payload struct{ tag string }

	obj := payload{tag: "x"}
	joiner := shunt.NamedStepFn("join", func(ctx context.Context, in shunt.Args3[int, string, payload]) (string, error) {
		return strconv.Itoa(in.A) + in.B + in.C.tag, nil
	})

	wf := shunt.New("tuples")
	run := wf.Activate(context.Background(), shunt.Args3[int, string, payload]{A: 1, B: "x", C: obj}).
		Chain(joiner)

	got, err := shunt.Resolve[string](run)
	require.NoError(t, err)
	assert.Equal(t, "1xx", got)
}

func TestRun_TupleResolvedFromSeparateEntries(t *testing.T) {
	// Tuple slots resolve independently: the int and string come from
	// different points of the run, not from one composite value.
	concat := shunt.NamedStepFn("concat", func(ctx context.Context, in shunt.Args2[string, int]) (string, error) {
		return in.A + strconv.Itoa(in.B), nil
	})

	wf := shunt.New("tuples")
	run := wf.Activate(context.Background(), 4).
		Chain(double).
		Chain(stringify). // memory: 4, 8, "8"
		Chain(concat)     // wants (string, int) -> ("8", 8)

	got, err := shunt.Resolve[string](run)
	require.NoError(t, err)
	assert.Equal(t, "88", got)
}

func TestRun_DuplicateTupleSlotsFailFast(t *testing.T) {
	bad := shunt.NamedStepFn("twin", func(ctx context.Context, in shunt.Args2[int, int]) (int, error) {
		return in.A + in.B, nil
	})

	wf := shunt.New("tuples")
	run := wf.Activate(context.Background(), 1).Chain(bad)

	_, err := shunt.Resolve[int](run)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrAmbiguousTuple)
}

func TestRun_ChainFromBypassesMemory(t *testing.T) {
	wf := shunt.New("explicit")
	run := wf.Activate(context.Background(), "ignored").
		ChainFrom(double, 21)

	got, err := shunt.Resolve[int](run)
	require.NoError(t, err)
	assert.Equal(t, 42, got)
}

func TestRun_ChainIntoCapturesOutput(t *testing.T) {
	var captured int

	wf := shunt.New("capture")
	run := wf.Activate(context.Background(), 0).
		ChainInto(double, 8, &captured)

	require.False(t, run.Failed())
	assert.Equal(t, 16, captured)

	// The output is still appended to memory for later steps.
	got, err := shunt.Resolve[int](run)
	require.NoError(t, err)
	assert.Equal(t, 16, got)
}

func TestRun_ChainIntoRejectsBadTarget(t *testing.T) {
	wf := shunt.New("capture")
	run := wf.Activate(context.Background(), 0).
		ChainInto(double, 8, nil)

	_, err := shunt.Resolve[int](run)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "capture target")
}

func TestRun_PanicContainedOnFailureTrack(t *testing.T) {
	wf := shunt.New("panicky")
	run := wf.Activate(context.Background(), 1).
		Chain(shunt.NamedStepFn("boom", func(ctx context.Context, n int) (int, error) {
			panic("unexpected fault")
		}))

	_, err := shunt.Resolve[int](run)
	require.Error(t, err)

	var stepErr *domain.StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Contains(t, stepErr.Err.Error(), "unexpected fault")
}

func TestRun_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	executedSecond := false
	wf := shunt.New("cancellable")
	run := wf.Activate(ctx, 1).
		Chain(shunt.NamedStepFn("first", func(ctx context.Context, n int) (int, error) {
			cancel() // cancellation fires mid-chain
			return n + 1, nil
		})).
		Chain(shunt.NamedStepFn("second", func(ctx context.Context, n int) (int, error) {
			executedSecond = true
			return n, nil
		}))

	_, err := shunt.Resolve[int](run)
	require.Error(t, err)
	assert.False(t, executedSecond, "no step may run after cancellation")

	var cancelled *domain.CancelledError
	assert.ErrorAs(t, err, &cancelled)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRun_StepReturningCancellation(t *testing.T) {
	wf := shunt.New("cancellable")
	run := wf.Activate(context.Background(), 1).
		Chain(shunt.NamedStepFn("slow", func(ctx context.Context, n int) (int, error) {
			return 0, context.DeadlineExceeded
		}))

	_, err := shunt.Resolve[int](run)
	require.Error(t, err)

	var cancelled *domain.CancelledError
	assert.ErrorAs(t, err, &cancelled)
}

func TestRun_ActivateNilInput(t *testing.T) {
	wf := shunt.New("nil-input")
	run := wf.Activate(context.Background(), nil)

	_, err := shunt.Resolve[int](run)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNoValue)
}

func TestRun_ResolveIsIdempotent(t *testing.T) {
	ends := 0
	wf := shunt.New("idempotent", shunt.WithHooks(domain.LifecycleHooks{
		OnRunEnd: func(ctx context.Context, ev *domain.RunEvent) { ends++ },
	}))

	run := wf.Activate(context.Background(), 1).Chain(double)

	first, err := shunt.Resolve[int](run)
	require.NoError(t, err)
	second, err := shunt.Resolve[int](run)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, ends, "OnRunEnd fires exactly once")
}

func TestRun_ChainAfterResolveIsNoOp(t *testing.T) {
	wf := shunt.New("sealed")
	run := wf.Activate(context.Background(), 1).Chain(double)

	_, err := shunt.Resolve[int](run)
	require.NoError(t, err)

	memBefore := run.MemoryLen()
	run.Chain(double)
	assert.Equal(t, memBefore, run.MemoryLen())
}

func TestRun_HookTimingsObserved(t *testing.T) {
	var stepEv *domain.StepEvent
	wf := shunt.New("timed", shunt.WithHooks(domain.LifecycleHooks{
		OnStepEnd: func(ctx context.Context, ev *domain.StepEvent) { stepEv = ev },
	}))

	run := wf.Activate(context.Background(), 1).
		Chain(shunt.NamedStepFn("nap", func(ctx context.Context, n int) (int, error) {
			time.Sleep(5 * time.Millisecond)
			return n, nil
		}))
	_, err := shunt.Resolve[int](run)
	require.NoError(t, err)

	require.NotNil(t, stepEv)
	assert.Equal(t, "nap", stepEv.Step)
	assert.GreaterOrEqual(t, stepEv.Duration, 5*time.Millisecond)
}
