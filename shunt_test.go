package shunt_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/railyard/shunt"
	"github.com/railyard/shunt/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkflow_RunHelper(t *testing.T) {
	wf := shunt.New("linear")

	got, err := wf.Run(context.Background(), 5, double, double, stringify)
	require.NoError(t, err)
	assert.Equal(t, "20", got)
}

func TestWorkflow_RunHelperSurfacesFailure(t *testing.T) {
	cause := errors.New("nope")
	failing := shunt.NamedStepFn("fail", func(ctx context.Context, n int) (int, error) {
		return 0, cause
	})

	wf := shunt.New("linear")
	_, err := wf.Run(context.Background(), 5, double, failing, stringify)
	require.Error(t, err)

	var wfErr *domain.WorkflowError
	require.ErrorAs(t, err, &wfErr)
	assert.Equal(t, "linear", wfErr.Workflow)
	assert.Equal(t, "fail", wfErr.Step)
	assert.ErrorIs(t, err, cause)
}

func TestWorkflow_IsReusableAcrossRuns(t *testing.T) {
	wf := shunt.New("reusable")

	first, err := shunt.Resolve[int](wf.Activate(context.Background(), 1).Chain(double))
	require.NoError(t, err)
	second, err := shunt.Resolve[int](wf.Activate(context.Background(), 10).Chain(double))
	require.NoError(t, err)

	assert.Equal(t, 2, first)
	assert.Equal(t, 20, second)
}

func TestWorkflow_WithLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	wf := shunt.New("logged", shunt.WithLogger(logger))
	_, err := shunt.Resolve[int](wf.Activate(context.Background(), 1).Chain(double))
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "step succeeded")
	assert.Contains(t, out, "workflow=logged")
	assert.Contains(t, out, "step=double")
}

func TestWorkflow_FailureIsLogged(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	wf := shunt.New("logged", shunt.WithLogger(logger))
	run := wf.Activate(context.Background(), 1).
		Chain(shunt.NamedStepFn("oops", func(ctx context.Context, n int) (int, error) {
			return 0, errors.New("bad")
		}))
	_, err := shunt.Resolve[int](run)
	require.Error(t, err)

	assert.Contains(t, buf.String(), "failure track")
}

func TestWorkflow_MultipleHooksAllNotified(t *testing.T) {
	var order []string
	hook := func(tag string) domain.LifecycleHooks {
		return domain.LifecycleHooks{
			OnRunStart: func(ctx context.Context, ev *domain.RunEvent) {
				order = append(order, tag+"-start")
			},
			OnRunEnd: func(ctx context.Context, ev *domain.RunEvent) {
				order = append(order, tag+"-end")
			},
		}
	}

	wf := shunt.New("hooked", shunt.WithHooks(hook("a")), shunt.WithHooks(hook("b")))
	_, err := shunt.Resolve[int](wf.Activate(context.Background(), 1).Chain(double))
	require.NoError(t, err)

	assert.Equal(t, []string{"a-start", "b-start", "a-end", "b-end"}, order)
}

func TestWorkflow_HookPanicDoesNotBreakRun(t *testing.T) {
	wf := shunt.New("hooked", shunt.WithHooks(domain.LifecycleHooks{
		OnStepStart: func(ctx context.Context, ev *domain.StepEvent) {
			panic("observer bug")
		},
	}))

	got, err := shunt.Resolve[int](wf.Activate(context.Background(), 1).Chain(double))
	require.NoError(t, err)
	assert.Equal(t, 2, got)
}

func TestWorkflow_WithServicesSeedsEveryRun(t *testing.T) {
	type rate struct{ factor int }

	scale := shunt.NamedStepFn("scale", func(ctx context.Context, in shunt.Args2[int, rate]) (int, error) {
		return in.A * in.B.factor, nil
	})

	wf := shunt.New("seeded", shunt.WithServices(rate{factor: 3}))

	for _, input := range []int{1, 2} {
		got, err := shunt.Resolve[int](wf.Activate(context.Background(), input).Chain(scale))
		require.NoError(t, err)
		assert.Equal(t, input*3, got)
	}
}
