package shunt

import (
	"context"
	"log/slog"
	"reflect"

	"github.com/railyard/shunt/internal/logging"
	"github.com/railyard/shunt/pkg/domain"
)

// Workflow is a named pipeline definition: a failure-track policy, lifecycle
// hooks, and pre-registered services shared by every run. The execution
// sequence itself is expressed per run through Chain calls, so a Workflow is
// cheap and safe to share across goroutines; each Activate call produces an
// independent Run.
type Workflow struct {
	name     string
	logger   *slog.Logger
	hooks    []domain.LifecycleHooks
	strict   bool
	services []service
}

// service is a value seeded into every run's memory, optionally under a
// declared interface type.
type service struct {
	val any
	as  reflect.Type
}

// Option defines a functional option for configuring a Workflow.
type Option func(*Workflow)

// WithLogger sets the logger used for step transition logs. Defaults to a
// no-op logger.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Workflow) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithHooks registers lifecycle hooks. May be given multiple times; all
// registered hooks are notified in registration order.
func WithHooks(hooks domain.LifecycleHooks) Option {
	return func(w *Workflow) {
		w.hooks = append(w.hooks, hooks)
	}
}

// WithStrictResolution makes interface-typed input resolution fail when two
// distinct concrete types are both candidates, instead of picking the most
// recently appended one. Opt-in safety for pipelines that register several
// implementations of one interface.
func WithStrictResolution() Option {
	return func(w *Workflow) {
		w.strict = true
	}
}

// WithServices pre-registers values under their concrete types in every
// run's memory, ahead of the activation inputs.
func WithServices(vals ...any) Option {
	return func(w *Workflow) {
		for _, v := range vals {
			w.services = append(w.services, service{val: v})
		}
	}
}

// ServiceAs pre-registers impl under the interface type I in every run's
// memory, making it resolvable by interface (see IChain).
func ServiceAs[I any](impl I) Option {
	return func(w *Workflow) {
		w.services = append(w.services, service{val: impl, as: typeOf[I]()})
	}
}

// New creates a workflow definition with the given name. The name appears in
// workflow errors, run records and hook events.
func New(name string, opts ...Option) *Workflow {
	w := &Workflow{
		name:   name,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Name returns the workflow's declared name.
func (w *Workflow) Name() string { return w.name }

// Run is a convenience for linear pipelines: it activates a run with input,
// chains the steps in order and resolves the final value.
func (w *Workflow) Run(ctx context.Context, input any, steps ...Step) (any, error) {
	r := w.Activate(ctx, input)
	for _, s := range steps {
		r.Chain(s)
	}
	return r.ResolveAny()
}

// fireRunStart notifies all hooks that a run began.
func (w *Workflow) fireRunStart(ctx context.Context, ev *domain.RunEvent) {
	for _, h := range w.hooks {
		if h.OnRunStart != nil {
			w.safely(func() { h.OnRunStart(ctx, ev) })
		}
	}
}

// fireRunEnd notifies all hooks that a run resolved.
func (w *Workflow) fireRunEnd(ctx context.Context, ev *domain.RunEvent) {
	for _, h := range w.hooks {
		if h.OnRunEnd != nil {
			w.safely(func() { h.OnRunEnd(ctx, ev) })
		}
	}
}

// fireStepStart notifies all hooks that a step is about to execute.
func (w *Workflow) fireStepStart(ctx context.Context, ev *domain.StepEvent) {
	for _, h := range w.hooks {
		if h.OnStepStart != nil {
			w.safely(func() { h.OnStepStart(ctx, ev) })
		}
	}
}

// fireStepEnd notifies all hooks that a step finished.
func (w *Workflow) fireStepEnd(ctx context.Context, ev *domain.StepEvent) {
	for _, h := range w.hooks {
		if h.OnStepEnd != nil {
			w.safely(func() { h.OnStepEnd(ctx, ev) })
		}
	}
}

// safely runs a hook, recovering panics so a misbehaving observer cannot
// break pipeline execution.
func (w *Workflow) safely(fn func()) {
	defer func() {
		if rec := recover(); rec != nil {
			w.logger.Warn("lifecycle hook panicked", "workflow", w.name, "panic", rec)
		}
	}()
	fn()
}
