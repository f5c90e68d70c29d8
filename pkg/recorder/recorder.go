// Package recorder assembles run records from lifecycle events and persists
// them through a ports.RunStore. It is the reference effect-tracking
// collaborator: the engine only invokes the hooks; what happens to the
// records is entirely this package's concern.
package recorder

import (
	"context"
	"log/slog"
	"sync"

	"github.com/railyard/shunt/internal/logging"
	"github.com/railyard/shunt/pkg/domain"
	"github.com/railyard/shunt/pkg/ports"
)

// Recorder tracks in-flight runs and saves a RunRecord when each run
// resolves. One Recorder may serve many concurrent runs.
type Recorder struct {
	store  ports.RunStore
	logger *slog.Logger

	mu     sync.Mutex
	active map[string]*domain.RunRecord
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithLogger sets the logger used for persistence failures. Saving a record
// never fails the run itself; errors are logged and dropped.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Recorder) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// New creates a recorder persisting to the given store.
func New(store ports.RunStore, opts ...Option) *Recorder {
	r := &Recorder{
		store:  store,
		logger: logging.NewNop(),
		active: make(map[string]*domain.RunRecord),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Hooks returns the lifecycle hooks to register on a workflow via
// shunt.WithHooks.
func (r *Recorder) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRunStart: r.onRunStart,
		OnStepEnd:  r.onStepEnd,
		OnRunEnd:   r.onRunEnd,
	}
}

func (r *Recorder) onRunStart(ctx context.Context, ev *domain.RunEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.active[ev.RunID] = &domain.RunRecord{
		RunID:     ev.RunID,
		Workflow:  ev.Workflow,
		Status:    domain.StatusRunning,
		StartedAt: ev.Timestamp,
	}
}

func (r *Recorder) onStepEnd(ctx context.Context, ev *domain.StepEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.active[ev.RunID]
	if !ok {
		return
	}
	step := domain.StepRecord{
		Name:      ev.Step,
		StartedAt: ev.Timestamp,
		Duration:  ev.Duration,
	}
	if ev.Err != nil {
		step.Error = ev.Err.Error()
	}
	record.Steps = append(record.Steps, step)
}

func (r *Recorder) onRunEnd(ctx context.Context, ev *domain.RunEvent) {
	r.mu.Lock()
	record, ok := r.active[ev.RunID]
	delete(r.active, ev.RunID)
	r.mu.Unlock()
	if !ok {
		return
	}

	record.FinishedAt = ev.Timestamp
	if ev.Err != nil {
		record.Status = domain.StatusFailed
		record.Error = ev.Err.Error()
	} else {
		record.Status = domain.StatusSucceeded
	}

	if err := r.store.Save(ctx, record); err != nil {
		r.logger.Warn("failed to persist run record",
			"run_id", record.RunID, "workflow", record.Workflow, "err", err)
	}
}

// InFlight reports how many runs have started but not yet resolved.
func (r *Recorder) InFlight() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.active)
}
