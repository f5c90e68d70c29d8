package domain

import (
	"context"
	"time"
)

// RunEvent describes the start or end of a workflow run.
type RunEvent struct {
	RunID     string    `json:"run_id"`
	Workflow  string    `json:"workflow"`
	Timestamp time.Time `json:"timestamp"`

	// Err is the captured failure cause. Only set on run end, and only when
	// the run finished on the failure track.
	Err error `json:"-"`
}

// StepEvent describes the start or end of a single step within a run.
type StepEvent struct {
	RunID     string        `json:"run_id"`
	Workflow  string        `json:"workflow"`
	Step      string        `json:"step"`
	Timestamp time.Time     `json:"timestamp"`
	Duration  time.Duration `json:"duration"`

	// Err is set on step end when the step failed.
	Err error `json:"-"`
}

// LifecycleHooks defines optional callbacks for run observability. The
// engine invokes them at well-defined points: OnRunStart before the first
// chain link, OnStepStart/OnStepEnd around each executed step, and OnRunEnd
// exactly once when the run resolves. Nil fields are skipped.
//
// Hooks are the integration point for effect-tracking collaborators such as
// recorder.Recorder and observability.Metrics; the engine is agnostic to
// what they do.
type LifecycleHooks struct {
	OnRunStart  func(context.Context, *RunEvent)
	OnStepStart func(context.Context, *StepEvent)
	OnStepEnd   func(context.Context, *StepEvent)
	OnRunEnd    func(context.Context, *RunEvent)
}
