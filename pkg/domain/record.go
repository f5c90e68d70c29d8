package domain

import "time"

// RunStatus describes the terminal (or current) state of a run.
type RunStatus string

const (
	StatusRunning   RunStatus = "running"
	StatusSucceeded RunStatus = "succeeded"
	StatusFailed    RunStatus = "failed"
)

// StepRecord captures the execution of one step for persistence.
type StepRecord struct {
	Name      string        `json:"name"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
	Error     string        `json:"error,omitempty"`
}

// RunRecord is the persisted execution metadata of one workflow run. It is
// assembled by a hooks consumer (see pkg/recorder) and stored through
// ports.RunStore; the engine itself never touches it.
type RunRecord struct {
	RunID      string       `json:"run_id"`
	Workflow   string       `json:"workflow"`
	Status     RunStatus    `json:"status"`
	Steps      []StepRecord `json:"steps,omitempty"`
	StartedAt  time.Time    `json:"started_at"`
	FinishedAt time.Time    `json:"finished_at,omitzero"`
	Error      string       `json:"error,omitempty"`
}

// Clone returns a deep copy so stores can hand out records without sharing
// the Steps slice.
func (r *RunRecord) Clone() *RunRecord {
	if r == nil {
		return nil
	}
	out := *r
	if r.Steps != nil {
		out.Steps = make([]StepRecord, len(r.Steps))
		copy(out.Steps, r.Steps)
	}
	return &out
}
