package tracker

import (
	"encoding/json"
	"os"
	"time"
)

// Run states as recorded in run_state.json.
const (
	StateRunning   = "running"
	StateSucceeded = "succeeded"
	StateFailed    = "failed"
)

// RunState is the current (or most recent) run of the coordinator.
type RunState struct {
	RunID     string    `json:"run_id"`
	PID       int       `json:"pid"`
	Job       string    `json:"job"`
	StartedAt time.Time `json:"started_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Status    string    `json:"status"`
	ExitCode  int       `json:"exit_code,omitempty"`
}

func (w *Writer) WriteRunState(rs RunState) error {
	return writeJSONAtomic(w.RunStatePath, rs)
}

func (w *Writer) LoadRunState() (*RunState, error) {
	b, err := os.ReadFile(w.RunStatePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var rs RunState
	if err := json.Unmarshal(b, &rs); err != nil {
		// Corrupted state file: treat as no state.
		return nil, nil
	}
	return &rs, nil
}
