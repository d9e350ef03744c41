package tracker

import (
	"encoding/json"
	"os"
	"time"
)

// Totals accumulates counts across all runs on this installation.
type Totals struct {
	TotalRuns       int       `json:"total_runs"`
	Failures        int       `json:"failures"`
	FirstRunAt      time.Time `json:"first_run_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	LastRunID       string    `json:"last_run_id,omitempty"`
	LastStatus      string    `json:"last_status,omitempty"`
	LastDurationSec int       `json:"last_duration_sec"`
}

func (w *Writer) LoadTotals() (*Totals, error) {
	b, err := os.ReadFile(w.TotalsPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var t Totals
	if err := json.Unmarshal(b, &t); err != nil {
		// Corrupted totals file: start over.
		return nil, nil
	}
	return &t, nil
}

// RecordRun folds one completed run into the cumulative totals.
func (w *Writer) RecordRun(rec RunRecord) (*Totals, error) {
	t, err := w.LoadTotals()
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	if t == nil {
		t = &Totals{FirstRunAt: now}
	}
	if t.FirstRunAt.IsZero() {
		t.FirstRunAt = now
	}
	t.TotalRuns++
	if rec.Status == StateFailed {
		t.Failures++
	}
	t.UpdatedAt = now
	t.LastRunID = rec.RunID
	t.LastStatus = rec.Status
	t.LastDurationSec = rec.DurationSec
	if err := writeJSONAtomic(w.TotalsPath, t); err != nil {
		return nil, err
	}
	return t, nil
}
