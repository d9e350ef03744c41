package tracker

import (
	"testing"
	"time"
)

func TestWriteAndLoadRunState(t *testing.T) {
	w := NewWriter(t.TempDir())

	start := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	rs := RunState{
		RunID:     "abc",
		PID:       1234,
		Job:       "ingest",
		StartedAt: start,
		UpdatedAt: start,
		Status:    StateRunning,
	}
	if err := w.WriteRunState(rs); err != nil {
		t.Fatalf("WriteRunState error: %v", err)
	}

	got, err := w.LoadRunState()
	if err != nil {
		t.Fatalf("LoadRunState error: %v", err)
	}
	if got == nil || got.RunID != "abc" || got.Status != StateRunning || !got.StartedAt.Equal(start) {
		t.Fatalf("unexpected run state: %+v", got)
	}
}

func TestLoadRunStateAbsent(t *testing.T) {
	w := NewWriter(t.TempDir())
	got, err := w.LoadRunState()
	if err != nil {
		t.Fatalf("LoadRunState error: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil state, got %+v", got)
	}
}

func TestHistoryIsBoundedAndNewestFirst(t *testing.T) {
	w := NewWriter(t.TempDir())

	for i := 0; i < 5; i++ {
		rec := RunRecord{
			RunID:       NewRunID(),
			Job:         "ingest",
			StartedAt:   time.Now().UTC(),
			EndedAt:     time.Now().UTC(),
			DurationSec: i,
			Status:      StateSucceeded,
		}
		if err := w.AppendHistory(rec, 3); err != nil {
			t.Fatalf("AppendHistory error: %v", err)
		}
	}

	records, err := w.LoadHistory()
	if err != nil {
		t.Fatalf("LoadHistory error: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected history trimmed to 3, got %d", len(records))
	}
	if records[0].DurationSec != 4 {
		t.Fatalf("expected newest record first, got %+v", records[0])
	}
}

func TestRecordRunAccumulatesTotals(t *testing.T) {
	w := NewWriter(t.TempDir())

	now := time.Now().UTC()
	if _, err := w.RecordRun(RunRecord{RunID: "a", StartedAt: now, EndedAt: now, DurationSec: 2, Status: StateSucceeded}); err != nil {
		t.Fatalf("RecordRun error: %v", err)
	}
	totals, err := w.RecordRun(RunRecord{RunID: "b", StartedAt: now, EndedAt: now, DurationSec: 7, Status: StateFailed, ExitCode: 1})
	if err != nil {
		t.Fatalf("RecordRun error: %v", err)
	}

	if totals.TotalRuns != 2 || totals.Failures != 1 {
		t.Fatalf("unexpected totals: %+v", totals)
	}
	if totals.LastRunID != "b" || totals.LastStatus != StateFailed || totals.LastDurationSec != 7 {
		t.Fatalf("unexpected last-run fields: %+v", totals)
	}
}

func TestNewRunIDUnique(t *testing.T) {
	a := NewRunID()
	b := NewRunID()
	if a == "" || a == b {
		t.Fatalf("expected distinct non-empty run ids, got %q and %q", a, b)
	}
}
