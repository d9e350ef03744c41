package tracker

import (
	"encoding/json"
	"os"
	"time"
)

// RunRecord is one completed run as kept in history.json, newest first.
type RunRecord struct {
	RunID       string    `json:"run_id"`
	Job         string    `json:"job"`
	StartedAt   time.Time `json:"started_at"`
	EndedAt     time.Time `json:"ended_at"`
	DurationSec int       `json:"duration_sec"`
	Status      string    `json:"status"`
	ExitCode    int       `json:"exit_code,omitempty"`
}

func (w *Writer) LoadHistory() ([]RunRecord, error) {
	b, err := os.ReadFile(w.HistoryPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var records []RunRecord
	if err := json.Unmarshal(b, &records); err != nil {
		return nil, nil
	}
	return records, nil
}

// AppendHistory prepends a record and trims the list to limit entries.
// A limit of zero or less keeps everything.
func (w *Writer) AppendHistory(rec RunRecord, limit int) error {
	records, err := w.LoadHistory()
	if err != nil {
		return err
	}
	records = append([]RunRecord{rec}, records...)
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return writeJSONAtomic(w.HistoryPath, records)
}
