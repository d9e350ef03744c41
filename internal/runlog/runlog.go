// Package runlog owns the daily run log: one append-only file per UTC
// calendar day, carrying the run header/footer records and, between them,
// the job's own interleaved output.
package runlog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// Timestamp layout for header and footer lines. Second precision, UTC.
const stampLayout = "2006-01-02T15:04:05Z"

// FileName returns the log file name for the given instant's UTC date.
func FileName(now time.Time) string {
	return fmt.Sprintf("cron-%s.log", now.UTC().Format("20060102"))
}

// Open creates the log directory if needed and opens the day's log file in
// append mode. Same-day invocations append to the same file. The file must
// be open before lock acquisition so the redirection exists for the whole
// coordinator lifetime.
func Open(dir string, now time.Time) (*os.File, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	path := filepath.Join(dir, FileName(now))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, nil
}

// Header identifies one run at its start.
type Header struct {
	RunID              string
	StartedAt          time.Time
	WorkingDir         string
	InterpreterVersion string
	Job                string
	Host               string
}

// WriteHeader emits the run start record.
func WriteHeader(w io.Writer, h Header) error {
	_, err := fmt.Fprintf(w, "==== RUN START %s ====\nrun_id=%s\npwd=%s py=%s job=%s host=%s\n",
		h.StartedAt.UTC().Format(stampLayout), h.RunID, h.WorkingDir, h.InterpreterVersion, h.Job, h.Host)
	return err
}

// WriteFooter emits the run end record. Status is SUCCESS exactly when the
// exit code is zero; the exit code appears only on failure; duration is
// always present.
func WriteFooter(w io.Writer, exitCode int, durationSec int, endedAt time.Time) error {
	var err error
	if exitCode == 0 {
		_, err = fmt.Fprintf(w, "status=SUCCESS duration_sec=%d\n", durationSec)
	} else {
		_, err = fmt.Fprintf(w, "status=FAILURE exit_code=%d duration_sec=%d\n", exitCode, durationSec)
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "==== RUN END   %s ====\n", endedAt.UTC().Format(stampLayout))
	return err
}
