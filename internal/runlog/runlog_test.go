package runlog

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestFileNameUsesUTCDate(t *testing.T) {
	// 2025-06-01 23:30 in UTC-5 is already June 2nd in UTC.
	loc := time.FixedZone("UTC-5", -5*3600)
	now := time.Date(2025, 6, 1, 23, 30, 0, 0, loc)

	if got := FileName(now); got != "cron-20250602.log" {
		t.Errorf("FileName = %q, want cron-20250602.log", got)
	}
}

func TestOpenCreatesDirAndAppends(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	now := time.Date(2025, 6, 2, 4, 30, 0, 0, time.UTC)

	f, err := Open(dir, now)
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	if _, err := f.WriteString("first\n"); err != nil {
		t.Fatal(err)
	}
	f.Close()

	// A later same-day open must append, not truncate.
	f, err = Open(dir, now.Add(time.Hour))
	if err != nil {
		t.Fatalf("second Open error: %v", err)
	}
	if _, err := f.WriteString("second\n"); err != nil {
		t.Fatal(err)
	}
	f.Close()

	b, err := os.ReadFile(filepath.Join(dir, "cron-20250602.log"))
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "first\nsecond\n" {
		t.Errorf("unexpected log contents: %q", string(b))
	}
}

func TestWriteHeader(t *testing.T) {
	var buf bytes.Buffer
	h := Header{
		RunID:              "9f6f2f60-0000-4000-8000-000000000000",
		StartedAt:          time.Date(2025, 6, 2, 4, 30, 17, 0, time.UTC),
		WorkingDir:         "/opt/ingest",
		InterpreterVersion: "Python 3.11.2",
		Job:                "ingest",
		Host:               "etl-01",
	}
	if err := WriteHeader(&buf, h); err != nil {
		t.Fatalf("WriteHeader error: %v", err)
	}

	want := "==== RUN START 2025-06-02T04:30:17Z ====\n" +
		"run_id=9f6f2f60-0000-4000-8000-000000000000\n" +
		"pwd=/opt/ingest py=Python 3.11.2 job=ingest host=etl-01\n"
	if buf.String() != want {
		t.Errorf("header mismatch:\ngot:  %q\nwant: %q", buf.String(), want)
	}
}

func TestWriteFooter(t *testing.T) {
	end := time.Date(2025, 6, 2, 4, 31, 2, 0, time.UTC)

	tests := []struct {
		name     string
		exitCode int
		want     []string
		absent   string
	}{
		{
			name:     "success",
			exitCode: 0,
			want:     []string{"status=SUCCESS duration_sec=45\n", "==== RUN END   2025-06-02T04:31:02Z ====\n"},
			absent:   "exit_code",
		},
		{
			name:     "failure",
			exitCode: 1,
			want:     []string{"status=FAILURE exit_code=1 duration_sec=45\n"},
		},
		{
			name:     "signal-derived code",
			exitCode: -1,
			want:     []string{"status=FAILURE exit_code=-1 duration_sec=45\n"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := WriteFooter(&buf, tt.exitCode, 45, end); err != nil {
				t.Fatalf("WriteFooter error: %v", err)
			}
			for _, w := range tt.want {
				if !strings.Contains(buf.String(), w) {
					t.Errorf("footer missing %q:\n%s", w, buf.String())
				}
			}
			if tt.absent != "" && strings.Contains(buf.String(), tt.absent) {
				t.Errorf("footer must not contain %q:\n%s", tt.absent, buf.String())
			}
		})
	}
}
