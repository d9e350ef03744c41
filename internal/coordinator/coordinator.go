// Package coordinator runs one coordinated invocation of the wrapped job:
// daily log redirection, mutual-exclusion locking, header/footer run records
// and state/metrics bookkeeping around a single synchronous child process.
package coordinator

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/shirou/gopsutil/v3/host"

	"cronguard/internal/config"
	"cronguard/internal/job"
	"cronguard/internal/logger"
	"cronguard/internal/metrics"
	"cronguard/internal/runlog"
	"cronguard/internal/tracker"
)

// Outcome summarizes one coordinator invocation.
type Outcome struct {
	// Skipped means the lock was held by a live run and nothing happened.
	Skipped  bool
	RunID    string
	Status   string
	ExitCode int
	Duration time.Duration
}

type Coordinator struct {
	root string
	cfg  *config.Config
	diag logger.Logger

	// now is swappable for tests.
	now func() time.Time
}

// New builds a coordinator for one install root and config. All filesystem
// locations (lock marker, log dir, state dir, job path) derive from the root.
func New(root string, cfg *config.Config, diag logger.Logger) *Coordinator {
	if diag == nil {
		diag = logger.NewNoopLogger()
	}
	return &Coordinator{root: root, cfg: cfg, diag: diag, now: time.Now}
}

// Run performs one full coordination cycle.
//
// Ordering is deliberate: the daily log is opened first so redirection
// exists for the whole lifetime, and the interpreter preflight happens
// before lock acquisition so a broken environment can never leak a lock.
// Lock contention with a live holder is a benign skip: no log lines, nil
// error, Skipped outcome.
func (c *Coordinator) Run(ctx context.Context) (*Outcome, error) {
	logFile, err := runlog.Open(config.Resolve(c.root, c.cfg.LogDir), c.now())
	if err != nil {
		return nil, err
	}
	defer logFile.Close()

	runner := &job.Runner{
		Interpreter: c.cfg.Interpreter,
		Script:      config.Resolve(c.root, c.cfg.Job),
		Args:        c.cfg.Args,
		Env:         c.cfg.Env,
		Dir:         c.root,
	}
	if err := runner.Preflight(); err != nil {
		return nil, err
	}

	trk := tracker.NewWriter(c.root)
	runID := tracker.NewRunID()

	release, err := trk.AcquireLock(runID)
	if err != nil {
		if errors.Is(err, tracker.ErrLockHeld) {
			c.diag.Debug("lock held, skipping run", logger.F("detail", err.Error()))
			return &Outcome{Skipped: true}, nil
		}
		return nil, err
	}
	// Release must cover every exit path; failure to remove is not escalated.
	defer func() {
		if err := release(); err != nil {
			c.diag.Warn("failed to release run lock", logger.F("error", err))
		}
	}()

	start := c.now().UTC()

	if err := trk.WriteRunState(tracker.RunState{
		RunID:     runID,
		PID:       os.Getpid(),
		Job:       c.cfg.Name,
		StartedAt: start,
		UpdatedAt: start,
		Status:    tracker.StateRunning,
	}); err != nil {
		c.diag.Warn("failed to write run state", logger.F("error", err))
	}

	header := runlog.Header{
		RunID:              runID,
		StartedAt:          start,
		WorkingDir:         runner.Dir,
		InterpreterVersion: job.InterpreterVersion(ctx, c.cfg.Interpreter),
		Job:                c.cfg.Name,
		Host:               hostname(),
	}
	if err := runlog.WriteHeader(logFile, header); err != nil {
		c.diag.Warn("failed to write run header", logger.F("error", err))
	}

	exitCode, runErr := runner.Run(ctx, logFile)
	if runErr != nil {
		c.diag.Error("job did not start", logger.F("error", runErr))
	}

	end := c.now().UTC()
	durationSec := int(end.Sub(start).Seconds())
	if durationSec < 0 {
		durationSec = 0
	}

	if err := runlog.WriteFooter(logFile, exitCode, durationSec, end); err != nil {
		c.diag.Warn("failed to write run footer", logger.F("error", err))
	}

	status := tracker.StateSucceeded
	if exitCode != 0 {
		status = tracker.StateFailed
	}

	rec := tracker.RunRecord{
		RunID:       runID,
		Job:         c.cfg.Name,
		StartedAt:   start,
		EndedAt:     end,
		DurationSec: durationSec,
		Status:      status,
	}
	if exitCode != 0 {
		rec.ExitCode = exitCode
	}

	if err := trk.WriteRunState(tracker.RunState{
		RunID:     runID,
		PID:       os.Getpid(),
		Job:       c.cfg.Name,
		StartedAt: start,
		UpdatedAt: end,
		Status:    status,
		ExitCode:  rec.ExitCode,
	}); err != nil {
		c.diag.Warn("failed to update run state", logger.F("error", err))
	}
	if err := trk.AppendHistory(rec, c.cfg.HistoryLimit); err != nil {
		c.diag.Warn("failed to append run history", logger.F("error", err))
	}
	totals, err := trk.RecordRun(rec)
	if err != nil {
		c.diag.Warn("failed to update totals", logger.F("error", err))
	}

	if c.cfg.MetricsFile != "" {
		exporter := metrics.NewExporter(config.Resolve(c.root, c.cfg.MetricsFile))
		if err := exporter.Write(rec, totals); err != nil {
			c.diag.Warn("failed to write metrics textfile", logger.F("error", err))
		}
	}

	return &Outcome{
		RunID:    runID,
		Status:   status,
		ExitCode: exitCode,
		Duration: end.Sub(start),
	}, nil
}

func hostname() string {
	if info, err := host.Info(); err == nil && info.Hostname != "" {
		return info.Hostname
	}
	if h, err := os.Hostname(); err == nil {
		return h
	}
	return "unknown"
}
