// Package metrics writes run outcomes in Prometheus text exposition format
// for the node_exporter textfile collector. The wrapper has no HTTP surface
// to scrape; a textfile is the cron-shaped way to get runs onto a dashboard.
package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"cronguard/internal/tracker"
)

// Exporter writes a .prom file after each run.
type Exporter struct {
	Path string
}

func NewExporter(path string) *Exporter {
	return &Exporter{Path: path}
}

// Write renders the last run and the cumulative totals. The file is written
// atomically so the collector never scrapes a partial file.
func (e *Exporter) Write(rec tracker.RunRecord, totals *tracker.Totals) error {
	reg := prometheus.NewRegistry()

	lastTimestamp := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "cronguard_last_run_timestamp_seconds",
		Help: "Unix time the last run started.",
	})
	lastDuration := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "cronguard_last_run_duration_seconds",
		Help: "Duration of the last run in seconds.",
	})
	lastExitCode := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "cronguard_last_run_exit_code",
		Help: "Exit code of the last run's job.",
	})
	lastSuccess := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "cronguard_last_run_success",
		Help: "Whether the last run succeeded (1) or failed (0).",
	})
	runsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cronguard_runs_total",
		Help: "Total completed runs on this installation.",
	})
	failuresTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cronguard_failures_total",
		Help: "Total failed runs on this installation.",
	})

	for _, c := range []prometheus.Collector{
		lastTimestamp, lastDuration, lastExitCode, lastSuccess, runsTotal, failuresTotal,
	} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}

	lastTimestamp.Set(float64(rec.StartedAt.Unix()))
	lastDuration.Set(float64(rec.DurationSec))
	lastExitCode.Set(float64(rec.ExitCode))
	if rec.Status == tracker.StateSucceeded {
		lastSuccess.Set(1)
	}
	if totals != nil {
		runsTotal.Add(float64(totals.TotalRuns))
		failuresTotal.Add(float64(totals.Failures))
	}

	families, err := reg.Gather()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(e.Path), 0755); err != nil {
		return err
	}
	tmp := fmt.Sprintf("%s.tmp.%d", e.Path, time.Now().UnixNano())
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	encoder := expfmt.NewEncoder(f, expfmt.FmtText)
	for _, mf := range families {
		if err := encoder.Encode(mf); err != nil {
			f.Close()
			os.Remove(tmp)
			return err
		}
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, e.Path)
}
