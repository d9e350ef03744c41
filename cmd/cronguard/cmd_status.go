package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"

	"cronguard/internal/tracker"
)

func statusCmd(args []string) int {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	rootFlag := fs.String("root", "", "Install root (default: the executable's directory)")
	limit := fs.Int("n", 10, "Number of history entries to show")
	fs.Parse(args)

	root := resolveRoot(*rootFlag)
	trk := tracker.NewWriter(root)

	lock, err := trk.ReadLock()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read lock: %v\n", err)
		return 1
	}
	switch {
	case lock == nil:
		fmt.Println("lock: free")
	case tracker.HolderAlive(lock):
		fmt.Printf("lock: held by pid %d (run_id=%s, since %s)\n",
			lock.PID, lock.RunID, lock.StartedAt.UTC().Format(time.RFC3339))
	default:
		fmt.Printf("lock: STALE, held by dead pid %d (run_id=%s); run `cronguard unlock`\n",
			lock.PID, lock.RunID)
	}

	totals, err := trk.LoadTotals()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read totals: %v\n", err)
		return 1
	}
	if totals == nil {
		fmt.Println("no runs recorded yet")
		return 0
	}
	fmt.Printf("runs: %d total, %d failed (last: %s, %ds)\n",
		totals.TotalRuns, totals.Failures, totals.LastStatus, totals.LastDurationSec)

	history, err := trk.LoadHistory()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read history: %v\n", err)
		return 1
	}
	if len(history) == 0 {
		return 0
	}
	if *limit > 0 && len(history) > *limit {
		history = history[:*limit]
	}

	fmt.Println()
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Run ID", "Job", "Started (UTC)", "Duration", "Status", "Exit")
	for _, rec := range history {
		exit := ""
		if rec.Status == tracker.StateFailed {
			exit = fmt.Sprintf("%d", rec.ExitCode)
		}
		table.Append(
			shortID(rec.RunID),
			rec.Job,
			rec.StartedAt.UTC().Format("2006-01-02 15:04:05"),
			fmt.Sprintf("%ds", rec.DurationSec),
			rec.Status,
			exit,
		)
	}
	table.Render()
	return 0
}

func shortID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
