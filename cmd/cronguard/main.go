package main

import (
	"fmt"
	"os"
	"path/filepath"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "run":
		os.Exit(runCmd(os.Args[2:]))
	case "status":
		os.Exit(statusCmd(os.Args[2:]))
	case "unlock":
		os.Exit(unlockCmd(os.Args[2:]))
	case "version", "--version":
		fmt.Println(versionLine())
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`cronguard

Run coordinator for scheduler-triggered jobs: serializes overlapping runs
with a lock marker, captures all job output into a daily log, and records
run identity, timing and outcome.

Usage:
  cronguard <command> [flags]

Commands:
  run          Run the configured job once (or on an interval with -every)
  status       Show lock state, totals and recent run history
  unlock       Remove a stale lock marker left by a dead run
  version      Show version
  help         Show this message

Examples:
  # From cron, every minute; overlapping triggers are a silent no-op
  * * * * * /opt/ingest/cronguard run

  # Inspect what has been happening
  cronguard status -n 20

Run 'cronguard <command> -h' for details.`)
}

// resolveRoot returns the install root: an explicit flag value wins,
// otherwise the directory containing the running binary.
func resolveRoot(flagValue string) string {
	if flagValue != "" {
		abs, err := filepath.Abs(flagValue)
		if err != nil {
			return flagValue
		}
		return abs
	}
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe)
}
