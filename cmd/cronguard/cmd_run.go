package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cronguard/internal/config"
	"cronguard/internal/coordinator"
	"cronguard/internal/logger"
)

func runCmd(args []string) int {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	rootFlag := fs.String("root", "", "Install root (default: the executable's directory)")
	configFlag := fs.String("config", "", "Path to config file (default: <root>/cronguard.{json,yaml,yml})")
	everyFlag := fs.Duration("every", 0, "Interval mode: keep re-running on this period instead of exiting")
	verbose := fs.Bool("verbose", false, "Diagnostic logging on stderr")
	fs.Parse(args)

	root := resolveRoot(*rootFlag)

	configPath := *configFlag
	if configPath == "" {
		p, err := config.FindDefault(root)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		configPath = p
	}

	loader := config.NewLoader()
	cfg, err := loader.LoadAndValidate(configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	var diag logger.Logger = logger.NewNoopLogger()
	if *verbose {
		diag = logger.NewStderrLogger(logger.LevelDebug)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// A terminating signal cancels the context: the child is killed, the
	// footer is written, and the deferred lock release still fires.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	every := *everyFlag
	if every == 0 {
		every = cfg.Interval()
	}
	if every > 0 {
		return runEvery(ctx, root, configPath, loader, every, diag)
	}
	return runOnce(ctx, root, cfg, diag)
}

func runOnce(ctx context.Context, root string, cfg *config.Config, diag logger.Logger) int {
	outcome, err := coordinator.New(root, cfg, diag).Run(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if outcome.Skipped {
		// Overlap with a live run is a benign no-op: the scheduler must
		// never see a failure for it.
		return 0
	}
	if cfg.PropagateExitCode && outcome.ExitCode != 0 {
		return wrapperExitCode(outcome.ExitCode)
	}
	return 0
}

// runEvery re-runs the job on a fixed period until the context is
// cancelled, reloading the config file between runs. Its exit code reflects
// loop shutdown only: propagate_exit_code applies to one-shot runs, since a
// long-lived loop has no single job outcome to report.
func runEvery(ctx context.Context, root, configPath string, loader *config.Loader, every time.Duration, diag logger.Logger) int {
	watcher, err := config.NewWatcher(loader, configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if err := watcher.Start(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer watcher.Stop()

	go func() {
		for event := range watcher.Events() {
			if event.Error != nil {
				diag.Warn("config reload failed", logger.F("error", event.Error))
				continue
			}
			diag.Info("config reloaded", logger.F("path", event.Path))
		}
	}()

	diag.Info("interval mode", logger.F("every", every))

	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		cfg := watcher.Current()
		if _, err := coordinator.New(root, cfg, diag).Run(ctx); err != nil {
			diag.Error("run failed", logger.F("error", err))
		}

		select {
		case <-ctx.Done():
			return 0
		case <-ticker.C:
		}
	}
}

// wrapperExitCode maps a child exit code onto the wrapper's own. Negative
// codes (signal-derived encodings) are not valid process exit statuses, so
// they collapse to 1.
func wrapperExitCode(childCode int) int {
	if childCode < 0 || childCode > 255 {
		return 1
	}
	return childCode
}
