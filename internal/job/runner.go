// Package job invokes the wrapped external job. The coordinator's only
// contract with the job is: spawn it with inherited output streams, block
// until it exits, and report its raw exit code. No retries, no timeout, no
// output filtering.
package job

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Runner describes how to launch the job.
type Runner struct {
	// Interpreter is the runtime binary, e.g. python3.
	Interpreter string
	// Script is the resolved path to the job entry point.
	Script string
	// Args are appended after the script path.
	Args []string
	// Env is merged over the coordinator's environment.
	Env map[string]string
	// Dir is the child's working directory.
	Dir string
}

// Preflight verifies the interpreter resolves to an executable. Run before
// lock acquisition so a broken environment aborts without ever creating
// (and potentially leaking) the lock marker.
func (r *Runner) Preflight() error {
	if _, err := exec.LookPath(r.Interpreter); err != nil {
		return fmt.Errorf("interpreter not found: %w", err)
	}
	return nil
}

// Run starts the job and blocks until it terminates. Its stdout and stderr
// are wired directly to output so they interleave into the log in real time.
// The child's exit code is returned unaltered; a cancelled context kills the
// child and surfaces whatever code the runtime reports for it.
//
// A non-nil error is returned only when the child could not be started or
// waited on at all; a non-zero exit is not an error here.
func (r *Runner) Run(ctx context.Context, output io.Writer) (int, error) {
	args := append([]string{r.Script}, r.Args...)
	cmd := exec.CommandContext(ctx, r.Interpreter, args...)
	cmd.Dir = r.Dir
	cmd.Stdout = output
	cmd.Stderr = output
	cmd.Env = mergedEnv(r.Env)

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return -1, fmt.Errorf("failed to run job: %w", err)
}

// InterpreterVersion probes the interpreter with --version and returns the
// first non-empty output line. Best-effort: any failure yields "unknown"
// rather than aborting the run.
func InterpreterVersion(ctx context.Context, interpreter string) string {
	cmd := exec.CommandContext(ctx, interpreter, "--version")
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "unknown"
	}
	for _, line := range strings.Split(string(out), "\n") {
		if s := strings.TrimSpace(line); s != "" {
			return s
		}
	}
	return "unknown"
}

func mergedEnv(extra map[string]string) []string {
	if len(extra) == 0 {
		return os.Environ()
	}
	env := os.Environ()
	for k, v := range extra {
		env = append(env, k+"="+v)
	}
	return env
}
