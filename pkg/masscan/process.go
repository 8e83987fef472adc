package masscan

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

// DefaultWaitDelay bounds how long pipes may stay open after the child is killed.
const DefaultWaitDelay = 3 * time.Second

// ProcessRunner runs the scanner as a local child process.
type ProcessRunner struct {
	waitDelay time.Duration
}

// NewProcessRunner returns a local runner. A zero waitDelay selects DefaultWaitDelay.
func NewProcessRunner(waitDelay time.Duration) *ProcessRunner {
	if waitDelay <= 0 {
		waitDelay = DefaultWaitDelay
	}
	return &ProcessRunner{waitDelay: waitDelay}
}

func (r *ProcessRunner) Name() string {
	return "process"
}

// Available checks that the scanner and any elevation wrapper are on PATH.
func (r *ProcessRunner) Available(_ context.Context, cmd CommandLine) error {
	if _, err := exec.LookPath(cmd.Binary()); err != nil {
		return &NotFoundError{Binary: cmd.Binary(), Err: err}
	}
	if cmd.Elevated() {
		wrapper := cmd.Args()[0]
		if _, err := exec.LookPath(wrapper); err != nil {
			return &NotFoundError{Binary: wrapper, Err: err}
		}
	}
	return nil
}

// Run executes the command without a shell. The child gets its own process
// group, which is killed as a whole when ctx ends.
func (r *ProcessRunner) Run(ctx context.Context, cmd CommandLine) RunResult {
	if err := r.Available(ctx, cmd); err != nil {
		return RunResult{Err: err}
	}

	args := cmd.Args()
	proc := exec.CommandContext(ctx, args[0], args[1:]...) //nolint:gosec
	setProcessGroup(proc)
	proc.WaitDelay = r.waitDelay

	var stdout, stderr bytes.Buffer
	proc.Stdout = &stdout
	proc.Stderr = &stderr

	err := proc.Run()
	result := RunResult{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	if err == nil {
		return result
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		result.Err = fmt.Errorf("masscan interrupted: %w", ctxErr)
		return result
	}

	var exitErr *exec.ExitError
	switch {
	case errors.As(err, &exitErr):
		result.ExitCode = exitErr.ExitCode()
	case errors.Is(err, exec.ErrWaitDelay) && proc.ProcessState != nil:
		// The scanner exited but a descendant kept the pipes open.
		result.ExitCode = proc.ProcessState.ExitCode()
	case errors.Is(err, exec.ErrNotFound):
		result.Err = &NotFoundError{Binary: args[0], Err: err}
	default:
		result.Err = err
	}
	return result
}
