package masscan

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
)

// DefaultTimeout is the wall-clock budget of one scan.
const DefaultTimeout = 300 * time.Second

// Options configure an Executor.
type Options struct {
	Binary           string
	Timeout          time.Duration
	Sudo             bool
	DetectPermission bool
	Image            string
}

// Executor builds, runs and classifies masscan invocations. It holds no
// per-request state and is safe for concurrent use.
type Executor struct {
	runner Runner
	opts   Options
	logger zerolog.Logger
}

// NewExecutor returns an Executor using runner for attempt-execute calls.
func NewExecutor(runner Runner, opts Options, logger zerolog.Logger) *Executor {
	if opts.Binary == "" {
		opts.Binary = BinaryName
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Image == "" {
		opts.Image = DockerImage
	}
	return &Executor{
		runner: runner,
		opts:   opts,
		logger: logger.With().Str("runner", runner.Name()).Logger(),
	}
}

// Timeout returns the configured scan budget.
func (e *Executor) Timeout() time.Duration {
	return e.opts.Timeout
}

// Runner returns the underlying runner.
func (e *Executor) Runner() Runner {
	return e.runner
}

// Command builds the command line for req, elevated when sudo is enabled.
func (e *Executor) Command(req ScanRequest) CommandLine {
	if e.opts.Sudo {
		return NewCommandLine(e.opts.Binary, req, "sudo", "-n")
	}
	return NewCommandLine(e.opts.Binary, req)
}

// Available reports why the runner cannot execute scans, or nil.
func (e *Executor) Available(ctx context.Context) error {
	return e.runner.Available(ctx, e.Command(ScanRequest{}))
}

// Execute runs req under the configured timeout and classifies the result.
// It never fails: every error is folded into the returned Outcome.
func (e *Executor) Execute(ctx context.Context, req ScanRequest) Outcome {
	cmd := e.Command(req)

	runCtx, cancel := context.WithTimeout(ctx, e.opts.Timeout)
	defer cancel()

	e.logger.Info().Msgf("Running %s", cmd.String())
	start := time.Now()
	result := e.runner.Run(runCtx, cmd)
	outcome := Classify(result, e.opts.Timeout)

	if e.opts.DetectPermission {
		outcome = e.checkPermission(cmd, outcome)
	}

	e.logger.Info().
		Str("outcome", string(outcome.Kind())).
		Int("exit_code", result.ExitCode).
		Dur("duration", time.Since(start)).
		Msgf("%s finished", cmd.Binary())

	return outcome
}

// Report is Execute followed by Render.
func (e *Executor) Report(ctx context.Context, req ScanRequest) string {
	return e.Execute(ctx, req).Render()
}

// Advise renders the generate-only report for req without running anything.
func (e *Executor) Advise(req ScanRequest) string {
	return Advise(req, AdviceOptions{Binary: e.opts.Binary, Image: e.opts.Image})
}

func (e *Executor) checkPermission(cmd CommandLine, outcome Outcome) Outcome {
	var output string
	switch o := outcome.(type) {
	case Success:
		output = o.Output
	case NonZeroExit:
		output = o.Output
	default:
		return outcome
	}
	if !DetectPermissionFailure(output) {
		return outcome
	}
	e.logger.Warn().Msg("scanner output suggests missing raw socket permission")
	return PermissionDenied{Command: cmd, Image: e.opts.Image, Output: output}
}

// Classify maps a RunResult to an Outcome. The first matching rule wins:
// timeout, missing binary, other launch failure, then exit code.
func Classify(result RunResult, limit time.Duration) Outcome {
	var notFound *NotFoundError
	switch {
	case errors.Is(result.Err, context.DeadlineExceeded):
		return TimedOut{Limit: limit}
	case errors.As(result.Err, &notFound):
		return BinaryNotFound{Binary: notFound.Binary}
	case result.Err != nil:
		return OtherFailure{Message: result.Err.Error()}
	case result.ExitCode == 0:
		return Success{Output: result.Output()}
	default:
		return NonZeroExit{Code: result.ExitCode, Output: result.Output()}
	}
}
