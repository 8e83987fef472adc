package masscan

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrBinaryNotFound is matched by every NotFoundError.
var ErrBinaryNotFound = errors.New("binary not found")

// NotFoundError reports that Binary could not be located on this host.
type NotFoundError struct {
	Binary string
	Err    error
}

func (e *NotFoundError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s not found: %v", e.Binary, e.Err)
	}
	return fmt.Sprintf("%s not found", e.Binary)
}

func (e *NotFoundError) Unwrap() error {
	return e.Err
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrBinaryNotFound
}

// RunResult is what a Runner observed. Err is nil whenever the scanner ran to
// completion, whatever its exit code. When the context ended the run, Err wraps
// ctx.Err().
type RunResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Err      error
}

// Output is stdout followed by stderr.
func (r RunResult) Output() string {
	return strings.ToValidUTF8(r.Stdout+r.Stderr, "�")
}

// Runner executes a CommandLine. Every call owns its own child process or
// container and must release it before returning.
type Runner interface {
	Name() string
	Available(ctx context.Context, cmd CommandLine) error
	Run(ctx context.Context, cmd CommandLine) RunResult
}
