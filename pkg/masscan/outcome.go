package masscan

import (
	"fmt"
	"strings"
	"time"
)

// Kind identifies an Outcome variant.
type Kind string

const (
	KindSuccess          Kind = "success"
	KindNonZeroExit      Kind = "non_zero_exit"
	KindTimedOut         Kind = "timed_out"
	KindBinaryNotFound   Kind = "binary_not_found"
	KindPermissionDenied Kind = "permission_denied"
	KindOtherFailure     Kind = "other_failure"
)

// Outcome is the classified result of one execution. The set of variants is
// closed: only types in this package implement it.
type Outcome interface {
	Kind() Kind
	Render() string
	outcome()
}

// Success is a completed run with exit code 0.
type Success struct {
	Output string
}

// NonZeroExit is a completed run with a failing exit code.
type NonZeroExit struct {
	Code   int
	Output string
}

// TimedOut is a run killed after Limit elapsed.
type TimedOut struct {
	Limit time.Duration
}

// BinaryNotFound means the scanner could not be located or launched.
type BinaryNotFound struct {
	Binary string
}

// PermissionDenied replaces a completed outcome when the scanner output looks
// like a raw socket permission failure. See DetectPermissionFailure.
type PermissionDenied struct {
	Command CommandLine
	Image   string
	Output  string
}

// OtherFailure covers any other launch or IO error.
type OtherFailure struct {
	Message string
}

func (Success) Kind() Kind          { return KindSuccess }
func (NonZeroExit) Kind() Kind      { return KindNonZeroExit }
func (TimedOut) Kind() Kind         { return KindTimedOut }
func (BinaryNotFound) Kind() Kind   { return KindBinaryNotFound }
func (PermissionDenied) Kind() Kind { return KindPermissionDenied }
func (OtherFailure) Kind() Kind     { return KindOtherFailure }

func (Success) outcome()          {}
func (NonZeroExit) outcome()      {}
func (TimedOut) outcome()         {}
func (BinaryNotFound) outcome()   {}
func (PermissionDenied) outcome() {}
func (OtherFailure) outcome()     {}

// Render returns the output followed by the success marker.
func (o Success) Render() string {
	return fmt.Sprintf("Masscan output:\n%s\n\nScan completed successfully.", strings.TrimSpace(o.Output))
}

func (o NonZeroExit) Render() string {
	return fmt.Sprintf("Masscan exited with code %d.\n\nOutput:\n%s", o.Code, strings.TrimSpace(o.Output))
}

func (o TimedOut) Render() string {
	return fmt.Sprintf("Masscan timed out after %s. The process was terminated.\n"+
		"Narrow the target range or port list, or raise --max-rate.", formatLimit(o.Limit))
}

func (o BinaryNotFound) Render() string {
	binary := o.Binary
	if binary == "" {
		binary = BinaryName
	}
	return fmt.Sprintf("Error: %s not found on this host.\n\n%s", binary, installGuide)
}

func (o PermissionDenied) Render() string {
	var builder strings.Builder
	builder.WriteString("Masscan could not open a raw socket (permission denied).\n")
	builder.WriteString("Masscan needs root or the CAP_NET_RAW capability to send SYN packets.\n\n")
	builder.WriteString("Command attempted:\n  ")
	builder.WriteString(o.Command.String())
	builder.WriteString("\n\nRun it with elevated privileges:\n  ")
	builder.WriteString(o.Command.SudoString())
	builder.WriteString("\n\nOr in a container with the raw socket capability:\n  ")
	builder.WriteString(o.Command.DockerString(o.Image))
	builder.WriteString("\n")
	return builder.String()
}

func (o OtherFailure) Render() string {
	return fmt.Sprintf("Error running masscan: %s", o.Message)
}

// formatLimit prints whole minutes as "N minutes" and anything else as a duration.
func formatLimit(limit time.Duration) string {
	if limit >= time.Minute && limit%time.Minute == 0 {
		minutes := int(limit / time.Minute)
		if minutes == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", minutes)
	}
	return limit.String()
}

const installGuide = `Install masscan:
• macOS: brew install masscan
• Ubuntu/Debian: sudo apt-get install masscan
• Arch Linux: sudo pacman -S masscan
• From source: https://github.com/robertdavidgraham/masscan`
