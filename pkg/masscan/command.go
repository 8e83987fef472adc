package masscan

import (
	"strings"

	"github.com/alessio/shellescape"
)

const (
	// BinaryName is the scanner executable looked up on PATH.
	BinaryName = "masscan"
	// DockerImage is the image used by the container runner and in advisory text.
	DockerImage = "masscan/masscan"
)

// ScanRequest is a single scan invocation. Target and Port are opaque: masscan
// is the validator.
type ScanRequest struct {
	Target    string
	Port      string
	ExtraArgs []string
}

// CommandLine is the argument vector derived from a ScanRequest.
type CommandLine struct {
	elevation []string
	argv      []string
}

// NewCommandLine builds [binary, "-p"+port, target, extraArgs...], optionally
// prefixed with an elevation wrapper such as ["sudo", "-n"].
func NewCommandLine(binary string, req ScanRequest, elevation ...string) CommandLine {
	if binary == "" {
		binary = BinaryName
	}
	argv := make([]string, 0, 3+len(req.ExtraArgs))
	argv = append(argv, binary, "-p"+req.Port, req.Target)
	argv = append(argv, req.ExtraArgs...)

	return CommandLine{
		elevation: append([]string(nil), elevation...),
		argv:      argv,
	}
}

// Binary returns the scanner binary name.
func (c CommandLine) Binary() string {
	return c.argv[0]
}

// ScanArgs returns the arguments passed to the scanner, without the binary.
func (c CommandLine) ScanArgs() []string {
	return append([]string(nil), c.argv[1:]...)
}

// Argv returns the scanner argument vector without elevation.
func (c CommandLine) Argv() []string {
	return append([]string(nil), c.argv...)
}

// Args returns the full token list that is executed, elevation first.
func (c CommandLine) Args() []string {
	out := make([]string, 0, len(c.elevation)+len(c.argv))
	out = append(out, c.elevation...)
	return append(out, c.argv...)
}

// Elevated reports whether the command runs behind a privilege wrapper.
func (c CommandLine) Elevated() bool {
	return len(c.elevation) > 0
}

// String renders the executed tokens as a shell-quoted command for display.
func (c CommandLine) String() string {
	return shellescape.QuoteCommand(c.Args())
}

// ScanString renders the scanner tokens without elevation.
func (c CommandLine) ScanString() string {
	return shellescape.QuoteCommand(c.argv)
}

// SudoString is the command prefixed with sudo, as an operator would type it.
func (c CommandLine) SudoString() string {
	return "sudo " + c.ScanString()
}

// DockerString is the containerized equivalent with the raw socket capability.
func (c CommandLine) DockerString(image string) string {
	if image == "" {
		image = DockerImage
	}
	parts := []string{"docker", "run", "--rm", "--cap-add=NET_RAW", image}
	return strings.Join(append(parts, shellescape.QuoteCommand(c.argv[1:])), " ")
}
