package masscan

import "strings"

// AdviceOptions tune the generate-only report.
type AdviceOptions struct {
	Binary string
	Image  string
}

// Advise returns the synthesized command line plus elevation, container and
// installation guidance. It never starts a process.
func Advise(req ScanRequest, opts AdviceOptions) string {
	cmd := NewCommandLine(opts.Binary, req)

	var builder strings.Builder
	builder.WriteString("Masscan Command Generated\n\n")
	builder.WriteString("Command:\n  ")
	builder.WriteString(cmd.ScanString())
	builder.WriteString("\n\nCommand to run (requires root/sudo):\n  ")
	builder.WriteString(cmd.SudoString())
	builder.WriteString("\n\nDocker alternative (with raw socket capability):\n  ")
	builder.WriteString(cmd.DockerString(opts.Image))
	builder.WriteString("\n\n")
	builder.WriteString(installGuide)
	builder.WriteString("\n\n")
	builder.WriteString(platformNote)
	return builder.String()
}

const platformNote = `Platform note:
Masscan sends SYN packets directly and needs raw socket access (CAP_NET_RAW).
Sandboxed and container hosting platforms usually do not grant it. Run the
command above on:
• Your local machine (with sudo)
• A VPS or dedicated server
• Docker with --cap-add=NET_RAW
• Any system where you have raw socket permissions`
