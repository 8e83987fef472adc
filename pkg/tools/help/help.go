package help

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"
	"github.com/tb0hdan/masscan-mcp/pkg/server"
	"github.com/tb0hdan/masscan-mcp/pkg/tools"
)

const toolName = "masscan_help"

type Input struct{}

type Tool struct {
	logger zerolog.Logger
}

func (t *Tool) Register(srv *server.Server) error {
	tool := &mcp.Tool{
		Name:        toolName,
		Description: "Get help information about masscan and this MCP server.",
		Annotations: &mcp.ToolAnnotations{
			ReadOnlyHint:   true,
			IdempotentHint: true,
		},
	}

	mcp.AddTool(srv.Server, tool, tools.WrapToolHandler(srv.Storage(), srv.Metrics(), toolName, t.HelpHandler))
	t.logger.Debug().Msg("help tool registered")

	return nil
}

func (t *Tool) HelpHandler(_ context.Context, _ *mcp.CallToolRequest, _ Input) (*mcp.CallToolResult, any, error) {
	return tools.TextResult(Text), nil, nil
}

func New(logger zerolog.Logger) tools.Tool {
	return &Tool{
		logger: logger.With().Str("tool", toolName).Logger(),
	}
}

// Text is the static help returned by masscan_help.
const Text = `# Masscan MCP Server Help

## About Masscan
Masscan is the fastest port scanner - capable of scanning the entire internet in under 6 minutes.
It can transmit up to 10 million packets per second.

## Tools
• do_masscan: generate a masscan command without running it
• masscan_execute: run masscan on this server and return its output
• masscan_help: this help
• history: browse and manage past tool calls

## Platform Limitations
Masscan needs raw socket access (CAP_NET_RAW). Many hosting and container platforms
do not grant it, in which case masscan_execute reports a permission failure and the
equivalent command to run elsewhere.

## Example Commands
• Scan common ports: ` + "`sudo masscan -p22,80,443 192.168.1.0/24`" + `
• Scan with rate limit: ` + "`sudo masscan -p80 10.0.0.0/8 --max-rate 1000`" + `
• Full port scan: ` + "`sudo masscan -p0-65535 target.com --max-rate 10000`" + `
• Banner grabbing: ` + "`sudo masscan -p80 target.com --banners`" + `

## Running Masscan Locally

1. Install masscan:
   - macOS: ` + "`brew install masscan`" + `
   - Ubuntu/Debian: ` + "`sudo apt-get install masscan`" + `
   - From source: https://github.com/robertdavidgraham/masscan

2. Run with sudo (required for raw sockets):
   ` + "`sudo masscan -p80,443 target.com`" + `

3. Or use Docker with capabilities:
   ` + "`docker run --rm --cap-add=NET_RAW masscan/masscan -p80 target.com`" + `

## Why Raw Sockets Are Needed
Masscan sends SYN packets directly (bypassing the OS TCP stack) for speed.
This requires CAP_NET_RAW capability, which cloud platforms disable for security.`
