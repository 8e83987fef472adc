package generate

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"
	"github.com/tb0hdan/masscan-mcp/pkg/masscan"
	"github.com/tb0hdan/masscan-mcp/pkg/server"
	"github.com/tb0hdan/masscan-mcp/pkg/tools"
)

const toolName = "do_masscan"

// Input defines the MCP tool input parameters.
type Input struct {
	Target      string   `json:"target" jsonschema:"Target IP address, range or CIDR. Example: 1.1.1.1 or 10.0.0.0/8" validate:"required,max=1024"`
	Port        string   `json:"port" jsonschema:"Target port or range. Example: 1234 or 0-65535" validate:"required,max=1024"`
	MasscanArgs []string `json:"masscan_args,omitempty" jsonschema:"Additional masscan arguments like --max-rate, one token per item" validate:"max=64,dive,max=1024"`
}

// ScanRequest converts the input into an executor request.
func (i Input) ScanRequest() masscan.ScanRequest {
	return tools.NewScanRequest(i.Target, i.Port, i.MasscanArgs)
}

// Tool implements the generate-only masscan tool. It never starts a process.
type Tool struct {
	logger    zerolog.Logger
	validator *validator.Validate
	executor  *masscan.Executor
}

// Register registers the do_masscan tool with the MCP server.
func (t *Tool) Register(srv *server.Server) error {
	tool := &mcp.Tool{
		Name: toolName,
		Description: "Generate a masscan command for port scanning without running it. " +
			"Returns the command, its sudo and Docker equivalents, and installation hints. " +
			"Masscan needs raw socket access (CAP_NET_RAW), so run the command on a host that grants it.",
		Annotations: &mcp.ToolAnnotations{
			ReadOnlyHint:   true,
			IdempotentHint: true,
		},
	}

	wrappedHandler := tools.WrapToolHandler(
		srv.Storage(),
		srv.Metrics(),
		toolName,
		t.GenerateHandler,
	)

	mcp.AddTool(srv.Server, tool, wrappedHandler)
	t.logger.Debug().Msgf("%s tool registered", toolName)

	return nil
}

// GenerateHandler handles MCP tool requests.
func (t *Tool) GenerateHandler(_ context.Context, _ *mcp.CallToolRequest, input Input) (*mcp.CallToolResult, any, error) {
	if err := t.validator.Struct(input); err != nil {
		return nil, nil, fmt.Errorf("validation error: %w", err)
	}

	req := input.ScanRequest()
	t.logger.Info().Msgf("Generating masscan command for %s ports %s", req.Target, req.Port)

	return tools.TextResult(t.executor.Advise(req)), nil, nil
}

// New creates the generate-only tool.
func New(logger zerolog.Logger, executor *masscan.Executor) tools.Tool {
	return &Tool{
		logger:    logger.With().Str("tool", toolName).Logger(),
		validator: validator.New(),
		executor:  executor,
	}
}
