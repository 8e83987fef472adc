package execute

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"
	"github.com/tb0hdan/masscan-mcp/pkg/masscan"
	"github.com/tb0hdan/masscan-mcp/pkg/server"
	"github.com/tb0hdan/masscan-mcp/pkg/tools"
)

const (
	toolName          = "masscan_execute"
	availableTimeout  = 5 * time.Second
	descriptionFormat = "Run masscan on this host and return its output. " +
		"Scans are killed after %s. Scanner output is paginated with max_lines and offset; " +
		"the command and the scan status are always included. " +
		"Masscan needs raw socket access; when the host does not grant it the result explains how to run the command elsewhere. " +
		"Use do_masscan to only generate the command."
)

// Input defines the MCP tool input parameters.
type Input struct {
	Target      string   `json:"target" jsonschema:"Target IP address, range or CIDR. Example: 1.1.1.1 or 10.0.0.0/8" validate:"required,max=1024"`
	Port        string   `json:"port" jsonschema:"Target port or range. Example: 1234 or 0-65535" validate:"required,max=1024"`
	MasscanArgs []string `json:"masscan_args,omitempty" jsonschema:"Additional masscan arguments like --max-rate, one token per item" validate:"max=64,dive,max=1024"`
	MaxLines    int      `json:"max_lines,omitempty" jsonschema:"Maximum lines to return (default 200)" validate:"min=0,max=100000"`
	Offset      int      `json:"offset,omitempty" jsonschema:"Line offset for pagination" validate:"min=0"`
}

// ScanRequest converts the input into an executor request.
func (i Input) ScanRequest() masscan.ScanRequest {
	return tools.NewScanRequest(i.Target, i.Port, i.MasscanArgs)
}

// Tool implements the attempt-execute masscan tool.
type Tool struct {
	logger    zerolog.Logger
	validator *validator.Validate
	executor  *masscan.Executor
}

// Register registers the masscan_execute tool. A missing scanner does not
// prevent registration: calls then report BinaryNotFound with install hints.
func (t *Tool) Register(srv *server.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), availableTimeout)
	defer cancel()
	if err := t.executor.Available(ctx); err != nil {
		t.logger.Warn().Err(err).Msgf("%s runner not ready, scans will report the failure", t.executor.Runner().Name())
	} else {
		t.logger.Debug().Msgf("%s runner ready", t.executor.Runner().Name())
	}

	tool := &mcp.Tool{
		Name:        toolName,
		Description: fmt.Sprintf(descriptionFormat, t.executor.Timeout()),
	}

	wrappedHandler := tools.WrapToolHandler(
		srv.Storage(),
		srv.Metrics(),
		toolName,
		t.ExecuteHandler,
	)

	mcp.AddTool(srv.Server, tool, wrappedHandler)
	t.logger.Debug().Msgf("%s tool registered", toolName)

	return nil
}

// ExecuteHandler handles MCP tool requests. Scan failures are part of the
// returned text; only invalid input is an error.
func (t *Tool) ExecuteHandler(ctx context.Context, _ *mcp.CallToolRequest, input Input) (*mcp.CallToolResult, any, error) {
	if err := t.validator.Struct(input); err != nil {
		return nil, nil, fmt.Errorf("validation error: %w", err)
	}

	req := input.ScanRequest()
	cmd := t.executor.Command(req)
	t.logger.Info().Str("run_id", tools.RunID(ctx)).Msgf("Running masscan scan on %s ports %s", req.Target, req.Port)

	outcome := t.executor.Execute(ctx, req)
	tools.RecordOutcome(ctx, cmd, outcome)

	page := paginateOutcome(outcome, input.MaxLines, input.Offset)
	resultText := fmt.Sprintf("Command: %s\n\n%s", cmd.String(), page.Render())

	return tools.TextResult(resultText), nil, nil
}

// paginateOutcome windows the captured scanner output only, so the
// completion or exit status line survives any page size.
func paginateOutcome(outcome masscan.Outcome, maxLines, offset int) masscan.Outcome {
	switch o := outcome.(type) {
	case masscan.Success:
		o.Output = tools.Paginate(strings.TrimSpace(o.Output), maxLines, offset)
		return o
	case masscan.NonZeroExit:
		o.Output = tools.Paginate(strings.TrimSpace(o.Output), maxLines, offset)
		return o
	}
	return outcome
}

// New creates the attempt-execute tool.
func New(logger zerolog.Logger, executor *masscan.Executor) tools.Tool {
	return &Tool{
		logger:    logger.With().Str("tool", toolName).Logger(),
		validator: validator.New(),
		executor:  executor,
	}
}
