package tools

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/tb0hdan/masscan-mcp/pkg/masscan"
	"github.com/tb0hdan/masscan-mcp/pkg/metrics"
	"github.com/tb0hdan/masscan-mcp/pkg/models"
	"github.com/tb0hdan/masscan-mcp/pkg/storage"
)

type recordKey struct{}

// RecordOutcome attaches a classified outcome to the execution record of the
// current tool call. It is a no-op outside WrapToolHandler.
func RecordOutcome(ctx context.Context, cmd masscan.CommandLine, outcome masscan.Outcome) {
	record, ok := ctx.Value(recordKey{}).(*models.ScanRecord)
	if !ok {
		return
	}
	record.Command = cmd.String()
	record.Outcome = string(outcome.Kind())
	if exit, ok := outcome.(masscan.NonZeroExit); ok {
		record.ExitCode = exit.Code
	}
}

// RunID returns the run identifier of the current tool call, if any.
func RunID(ctx context.Context) string {
	if record, ok := ctx.Value(recordKey{}).(*models.ScanRecord); ok {
		return record.RunID
	}
	return ""
}

// WrapToolHandler wraps a tool handler to add execution logging and metrics.
// store and m may be nil.
func WrapToolHandler[In, Out any](
	store storage.Storage,
	m *metrics.Metrics,
	toolName string,
	handler func(context.Context, *mcp.CallToolRequest, In) (*mcp.CallToolResult, Out, error),
) func(context.Context, *mcp.CallToolRequest, In) (*mcp.CallToolResult, Out, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input In) (*mcp.CallToolResult, Out, error) {
		startTime := time.Now()

		sessionID := ""
		if req != nil && req.Session != nil {
			sessionID = req.Session.ID()
		}

		inputJSON, _ := json.Marshal(input)

		record := &models.ScanRecord{
			RunID:     uuid.NewString(),
			SessionID: sessionID,
			ToolName:  toolName,
			InputJSON: string(inputJSON),
		}
		if scan, ok := any(input).(ScanInput); ok {
			scanReq := scan.ScanRequest()
			record.Target = scanReq.Target
			record.Port = scanReq.Port
		}

		result, output, err := handler(context.WithValue(ctx, recordKey{}, record), req, input)

		duration := time.Since(startTime)
		record.DurationMs = duration.Milliseconds()
		record.Success = err == nil

		if err != nil {
			record.ErrorMessage = err.Error()
		} else if result != nil {
			record.OutputText = resultText(result)
		}

		m.ObserveTool(toolName, record.Success, duration)
		m.ObserveOutcome(record.Outcome)

		if store != nil {
			// Log execution asynchronously to avoid blocking.
			// Using background context intentionally - logging should complete even if request is cancelled.
			go func() { //nolint:contextcheck
				_ = store.CreateScanRecord(context.Background(), record)
			}()
		}

		return result, output, err
	}
}

func resultText(result *mcp.CallToolResult) string {
	var parts []string
	for _, content := range result.Content {
		if text, ok := content.(*mcp.TextContent); ok {
			parts = append(parts, text.Text)
		}
	}
	return strings.Join(parts, "\n")
}

// TextResult wraps text in a tool result.
func TextResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}
