package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"
	"github.com/tb0hdan/masscan-mcp/pkg/server"
	"github.com/tb0hdan/masscan-mcp/pkg/storage"
	"github.com/tb0hdan/masscan-mcp/pkg/tools"
)

const (
	toolName     = "history"
	defaultLimit = 10
)

var ErrStorageDisabled = errors.New("scan history is disabled on this server")

type Input struct {
	Action  string `json:"action" jsonschema:"One of list, get, delete, clear, stats" validate:"required,oneof=list get delete clear stats"`
	ID      uint   `json:"id,omitempty" jsonschema:"Record ID for get and delete"`
	Target  string `json:"target,omitempty" jsonschema:"Only list records for this target" validate:"max=1024"`
	Tool    string `json:"tool,omitempty" jsonschema:"Only list records for this tool" validate:"max=64"`
	Session string `json:"session,omitempty" jsonschema:"Only list records from this MCP session" validate:"max=64"`
	Limit   int    `json:"limit,omitempty" validate:"min=0,max=100"`
	Offset  int    `json:"offset,omitempty" validate:"min=0"`
}

type Tool struct {
	logger    zerolog.Logger
	validator *validator.Validate
	store     storage.Storage
}

func (t *Tool) Register(srv *server.Server) error {
	tool := &mcp.Tool{
		Name: toolName,
		Description: "Browse and manage scan history. Actions: list (paginated, optional target, tool and session filters), " +
			"get (by ID), delete (by ID), clear (all), stats (counts per outcome).",
	}

	t.store = srv.Storage()

	mcp.AddTool(srv.Server, tool, t.HistoryHandler)
	t.logger.Debug().Msg("history tool registered")

	return nil
}

func (t *Tool) HistoryHandler(ctx context.Context, _ *mcp.CallToolRequest, input Input) (*mcp.CallToolResult, any, error) {
	if err := t.validator.Struct(input); err != nil {
		return nil, nil, fmt.Errorf("validation error: %w", err)
	}
	if t.store == nil {
		return nil, nil, ErrStorageDisabled
	}

	var resultText string

	switch input.Action {
	case "list":
		limit := input.Limit
		if limit == 0 {
			limit = defaultLimit
		}
		listing, err := t.list(ctx, input, limit)
		if err != nil {
			return nil, nil, err
		}
		data, _ := json.MarshalIndent(listing, "", "  ")
		resultText = string(data)

	case "get":
		if input.ID == 0 {
			return nil, nil, fmt.Errorf("id is required for get action")
		}
		record, err := t.store.GetScanRecord(ctx, input.ID)
		if err != nil {
			return nil, nil, fmt.Errorf("record not found: %w", err)
		}
		data, _ := json.MarshalIndent(record, "", "  ")
		resultText = string(data)

	case "delete":
		if input.ID == 0 {
			return nil, nil, fmt.Errorf("id is required for delete action")
		}
		if err := t.store.DeleteScanRecord(ctx, input.ID); err != nil {
			return nil, nil, fmt.Errorf("failed to delete record: %w", err)
		}
		resultText = fmt.Sprintf("Record %d deleted successfully", input.ID)

	case "clear":
		if err := t.store.DeleteAllScanRecords(ctx); err != nil {
			return nil, nil, fmt.Errorf("failed to clear records: %w", err)
		}
		resultText = "All scan history cleared"

	case "stats":
		counts, err := t.store.CountByOutcome(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to count outcomes: %w", err)
		}
		data, _ := json.MarshalIndent(map[string]any{
			"outcomes": counts,
		}, "", "  ")
		resultText = string(data)
	}

	return tools.TextResult(resultText), nil, nil
}

// list pages through the records matching every filter in input.
func (t *Tool) list(ctx context.Context, input Input, limit int) (map[string]any, error) {
	filter := storage.Filter{
		SessionID: input.Session,
		ToolName:  input.Tool,
		Target:    input.Target,
	}
	records, total, err := t.store.GetScanRecords(ctx, filter, limit, input.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}

	listing := map[string]any{
		"total":   total,
		"limit":   limit,
		"offset":  input.Offset,
		"records": records,
	}
	if filter.SessionID != "" {
		listing["session"] = filter.SessionID
	}
	if filter.ToolName != "" {
		listing["tool"] = filter.ToolName
	}
	if filter.Target != "" {
		listing["target"] = filter.Target
	}
	return listing, nil
}

func New(logger zerolog.Logger) tools.Tool {
	return &Tool{
		logger:    logger.With().Str("tool", toolName).Logger(),
		validator: validator.New(),
	}
}
