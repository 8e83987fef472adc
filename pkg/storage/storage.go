package storage

import (
	"context"

	"github.com/tb0hdan/masscan-mcp/pkg/models"
)

// Filter narrows a record listing. Empty fields match every record; set
// fields are combined with AND.
type Filter struct {
	SessionID string
	ToolName  string
	Target    string
}

type Storage interface {
	// Scan record operations
	CreateScanRecord(ctx context.Context, record *models.ScanRecord) error
	GetScanRecord(ctx context.Context, id uint) (*models.ScanRecord, error)
	GetScanRecords(ctx context.Context, filter Filter, limit, offset int) ([]models.ScanRecord, int64, error)
	CountByOutcome(ctx context.Context) ([]models.OutcomeCount, error)
	DeleteScanRecord(ctx context.Context, id uint) error
	DeleteAllScanRecords(ctx context.Context) error

	// Lifecycle
	Close() error
}
