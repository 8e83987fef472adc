package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/tb0hdan/masscan-mcp/pkg/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const busyTimeout = 5 * time.Second

type SQLiteStorage struct {
	db *gorm.DB
}

type Config struct {
	DatabasePath string
	Debug        bool
}

func NewSQLiteStorage(cfg Config) (*SQLiteStorage, error) {
	logLevel := logger.Silent
	if cfg.Debug {
		logLevel = logger.Info
	}

	// Audit rows are written from concurrent goroutines; wait for the write
	// lock instead of failing with SQLITE_BUSY.
	dsn := fmt.Sprintf("%s?_busy_timeout=%d", cfg.DatabasePath, busyTimeout.Milliseconds())
	database, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	if err := database.AutoMigrate(&models.ScanRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return &SQLiteStorage{db: database}, nil
}

func (s *SQLiteStorage) CreateScanRecord(ctx context.Context, record *models.ScanRecord) error {
	return s.db.WithContext(ctx).Create(record).Error
}

func (s *SQLiteStorage) GetScanRecord(ctx context.Context, id uint) (*models.ScanRecord, error) {
	var record models.ScanRecord
	if err := s.db.WithContext(ctx).First(&record, id).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// GetScanRecords returns a newest-first page of the records matching filter,
// and how many records match in total.
func (s *SQLiteStorage) GetScanRecords(ctx context.Context, filter Filter, limit, offset int) ([]models.ScanRecord, int64, error) {
	var total int64
	if err := filter.scope(s.db.WithContext(ctx).Model(&models.ScanRecord{})).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count records: %w", err)
	}

	query := filter.scope(s.db.WithContext(ctx)).Order("created_at DESC").Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var records []models.ScanRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list records: %w", err)
	}
	return records, total, nil
}

func (f Filter) scope(query *gorm.DB) *gorm.DB {
	if f.SessionID != "" {
		query = query.Where("session_id = ?", f.SessionID)
	}
	if f.ToolName != "" {
		query = query.Where("tool_name = ?", f.ToolName)
	}
	if f.Target != "" {
		query = query.Where("target = ?", f.Target)
	}
	return query
}

// CountByOutcome groups scan records by outcome kind. Records without an
// outcome (help, generate-only calls) are skipped.
func (s *SQLiteStorage) CountByOutcome(ctx context.Context) ([]models.OutcomeCount, error) {
	var counts []models.OutcomeCount
	err := s.db.WithContext(ctx).
		Model(&models.ScanRecord{}).
		Select("outcome, COUNT(*) AS count").
		Where("outcome <> ''").
		Group("outcome").
		Order("outcome").
		Scan(&counts).Error
	return counts, err
}

func (s *SQLiteStorage) DeleteScanRecord(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Delete(&models.ScanRecord{}, id).Error
}

func (s *SQLiteStorage) DeleteAllScanRecords(ctx context.Context) error {
	return s.db.WithContext(ctx).Where("1 = 1").Delete(&models.ScanRecord{}).Error
}

func (s *SQLiteStorage) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
