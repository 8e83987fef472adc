package models

import (
	"time"

	"gorm.io/gorm"
)

// ScanRecord is one audited tool call. Scan fields are empty for tools that
// do not take a target.
type ScanRecord struct {
	ID           uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
	RunID        string         `gorm:"type:varchar(36);index" json:"run_id"`
	SessionID    string         `gorm:"type:varchar(64);index" json:"session_id,omitempty"`
	ToolName     string         `gorm:"type:varchar(255);index;not null" json:"tool_name"`
	Target       string         `gorm:"type:varchar(255);index" json:"target,omitempty"`
	Port         string         `gorm:"type:varchar(255)" json:"port,omitempty"`
	Command      string         `gorm:"type:text" json:"command,omitempty"`
	Outcome      string         `gorm:"type:varchar(32);index" json:"outcome,omitempty"`
	ExitCode     int            `json:"exit_code"`
	InputJSON    string         `gorm:"type:text" json:"input_json"`
	OutputText   string         `gorm:"type:text" json:"output_text,omitempty"`
	ErrorMessage string         `gorm:"type:text" json:"error_message,omitempty"`
	DurationMs   int64          `json:"duration_ms"`
	Success      bool           `gorm:"index" json:"success"`
}

// OutcomeCount is the number of records per outcome kind.
type OutcomeCount struct {
	Outcome string `json:"outcome"`
	Count   int64  `json:"count"`
}
