package models

import "time"

// LogLevel classifies audit trail entries.
type LogLevel string

const (
	LogLevelInfo    LogLevel = "info"
	LogLevelSuccess LogLevel = "success"
	LogLevelWarning LogLevel = "warning"
	LogLevelError   LogLevel = "error"
)

// ProcessingLog is one append-only audit entry. Entries are never mutated or
// deleted; they remain the durable record of an extraction attempt even after
// the FileRecord itself is gone, so there is no foreign key to file_records.
type ProcessingLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	RequestID string    `gorm:"size:36;index;not null" json:"requestId"`
	FileID    string    `gorm:"size:36;index;not null" json:"fileId"`
	LogLevel  LogLevel  `gorm:"size:16;not null" json:"logLevel"`
	Message   string    `gorm:"size:1024;not null" json:"message"`
	Details   JSONMap   `gorm:"type:jsonb" json:"details,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func (ProcessingLog) TableName() string { return "processing_logs" }
