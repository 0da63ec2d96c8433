package models

import (
	"time"

	"gorm.io/gorm"
)

// HotelIDUnknown is the attribution used when an extracted payload carries no
// hotel identifier.
const HotelIDUnknown = "unknown"

// FileRecord is the ledger row for one uploaded document. The processing and
// processed flags together encode the lifecycle: both false means unprocessed,
// processing=true means an extraction attempt is in flight, processed=true is
// terminal (success or error, distinguished by the extracted_data payload).
//
// LeaseID/LeaseExpiresAt back the at-most-one-extraction-in-flight guarantee:
// an attempt may only start by acquiring the lease, so two workers can never
// both hold processing=true for the same file.
type FileRecord struct {
	ID            string         `gorm:"primaryKey;size:36" json:"id"`
	Filename      string         `gorm:"size:512;not null" json:"filename"`
	StoragePath   string         `gorm:"size:1024;not null;uniqueIndex" json:"storagePath"`
	FileType      string         `gorm:"size:32" json:"fileType"`
	FileSizeBytes int64          `json:"fileSizeBytes"`
	DocumentType  string         `gorm:"size:128" json:"documentType"`
	HotelID       string         `gorm:"size:128;default:unknown" json:"hotelId"`
	Processing    bool           `gorm:"not null;default:false" json:"processing"`
	Processed     bool           `gorm:"not null;default:false" json:"processed"`
	ExtractedData JSONMap        `gorm:"type:jsonb" json:"extractedData,omitempty"`
	LeaseID       string         `gorm:"size:36" json:"-"`
	LeaseExpires  *time.Time     `json:"-"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (FileRecord) TableName() string { return "file_records" }

// HasError reports whether the record ended in a terminal error state.
func (f *FileRecord) HasError() bool {
	if !f.Processed || f.ExtractedData == nil {
		return false
	}
	v, ok := f.ExtractedData["error"].(bool)
	return ok && v
}

// StuckSince reports whether an in-flight record has gone stale past the
// threshold, measured against its last update.
func (f *FileRecord) StuckSince(threshold time.Duration, now time.Time) bool {
	return f.Processing && now.Sub(f.UpdatedAt) > threshold
}
