package tracker

import (
	"context"
	"time"

	"github.com/hchen1203/hotel-doc-ingest/internal/ledger"
	"github.com/hchen1203/hotel-doc-ingest/internal/models"
	"github.com/hchen1203/hotel-doc-ingest/pkg/logger"
)

// Status is the client-visible processing state of a file.
type Status string

const (
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
	StatusTimeout    Status = "timeout"
	StatusWaiting    Status = "waiting"
	StatusUnknown    Status = "unknown"
)

// DefaultStuckThreshold is the single authoritative threshold after which an
// in-flight extraction counts as stuck. The status check and the stuck sweep
// both use it, so a file never reads "timeout" in one place and healthy in
// another.
const DefaultStuckThreshold = 5 * time.Minute

// StatusReport is the answer to a status check.
type StatusReport struct {
	FileID         string                 `json:"fileId"`
	Status         Status                 `json:"status"`
	ProcessingTime int64                  `json:"processingTime"`
	LastUpdated    time.Time              `json:"lastUpdated"`
	Logs           []models.ProcessingLog `json:"logs"`
	Details        models.JSONMap         `json:"details,omitempty"`
}

// Tracker owns the unprocessed → processing → processed{ok|error} lifecycle
// view of file records.
type Tracker struct {
	ledger    ledger.Ledger
	logger    logger.Logger
	threshold time.Duration
}

func New(ldg ledger.Ledger, log logger.Logger, stuckThreshold time.Duration) *Tracker {
	if stuckThreshold <= 0 {
		stuckThreshold = DefaultStuckThreshold
	}
	return &Tracker{ledger: ldg, logger: log, threshold: stuckThreshold}
}

// Threshold returns the canonical stuck threshold.
func (t *Tracker) Threshold() time.Duration { return t.threshold }

// Derive maps a record's flags onto the client-visible status.
func (t *Tracker) Derive(rec *models.FileRecord, now time.Time) Status {
	switch {
	case rec == nil:
		return StatusUnknown
	case rec.StuckSince(t.threshold, now):
		return StatusTimeout
	case rec.Processing:
		return StatusProcessing
	case rec.Processed && rec.HasError():
		return StatusFailed
	case rec.Processed:
		return StatusCompleted
	default:
		return StatusWaiting
	}
}

// CheckStatus re-queries live state for a file without resetting anything. It
// returns the full audit trail in creation order so an operator can
// reconstruct the attempt.
func (t *Tracker) CheckStatus(ctx context.Context, fileID string) (*StatusReport, error) {
	rec, err := t.ledger.Get(ctx, fileID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	report := &StatusReport{
		FileID:      fileID,
		Status:      t.Derive(rec, now),
		LastUpdated: rec.UpdatedAt,
	}
	if rec.Processing {
		report.ProcessingTime = now.Sub(rec.UpdatedAt).Milliseconds()
	}
	if rec.ExtractedData != nil {
		report.Details = rec.ExtractedData
	}

	logs, err := t.ledger.LogsForFile(ctx, fileID)
	if err != nil {
		t.logger.Error("Failed to load processing logs for status check",
			logger.String("fileId", fileID),
			logger.Error(err),
		)
	} else {
		report.Logs = logs
	}
	return report, nil
}
