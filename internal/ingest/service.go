package ingest

import (
	"context"
	"mime/multipart"

	"github.com/hchen1203/hotel-doc-ingest/internal/models"
	"github.com/hchen1203/hotel-doc-ingest/internal/tracker"
	"github.com/hchen1203/hotel-doc-ingest/pkg/queue"
)

// Service is the ingestion orchestrator: it sequences upload, ledger insert,
// extraction dispatch and state updates, and exposes the user-initiated
// recovery operations.
type Service interface {
	// UploadBatch ingests files strictly sequentially. A failing item aborts
	// only itself; remaining files continue. Each successful upload starts an
	// extraction attempt. Both returned slices are aligned with files: for
	// each index exactly one of records[i] and errs[i] is set.
	UploadBatch(ctx context.Context, files []*multipart.FileHeader) ([]*models.FileRecord, []error)

	// Process starts (or restarts) extraction for a file, optionally
	// correcting its document type first. Refuses with
	// ledger.ErrAlreadyProcessing while an attempt is in flight.
	Process(ctx context.Context, fileID, documentType string) (requestID string, err error)

	// Retry forces a failed or completed file back into processing with its
	// previous result cleared.
	Retry(ctx context.Context, fileID string) (requestID string, err error)

	// HandleExtraction is the worker-side entry point for one queued attempt.
	HandleExtraction(ctx context.Context, task *queue.ExtractionTask) error

	// InsertDocument routes an already-extracted payload into its target
	// schema (the insertion endpoint contract).
	InsertDocument(ctx context.Context, fileID, documentType string, data models.JSONMap) error

	// CheckStatus re-queries live processing state without resetting it.
	CheckStatus(ctx context.Context, fileID string) (*tracker.StatusReport, error)

	// Delete tombstones the record and removes the backing object. Deleted
	// records never resurface in listings.
	Delete(ctx context.Context, fileID string) error
	// ForceDelete bypasses the lifecycle entirely and removes the record and
	// object regardless of state.
	ForceDelete(ctx context.Context, fileID string) error

	Logs(ctx context.Context, fileID string) ([]models.ProcessingLog, error)
}
