package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/hchen1203/hotel-doc-ingest/internal/models"
)

var (
	// ErrNotFound indicates the file record does not exist (or is tombstoned).
	ErrNotFound = errors.New("file record not found")
	// ErrAlreadyProcessing indicates another extraction attempt holds the lease.
	ErrAlreadyProcessing = errors.New("extraction already in flight for file")
)

// Ledger is the relational store of file metadata and audit logs. It is the
// single source of truth for processing state; every writer mutates it via
// targeted field updates, never whole-record overwrites.
type Ledger interface {
	Insert(ctx context.Context, rec *models.FileRecord) error
	Get(ctx context.Context, id string) (*models.FileRecord, error)
	List(ctx context.Context) ([]models.FileRecord, error)

	// AcquireLease transitions a record into the processing state, clearing
	// any previous extraction result. It fails with ErrAlreadyProcessing when
	// a live lease is held by another attempt.
	AcquireLease(ctx context.Context, id, leaseID string, ttl time.Duration) error
	// MarkSuccess and MarkError finish the attempt holding leaseID; a stale
	// lease makes them a no-op returning ErrNotFound.
	MarkSuccess(ctx context.Context, id, leaseID string, data models.JSONMap) error
	MarkError(ctx context.Context, id, leaseID, message string) error
	// MarkInserted flags extracted_data with inserted:true after the target
	// schema row is committed.
	MarkInserted(ctx context.Context, id string, at time.Time) error
	SetDocumentType(ctx context.Context, id, documentType string) error

	// ListStuck returns in-flight records whose updated_at is older than the
	// threshold. ClearProcessing force-drops their processing flag without
	// touching processed.
	ListStuck(ctx context.Context, threshold time.Duration) ([]models.FileRecord, error)
	ClearProcessing(ctx context.Context, ids []string) error

	// Delete tombstones a record (durable; reads never resurrect it).
	// ForceDelete removes the row outright regardless of lifecycle state.
	Delete(ctx context.Context, id string) error
	ForceDelete(ctx context.Context, id string) error

	AppendLog(ctx context.Context, entry *models.ProcessingLog) error
	LogsForFile(ctx context.Context, fileID string) ([]models.ProcessingLog, error)

	// InsertRow writes one target-schema row (expense voucher, occupancy
	// report, ...). Only the document type router calls this.
	InsertRow(ctx context.Context, row interface{}) error
}
