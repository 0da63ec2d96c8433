// Package ledgertest provides an in-memory Ledger for tests.
package ledgertest

import (
	"context"
	"sync"
	"time"

	"github.com/hchen1203/hotel-doc-ingest/internal/ledger"
	"github.com/hchen1203/hotel-doc-ingest/internal/models"
)

// MemLedger is a map-backed ledger with the same state transitions as the
// database implementation, including lease semantics and tombstoning.
type MemLedger struct {
	mu        sync.Mutex
	records   map[string]*models.FileRecord
	tombstone map[string]bool
	logs      []models.ProcessingLog
	rows      []interface{}

	// Error hooks let a test fail a specific operation.
	InsertErr    error
	InsertRowErr error
}

var _ ledger.Ledger = (*MemLedger)(nil)

func New() *MemLedger {
	return &MemLedger{
		records:   make(map[string]*models.FileRecord),
		tombstone: make(map[string]bool),
	}
}

func (m *MemLedger) Insert(ctx context.Context, rec *models.FileRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.InsertErr != nil {
		return m.InsertErr
	}
	now := time.Now()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now
	clone := *rec
	m.records[rec.ID] = &clone
	return nil
}

func (m *MemLedger) Get(ctx context.Context, id string) (*models.FileRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.getLocked(id)
}

func (m *MemLedger) getLocked(id string) (*models.FileRecord, error) {
	rec, ok := m.records[id]
	if !ok || m.tombstone[id] {
		return nil, ledger.ErrNotFound
	}
	clone := *rec
	return &clone, nil
}

func (m *MemLedger) List(ctx context.Context) ([]models.FileRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.FileRecord, 0, len(m.records))
	for id, rec := range m.records {
		if m.tombstone[id] {
			continue
		}
		out = append(out, *rec)
	}
	return out, nil
}

func (m *MemLedger) AcquireLease(ctx context.Context, id, leaseID string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[id]
	if !ok || m.tombstone[id] {
		return ledger.ErrNotFound
	}
	now := time.Now()
	if rec.Processing && !(rec.LeaseExpires != nil && rec.LeaseExpires.Before(now)) {
		return ledger.ErrAlreadyProcessing
	}
	expires := now.Add(ttl)
	rec.Processing = true
	rec.Processed = false
	rec.ExtractedData = nil
	rec.LeaseID = leaseID
	rec.LeaseExpires = &expires
	rec.UpdatedAt = now
	return nil
}

func (m *MemLedger) MarkSuccess(ctx context.Context, id, leaseID string, data models.JSONMap) error {
	return m.finish(id, leaseID, func(rec *models.FileRecord) {
		rec.ExtractedData = data
	})
}

func (m *MemLedger) MarkError(ctx context.Context, id, leaseID, message string) error {
	return m.finish(id, leaseID, func(rec *models.FileRecord) {
		rec.ExtractedData = models.JSONMap{"error": true, "message": message}
	})
}

func (m *MemLedger) finish(id, leaseID string, apply func(*models.FileRecord)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[id]
	if !ok || m.tombstone[id] || rec.LeaseID != leaseID {
		return ledger.ErrNotFound
	}
	rec.Processing = false
	rec.Processed = true
	rec.LeaseID = ""
	rec.LeaseExpires = nil
	rec.UpdatedAt = time.Now()
	apply(rec)
	return nil
}

func (m *MemLedger) MarkInserted(ctx context.Context, id string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[id]
	if !ok || m.tombstone[id] {
		return ledger.ErrNotFound
	}
	if rec.ExtractedData == nil {
		rec.ExtractedData = models.JSONMap{}
	}
	rec.ExtractedData["inserted"] = true
	rec.ExtractedData["insertedAt"] = at.Format(time.RFC3339)
	rec.UpdatedAt = time.Now()
	return nil
}

func (m *MemLedger) SetDocumentType(ctx context.Context, id, documentType string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[id]
	if !ok || m.tombstone[id] {
		return ledger.ErrNotFound
	}
	rec.DocumentType = documentType
	rec.UpdatedAt = time.Now()
	return nil
}

func (m *MemLedger) ListStuck(ctx context.Context, threshold time.Duration) ([]models.FileRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cutoff := time.Now().Add(-threshold)
	var out []models.FileRecord
	for id, rec := range m.records {
		if m.tombstone[id] {
			continue
		}
		if rec.Processing && rec.UpdatedAt.Before(cutoff) {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func (m *MemLedger) ClearProcessing(ctx context.Context, ids []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range ids {
		if rec, ok := m.records[id]; ok {
			rec.Processing = false
			rec.LeaseID = ""
			rec.LeaseExpires = nil
			rec.UpdatedAt = time.Now()
		}
	}
	return nil
}

func (m *MemLedger) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[id]; !ok || m.tombstone[id] {
		return ledger.ErrNotFound
	}
	m.tombstone[id] = true
	return nil
}

func (m *MemLedger) ForceDelete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, id)
	delete(m.tombstone, id)
	return nil
}

func (m *MemLedger) AppendLog(ctx context.Context, entry *models.ProcessingLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := *entry
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	m.logs = append(m.logs, e)
	return nil
}

func (m *MemLedger) LogsForFile(ctx context.Context, fileID string) ([]models.ProcessingLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.ProcessingLog
	for _, e := range m.logs {
		if e.FileID == fileID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *MemLedger) InsertRow(ctx context.Context, row interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.InsertRowErr != nil {
		return m.InsertRowErr
	}
	m.rows = append(m.rows, row)
	return nil
}

// Rows returns every target-schema row inserted so far.
func (m *MemLedger) Rows() []interface{} {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]interface{}, len(m.rows))
	copy(out, m.rows)
	return out
}

// Record returns the raw stored record, bypassing the tombstone, so tests
// can assert on post-delete state.
func (m *MemLedger) Record(id string) *models.FileRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[id]
	if !ok {
		return nil
	}
	clone := *rec
	return &clone
}

// Tombstoned reports whether the id was soft-deleted.
func (m *MemLedger) Tombstoned(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tombstone[id]
}
