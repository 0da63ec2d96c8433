package view

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/hchen1203/hotel-doc-ingest/internal/ledger"
	"github.com/hchen1203/hotel-doc-ingest/internal/models"
	"github.com/hchen1203/hotel-doc-ingest/pkg/logger"
)

// deletedTTL bounds how long a deleted id is remembered. Deletion itself is
// durable (the ledger tombstones the record); this cache only papers over the
// window where an eventually-consistent push or poll may still carry the
// record, so it can be small and time-evicted instead of growing forever.
const deletedTTL = 15 * time.Minute

// View is the client-visible file list. Refreshes are single-flight and
// rate-limited to about one request per second; extra triggers inside the
// window are dropped, not queued, and serve the cached snapshot instead.
type View struct {
	ledger  ledger.Ledger
	logger  logger.Logger
	limiter *rate.Limiter

	mu         sync.Mutex
	refreshing bool
	cached     []models.FileRecord
	deleted    map[string]time.Time
}

func New(ldg ledger.Ledger, log logger.Logger) *View {
	return &View{
		ledger:  ldg,
		logger:  log,
		limiter: rate.NewLimiter(rate.Every(time.Second), 1),
		deleted: make(map[string]time.Time),
	}
}

// Files returns the current visible list, refreshing from the ledger when
// the rate limit allows and no other refresh is in flight.
func (v *View) Files(ctx context.Context) ([]models.FileRecord, error) {
	v.mu.Lock()
	if v.refreshing || !v.limiter.Allow() {
		snapshot := v.snapshotLocked()
		v.mu.Unlock()
		return snapshot, nil
	}
	v.refreshing = true
	v.mu.Unlock()

	records, err := v.ledger.List(ctx)

	v.mu.Lock()
	defer v.mu.Unlock()
	v.refreshing = false
	if err != nil {
		v.logger.Error("Failed to refresh file list", logger.Error(err))
		return v.snapshotLocked(), err
	}
	v.cached = v.filterDeletedLocked(records)
	return v.snapshotLocked(), nil
}

// ApplyPush merges an out-of-band record update into the snapshot. Pushed
// records for deleted ids are dropped so a delete can never be undone by a
// late notification.
func (v *View) ApplyPush(rec models.FileRecord) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.isDeletedLocked(rec.ID) {
		return
	}
	for i := range v.cached {
		if v.cached[i].ID == rec.ID {
			v.cached[i] = rec
			return
		}
	}
	v.cached = append([]models.FileRecord{rec}, v.cached...)
}

// MarkDeleted suppresses a file id from all future snapshots for the
// eviction window.
func (v *View) MarkDeleted(id string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.deleted[id] = time.Now()

	kept := v.cached[:0]
	for _, rec := range v.cached {
		if rec.ID != id {
			kept = append(kept, rec)
		}
	}
	v.cached = kept
}

func (v *View) snapshotLocked() []models.FileRecord {
	out := make([]models.FileRecord, len(v.cached))
	copy(out, v.cached)
	return out
}

func (v *View) filterDeletedLocked(records []models.FileRecord) []models.FileRecord {
	out := records[:0]
	for _, rec := range records {
		if !v.isDeletedLocked(rec.ID) {
			out = append(out, rec)
		}
	}
	return out
}

func (v *View) isDeletedLocked(id string) bool {
	at, ok := v.deleted[id]
	if !ok {
		return false
	}
	if time.Since(at) > deletedTTL {
		// Tombstone in the ledger has long settled; the cache entry can go.
		delete(v.deleted, id)
		return false
	}
	return true
}
