package reconcile

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/hchen1203/hotel-doc-ingest/internal/ledger"
	"github.com/hchen1203/hotel-doc-ingest/internal/models"
	"github.com/hchen1203/hotel-doc-ingest/pkg/logger"
	"github.com/hchen1203/hotel-doc-ingest/pkg/storage"
)

// Reconciler periodically aligns the ledger with the object store. Both
// sweeps are idempotent and safe to run alongside ingestion: they only ever
// narrow the processing flag or remove records with no storage backing.
type Reconciler struct {
	ledger    ledger.Ledger
	store     storage.ObjectStore
	logger    logger.Logger
	threshold time.Duration
	cron      *cron.Cron
}

func New(ldg ledger.Ledger, store storage.ObjectStore, log logger.Logger, stuckThreshold time.Duration) *Reconciler {
	return &Reconciler{
		ledger:    ldg,
		store:     store,
		logger:    log,
		threshold: stuckThreshold,
	}
}

// Start schedules both sweeps at the given interval.
func (r *Reconciler) Start(interval time.Duration) error {
	r.cron = cron.New()
	spec := fmt.Sprintf("@every %s", interval)
	if _, err := r.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), interval)
		defer cancel()
		if _, err := r.SweepStuck(ctx); err != nil {
			r.logger.Error("Stuck sweep failed", logger.Error(err))
		}
		if _, err := r.SweepOrphans(ctx); err != nil {
			r.logger.Error("Orphan sweep failed", logger.Error(err))
		}
	}); err != nil {
		return fmt.Errorf("failed to schedule reconciliation: %w", err)
	}
	r.cron.Start()
	r.logger.Info("Reconciliation service started", logger.Duration("interval", interval))
	return nil
}

func (r *Reconciler) Stop() {
	if r.cron != nil {
		r.cron.Stop()
	}
}

// SweepOrphans removes every ledger record whose storage path has no backing
// object. After the sweep the record set is exactly the set with a live
// object at sweep time. Resolved inconsistencies surface in the audit log
// only, never as user errors.
func (r *Reconciler) SweepOrphans(ctx context.Context) ([]string, error) {
	keys, err := r.store.ListKeys(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list object keys: %w", err)
	}
	present := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		present[k] = struct{}{}
	}

	records, err := r.ledger.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list file records: %w", err)
	}

	var orphans []string
	for _, rec := range records {
		if _, ok := present[rec.StoragePath]; !ok {
			orphans = append(orphans, rec.ID)
		}
	}
	if len(orphans) == 0 {
		return nil, nil
	}

	// Log the full set before any deletion so the audit trail survives a
	// partial failure.
	sweepID := uuid.New().String()
	r.logger.Warn("Removing orphan file records",
		logger.Int("count", len(orphans)),
		logger.Any("fileIds", orphans),
	)
	for _, id := range orphans {
		_ = r.ledger.AppendLog(ctx, &models.ProcessingLog{
			RequestID: sweepID,
			FileID:    id,
			LogLevel:  models.LogLevelWarning,
			Message:   "file record has no backing object, removing",
			Details:   models.JSONMap{"sweep": "orphan"},
		})
	}
	for _, id := range orphans {
		if err := r.ledger.ForceDelete(ctx, id); err != nil {
			r.logger.Error("Failed to remove orphan record",
				logger.String("fileId", id),
				logger.Error(err),
			)
		}
	}
	return orphans, nil
}

// SweepStuck drops the processing flag of every in-flight record older than
// the threshold, without touching processed, so the file surfaces to the
// user as retryable instead of eternally in flight. Re-running on an
// already-swept set is a no-op.
func (r *Reconciler) SweepStuck(ctx context.Context) ([]string, error) {
	stuck, err := r.ledger.ListStuck(ctx, r.threshold)
	if err != nil {
		return nil, fmt.Errorf("failed to list stuck records: %w", err)
	}
	if len(stuck) == 0 {
		return nil, nil
	}

	ids := make([]string, len(stuck))
	for i, rec := range stuck {
		ids[i] = rec.ID
	}

	sweepID := uuid.New().String()
	r.logger.Warn("Clearing stuck processing flags",
		logger.Int("count", len(ids)),
		logger.Any("fileIds", ids),
	)
	for _, rec := range stuck {
		_ = r.ledger.AppendLog(ctx, &models.ProcessingLog{
			RequestID: sweepID,
			FileID:    rec.ID,
			LogLevel:  models.LogLevelWarning,
			Message:   fmt.Sprintf("processing stuck for more than %s, forcing flag clear", r.threshold),
			Details:   models.JSONMap{"sweep": "stuck", "lastUpdated": rec.UpdatedAt.Format(time.RFC3339)},
		})
	}
	if err := r.ledger.ClearProcessing(ctx, ids); err != nil {
		return nil, fmt.Errorf("failed to clear processing flags: %w", err)
	}
	return ids, nil
}
