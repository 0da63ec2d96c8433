package reconcile

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hchen1203/hotel-doc-ingest/internal/ledger/ledgertest"
	"github.com/hchen1203/hotel-doc-ingest/internal/models"
	"github.com/hchen1203/hotel-doc-ingest/pkg/logger"
	"github.com/hchen1203/hotel-doc-ingest/pkg/storage/storagetest"
)

func TestSweepOrphansRemovesOnlyUnbackedRecords(t *testing.T) {
	mem := ledgertest.New()
	store := storagetest.New()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "uploads/1_kept.pdf", bytes.NewReader([]byte("pdf")), 3))
	require.NoError(t, mem.Insert(ctx, &models.FileRecord{
		ID: "kept", Filename: "kept.pdf", StoragePath: "uploads/1_kept.pdf",
	}))
	require.NoError(t, mem.Insert(ctx, &models.FileRecord{
		ID: "orphan", Filename: "orphan.pdf", StoragePath: "uploads/2_orphan.pdf",
	}))

	r := New(mem, store, logger.NewTestLogger(), 5*time.Minute)
	removed, err := r.SweepOrphans(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"orphan"}, removed)

	_, err = mem.Get(ctx, "kept")
	assert.NoError(t, err)
	assert.Nil(t, mem.Record("orphan"))

	// An orphan sweep over a consistent state is a no-op.
	removed, err = r.SweepOrphans(ctx)
	require.NoError(t, err)
	assert.Empty(t, removed)
}

func TestSweepOrphansAuditsBeforeDeleting(t *testing.T) {
	mem := ledgertest.New()
	store := storagetest.New()
	ctx := context.Background()

	require.NoError(t, mem.Insert(ctx, &models.FileRecord{
		ID: "gone", Filename: "gone.pdf", StoragePath: "uploads/3_gone.pdf",
	}))

	r := New(mem, store, logger.NewTestLogger(), 5*time.Minute)
	_, err := r.SweepOrphans(ctx)
	require.NoError(t, err)

	// The audit entry survives the record removal.
	logs, err := mem.LogsForFile(ctx, "gone")
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, models.LogLevelWarning, logs[0].LogLevel)
}

func TestSweepStuckClearsProcessingOnly(t *testing.T) {
	mem := ledgertest.New()
	store := storagetest.New()
	ctx := context.Background()

	require.NoError(t, mem.Insert(ctx, &models.FileRecord{
		ID: "stale", Filename: "stale.pdf", StoragePath: "uploads/4_stale.pdf",
		Processing: true,
	}))
	time.Sleep(120 * time.Millisecond)
	// Recent in-flight record must be left alone.
	require.NoError(t, mem.Insert(ctx, &models.FileRecord{
		ID: "fresh", Filename: "fresh.pdf", StoragePath: "uploads/5_fresh.pdf",
		Processing: true,
	}))

	r := New(mem, store, logger.NewTestLogger(), 50*time.Millisecond)
	cleared, err := r.SweepStuck(ctx)
	require.NoError(t, err)
	assert.Contains(t, cleared, "stale")
	assert.NotContains(t, cleared, "fresh")
	assert.True(t, mem.Record("fresh").Processing)

	rec := mem.Record("stale")
	assert.False(t, rec.Processing)
	assert.False(t, rec.Processed, "sweep must not fabricate a terminal state")

	// Second sweep finds nothing new for the stale record.
	cleared, err = r.SweepStuck(ctx)
	require.NoError(t, err)
	assert.NotContains(t, cleared, "stale")
}
