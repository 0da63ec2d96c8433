package view

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hchen1203/hotel-doc-ingest/internal/ledger/ledgertest"
	"github.com/hchen1203/hotel-doc-ingest/internal/models"
	"github.com/hchen1203/hotel-doc-ingest/pkg/logger"
)

func TestFilesRefreshesFromLedger(t *testing.T) {
	mem := ledgertest.New()
	ctx := context.Background()
	require.NoError(t, mem.Insert(ctx, &models.FileRecord{
		ID: "f1", Filename: "a.pdf", StoragePath: "uploads/1_a.pdf",
	}))

	v := New(mem, logger.NewTestLogger())
	files, err := v.Files(ctx)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "f1", files[0].ID)
}

func TestFilesRateLimitServesCachedSnapshot(t *testing.T) {
	mem := ledgertest.New()
	ctx := context.Background()
	require.NoError(t, mem.Insert(ctx, &models.FileRecord{
		ID: "f1", Filename: "a.pdf", StoragePath: "uploads/1_a.pdf",
	}))

	v := New(mem, logger.NewTestLogger())
	_, err := v.Files(ctx)
	require.NoError(t, err)

	// A second record lands, but the refresh window has not elapsed: the
	// second call is dropped and the stale snapshot is served.
	require.NoError(t, mem.Insert(ctx, &models.FileRecord{
		ID: "f2", Filename: "b.pdf", StoragePath: "uploads/2_b.pdf",
	}))
	files, err := v.Files(ctx)
	require.NoError(t, err)
	assert.Len(t, files, 1)
}

func TestDeletedIdsNeverResurface(t *testing.T) {
	mem := ledgertest.New()
	ctx := context.Background()
	require.NoError(t, mem.Insert(ctx, &models.FileRecord{
		ID: "doomed", Filename: "x.pdf", StoragePath: "uploads/3_x.pdf",
	}))

	v := New(mem, logger.NewTestLogger())
	files, err := v.Files(ctx)
	require.NoError(t, err)
	require.Len(t, files, 1)

	v.MarkDeleted("doomed")
	files, _ = v.Files(ctx)
	assert.Empty(t, files)

	// A late push notification for the deleted file must not re-add it.
	v.ApplyPush(models.FileRecord{ID: "doomed", Filename: "x.pdf"})
	files, _ = v.Files(ctx)
	assert.Empty(t, files)
}

func TestApplyPushUpdatesExistingEntry(t *testing.T) {
	mem := ledgertest.New()
	ctx := context.Background()
	require.NoError(t, mem.Insert(ctx, &models.FileRecord{
		ID: "f1", Filename: "a.pdf", StoragePath: "uploads/1_a.pdf",
	}))

	v := New(mem, logger.NewTestLogger())
	_, err := v.Files(ctx)
	require.NoError(t, err)

	v.ApplyPush(models.FileRecord{ID: "f1", Filename: "a.pdf", Processed: true})
	files, _ := v.Files(ctx)
	require.Len(t, files, 1)
	assert.True(t, files[0].Processed)

	v.ApplyPush(models.FileRecord{ID: "f9", Filename: "new.pdf"})
	files, _ = v.Files(ctx)
	assert.Len(t, files, 2)
}
