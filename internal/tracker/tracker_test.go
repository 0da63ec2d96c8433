package tracker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hchen1203/hotel-doc-ingest/internal/ledger"
	"github.com/hchen1203/hotel-doc-ingest/internal/ledger/ledgertest"
	"github.com/hchen1203/hotel-doc-ingest/internal/models"
	"github.com/hchen1203/hotel-doc-ingest/pkg/logger"
)

func TestDerive(t *testing.T) {
	trk := New(ledgertest.New(), logger.NewTestLogger(), 5*time.Minute)
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		rec  *models.FileRecord
		want Status
	}{
		{"nil record", nil, StatusUnknown},
		{"fresh upload", &models.FileRecord{UpdatedAt: now}, StatusWaiting},
		{"in flight", &models.FileRecord{Processing: true, UpdatedAt: now.Add(-time.Minute)}, StatusProcessing},
		{"stuck past threshold", &models.FileRecord{Processing: true, UpdatedAt: now.Add(-6 * time.Minute)}, StatusTimeout},
		{"exactly at threshold", &models.FileRecord{Processing: true, UpdatedAt: now.Add(-5 * time.Minute)}, StatusProcessing},
		{"completed", &models.FileRecord{Processed: true, ExtractedData: models.JSONMap{"total": 1.0}, UpdatedAt: now}, StatusCompleted},
		{"failed", &models.FileRecord{Processed: true, ExtractedData: models.JSONMap{"error": true, "message": "boom"}, UpdatedAt: now}, StatusFailed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, trk.Derive(tc.rec, now))
		})
	}
}

func TestCheckStatusDoesNotMutate(t *testing.T) {
	mem := ledgertest.New()
	trk := New(mem, logger.NewTestLogger(), 5*time.Minute)
	ctx := context.Background()

	require.NoError(t, mem.Insert(ctx, &models.FileRecord{
		ID:          "f1",
		Filename:    "audit.pdf",
		StoragePath: "uploads/1_audit.pdf",
		Processing:  true,
	}))
	require.NoError(t, mem.AppendLog(ctx, &models.ProcessingLog{
		FileID: "f1", RequestID: "r1", LogLevel: models.LogLevelInfo, Message: "queued",
	}))

	report, err := trk.CheckStatus(ctx, "f1")
	require.NoError(t, err)
	assert.Equal(t, StatusProcessing, report.Status)
	assert.Len(t, report.Logs, 1)

	// The check is read-only: the record still reads processing afterwards.
	rec := mem.Record("f1")
	assert.True(t, rec.Processing)
	assert.False(t, rec.Processed)
}

func TestCheckStatusUnknownFile(t *testing.T) {
	trk := New(ledgertest.New(), logger.NewTestLogger(), 0)
	_, err := trk.CheckStatus(context.Background(), "missing")
	assert.ErrorIs(t, err, ledger.ErrNotFound)
}

func TestNewDefaultsThreshold(t *testing.T) {
	trk := New(ledgertest.New(), logger.NewTestLogger(), 0)
	assert.Equal(t, DefaultStuckThreshold, trk.Threshold())
}
