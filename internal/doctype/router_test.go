package doctype

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hchen1203/hotel-doc-ingest/internal/ledger/ledgertest"
	"github.com/hchen1203/hotel-doc-ingest/internal/models"
	"github.com/hchen1203/hotel-doc-ingest/pkg/logger"
)

func newTestRouter(t *testing.T) (*Router, *ledgertest.MemLedger, *logger.TestLogger) {
	t.Helper()
	mem := ledgertest.New()
	log := logger.NewTestLogger()
	return NewRouter(mem, log), mem, log
}

func seedFile(t *testing.T, mem *ledgertest.MemLedger, id string) {
	t.Helper()
	require.NoError(t, mem.Insert(context.Background(), &models.FileRecord{
		ID:          id,
		Filename:    "report.pdf",
		StoragePath: "uploads/1_report.pdf",
		HotelID:     models.HotelIDUnknown,
	}))
}

func TestRouteOccupancyReport(t *testing.T) {
	r, mem, _ := newTestRouter(t)
	seedFile(t, mem, "f1")

	err := r.Route(context.Background(), "f1", "req1", "occupancy report", models.JSONMap{
		"hotelId":             "hotel-7",
		"date":                "03/15/2024",
		"totalRoomsAvailable": "150",
		"roomsOccupied":       128,
		"occupancyRate":       "85.3%",
		"averageDailyRate":    "$245.50",
		"revPar":              "$209.41",
		"totalGuests":         186,
	})
	require.NoError(t, err)

	rows := mem.Rows()
	require.Len(t, rows, 1)
	row, ok := rows[0].(*models.OccupancyReport)
	require.True(t, ok)
	assert.Equal(t, "f1", row.FileID)
	assert.Equal(t, "hotel-7", row.HotelID)
	assert.Equal(t, "2024-03-15", row.Date)
	assert.Equal(t, 150, row.TotalRoomsAvailable)
	assert.Equal(t, 128, row.RoomsOccupied)
	assert.InDelta(t, 85.3, row.OccupancyRate, 1e-9)
	assert.InDelta(t, 245.50, row.AverageDailyRate, 1e-9)
	assert.InDelta(t, 209.41, row.RevPAR, 1e-9)

	rec := mem.Record("f1")
	require.NotNil(t, rec)
	assert.Equal(t, true, rec.ExtractedData["inserted"])
}

func TestRouteExpenseVoucherFormattedAmounts(t *testing.T) {
	r, mem, _ := newTestRouter(t)
	seedFile(t, mem, "f2")

	err := r.Route(context.Background(), "f2", "req2", "expense_voucher", models.JSONMap{
		"voucherNumber": "EV-2024-0112",
		"vendor":        "City Linen Services",
		"date":          "2024-02-01",
		"amount":        "$1,234.56",
		"taxAmount":     "$98.76",
		"totalAmount":   "$1,333.32",
	})
	require.NoError(t, err)

	rows := mem.Rows()
	require.Len(t, rows, 1)
	row := rows[0].(*models.ExpenseVoucher)
	assert.Equal(t, "EV-2024-0112", row.VoucherNumber)
	assert.InDelta(t, 1234.56, row.Amount, 1e-9)
	assert.InDelta(t, 1333.32, row.TotalAmount, 1e-9)
	assert.Equal(t, models.HotelIDUnknown, row.HotelID)
}

func TestRouteUnknownTypeIsNotAnError(t *testing.T) {
	r, mem, log := newTestRouter(t)
	seedFile(t, mem, "f3")

	err := r.Route(context.Background(), "f3", "req3", "mystery document", models.JSONMap{
		"anything": "goes",
	})
	require.NoError(t, err)

	assert.Empty(t, mem.Rows())
	assert.True(t, log.Contains("WARN", "Unknown document type"))

	// The file record keeps its payload untouched; inserted is never set.
	rec := mem.Record("f3")
	require.NotNil(t, rec)
	_, flagged := rec.ExtractedData["inserted"]
	assert.False(t, flagged)
}

func TestRouteCoercionFailureLeavesInsertedUnset(t *testing.T) {
	r, mem, _ := newTestRouter(t)
	seedFile(t, mem, "f4")

	err := r.Route(context.Background(), "f4", "req4", "occupancy report", models.JSONMap{
		"date": "the ides of march",
	})
	require.Error(t, err)
	assert.Empty(t, mem.Rows())

	rec := mem.Record("f4")
	require.NotNil(t, rec)
	_, flagged := rec.ExtractedData["inserted"]
	assert.False(t, flagged)
}

func TestRouteInsertFailure(t *testing.T) {
	r, mem, _ := newTestRouter(t)
	seedFile(t, mem, "f5")
	mem.InsertRowErr = errors.New("connection reset")

	err := r.Route(context.Background(), "f5", "req5", "night audit", models.JSONMap{
		"auditDate":    "2024-03-01",
		"totalRevenue": 1000,
	})
	require.Error(t, err)

	rec := mem.Record("f5")
	require.NotNil(t, rec)
	_, flagged := rec.ExtractedData["inserted"]
	assert.False(t, flagged)
}
