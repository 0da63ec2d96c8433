package doctype

import (
	"context"
	"fmt"
	"time"

	"github.com/hchen1203/hotel-doc-ingest/internal/ledger"
	"github.com/hchen1203/hotel-doc-ingest/internal/models"
	"github.com/hchen1203/hotel-doc-ingest/pkg/logger"
)

// Router maps a document type tag to a coercion-and-insert handler writing
// into that type's target schema table. It is the only writer of target
// schema rows.
type Router struct {
	ledger   ledger.Ledger
	logger   logger.Logger
	handlers map[DocType]handler
}

type handler func(fileID, hotelID string, p payload) (interface{}, error)

func NewRouter(ldg ledger.Ledger, log logger.Logger) *Router {
	r := &Router{ledger: ldg, logger: log}
	r.handlers = map[DocType]handler{
		ExpenseVoucher:  buildExpenseVoucher,
		FinancialReport: buildFinancialReport,
		OccupancyReport: buildOccupancyReport,
		CityLedger:      buildCityLedgerEntry,
		NightAudit:      buildNightAudit,
		NoShowReport:    buildNoShowReport,
	}
	return r
}

// Route coerces the extracted payload and inserts one row into the target
// schema for the given document type. Unknown types are logged as a warning
// and retained as unstructured JSON on the file record only; that is not an
// error. On success the file record's extracted_data is flagged inserted.
func (r *Router) Route(ctx context.Context, fileID, requestID, tag string, data models.JSONMap) error {
	t := Parse(tag)
	if t == Unknown {
		r.logger.Warn("Unknown document type, payload retained as unstructured JSON",
			logger.String("fileId", fileID),
			logger.String("documentType", tag),
		)
		r.appendLog(ctx, requestID, fileID, models.LogLevelWarning,
			fmt.Sprintf("unknown document type %q, no target schema row written", tag),
			models.JSONMap{"documentType": tag})
		return nil
	}

	hotelID := Str(data["hotelId"])
	if hotelID == "" {
		hotelID = models.HotelIDUnknown
	}

	row, err := r.handlers[t](fileID, hotelID, payload(data))
	if err != nil {
		r.appendLog(ctx, requestID, fileID, models.LogLevelError,
			fmt.Sprintf("failed to coerce %s payload: %v", t, err), nil)
		return fmt.Errorf("coerce %s payload: %w", t, err)
	}

	if err := r.ledger.InsertRow(ctx, row); err != nil {
		r.appendLog(ctx, requestID, fileID, models.LogLevelError,
			fmt.Sprintf("failed to insert %s row: %v", t, err), nil)
		return fmt.Errorf("insert %s row: %w", t, err)
	}

	now := time.Now()
	if err := r.ledger.MarkInserted(ctx, fileID, now); err != nil {
		r.logger.Error("Row inserted but file record not flagged",
			logger.String("fileId", fileID),
			logger.Error(err),
		)
	}

	r.appendLog(ctx, requestID, fileID, models.LogLevelSuccess,
		fmt.Sprintf("inserted %s row", t),
		models.JSONMap{"documentType": t.String(), "hotelId": hotelID})
	return nil
}

func (r *Router) appendLog(ctx context.Context, requestID, fileID string, level models.LogLevel, msg string, details models.JSONMap) {
	_ = r.ledger.AppendLog(ctx, &models.ProcessingLog{
		RequestID: requestID,
		FileID:    fileID,
		LogLevel:  level,
		Message:   msg,
		Details:   details,
	})
}

// payload wraps the raw extracted JSON with coercing accessors. Field lookups
// fall back through lowerCamelCase synonyms the capability has been observed
// to produce.
type payload map[string]interface{}

func (p payload) get(keys ...string) interface{} {
	for _, k := range keys {
		if v, ok := p[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func (p payload) float(keys ...string) (float64, error) { return Float(p.get(keys...)) }
func (p payload) int(keys ...string) (int, error)       { return Int(p.get(keys...)) }
func (p payload) date(keys ...string) (string, error)   { return Date(p.get(keys...)) }
func (p payload) str(keys ...string) string             { return Str(p.get(keys...)) }

func buildExpenseVoucher(fileID, hotelID string, p payload) (interface{}, error) {
	row := &models.ExpenseVoucher{
		FileID:        fileID,
		HotelID:       hotelID,
		VoucherNumber: p.str("voucherNumber", "voucherNo"),
		Vendor:        p.str("vendor", "payee"),
		Category:      p.str("category"),
		Description:   p.str("description"),
		PaymentMethod: p.str("paymentMethod"),
	}
	var err error
	if row.Date, err = p.date("date", "voucherDate"); err != nil {
		return nil, err
	}
	if row.Amount, err = p.float("amount"); err != nil {
		return nil, err
	}
	if row.TaxAmount, err = p.float("taxAmount", "tax"); err != nil {
		return nil, err
	}
	if row.TotalAmount, err = p.float("totalAmount", "total"); err != nil {
		return nil, err
	}
	return row, nil
}

func buildFinancialReport(fileID, hotelID string, p payload) (interface{}, error) {
	row := &models.FinancialReport{FileID: fileID, HotelID: hotelID}
	var err error
	if row.ReportMonth, err = p.date("reportMonth", "month", "date"); err != nil {
		return nil, err
	}
	for _, f := range []struct {
		dst  *float64
		keys []string
	}{
		{&row.TotalRevenue, []string{"totalRevenue"}},
		{&row.RoomRevenue, []string{"roomRevenue"}},
		{&row.FoodBeverageRevenue, []string{"foodBeverageRevenue", "fbRevenue"}},
		{&row.OtherRevenue, []string{"otherRevenue"}},
		{&row.TotalExpenses, []string{"totalExpenses"}},
		{&row.NetIncome, []string{"netIncome"}},
		{&row.OccupancyRate, []string{"occupancyRate"}},
		{&row.AverageDailyRate, []string{"averageDailyRate", "adr"}},
		{&row.RevPAR, []string{"revPar", "revpar"}},
	} {
		if *f.dst, err = p.float(f.keys...); err != nil {
			return nil, err
		}
	}
	return row, nil
}

func buildOccupancyReport(fileID, hotelID string, p payload) (interface{}, error) {
	row := &models.OccupancyReport{FileID: fileID, HotelID: hotelID}
	var err error
	if row.Date, err = p.date("date", "reportDate"); err != nil {
		return nil, err
	}
	if row.TotalRoomsAvailable, err = p.int("totalRoomsAvailable", "totalRooms"); err != nil {
		return nil, err
	}
	if row.RoomsOccupied, err = p.int("roomsOccupied", "occupiedRooms"); err != nil {
		return nil, err
	}
	if row.OccupancyRate, err = p.float("occupancyRate"); err != nil {
		return nil, err
	}
	if row.AverageDailyRate, err = p.float("averageDailyRate", "adr"); err != nil {
		return nil, err
	}
	if row.RevPAR, err = p.float("revPar", "revpar"); err != nil {
		return nil, err
	}
	if row.TotalGuests, err = p.int("totalGuests", "guests"); err != nil {
		return nil, err
	}
	return row, nil
}

func buildCityLedgerEntry(fileID, hotelID string, p payload) (interface{}, error) {
	row := &models.CityLedgerEntry{
		FileID:          fileID,
		HotelID:         hotelID,
		AccountName:     p.str("accountName", "account"),
		ReferenceNumber: p.str("referenceNumber", "reference"),
		Description:     p.str("description"),
	}
	var err error
	if row.Date, err = p.date("date"); err != nil {
		return nil, err
	}
	if row.DebitAmount, err = p.float("debitAmount", "debit"); err != nil {
		return nil, err
	}
	if row.CreditAmount, err = p.float("creditAmount", "credit"); err != nil {
		return nil, err
	}
	if row.Balance, err = p.float("balance"); err != nil {
		return nil, err
	}
	return row, nil
}

func buildNightAudit(fileID, hotelID string, p payload) (interface{}, error) {
	row := &models.NightAudit{FileID: fileID, HotelID: hotelID}
	var err error
	if row.AuditDate, err = p.date("auditDate", "date"); err != nil {
		return nil, err
	}
	if row.RoomsAvailable, err = p.int("roomsAvailable", "totalRoomsAvailable"); err != nil {
		return nil, err
	}
	if row.RoomsOccupied, err = p.int("roomsOccupied"); err != nil {
		return nil, err
	}
	if row.TotalRevenue, err = p.float("totalRevenue"); err != nil {
		return nil, err
	}
	if row.RoomRevenue, err = p.float("roomRevenue"); err != nil {
		return nil, err
	}
	if row.CashCollected, err = p.float("cashCollected", "cash"); err != nil {
		return nil, err
	}
	if row.CardCollected, err = p.float("cardCollected", "card"); err != nil {
		return nil, err
	}
	return row, nil
}

func buildNoShowReport(fileID, hotelID string, p payload) (interface{}, error) {
	row := &models.NoShowReport{
		FileID:            fileID,
		HotelID:           hotelID,
		ReservationNumber: p.str("reservationNumber", "reservationNo"),
		GuestName:         p.str("guestName"),
		RoomType:          p.str("roomType"),
	}
	var err error
	if row.Date, err = p.date("date"); err != nil {
		return nil, err
	}
	if row.NoShowCharge, err = p.float("noShowCharge", "charge"); err != nil {
		return nil, err
	}
	if row.Rooms, err = p.int("rooms", "roomCount"); err != nil {
		return nil, err
	}
	return row, nil
}
