package models

import "time"

// Target schema rows, one table per document type. Every row is attributed to
// a hotel and back-references the source file. Dates are stored in canonical
// YYYY-MM-DD form.

type ExpenseVoucher struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	FileID        string    `gorm:"size:36;index" json:"fileId"`
	HotelID       string    `gorm:"size:128;not null" json:"hotelId"`
	VoucherNumber string    `gorm:"size:128" json:"voucherNumber"`
	Date          string    `gorm:"size:10" json:"date"`
	Vendor        string    `gorm:"size:256" json:"vendor"`
	Category      string    `gorm:"size:128" json:"category"`
	Description   string    `gorm:"size:1024" json:"description"`
	Amount        float64   `json:"amount"`
	TaxAmount     float64   `json:"taxAmount"`
	TotalAmount   float64   `json:"totalAmount"`
	PaymentMethod string    `gorm:"size:64" json:"paymentMethod"`
	CreatedAt     time.Time `json:"createdAt"`
}

func (ExpenseVoucher) TableName() string { return "expense_vouchers" }

type FinancialReport struct {
	ID                  uint      `gorm:"primaryKey" json:"id"`
	FileID              string    `gorm:"size:36;index" json:"fileId"`
	HotelID             string    `gorm:"size:128;not null" json:"hotelId"`
	ReportMonth         string    `gorm:"size:10" json:"reportMonth"`
	TotalRevenue        float64   `json:"totalRevenue"`
	RoomRevenue         float64   `json:"roomRevenue"`
	FoodBeverageRevenue float64   `json:"foodBeverageRevenue"`
	OtherRevenue        float64   `json:"otherRevenue"`
	TotalExpenses       float64   `json:"totalExpenses"`
	NetIncome           float64   `json:"netIncome"`
	OccupancyRate       float64   `json:"occupancyRate"`
	AverageDailyRate    float64   `json:"averageDailyRate"`
	RevPAR              float64   `json:"revPar"`
	CreatedAt           time.Time `json:"createdAt"`
}

func (FinancialReport) TableName() string { return "financial_reports" }

type OccupancyReport struct {
	ID                  uint      `gorm:"primaryKey" json:"id"`
	FileID              string    `gorm:"size:36;index" json:"fileId"`
	HotelID             string    `gorm:"size:128;not null" json:"hotelId"`
	Date                string    `gorm:"size:10" json:"date"`
	TotalRoomsAvailable int       `json:"totalRoomsAvailable"`
	RoomsOccupied       int       `json:"roomsOccupied"`
	OccupancyRate       float64   `json:"occupancyRate"`
	AverageDailyRate    float64   `json:"averageDailyRate"`
	RevPAR              float64   `json:"revPar"`
	TotalGuests         int       `json:"totalGuests"`
	CreatedAt           time.Time `json:"createdAt"`
}

func (OccupancyReport) TableName() string { return "occupancy_reports" }

type CityLedgerEntry struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	FileID          string    `gorm:"size:36;index" json:"fileId"`
	HotelID         string    `gorm:"size:128;not null" json:"hotelId"`
	Date            string    `gorm:"size:10" json:"date"`
	AccountName     string    `gorm:"size:256" json:"accountName"`
	ReferenceNumber string    `gorm:"size:128" json:"referenceNumber"`
	Description     string    `gorm:"size:1024" json:"description"`
	DebitAmount     float64   `json:"debitAmount"`
	CreditAmount    float64   `json:"creditAmount"`
	Balance         float64   `json:"balance"`
	CreatedAt       time.Time `json:"createdAt"`
}

func (CityLedgerEntry) TableName() string { return "city_ledger_entries" }

type NightAudit struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	FileID         string    `gorm:"size:36;index" json:"fileId"`
	HotelID        string    `gorm:"size:128;not null" json:"hotelId"`
	AuditDate      string    `gorm:"size:10" json:"auditDate"`
	RoomsAvailable int       `json:"roomsAvailable"`
	RoomsOccupied  int       `json:"roomsOccupied"`
	TotalRevenue   float64   `json:"totalRevenue"`
	RoomRevenue    float64   `json:"roomRevenue"`
	CashCollected  float64   `json:"cashCollected"`
	CardCollected  float64   `json:"cardCollected"`
	CreatedAt      time.Time `json:"createdAt"`
}

func (NightAudit) TableName() string { return "night_audits" }

type NoShowReport struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	FileID            string    `gorm:"size:36;index" json:"fileId"`
	HotelID           string    `gorm:"size:128;not null" json:"hotelId"`
	Date              string    `gorm:"size:10" json:"date"`
	ReservationNumber string    `gorm:"size:128" json:"reservationNumber"`
	GuestName         string    `gorm:"size:256" json:"guestName"`
	RoomType          string    `gorm:"size:128" json:"roomType"`
	NoShowCharge      float64   `json:"noShowCharge"`
	Rooms             int       `json:"rooms"`
	CreatedAt         time.Time `json:"createdAt"`
}

func (NoShowReport) TableName() string { return "no_show_reports" }
