package doctype

import (
	"fmt"
	"strings"
)

// DocType is the closed set of document types the router can dispatch on.
// Adding a type means adding a constant here, a case in Parse, and a handler
// in the router's dispatch table.
type DocType int

const (
	Unknown DocType = iota
	ExpenseVoucher
	FinancialReport
	OccupancyReport
	CityLedger
	NightAudit
	NoShowReport
)

var names = map[DocType]string{
	Unknown:         "unknown",
	ExpenseVoucher:  "expense voucher",
	FinancialReport: "financial report",
	OccupancyReport: "occupancy report",
	CityLedger:      "city ledger",
	NightAudit:      "night audit",
	NoShowReport:    "no-show report",
}

func (t DocType) String() string {
	if s, ok := names[t]; ok {
		return s
	}
	return fmt.Sprintf("doctype(%d)", int(t))
}

// Parse maps a free-text document type tag to a DocType. Matching is
// case-insensitive and ignores spaces, hyphens and underscores, so
// "Occupancy Report", "occupancy_report" and "OccupancyReport" all resolve
// to the same type. Unrecognized tags yield Unknown, never an error.
func Parse(tag string) DocType {
	switch normalize(tag) {
	case "expensevoucher", "expense", "expensereport", "voucher":
		return ExpenseVoucher
	case "financialreport", "monthlystatistics", "monthlyreport", "financialstatement":
		return FinancialReport
	case "occupancyreport", "occupancy":
		return OccupancyReport
	case "cityledger", "ledger":
		return CityLedger
	case "nightaudit", "nightauditreport":
		return NightAudit
	case "noshowreport", "noshow":
		return NoShowReport
	default:
		return Unknown
	}
}

// Infer guesses a document type from a filename. Upload-time heuristic only;
// the operator can correct it later.
func Infer(filename string) DocType {
	name := normalize(filename)
	for _, c := range []struct {
		needle string
		t      DocType
	}{
		{"noshow", NoShowReport},
		{"nightaudit", NightAudit},
		{"cityledger", CityLedger},
		{"occupancy", OccupancyReport},
		{"expense", ExpenseVoucher},
		{"voucher", ExpenseVoucher},
		{"financial", FinancialReport},
		{"monthly", FinancialReport},
	} {
		if strings.Contains(name, c.needle) {
			return c.t
		}
	}
	return Unknown
}

func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "", "-", "", "_", "").Replace(s)
}
