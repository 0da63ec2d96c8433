package doctype

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	cases := []struct {
		tag  string
		want DocType
	}{
		{"expense voucher", ExpenseVoucher},
		{"Expense_Voucher", ExpenseVoucher},
		{"EXPENSE-VOUCHER", ExpenseVoucher},
		{"voucher", ExpenseVoucher},
		{"financial report", FinancialReport},
		{"monthly statistics", FinancialReport},
		{"OccupancyReport", OccupancyReport},
		{"occupancy", OccupancyReport},
		{"city ledger", CityLedger},
		{"night audit", NightAudit},
		{"no-show report", NoShowReport},
		{"noshow", NoShowReport},
		{"", Unknown},
		{"inventory list", Unknown},
		{"receipt", Unknown},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Parse(tc.tag), "tag %q", tc.tag)
	}
}

func TestInfer(t *testing.T) {
	cases := []struct {
		filename string
		want     DocType
	}{
		{"occupancy_march_2024.pdf", OccupancyReport},
		{"Night-Audit-0301.pdf", NightAudit},
		{"no_show_report.pdf", NoShowReport},
		{"expense-voucher-112.pdf", ExpenseVoucher},
		{"city_ledger_feb.pdf", CityLedger},
		{"monthly_summary.pdf", FinancialReport},
		{"scan0001.pdf", Unknown},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Infer(tc.filename), "filename %q", tc.filename)
	}
}

func TestString(t *testing.T) {
	assert.Equal(t, "occupancy report", OccupancyReport.String())
	assert.Equal(t, "unknown", Unknown.String())
	assert.Equal(t, "doctype(99)", DocType(99).String())
}
