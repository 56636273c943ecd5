package report

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

func TestMonthlyReportProfitArithmetic(t *testing.T) {
	rep := MonthlyReport{
		Month:             "2026-08",
		TreatmentEarnings: decimal.RequireFromString("42000.00"),
		MedicineEarnings:  decimal.RequireFromString("8750.50"),
		TotalExpenses:     decimal.RequireFromString("31000.00"),
	}
	rep.TotalEarnings = rep.TreatmentEarnings.Add(rep.MedicineEarnings)
	rep.Profit = rep.TotalEarnings.Sub(rep.TotalExpenses)

	if !rep.TotalEarnings.Equal(decimal.RequireFromString("50750.50")) {
		t.Errorf("expected total earnings 50750.50, got %s", rep.TotalEarnings)
	}
	if !rep.Profit.Equal(decimal.RequireFromString("19750.50")) {
		t.Errorf("expected profit 19750.50, got %s", rep.Profit)
	}
}

func TestMonthlyReportNegativeProfit(t *testing.T) {
	// A slow month can run at a loss; profit goes negative, not to zero.
	rep := MonthlyReport{
		TotalEarnings: decimal.RequireFromString("12000"),
		TotalExpenses: decimal.RequireFromString("30000"),
	}
	rep.Profit = rep.TotalEarnings.Sub(rep.TotalExpenses)

	if !rep.Profit.Equal(decimal.RequireFromString("-18000")) {
		t.Errorf("expected profit -18000, got %s", rep.Profit)
	}
}

func TestReportBundleJSONShape(t *testing.T) {
	bundle := ReportBundle{
		CurrentMonth: MonthlyReport{Month: "2026-08"},
		LastMonth:    MonthlyReport{Month: "2026-07"},
		Last6Months: []MonthlyReport{
			{Month: "2026-03"}, {Month: "2026-04"}, {Month: "2026-05"},
			{Month: "2026-06"}, {Month: "2026-07"}, {Month: "2026-08"},
		},
	}

	data, err := json.Marshal(bundle)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded struct {
		CurrentMonth MonthlyReport   `json:"current_month"`
		LastMonth    MonthlyReport   `json:"last_month"`
		Last6Months  []MonthlyReport `json:"last_6_months"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if decoded.CurrentMonth.Month != "2026-08" {
		t.Errorf("expected current month 2026-08, got %s", decoded.CurrentMonth.Month)
	}
	if len(decoded.Last6Months) != 6 {
		t.Fatalf("expected 6 trailing months, got %d", len(decoded.Last6Months))
	}
	if decoded.Last6Months[0].Month != "2026-03" {
		t.Errorf("trailing series should be oldest first, got %s", decoded.Last6Months[0].Month)
	}
}

func TestDashboardStatsZeroValues(t *testing.T) {
	// An empty clinic reports zeros, not nulls.
	stats := DashboardStats{
		TotalRevenue: decimal.Zero,
	}

	data, err := json.Marshal(stats)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if decoded["pending_payments"] != float64(0) {
		t.Errorf("expected pending_payments 0, got %v", decoded["pending_payments"])
	}
	if decoded["total_patients"] != float64(0) {
		t.Errorf("expected total_patients 0, got %v", decoded["total_patients"])
	}
}

func TestDashboardStatsPendingPaymentsIsACount(t *testing.T) {
	// Two bills carry a balance; the dashboard reports 2, not the sum of
	// their outstanding amounts.
	stats := DashboardStats{
		PendingPayments: 2,
		TotalRevenue:    decimal.RequireFromString("940.00"),
	}

	data, err := json.Marshal(stats)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if decoded["pending_payments"] != float64(2) {
		t.Errorf("expected pending_payments 2, got %v", decoded["pending_payments"])
	}
	if _, ok := decoded["total_revenue"].(string); !ok {
		t.Errorf("total_revenue should stay a decimal string, got %T", decoded["total_revenue"])
	}
}
