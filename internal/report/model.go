package report

import (
	"github.com/shopspring/decimal"
)

// MonthlyReport aggregates one calendar month of clinic finances.
// Earnings come from bill line items dated in the month, split by line
// type; profit is earnings minus expenses.
type MonthlyReport struct {
	Month             string          `json:"month"`
	TreatmentEarnings decimal.Decimal `json:"treatment_earnings"`
	MedicineEarnings  decimal.Decimal `json:"medicine_earnings"`
	TotalEarnings     decimal.Decimal `json:"total_earnings"`
	TotalExpenses     decimal.Decimal `json:"total_expenses"`
	Profit            decimal.Decimal `json:"profit"`
	PatientCount      int             `json:"patient_count"`
	BillCount         int             `json:"bill_count"`
}

// ReportBundle is the standard report response: the requested month, the
// month before it, and a six month trailing series oldest first
type ReportBundle struct {
	CurrentMonth MonthlyReport   `json:"current_month"`
	LastMonth    MonthlyReport   `json:"last_month"`
	Last6Months  []MonthlyReport `json:"last_6_months"`
}

// DashboardStats is the front desk landing page summary. PendingPayments
// counts the bills still carrying a balance, not the amount outstanding.
type DashboardStats struct {
	TotalPatients   int             `json:"total_patients"`
	TodayPatients   int             `json:"today_patients"`
	PendingPayments int             `json:"pending_payments"`
	TotalRevenue    decimal.Decimal `json:"total_revenue"`
}
