package report

import (
	"context"
	"time"

	"github.com/clinicdesk/frontdesk/internal/shared/errors"
	"github.com/clinicdesk/frontdesk/internal/shared/types"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Repository computes financial aggregates over bills, visits, and
// expenses. All month boundaries are half-open intervals in local time.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new report repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// MonthlyReport builds the aggregate for one calendar month
func (r *Repository) MonthlyReport(ctx context.Context, month types.Month) (*MonthlyReport, error) {
	start, end := month.Start(), month.End()

	rep := &MonthlyReport{Month: month.String()}

	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(i.amount), 0)
		 FROM bill_treatment_items i
		 JOIN bills b ON b.id = i.bill_id
		 WHERE b.bill_date >= $1 AND b.bill_date < $2`,
		start, end,
	).Scan(&rep.TreatmentEarnings)
	if err != nil {
		return nil, errors.Wrap(err, "failed to sum treatment earnings")
	}

	err = r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(i.amount), 0)
		 FROM bill_medicine_items i
		 JOIN bills b ON b.id = i.bill_id
		 WHERE b.bill_date >= $1 AND b.bill_date < $2`,
		start, end,
	).Scan(&rep.MedicineEarnings)
	if err != nil {
		return nil, errors.Wrap(err, "failed to sum medicine earnings")
	}

	err = r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM expenses WHERE spent_at >= $1 AND spent_at < $2`,
		start, end,
	).Scan(&rep.TotalExpenses)
	if err != nil {
		return nil, errors.Wrap(err, "failed to sum expenses")
	}

	err = r.pool.QueryRow(ctx,
		`SELECT COUNT(DISTINCT patient_id) FROM visits WHERE visited_at >= $1 AND visited_at < $2`,
		start, end,
	).Scan(&rep.PatientCount)
	if err != nil {
		return nil, errors.Wrap(err, "failed to count patients")
	}

	err = r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM bills WHERE bill_date >= $1 AND bill_date < $2`,
		start, end,
	).Scan(&rep.BillCount)
	if err != nil {
		return nil, errors.Wrap(err, "failed to count bills")
	}

	rep.TotalEarnings = rep.TreatmentEarnings.Add(rep.MedicineEarnings)
	rep.Profit = rep.TotalEarnings.Sub(rep.TotalExpenses)

	return rep, nil
}

// Bundle builds the report response for a month: that month, the one
// before it, and the trailing six month series ending at the month
func (r *Repository) Bundle(ctx context.Context, month types.Month) (*ReportBundle, error) {
	current, err := r.MonthlyReport(ctx, month)
	if err != nil {
		return nil, err
	}

	last, err := r.MonthlyReport(ctx, month.Prev())
	if err != nil {
		return nil, err
	}

	bundle := &ReportBundle{
		CurrentMonth: *current,
		LastMonth:    *last,
		Last6Months:  make([]MonthlyReport, 0, 6),
	}

	for _, m := range month.Trailing(6) {
		switch m {
		case month:
			bundle.Last6Months = append(bundle.Last6Months, *current)
		case month.Prev():
			bundle.Last6Months = append(bundle.Last6Months, *last)
		default:
			rep, err := r.MonthlyReport(ctx, m)
			if err != nil {
				return nil, err
			}
			bundle.Last6Months = append(bundle.Last6Months, *rep)
		}
	}

	return bundle, nil
}

// DashboardStats builds the front desk summary. Today is the local
// calendar day.
func (r *Repository) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{
		TotalRevenue: decimal.Zero,
	}

	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM patients`).Scan(&stats.TotalPatients)
	if err != nil {
		return nil, errors.Wrap(err, "failed to count patients")
	}

	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
	dayEnd := dayStart.AddDate(0, 0, 1)

	err = r.pool.QueryRow(ctx,
		`SELECT COUNT(DISTINCT patient_id) FROM visits WHERE visited_at >= $1 AND visited_at < $2`,
		dayStart, dayEnd,
	).Scan(&stats.TodayPatients)
	if err != nil {
		return nil, errors.Wrap(err, "failed to count today's patients")
	}

	err = r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM bills WHERE status = 'pending'`,
	).Scan(&stats.PendingPayments)
	if err != nil {
		return nil, errors.Wrap(err, "failed to count pending bills")
	}

	err = r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(paid_amount), 0) FROM bills`,
	).Scan(&stats.TotalRevenue)
	if err != nil {
		return nil, errors.Wrap(err, "failed to sum revenue")
	}

	return stats, nil
}
