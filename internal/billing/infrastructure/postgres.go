package infrastructure

import (
	"context"

	"github.com/clinicdesk/frontdesk/internal/billing/domain"
	"github.com/clinicdesk/frontdesk/internal/shared/errors"
	"github.com/clinicdesk/frontdesk/internal/shared/types"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// StockConsumer decrements medicine stock and accrues earnings within the
// billing transaction
type StockConsumer interface {
	Consume(ctx context.Context, tx pgx.Tx, medicineID types.ID, quantity int, earnings decimal.Decimal) error
}

// PostgresRepository implements domain.Repository using PostgreSQL
type PostgresRepository struct {
	pool  *pgxpool.Pool
	stock StockConsumer
}

// NewPostgresRepository creates a new PostgreSQL bill repository
func NewPostgresRepository(pool *pgxpool.Pool, stock StockConsumer) *PostgresRepository {
	return &PostgresRepository{pool: pool, stock: stock}
}

// Create persists the bill, its line items, and the stock consumption for
// every medicine line in a single transaction. If any step fails the
// entire bill is rolled back, so stock counts and bill rows never diverge.
func (r *PostgresRepository) Create(ctx context.Context, b *domain.Bill) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback(ctx)

	var exists bool
	err = tx.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM patients WHERE id = $1)`, b.PatientID,
	).Scan(&exists)
	if err != nil {
		return errors.Wrap(err, "failed to check patient")
	}
	if !exists {
		return errors.NotFound("patient", b.PatientID.String())
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO bills (id, patient_id, bill_date, total_amount, paid_amount, pending_amount, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		b.ID, b.PatientID, b.BillDate, b.TotalAmount, b.PaidAmount, b.PendingAmount, b.Status,
	)
	if err != nil {
		return errors.Wrap(err, "failed to create bill")
	}

	for _, item := range b.TreatmentItems {
		_, err = tx.Exec(ctx,
			`INSERT INTO bill_treatment_items (id, bill_id, treatment_id, treatment_name, amount)
			 VALUES ($1, $2, $3, $4, $5)`,
			item.ID, item.BillID, item.TreatmentID, item.TreatmentName, item.Amount,
		)
		if err != nil {
			return errors.Wrap(err, "failed to create treatment item")
		}
	}

	for _, item := range b.MedicineItems {
		_, err = tx.Exec(ctx,
			`INSERT INTO bill_medicine_items (id, bill_id, medicine_id, medicine_name, quantity, unit_price, amount)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			item.ID, item.BillID, item.MedicineID, item.MedicineName, item.Quantity, item.UnitPrice, item.Amount,
		)
		if err != nil {
			return errors.Wrap(err, "failed to create medicine item")
		}

		// Every medicine line carries a catalog reference, so every line
		// decrements stock. Bills loaded from storage may hold nil refs
		// after catalog cleanup, but those never pass through Create.
		if err := r.stock.Consume(ctx, tx, *item.MedicineID, item.Quantity, item.Amount); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return errors.Wrap(err, "failed to commit bill")
	}

	return nil
}

// FindByID retrieves a bill with its line items and patient name
func (r *PostgresRepository) FindByID(ctx context.Context, id types.ID) (*domain.Bill, error) {
	b := &domain.Bill{}
	err := r.pool.QueryRow(ctx,
		`SELECT b.id, b.patient_id, b.bill_date, b.total_amount, b.paid_amount,
		        b.pending_amount, b.status, COALESCE(p.name, '')
		 FROM bills b
		 LEFT JOIN patients p ON p.id = b.patient_id
		 WHERE b.id = $1`, id,
	).Scan(&b.ID, &b.PatientID, &b.BillDate, &b.TotalAmount, &b.PaidAmount,
		&b.PendingAmount, &b.Status, &b.PatientName)

	if err == pgx.ErrNoRows {
		return nil, errors.NotFound("bill", id.String())
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get bill")
	}

	if err := r.loadItems(ctx, []*domain.Bill{b}); err != nil {
		return nil, err
	}

	return b, nil
}

// List retrieves all bills newest first, with line items and patient names
func (r *PostgresRepository) List(ctx context.Context) ([]domain.Bill, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT b.id, b.patient_id, b.bill_date, b.total_amount, b.paid_amount,
		        b.pending_amount, b.status, COALESCE(p.name, '')
		 FROM bills b
		 LEFT JOIN patients p ON p.id = b.patient_id
		 ORDER BY b.bill_date DESC`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list bills")
	}
	defer rows.Close()

	var bills []domain.Bill
	for rows.Next() {
		var b domain.Bill
		if err := rows.Scan(&b.ID, &b.PatientID, &b.BillDate, &b.TotalAmount, &b.PaidAmount,
			&b.PendingAmount, &b.Status, &b.PatientName); err != nil {
			return nil, errors.Wrap(err, "failed to scan bill")
		}
		bills = append(bills, b)
	}

	refs := make([]*domain.Bill, len(bills))
	for i := range bills {
		refs[i] = &bills[i]
	}
	if err := r.loadItems(ctx, refs); err != nil {
		return nil, err
	}

	return bills, nil
}

// Settle adds a payment to a bill under a row lock and returns the
// updated bill. The lock serializes concurrent settlements so the paid
// total only ever grows by the submitted amounts.
func (r *PostgresRepository) Settle(ctx context.Context, id types.ID, amount decimal.Decimal) (*domain.Bill, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback(ctx)

	b := &domain.Bill{}
	err = tx.QueryRow(ctx,
		`SELECT id, patient_id, bill_date, total_amount, paid_amount, pending_amount, status
		 FROM bills WHERE id = $1 FOR UPDATE`, id,
	).Scan(&b.ID, &b.PatientID, &b.BillDate, &b.TotalAmount, &b.PaidAmount, &b.PendingAmount, &b.Status)

	if err == pgx.ErrNoRows {
		return nil, errors.NotFound("bill", id.String())
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to lock bill")
	}

	if err := b.Settle(amount); err != nil {
		return nil, errors.BadRequest(err.Error())
	}

	_, err = tx.Exec(ctx,
		`UPDATE bills SET paid_amount = $2, pending_amount = $3, status = $4 WHERE id = $1`,
		b.ID, b.PaidAmount, b.PendingAmount, b.Status,
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to update bill")
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, errors.Wrap(err, "failed to commit settlement")
	}

	if err := r.loadItems(ctx, []*domain.Bill{b}); err != nil {
		return nil, err
	}

	return b, nil
}

// loadItems fills the line items for a set of bills with one query per
// item table
func (r *PostgresRepository) loadItems(ctx context.Context, bills []*domain.Bill) error {
	if len(bills) == 0 {
		return nil
	}

	index := make(map[types.ID]*domain.Bill, len(bills))
	ids := make([]string, 0, len(bills))
	for _, b := range bills {
		index[b.ID] = b
		ids = append(ids, b.ID.String())
		b.TreatmentItems = []domain.TreatmentItem{}
		b.MedicineItems = []domain.MedicineItem{}
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, bill_id, treatment_id, treatment_name, amount
		 FROM bill_treatment_items WHERE bill_id = ANY($1::uuid[])`, ids)
	if err != nil {
		return errors.Wrap(err, "failed to load treatment items")
	}
	for rows.Next() {
		var item domain.TreatmentItem
		if err := rows.Scan(&item.ID, &item.BillID, &item.TreatmentID, &item.TreatmentName, &item.Amount); err != nil {
			rows.Close()
			return errors.Wrap(err, "failed to scan treatment item")
		}
		if b, ok := index[item.BillID]; ok {
			b.TreatmentItems = append(b.TreatmentItems, item)
		}
	}
	rows.Close()

	rows, err = r.pool.Query(ctx,
		`SELECT id, bill_id, medicine_id, medicine_name, quantity, unit_price, amount
		 FROM bill_medicine_items WHERE bill_id = ANY($1::uuid[])`, ids)
	if err != nil {
		return errors.Wrap(err, "failed to load medicine items")
	}
	defer rows.Close()
	for rows.Next() {
		var item domain.MedicineItem
		if err := rows.Scan(&item.ID, &item.BillID, &item.MedicineID, &item.MedicineName,
			&item.Quantity, &item.UnitPrice, &item.Amount); err != nil {
			return errors.Wrap(err, "failed to scan medicine item")
		}
		if b, ok := index[item.BillID]; ok {
			b.MedicineItems = append(b.MedicineItems, item)
		}
	}

	return nil
}
