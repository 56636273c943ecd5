package catalog

import (
	"context"

	"github.com/clinicdesk/frontdesk/internal/shared/errors"
	"github.com/clinicdesk/frontdesk/internal/shared/types"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Repository provides database operations for the medicine and treatment
// catalog, including the stock accounting triggered by billing
type Repository struct {
	pool               *pgxpool.Pool
	allowNegativeStock bool
}

// NewRepository creates a new catalog repository
func NewRepository(pool *pgxpool.Pool, allowNegativeStock bool) *Repository {
	return &Repository{pool: pool, allowNegativeStock: allowNegativeStock}
}

// --- Medicine operations ---

// CreateMedicine adds a medicine to the catalog
func (r *Repository) CreateMedicine(ctx context.Context, m *Medicine) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO medicines (id, name, unit_price, quantity, total_earnings)
		 VALUES ($1, $2, $3, $4, $5)`,
		m.ID, m.Name, m.UnitPrice, m.Quantity, m.TotalEarnings,
	)
	if err != nil {
		return errors.Wrap(err, "failed to create medicine")
	}
	return nil
}

// GetMedicine retrieves a medicine by ID
func (r *Repository) GetMedicine(ctx context.Context, id types.ID) (*Medicine, error) {
	m := &Medicine{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, unit_price, quantity, total_earnings FROM medicines WHERE id = $1`, id,
	).Scan(&m.ID, &m.Name, &m.UnitPrice, &m.Quantity, &m.TotalEarnings)

	if err == pgx.ErrNoRows {
		return nil, errors.NotFound("medicine", id.String())
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get medicine")
	}

	return m, nil
}

// ListMedicines lists the medicine catalog
func (r *Repository) ListMedicines(ctx context.Context) ([]Medicine, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, unit_price, quantity, total_earnings FROM medicines ORDER BY name`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list medicines")
	}
	defer rows.Close()

	var medicines []Medicine
	for rows.Next() {
		var m Medicine
		if err := rows.Scan(&m.ID, &m.Name, &m.UnitPrice, &m.Quantity, &m.TotalEarnings); err != nil {
			return nil, errors.Wrap(err, "failed to scan medicine")
		}
		medicines = append(medicines, m)
	}

	return medicines, nil
}

// UpdateMedicine updates a medicine's catalog fields
func (r *Repository) UpdateMedicine(ctx context.Context, m *Medicine) error {
	result, err := r.pool.Exec(ctx,
		`UPDATE medicines SET name = $2, unit_price = $3, quantity = $4 WHERE id = $1`,
		m.ID, m.Name, m.UnitPrice, m.Quantity,
	)
	if err != nil {
		return errors.Wrap(err, "failed to update medicine")
	}

	if result.RowsAffected() == 0 {
		return errors.NotFound("medicine", m.ID.String())
	}

	return nil
}

// DeleteMedicine removes a medicine from the catalog. Historical bill line
// items keep their snapshot of its name and price.
func (r *Repository) DeleteMedicine(ctx context.Context, id types.ID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM medicines WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "failed to delete medicine")
	}

	if result.RowsAffected() == 0 {
		return errors.NotFound("medicine", id.String())
	}

	return nil
}

// Consume decrements a medicine's stock and accrues its earnings inside
// the caller's transaction. The update is a single read-modify-write
// statement so two concurrent bills cannot clobber each other's decrement.
// Not idempotent: the billing engine calls it exactly once per line.
func (r *Repository) Consume(ctx context.Context, tx pgx.Tx, medicineID types.ID, quantity int, earnings decimal.Decimal) error {
	var newQuantity int
	err := tx.QueryRow(ctx,
		`UPDATE medicines
		 SET quantity = quantity - $2, total_earnings = total_earnings + $3
		 WHERE id = $1
		 RETURNING quantity`,
		medicineID, quantity, earnings,
	).Scan(&newQuantity)

	if err == pgx.ErrNoRows {
		return errors.NotFound("medicine", medicineID.String())
	}
	if err != nil {
		return errors.Wrap(err, "failed to consume medicine stock")
	}

	if newQuantity < 0 && !r.allowNegativeStock {
		return errors.Conflict("insufficient stock for medicine " + medicineID.String())
	}

	return nil
}

// --- Treatment operations ---

// CreateTreatment adds a treatment to the catalog
func (r *Repository) CreateTreatment(ctx context.Context, t *Treatment) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO treatments (id, name, price) VALUES ($1, $2, $3)`,
		t.ID, t.Name, t.Price,
	)
	if err != nil {
		return errors.Wrap(err, "failed to create treatment")
	}
	return nil
}

// GetTreatment retrieves a treatment by ID
func (r *Repository) GetTreatment(ctx context.Context, id types.ID) (*Treatment, error) {
	t := &Treatment{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, price FROM treatments WHERE id = $1`, id,
	).Scan(&t.ID, &t.Name, &t.Price)

	if err == pgx.ErrNoRows {
		return nil, errors.NotFound("treatment", id.String())
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get treatment")
	}

	return t, nil
}

// ListTreatments lists the treatment catalog
func (r *Repository) ListTreatments(ctx context.Context) ([]Treatment, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, price FROM treatments ORDER BY name`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list treatments")
	}
	defer rows.Close()

	var treatments []Treatment
	for rows.Next() {
		var t Treatment
		if err := rows.Scan(&t.ID, &t.Name, &t.Price); err != nil {
			return nil, errors.Wrap(err, "failed to scan treatment")
		}
		treatments = append(treatments, t)
	}

	return treatments, nil
}

// UpdateTreatment updates a treatment
func (r *Repository) UpdateTreatment(ctx context.Context, t *Treatment) error {
	result, err := r.pool.Exec(ctx,
		`UPDATE treatments SET name = $2, price = $3 WHERE id = $1`,
		t.ID, t.Name, t.Price,
	)
	if err != nil {
		return errors.Wrap(err, "failed to update treatment")
	}

	if result.RowsAffected() == 0 {
		return errors.NotFound("treatment", t.ID.String())
	}

	return nil
}

// DeleteTreatment removes a treatment from the catalog
func (r *Repository) DeleteTreatment(ctx context.Context, id types.ID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM treatments WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "failed to delete treatment")
	}

	if result.RowsAffected() == 0 {
		return errors.NotFound("treatment", id.String())
	}

	return nil
}
