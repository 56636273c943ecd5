package expense

import (
	"context"

	"github.com/clinicdesk/frontdesk/internal/shared/errors"
	"github.com/clinicdesk/frontdesk/internal/shared/types"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository provides database operations for expenses
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new expense repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create records an expense
func (r *Repository) Create(ctx context.Context, e *Expense) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO expenses (id, expense_type, description, amount, spent_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		e.ID, e.ExpenseType, e.Description, e.Amount, e.SpentAt,
	)
	if err != nil {
		return errors.Wrap(err, "failed to create expense")
	}
	return nil
}

// Get retrieves an expense by ID
func (r *Repository) Get(ctx context.Context, id types.ID) (*Expense, error) {
	e := &Expense{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, expense_type, description, amount, spent_at FROM expenses WHERE id = $1`, id,
	).Scan(&e.ID, &e.ExpenseType, &e.Description, &e.Amount, &e.SpentAt)

	if err == pgx.ErrNoRows {
		return nil, errors.NotFound("expense", id.String())
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get expense")
	}

	return e, nil
}

// List retrieves expenses newest first, optionally restricted to one month
func (r *Repository) List(ctx context.Context, month *types.Month) ([]Expense, error) {
	query := `SELECT id, expense_type, description, amount, spent_at FROM expenses`
	args := []any{}
	if month != nil {
		query += ` WHERE spent_at >= $1 AND spent_at < $2`
		args = append(args, month.Start(), month.End())
	}
	query += ` ORDER BY spent_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list expenses")
	}
	defer rows.Close()

	var expenses []Expense
	for rows.Next() {
		var e Expense
		if err := rows.Scan(&e.ID, &e.ExpenseType, &e.Description, &e.Amount, &e.SpentAt); err != nil {
			return nil, errors.Wrap(err, "failed to scan expense")
		}
		expenses = append(expenses, e)
	}

	return expenses, nil
}

// Update corrects an expense entry
func (r *Repository) Update(ctx context.Context, e *Expense) error {
	result, err := r.pool.Exec(ctx,
		`UPDATE expenses SET expense_type = $2, description = $3, amount = $4, spent_at = $5 WHERE id = $1`,
		e.ID, e.ExpenseType, e.Description, e.Amount, e.SpentAt,
	)
	if err != nil {
		return errors.Wrap(err, "failed to update expense")
	}

	if result.RowsAffected() == 0 {
		return errors.NotFound("expense", e.ID.String())
	}

	return nil
}

// Delete removes an expense entry
func (r *Repository) Delete(ctx context.Context, id types.ID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "failed to delete expense")
	}

	if result.RowsAffected() == 0 {
		return errors.NotFound("expense", id.String())
	}

	return nil
}
