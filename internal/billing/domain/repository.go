package domain

import (
	"context"

	"github.com/clinicdesk/frontdesk/internal/shared/types"
	"github.com/shopspring/decimal"
)

// Repository defines the interface for bill persistence. Create commits
// the bill row, every line item, and the stock consumption for each
// medicine line as one transaction; Settle performs a row-locked
// read-modify-write of the settlement fields.
type Repository interface {
	Create(ctx context.Context, b *Bill) error
	FindByID(ctx context.Context, id types.ID) (*Bill, error)
	List(ctx context.Context) ([]Bill, error)
	Settle(ctx context.Context, id types.ID, amount decimal.Decimal) (*Bill, error)
}
