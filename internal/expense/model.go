package expense

import (
	"time"

	"github.com/clinicdesk/frontdesk/internal/shared/types"
	"github.com/shopspring/decimal"
)

// Expense is a clinic operating cost entry. ExpenseType is a free-form
// category such as rent, salary, or supplies.
type Expense struct {
	ID          types.ID        `json:"id"`
	ExpenseType string          `json:"expense_type"`
	Description string          `json:"description,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	SpentAt     time.Time       `json:"spent_at"`
}

// CreateExpenseRequest is the payload for recording an expense. SpentAt
// defaults to now when omitted.
type CreateExpenseRequest struct {
	ExpenseType string          `json:"expense_type"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	SpentAt     *time.Time      `json:"spent_at,omitempty"`
}

// UpdateExpenseRequest is the payload for correcting an expense entry
type UpdateExpenseRequest struct {
	ExpenseType *string          `json:"expense_type,omitempty"`
	Description *string          `json:"description,omitempty"`
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	SpentAt     *time.Time       `json:"spent_at,omitempty"`
}
