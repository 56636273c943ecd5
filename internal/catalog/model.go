package catalog

import (
	"github.com/clinicdesk/frontdesk/internal/shared/types"
	"github.com/shopspring/decimal"
)

// Medicine is an inventory item. Quantity tracks on-hand stock and may go
// negative when more units are billed than were recorded in stock; the UI
// treats a negative figure as a data-quality signal. TotalEarnings
// accumulates the billed amounts of every medicine line referencing it.
type Medicine struct {
	ID            types.ID        `json:"id"`
	Name          string          `json:"name"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	Quantity      int             `json:"quantity"`
	TotalEarnings decimal.Decimal `json:"total_earnings"`
}

// Treatment is a catalog entry with a default price. Changing the price
// never rewrites historical bill line items, which snapshot name and
// amount at billing time.
type Treatment struct {
	ID    types.ID        `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// CreateMedicineRequest is the request to add a medicine to the catalog
type CreateMedicineRequest struct {
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
}

// UpdateMedicineRequest is the request to update a medicine
type UpdateMedicineRequest struct {
	Name      *string          `json:"name,omitempty"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`
	Quantity  *int             `json:"quantity,omitempty"`
}

// CreateTreatmentRequest is the request to add a treatment to the catalog
type CreateTreatmentRequest struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// UpdateTreatmentRequest is the request to update a treatment
type UpdateTreatmentRequest struct {
	Name  *string          `json:"name,omitempty"`
	Price *decimal.Decimal `json:"price,omitempty"`
}
