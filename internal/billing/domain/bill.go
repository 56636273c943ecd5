package domain

import (
	"fmt"
	"time"

	"github.com/clinicdesk/frontdesk/internal/shared/types"
	"github.com/shopspring/decimal"
)

// BillStatus defines the settlement state of a bill
type BillStatus string

const (
	BillStatusPending BillStatus = "pending"
	BillStatusPaid    BillStatus = "paid"
)

// Bill is the aggregate root for billing. Totals are computed once at
// creation; afterwards only the settlement fields change. Invariants held
// at all times:
//
//	TotalAmount  = sum of all line item amounts (at creation)
//	PendingAmount = TotalAmount - PaidAmount
//	Status = paid  iff  PendingAmount <= 0
type Bill struct {
	ID        types.ID   `json:"id"`
	PatientID types.ID   `json:"patient_id"`
	BillDate  time.Time  `json:"bill_date"`

	TotalAmount   decimal.Decimal `json:"total_amount"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	PendingAmount decimal.Decimal `json:"pending_amount"`
	Status        BillStatus      `json:"status"`

	TreatmentItems []TreatmentItem `json:"treatment_items"`
	MedicineItems  []MedicineItem  `json:"medicine_items"`

	// PatientName is filled when listing bills for the front desk
	PatientName string `json:"patient_name,omitempty"`
}

// TreatmentItem snapshots a billed treatment. The catalog reference may be
// cleared later; the name and amount stay as billed.
type TreatmentItem struct {
	ID            types.ID        `json:"id"`
	BillID        types.ID        `json:"bill_id"`
	TreatmentID   *types.ID       `json:"treatment_id,omitempty"`
	TreatmentName string          `json:"treatment_name"`
	Amount        decimal.Decimal `json:"amount"`
}

// MedicineItem snapshots a billed medicine line: quantity consumed, the
// unit price at billing time, and the line amount.
type MedicineItem struct {
	ID           types.ID        `json:"id"`
	BillID       types.ID        `json:"bill_id"`
	MedicineID   *types.ID       `json:"medicine_id,omitempty"`
	MedicineName string          `json:"medicine_name"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Amount       decimal.Decimal `json:"amount"`
}

// TreatmentLine is a submitted treatment entry. Amount may be a manual
// override of the catalog price; it is billed as submitted.
type TreatmentLine struct {
	TreatmentID   types.ID        `json:"treatment_id"`
	TreatmentName string          `json:"treatment_name"`
	Amount        decimal.Decimal `json:"amount"`
}

// MedicineLine is a submitted medicine entry. Amount is trusted as
// submitted rather than recomputed from quantity and unit price, so the
// front desk can apply manual adjustments. MedicineID is mandatory:
// every medicine line decrements catalog stock.
type MedicineLine struct {
	MedicineID   types.ID        `json:"medicine_id"`
	MedicineName string          `json:"medicine_name"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Amount       decimal.Decimal `json:"amount"`
}

// NewBill validates the submitted lines and builds a bill with computed
// totals and snapshotted line items
func NewBill(patientID types.ID, treatments []TreatmentLine, medicines []MedicineLine, paid decimal.Decimal) (*Bill, error) {
	if patientID.IsZero() {
		return nil, fmt.Errorf("patient is required")
	}
	if paid.IsNegative() {
		return nil, fmt.Errorf("paid amount must not be negative")
	}

	for i, line := range treatments {
		if line.TreatmentName == "" {
			return nil, fmt.Errorf("treatment line %d: name is required", i)
		}
		if line.Amount.IsNegative() {
			return nil, fmt.Errorf("treatment line %d: amount must not be negative", i)
		}
	}
	for i, line := range medicines {
		if line.MedicineID.IsZero() {
			return nil, fmt.Errorf("medicine line %d: medicine_id is required", i)
		}
		if line.MedicineName == "" {
			return nil, fmt.Errorf("medicine line %d: name is required", i)
		}
		if line.Quantity <= 0 {
			return nil, fmt.Errorf("medicine line %d: quantity must be positive", i)
		}
		if line.Amount.IsNegative() {
			return nil, fmt.Errorf("medicine line %d: amount must not be negative", i)
		}
	}

	b := &Bill{
		ID:             types.NewID(),
		PatientID:      patientID,
		BillDate:       time.Now(),
		PaidAmount:     paid,
		TreatmentItems: make([]TreatmentItem, 0, len(treatments)),
		MedicineItems:  make([]MedicineItem, 0, len(medicines)),
	}

	total := decimal.Zero
	for _, line := range treatments {
		total = total.Add(line.Amount)
		treatmentID := line.TreatmentID
		item := TreatmentItem{
			ID:            types.NewID(),
			BillID:        b.ID,
			TreatmentName: line.TreatmentName,
			Amount:        line.Amount,
		}
		if !treatmentID.IsZero() {
			item.TreatmentID = &treatmentID
		}
		b.TreatmentItems = append(b.TreatmentItems, item)
	}
	for _, line := range medicines {
		total = total.Add(line.Amount)
		medicineID := line.MedicineID
		b.MedicineItems = append(b.MedicineItems, MedicineItem{
			ID:           types.NewID(),
			BillID:       b.ID,
			MedicineID:   &medicineID,
			MedicineName: line.MedicineName,
			Quantity:     line.Quantity,
			UnitPrice:    line.UnitPrice,
			Amount:       line.Amount,
		})
	}

	b.TotalAmount = total
	b.PendingAmount = total.Sub(paid)
	b.Status = statusFor(b.PendingAmount)

	return b, nil
}

// Settle records an additional payment against the outstanding balance.
// The amount is an increment, never a replacement, so the paid total is
// monotone. Overpayment is accepted and stored as a negative pending
// amount rather than rejected or clamped.
func (b *Bill) Settle(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("settlement amount must not be negative")
	}

	b.PaidAmount = b.PaidAmount.Add(amount)
	b.PendingAmount = b.TotalAmount.Sub(b.PaidAmount)
	b.Status = statusFor(b.PendingAmount)

	return nil
}

func statusFor(pending decimal.Decimal) BillStatus {
	if pending.LessThanOrEqual(decimal.Zero) {
		return BillStatusPaid
	}
	return BillStatusPending
}
