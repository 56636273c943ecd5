package catalog

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/clinicdesk/frontdesk/internal/shared/errors"
	"github.com/clinicdesk/frontdesk/internal/shared/types"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// stubRow and stubTx stand in for a live transaction so Consume's
// error mapping and stock policy can be exercised without a database.
// The stub applies the same quantity arithmetic as the UPDATE statement
// and returns the post-update quantity the way RETURNING does.
type stubRow struct {
	err      error
	quantity int
}

func (r stubRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*int)) = r.quantity
	return nil
}

type stubTx struct {
	pgx.Tx
	stock map[types.ID]int
}

func (t *stubTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	id := args[0].(types.ID)
	qty := args[1].(int)

	current, ok := t.stock[id]
	if !ok {
		return stubRow{err: pgx.ErrNoRows}
	}

	current -= qty
	t.stock[id] = current
	return stubRow{quantity: current}
}

func TestMedicineCreation(t *testing.T) {
	m := Medicine{
		ID:            types.NewID(),
		Name:          "Paracetamol 650mg",
		UnitPrice:     decimal.RequireFromString("2.50"),
		Quantity:      200,
		TotalEarnings: decimal.Zero,
	}

	if m.ID.IsZero() {
		t.Error("medicine ID should not be zero")
	}

	if !m.UnitPrice.Equal(decimal.RequireFromString("2.5")) {
		t.Errorf("expected unit price 2.50, got %s", m.UnitPrice)
	}

	if !m.TotalEarnings.IsZero() {
		t.Error("new medicine should start with zero earnings")
	}
}

func TestMedicineNegativeQuantityAllowed(t *testing.T) {
	// Over-billing leaves negative stock as a data-quality signal,
	// not a hard error.
	m := Medicine{
		ID:        types.NewID(),
		Name:      "Cough Syrup",
		UnitPrice: decimal.RequireFromString("80.00"),
		Quantity:  -3,
	}

	if m.Quantity >= 0 {
		t.Error("expected negative quantity to be representable")
	}
}

func TestTreatmentPriceDecimalJSON(t *testing.T) {
	// Monetary fields travel as decimal strings on the wire.
	tr := Treatment{
		ID:    types.NewID(),
		Name:  "Root Canal",
		Price: decimal.RequireFromString("3500.00"),
	}

	data, err := json.Marshal(tr)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	price, ok := decoded["price"].(string)
	if !ok {
		t.Fatalf("price should be a JSON string, got %T", decoded["price"])
	}

	parsed, err := decimal.NewFromString(price)
	if err != nil {
		t.Fatalf("price string should parse as decimal: %v", err)
	}
	if !parsed.Equal(tr.Price) {
		t.Errorf("expected %s, got %s", tr.Price, parsed)
	}
}

func TestCreateMedicineRequestDecodesDecimalString(t *testing.T) {
	body := `{"name":"Amoxicillin 500mg","unit_price":"12.75","quantity":50}`

	var req CreateMedicineRequest
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	if !req.UnitPrice.Equal(decimal.RequireFromString("12.75")) {
		t.Errorf("expected 12.75, got %s", req.UnitPrice)
	}

	if req.Quantity != 50 {
		t.Errorf("expected quantity 50, got %d", req.Quantity)
	}
}

func TestConsumeDecrementsStock(t *testing.T) {
	repo := NewRepository(nil, true)
	id := types.NewID()
	tx := &stubTx{stock: map[types.ID]int{id: 8}}

	err := repo.Consume(context.Background(), tx, id, 3, decimal.RequireFromString("75.00"))
	if err != nil {
		t.Fatalf("consume failed: %v", err)
	}

	if tx.stock[id] != 5 {
		t.Errorf("expected quantity 5 after consuming 3 of 8, got %d", tx.stock[id])
	}
}

func TestConsumeUnknownMedicineNotFound(t *testing.T) {
	repo := NewRepository(nil, true)
	tx := &stubTx{stock: map[types.ID]int{}}

	err := repo.Consume(context.Background(), tx, types.NewID(), 1, decimal.Zero)
	if err == nil {
		t.Fatal("expected error for unknown medicine")
	}

	appErr, ok := err.(*errors.AppError)
	if !ok || appErr.Code != "NOT_FOUND" {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
}

func TestConsumeNegativeStockPolicy(t *testing.T) {
	id := types.NewID()

	// Over-billing is rejected with a conflict when negative stock is
	// disallowed.
	strict := NewRepository(nil, false)
	tx := &stubTx{stock: map[types.ID]int{id: 2}}

	err := strict.Consume(context.Background(), tx, id, 5, decimal.RequireFromString("125.00"))
	if err == nil {
		t.Fatal("expected conflict when stock would go negative")
	}
	appErr, ok := err.(*errors.AppError)
	if !ok || appErr.Code != "CONFLICT" {
		t.Errorf("expected CONFLICT, got %v", err)
	}

	// The default policy lets the quantity go negative as a data-quality
	// signal.
	lenient := NewRepository(nil, true)
	tx = &stubTx{stock: map[types.ID]int{id: 2}}

	if err := lenient.Consume(context.Background(), tx, id, 5, decimal.RequireFromString("125.00")); err != nil {
		t.Fatalf("consume failed: %v", err)
	}
	if tx.stock[id] != -3 {
		t.Errorf("expected quantity -3, got %d", tx.stock[id])
	}
}

func TestUpdateRequestsPartialSemantics(t *testing.T) {
	newName := "Ibuprofen 400mg"
	newPrice := decimal.RequireFromString("5.00")

	req := UpdateMedicineRequest{Name: &newName}
	if req.UnitPrice != nil || req.Quantity != nil {
		t.Error("unset fields should stay nil")
	}
	if req.Name == nil || *req.Name != newName {
		t.Error("name should be set")
	}

	tReq := UpdateTreatmentRequest{Price: &newPrice}
	if tReq.Name != nil {
		t.Error("unset name should stay nil")
	}
	if tReq.Price == nil || !tReq.Price.Equal(newPrice) {
		t.Error("price should be set")
	}
}
