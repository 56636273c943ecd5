package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	billingapi "github.com/clinicdesk/frontdesk/internal/billing/api"
	"github.com/clinicdesk/frontdesk/internal/billing/domain"
	"github.com/clinicdesk/frontdesk/internal/shared/errors"
	"github.com/clinicdesk/frontdesk/internal/shared/types"
	"github.com/shopspring/decimal"
)

// memoryBillRepository keeps bills in a map so the billing HTTP surface
// can be exercised without a database
type memoryBillRepository struct {
	bills map[types.ID]*domain.Bill
}

func newMemoryBillRepository() *memoryBillRepository {
	return &memoryBillRepository{bills: make(map[types.ID]*domain.Bill)}
}

func (r *memoryBillRepository) Create(ctx context.Context, b *domain.Bill) error {
	clone := *b
	r.bills[b.ID] = &clone
	return nil
}

func (r *memoryBillRepository) FindByID(ctx context.Context, id types.ID) (*domain.Bill, error) {
	b, ok := r.bills[id]
	if !ok {
		return nil, errors.NotFound("bill", id.String())
	}
	clone := *b
	return &clone, nil
}

func (r *memoryBillRepository) List(ctx context.Context) ([]domain.Bill, error) {
	bills := make([]domain.Bill, 0, len(r.bills))
	for _, b := range r.bills {
		bills = append(bills, *b)
	}
	return bills, nil
}

func (r *memoryBillRepository) Settle(ctx context.Context, id types.ID, amount decimal.Decimal) (*domain.Bill, error) {
	b, ok := r.bills[id]
	if !ok {
		return nil, errors.NotFound("bill", id.String())
	}
	if err := b.Settle(amount); err != nil {
		return nil, errors.BadRequest(err.Error())
	}
	clone := *b
	return &clone, nil
}

// TestBillingWorkflow walks a bill through its full lifecycle: creation
// with a partial upfront payment, a partial settlement, and the final
// settlement that flips the status to paid.
func TestBillingWorkflow(t *testing.T) {
	repo := newMemoryBillRepository()
	server := httptest.NewServer(billingapi.NewHandler(repo).Routes())
	defer server.Close()

	patientID := types.NewID()
	medicineID := types.NewID()

	// 1. Create a bill: one treatment, one medicine, 500 paid upfront
	createBody := map[string]any{
		"patient_id": patientID,
		"treatments": []map[string]any{
			{"treatment_name": "Consultation", "amount": "500"},
		},
		"medicines": []map[string]any{
			{"medicine_id": medicineID, "medicine_name": "Paracetamol", "quantity": 10, "unit_price": "2.50", "amount": "25"},
		},
		"paid_amount": "500",
	}

	resp := postJSON(t, server.URL+"/", createBody)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	var bill domain.Bill
	decodeBody(t, resp, &bill)

	if !bill.TotalAmount.Equal(decimal.RequireFromString("525")) {
		t.Errorf("expected total 525, got %s", bill.TotalAmount)
	}
	if bill.Status != domain.BillStatusPending {
		t.Errorf("expected pending status, got %s", bill.Status)
	}
	if !bill.PendingAmount.Equal(decimal.RequireFromString("25")) {
		t.Errorf("expected pending 25, got %s", bill.PendingAmount)
	}

	// 2. Settle the remaining balance
	resp = postJSON(t, server.URL+"/"+bill.ID.String()+"/settle", map[string]any{"amount": "25"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var settled domain.Bill
	decodeBody(t, resp, &settled)

	if settled.Status != domain.BillStatusPaid {
		t.Errorf("expected paid status, got %s", settled.Status)
	}
	if !settled.PendingAmount.IsZero() {
		t.Errorf("expected zero pending, got %s", settled.PendingAmount)
	}

	// 3. Fetch the bill and confirm the settlement persisted
	getResp, err := http.Get(server.URL + "/" + bill.ID.String())
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	var fetched domain.Bill
	decodeBody(t, getResp, &fetched)

	if fetched.Status != domain.BillStatusPaid {
		t.Errorf("fetched bill should be paid, got %s", fetched.Status)
	}
	if !fetched.PaidAmount.Equal(decimal.RequireFromString("525")) {
		t.Errorf("expected paid 525, got %s", fetched.PaidAmount)
	}
}

func TestBillingValidationErrors(t *testing.T) {
	repo := newMemoryBillRepository()
	server := httptest.NewServer(billingapi.NewHandler(repo).Routes())
	defer server.Close()

	tests := []struct {
		name string
		body map[string]any
		want int
	}{
		{
			name: "no line items",
			body: map[string]any{
				"patient_id":  types.NewID(),
				"paid_amount": "0",
			},
			want: http.StatusBadRequest,
		},
		{
			name: "zero medicine quantity",
			body: map[string]any{
				"patient_id": types.NewID(),
				"medicines": []map[string]any{
					{"medicine_name": "Paracetamol", "quantity": 0, "amount": "25"},
				},
				"paid_amount": "0",
			},
			want: http.StatusBadRequest,
		},
		{
			name: "negative paid amount",
			body: map[string]any{
				"patient_id": types.NewID(),
				"treatments": []map[string]any{
					{"treatment_name": "Consultation", "amount": "500"},
				},
				"paid_amount": "-10",
			},
			want: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postJSON(t, server.URL+"/", tt.body)
			if resp.StatusCode != tt.want {
				t.Errorf("expected %d, got %d", tt.want, resp.StatusCode)
			}
		})
	}
}

func TestSettleUnknownBillReturnsNotFound(t *testing.T) {
	repo := newMemoryBillRepository()
	server := httptest.NewServer(billingapi.NewHandler(repo).Routes())
	defer server.Close()

	resp := postJSON(t, server.URL+"/"+types.NewID().String()+"/settle", map[string]any{"amount": "100"})
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()

	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("post failed: %v", err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
}
