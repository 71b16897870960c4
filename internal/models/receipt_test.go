package models

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/splitproof/splitproof/internal/money"
)

func usd(amount int64) money.Money { return money.New(amount, "USD") }

func line(id string, qty string, unit, total int64) ReceiptLine {
	return ReceiptLine{
		ID:          id,
		Description: id,
		Quantity:    decimal.RequireFromString(qty),
		UnitPrice:   usd(unit),
		LineTotal:   usd(total),
	}
}

func TestNewReceipt(t *testing.T) {
	tests := []struct {
		name        string
		lines       []ReceiptLine
		charges     []ChargeLine
		grandTotal  money.Money
		wantErr     bool
		wantSubject string
	}{
		{
			name:       "valid receipt with tax",
			lines:      []ReceiptLine{line("l1", "2", 1000, 2000), line("l2", "1", 500, 500)},
			charges:    []ChargeLine{{ID: "c1", Kind: ChargeTax, Value: usd(250), Basis: BasisFlat}},
			grandTotal: usd(2750),
		},
		{
			name:       "line total off by one minor unit is tolerated",
			lines:      []ReceiptLine{line("l1", "3", 333, 1000)},
			grandTotal: usd(1000),
		},
		{
			name:        "line total beyond tolerance is rejected",
			lines:       []ReceiptLine{line("l1", "2", 1000, 2100)},
			grandTotal:  usd(2100),
			wantErr:     true,
			wantSubject: "l1",
		},
		{
			name:        "zero quantity is rejected",
			lines:       []ReceiptLine{line("l1", "0", 1000, 0)},
			grandTotal:  usd(0),
			wantErr:     true,
			wantSubject: "l1",
		},
		{
			name:        "duplicate line id is rejected",
			lines:       []ReceiptLine{line("l1", "1", 100, 100), line("l1", "1", 200, 200)},
			grandTotal:  usd(300),
			wantErr:     true,
			wantSubject: "l1",
		},
		{
			name:  "percentage charge re-derives",
			lines: []ReceiptLine{line("l1", "1", 5000, 5000)},
			charges: []ChargeLine{{
				ID: "svc", Kind: ChargeService, Value: usd(500),
				Basis: BasisPercentOfSubtotal, Percent: decimal.NewFromInt(10),
			}},
			grandTotal: usd(5500),
		},
		{
			name:  "percentage charge that does not re-derive is rejected",
			lines: []ReceiptLine{line("l1", "1", 5000, 5000)},
			charges: []ChargeLine{{
				ID: "svc", Kind: ChargeService, Value: usd(700),
				Basis: BasisPercentOfSubtotal, Percent: decimal.NewFromInt(10),
			}},
			grandTotal:  usd(5700),
			wantErr:     true,
			wantSubject: "svc",
		},
		{
			name:  "discount must not be positive",
			lines: []ReceiptLine{line("l1", "1", 1000, 1000)},
			charges: []ChargeLine{{
				ID: "promo", Kind: ChargeDiscount, Value: usd(100), Basis: BasisFlat,
			}},
			grandTotal:  usd(1100),
			wantErr:     true,
			wantSubject: "promo",
		},
		{
			name:  "negative discount is valid",
			lines: []ReceiptLine{line("l1", "1", 1000, 1000)},
			charges: []ChargeLine{{
				ID: "promo", Kind: ChargeDiscount, Value: usd(-200), Basis: BasisFlat,
			}},
			grandTotal: usd(800),
		},
		{
			name:       "declared grand total mismatch is rejected",
			lines:      []ReceiptLine{line("l1", "1", 1000, 1000)},
			grandTotal: usd(1200),
			wantErr:    true,
		},
		{
			name:        "mixed currencies are rejected",
			lines:       []ReceiptLine{{ID: "l1", Quantity: decimal.NewFromInt(1), UnitPrice: money.New(100, "EUR"), LineTotal: money.New(100, "EUR")}},
			grandTotal:  usd(100),
			wantErr:     true,
			wantSubject: "l1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewReceipt(tt.lines, tt.charges, tt.grandTotal)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewReceipt() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr {
				return
			}

			if !errors.Is(err, ErrValidation) {
				t.Errorf("error %v does not unwrap to ErrValidation", err)
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("error %v is not a ValidationError", err)
			}
			if tt.wantSubject != "" && verr.Subject != tt.wantSubject {
				t.Errorf("ValidationError subject = %q, want %q", verr.Subject, tt.wantSubject)
			}
		})
	}
}

func TestReceiptTotals(t *testing.T) {
	r, err := NewReceipt(
		[]ReceiptLine{line("l1", "2", 1000, 2000), line("l2", "1", 995, 995)},
		[]ChargeLine{
			{ID: "tax", Kind: ChargeTax, Value: usd(300), Basis: BasisFlat},
			{ID: "promo", Kind: ChargeDiscount, Value: usd(-100), Basis: BasisFlat},
		},
		usd(3195),
	)
	if err != nil {
		t.Fatalf("NewReceipt failed: %v", err)
	}

	if got := r.Subtotal(); got.Amount() != 2995 {
		t.Errorf("Subtotal = %d, want 2995", got.Amount())
	}
	if got := r.ChargeTotal(); got.Amount() != 200 {
		t.Errorf("ChargeTotal = %d, want 200", got.Amount())
	}
	if r.LineByID("l2") == nil {
		t.Error("LineByID(l2) = nil")
	}
	if r.ChargeByID("missing") != nil {
		t.Error("ChargeByID(missing) should be nil")
	}
}
