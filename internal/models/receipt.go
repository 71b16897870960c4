package models

import (
	"github.com/shopspring/decimal"

	"github.com/splitproof/splitproof/internal/money"
)

// lineTolerance is the ingestion tolerance, in minor units, for line totals,
// percentage derivations, and the declared grand total. Upstream scanners
// routinely produce one-cent rounding slack; anything beyond it is rejected.
const lineTolerance = 1

// ReceiptLine is a single priced item on the receipt.
type ReceiptLine struct {
	// ID uniquely identifies the line within the receipt.
	ID string `json:"id"`

	// Description is the item name as it appears on the receipt.
	Description string `json:"description"`

	// Quantity is the item count. Fractional quantities (e.g. 0.5 kg)
	// are allowed; it must be positive.
	Quantity decimal.Decimal `json:"quantity"`

	// UnitPrice is the per-unit price.
	UnitPrice money.Money `json:"unit_price"`

	// LineTotal is the declared extended price. It must equal
	// round(UnitPrice * Quantity) within one minor unit.
	LineTotal money.Money `json:"line_total"`
}

// ChargeKind classifies a receipt-level charge.
type ChargeKind string

const (
	ChargeTax      ChargeKind = "tax"
	ChargeService  ChargeKind = "service_charge"
	ChargeDiscount ChargeKind = "discount"
)

// ChargeBasis says how a charge's value was derived.
type ChargeBasis string

const (
	// BasisFlat is a literal amount.
	BasisFlat ChargeBasis = "flat"
	// BasisPercentOfSubtotal means Value must re-derive from Percent
	// applied to the item subtotal.
	BasisPercentOfSubtotal ChargeBasis = "percentage_of_subtotal"
)

// ChargeLine is a tax, service charge, or discount applied to the whole
// receipt. Discount values are negative.
type ChargeLine struct {
	ID    string      `json:"id"`
	Kind  ChargeKind  `json:"kind"`
	Value money.Money `json:"value"`
	Basis ChargeBasis `json:"basis"`

	// Percent is the declared percentage when Basis is
	// percentage_of_subtotal (e.g. 10 for a 10% service charge).
	Percent decimal.Decimal `json:"percent,omitzero"`
}

// Receipt is the validated structured bill: ordered lines, ordered charges,
// and the declared grand total. Construct with NewReceipt.
type Receipt struct {
	Lines      []ReceiptLine `json:"lines"`
	Charges    []ChargeLine  `json:"charges"`
	GrandTotal money.Money   `json:"grand_total"`
}

// NewReceipt validates every receipt invariant eagerly and returns a typed
// ValidationError naming the offending line or charge on the first
// violation. No repair is attempted; correcting bad input is the caller's
// job.
func NewReceipt(lines []ReceiptLine, charges []ChargeLine, grandTotal money.Money) (*Receipt, error) {
	r := &Receipt{Lines: lines, Charges: charges, GrandTotal: grandTotal}
	if err := r.validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// Currency returns the receipt currency, taken from the grand total.
func (r *Receipt) Currency() string {
	return r.GrandTotal.Currency()
}

// Subtotal sums the line totals.
func (r *Receipt) Subtotal() money.Money {
	total := money.Zero(r.Currency())
	for _, line := range r.Lines {
		total, _ = total.Add(line.LineTotal)
	}
	return total
}

// ChargeTotal sums the signed charge values.
func (r *Receipt) ChargeTotal() money.Money {
	total := money.Zero(r.Currency())
	for _, charge := range r.Charges {
		total, _ = total.Add(charge.Value)
	}
	return total
}

// LineByID returns the line with the given ID, or nil.
func (r *Receipt) LineByID(id string) *ReceiptLine {
	for i := range r.Lines {
		if r.Lines[i].ID == id {
			return &r.Lines[i]
		}
	}
	return nil
}

// ChargeByID returns the charge with the given ID, or nil.
func (r *Receipt) ChargeByID(id string) *ChargeLine {
	for i := range r.Charges {
		if r.Charges[i].ID == id {
			return &r.Charges[i]
		}
	}
	return nil
}

func (r *Receipt) validate() error {
	currency := r.Currency()
	if currency == "" {
		return validationErrorf("", "grand total must carry a currency code")
	}

	seen := make(map[string]bool, len(r.Lines)+len(r.Charges))
	for _, line := range r.Lines {
		if line.ID == "" {
			return validationErrorf("", "receipt line is missing an id")
		}
		if seen[line.ID] {
			return validationErrorf(line.ID, "duplicate line id")
		}
		seen[line.ID] = true

		if line.UnitPrice.Currency() != currency || line.LineTotal.Currency() != currency {
			return validationErrorf(line.ID, "line currency differs from receipt currency %s", currency)
		}
		if !line.Quantity.IsPositive() {
			return validationErrorf(line.ID, "quantity must be positive, got %s", line.Quantity)
		}

		expected := line.UnitPrice.MulDecimal(line.Quantity)
		if !withinTolerance(line.LineTotal, expected) {
			return validationErrorf(line.ID, "line total %s does not match unit price %s x quantity %s (expected %s)",
				line.LineTotal, line.UnitPrice, line.Quantity, expected)
		}
	}

	subtotal := r.Subtotal()
	for _, charge := range r.Charges {
		if charge.ID == "" {
			return validationErrorf("", "charge line is missing an id")
		}
		if seen[charge.ID] {
			return validationErrorf(charge.ID, "duplicate charge id")
		}
		seen[charge.ID] = true

		if charge.Value.Currency() != currency {
			return validationErrorf(charge.ID, "charge currency differs from receipt currency %s", currency)
		}

		switch charge.Kind {
		case ChargeTax, ChargeService:
			if charge.Value.IsNegative() {
				return validationErrorf(charge.ID, "%s value must not be negative, got %s", charge.Kind, charge.Value)
			}
		case ChargeDiscount:
			if charge.Value.Amount() > 0 {
				return validationErrorf(charge.ID, "discount value must not be positive, got %s", charge.Value)
			}
		default:
			return validationErrorf(charge.ID, "unknown charge kind %q", charge.Kind)
		}

		switch charge.Basis {
		case BasisFlat:
			// Value is taken literally.
		case BasisPercentOfSubtotal:
			if charge.Percent.IsZero() {
				return validationErrorf(charge.ID, "percentage charge is missing its declared percent")
			}
			derived := subtotal.MulDecimal(charge.Percent.Div(decimal.NewFromInt(100)))
			if !withinTolerance(charge.Value, derived) {
				return validationErrorf(charge.ID, "charge value %s does not re-derive from %s%% of subtotal %s (expected %s)",
					charge.Value, charge.Percent, subtotal, derived)
			}
		default:
			return validationErrorf(charge.ID, "unknown charge basis %q", charge.Basis)
		}
	}

	computed, _ := subtotal.Add(r.ChargeTotal())
	if !withinTolerance(r.GrandTotal, computed) {
		return validationErrorf("", "declared grand total %s does not match subtotal + charges = %s", r.GrandTotal, computed)
	}
	return nil
}

// withinTolerance reports whether two amounts agree within the ingestion
// tolerance.
func withinTolerance(a, b money.Money) bool {
	diff, err := a.Sub(b)
	if err != nil {
		return false
	}
	return diff.Abs().Amount() <= lineTolerance
}
