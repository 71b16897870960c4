// Package money provides a fixed-precision monetary value type and the
// largest-remainder allocation primitive the settlement engine is built on.
//
// All amounts are integer minor units (cents for USD). No floating-point
// value ever represents money; fractional inputs such as quantities and
// weights arrive as decimals and are handled with exact arithmetic.
package money

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrCurrencyMismatch is returned when arithmetic mixes currencies.
	ErrCurrencyMismatch = errors.New("currency mismatch")
)

// Money is an immutable amount in minor units of a single currency.
// The zero value is 0 units of the empty currency; construct values
// with New.
type Money struct {
	amount   int64
	currency string
}

// New returns a Money of amount minor units in the given currency.
func New(amount int64, currency string) Money {
	return Money{amount: amount, currency: currency}
}

// Zero returns a zero amount in the given currency.
func Zero(currency string) Money {
	return Money{currency: currency}
}

// Amount returns the value in minor units.
func (m Money) Amount() int64 { return m.amount }

// Currency returns the currency code.
func (m Money) Currency() string { return m.currency }

// IsZero reports whether the amount is zero.
func (m Money) IsZero() bool { return m.amount == 0 }

// IsNegative reports whether the amount is below zero.
func (m Money) IsNegative() bool { return m.amount < 0 }

// Add returns m+o. Fails if the currencies differ.
func (m Money) Add(o Money) (Money, error) {
	if m.currency != o.currency {
		return Money{}, fmt.Errorf("%w: %s + %s", ErrCurrencyMismatch, m.currency, o.currency)
	}
	return Money{amount: m.amount + o.amount, currency: m.currency}, nil
}

// Sub returns m-o. Fails if the currencies differ.
func (m Money) Sub(o Money) (Money, error) {
	if m.currency != o.currency {
		return Money{}, fmt.Errorf("%w: %s - %s", ErrCurrencyMismatch, m.currency, o.currency)
	}
	return Money{amount: m.amount - o.amount, currency: m.currency}, nil
}

// Neg returns the negated amount.
func (m Money) Neg() Money {
	return Money{amount: -m.amount, currency: m.currency}
}

// Abs returns the absolute amount.
func (m Money) Abs() Money {
	if m.amount < 0 {
		return m.Neg()
	}
	return m
}

// MulDecimal returns m scaled by d, rounded half-up to the nearest minor
// unit. Used for unit_price * quantity and percentage derivations.
func (m Money) MulDecimal(d decimal.Decimal) Money {
	scaled := decimal.NewFromInt(m.amount).Mul(d).Round(0)
	return Money{amount: scaled.IntPart(), currency: m.currency}
}

// Equal reports whether amount and currency both match.
func (m Money) Equal(o Money) bool {
	return m.amount == o.amount && m.currency == o.currency
}

// String renders the amount with two decimal places, e.g. "12.34 USD".
func (m Money) String() string {
	sign := ""
	units := m.amount
	if units < 0 {
		sign = "-"
		units = -units
	}
	return fmt.Sprintf("%s%d.%02d %s", sign, units/100, units%100, m.currency)
}

// moneyJSON is the wire shape for Money. Amounts cross process boundaries
// only as integer minor units.
type moneyJSON struct {
	AmountMinor int64  `json:"amount_minor"`
	Currency    string `json:"currency"`
}

// MarshalJSON implements json.Marshaler.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(moneyJSON{AmountMinor: m.amount, Currency: m.currency})
}

// UnmarshalJSON implements json.Unmarshaler.
func (m *Money) UnmarshalJSON(data []byte) error {
	var raw moneyJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	m.amount = raw.AmountMinor
	m.currency = raw.Currency
	return nil
}

// Sum adds a series of amounts in the given currency. An empty series
// sums to zero.
func Sum(currency string, amounts ...Money) (Money, error) {
	total := Zero(currency)
	for _, a := range amounts {
		var err error
		total, err = total.Add(a)
		if err != nil {
			return Money{}, err
		}
	}
	return total, nil
}
