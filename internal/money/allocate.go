package money

import (
	"errors"
	"fmt"
	"math/big"
	"sort"

	"github.com/shopspring/decimal"
)

// ErrInvalidAllocation is returned for degenerate weight sets: empty,
// zero, or negative weights.
var ErrInvalidAllocation = errors.New("invalid allocation")

// Weight is one recipient's share weight in an allocation. Weights need
// not sum to any particular value; they are normalized internally.
type Weight struct {
	ID    string
	Value decimal.Decimal
}

// Allocate distributes total across the given weights using the
// largest-remainder method. The returned amounts are in weight order,
// sum exactly to total, and are each within one minor unit of the ideal
// proportional share. Leftover minor units go to the largest fractional
// remainders first, ties broken by ascending recipient ID.
//
// Negative totals (discounts) are allocated on the absolute value and
// negated, so the same inputs always produce the same split.
func Allocate(total Money, weights []Weight) ([]Money, error) {
	if len(weights) == 0 {
		return nil, fmt.Errorf("%w: empty weight set", ErrInvalidAllocation)
	}
	for _, w := range weights {
		if !w.Value.IsPositive() {
			return nil, fmt.Errorf("%w: weight for %q must be positive, got %s", ErrInvalidAllocation, w.ID, w.Value)
		}
	}

	negative := total.amount < 0
	magnitude := total.amount
	if negative {
		magnitude = -magnitude
	}

	units, unitSum := integerWeights(weights)

	type part struct {
		index     int
		base      int64
		remainder *big.Int
	}
	parts := make([]part, len(weights))

	distributed := int64(0)
	totalInt := big.NewInt(magnitude)
	for i, u := range units {
		num := new(big.Int).Mul(totalInt, u)
		quo, rem := new(big.Int).QuoRem(num, unitSum, new(big.Int))
		parts[i] = part{index: i, base: quo.Int64(), remainder: rem}
		distributed += parts[i].base
	}

	// Exact division leaves fewer leftover units than recipients.
	leftover := magnitude - distributed

	order := make([]int, len(parts))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		pa, pb := parts[order[a]], parts[order[b]]
		if c := pa.remainder.Cmp(pb.remainder); c != 0 {
			return c > 0
		}
		return weights[pa.index].ID < weights[pb.index].ID
	})
	for i := int64(0); i < leftover; i++ {
		parts[order[i]].base++
	}

	result := make([]Money, len(parts))
	for i, p := range parts {
		amount := p.base
		if negative {
			amount = -amount
		}
		result[i] = Money{amount: amount, currency: total.currency}
	}
	return result, nil
}

// integerWeights lifts decimal weights onto a common power-of-ten
// denominator so remainders can be compared exactly.
func integerWeights(weights []Weight) ([]*big.Int, *big.Int) {
	minExp := weights[0].Value.Exponent()
	for _, w := range weights[1:] {
		if e := w.Value.Exponent(); e < minExp {
			minExp = e
		}
	}

	units := make([]*big.Int, len(weights))
	sum := new(big.Int)
	for i, w := range weights {
		u := w.Value.Shift(-minExp).BigInt()
		units[i] = u
		sum.Add(sum, u)
	}
	return units, sum
}

// EqualWeights returns a unit weight per ID, for uniform splits.
func EqualWeights(ids []string) []Weight {
	weights := make([]Weight, len(ids))
	for i, id := range ids {
		weights[i] = Weight{ID: id, Value: decimal.NewFromInt(1)}
	}
	return weights
}
