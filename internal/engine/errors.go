package engine

import (
	"errors"
	"fmt"

	"github.com/splitproof/splitproof/internal/money"
)

// ErrUnreconcilable is the sentinel for residuals the reconciliation pass
// refuses to absorb.
var ErrUnreconcilable = errors.New("unreconcilable settlement")

// UnreconcilableError reports a residual that exceeds the reconciliation
// tolerance. It signals an upstream data problem, not an engine bug: every
// individual allocation is exact by construction.
type UnreconcilableError struct {
	// Residual is grand total minus the sum of participant totals.
	Residual money.Money
	// Tolerance is the maximum absorbable residual, in minor units.
	Tolerance int64
}

func (e *UnreconcilableError) Error() string {
	return fmt.Sprintf("unreconcilable settlement: residual %s exceeds tolerance of %d minor unit(s)", e.Residual, e.Tolerance)
}

func (e *UnreconcilableError) Unwrap() error { return ErrUnreconcilable }
