package engine

import (
	"fmt"

	"github.com/splitproof/splitproof/internal/models"
	"github.com/splitproof/splitproof/internal/money"
)

// reconcile compares the accumulated participant totals against the
// declared grand total. A residual can only arise from an ingestion-
// tolerated discrepancy (the declared total is allowed to sit one minor
// unit off the line/charge sum); each apportionment step is already exact.
//
// Residuals up to one minor unit per participant are absorbed by the
// participant with the largest total (ties broken by ascending ID), logged
// as a trace step, and surfaced as a warning. Anything larger fails with
// UnreconcilableError.
func (rs *runState) reconcile(grandTotal money.Money, tb *traceBuilder) ([]models.ReconciliationWarning, error) {
	allocated := money.Zero(rs.currency)
	for _, p := range rs.participants {
		allocated, _ = allocated.Add(rs.totals[p.ID])
	}

	residual, err := grandTotal.Sub(allocated)
	if err != nil {
		return nil, err
	}
	if residual.IsZero() {
		return nil, nil
	}

	tolerance := int64(len(rs.participants))
	if residual.Abs().Amount() > tolerance {
		return nil, &UnreconcilableError{Residual: residual, Tolerance: tolerance}
	}

	absorber := rs.largestTotalParticipant()
	rs.totals[absorber], _ = rs.totals[absorber].Add(residual)
	rs.contribs[absorber] = append(rs.contribs[absorber], models.Contribution{
		SubjectID: "residual",
		Kind:      models.SubjectAdjustment,
		Amount:    residual,
	})
	rs.residual = &models.ResidualAdjustment{ParticipantID: absorber, Amount: residual}
	tb.recordAdjustment(absorber, residual)

	warning := models.ReconciliationWarning{
		ParticipantID: absorber,
		Residual:      residual,
		Message: fmt.Sprintf("declared grand total differs from allocated sum by %s; assigned to %s",
			residual, absorber),
	}
	return []models.ReconciliationWarning{warning}, nil
}

// largestTotalParticipant picks the residual absorber: highest total first,
// ascending participant ID on ties.
func (rs *runState) largestTotalParticipant() string {
	best := rs.participants[0].ID
	for _, p := range rs.participants[1:] {
		current := rs.totals[p.ID].Amount()
		switch {
		case current > rs.totals[best].Amount():
			best = p.ID
		case current == rs.totals[best].Amount() && p.ID < best:
			best = p.ID
		}
	}
	return best
}
