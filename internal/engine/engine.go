// Package engine implements the settlement reconciliation engine: the
// deterministic, pure computation that turns a validated receipt and
// allocation into a per-participant settlement, a reasoning trace, and a
// validation verdict.
//
// The engine performs no I/O, holds no state across runs, and uses no
// randomness. Running Settle twice on identical inputs yields byte-identical
// settlements and traces.
package engine

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/splitproof/splitproof/internal/models"
	"github.com/splitproof/splitproof/internal/money"
)

// Result is everything one settlement run produces. The settlement and
// verdict are always returned together; callers decide whether to reject
// an invalid result.
type Result struct {
	Settlement *models.Settlement
	Trace      []models.ReasoningStep
	Validation models.ValidationResult
	Warnings   []models.ReconciliationWarning
}

// Settle apportions the receipt across participants according to the
// allocation. It fails with a models.ValidationError for inconsistent
// input, money.ErrInvalidAllocation for degenerate weights, or
// ErrUnreconcilable when the residual exceeds tolerance; it never returns
// a partial result.
//
// The computation is two-pass: item lines first, then charge lines, so
// proportional charge policies can weight participants by their item
// subtotals. Every apportionment uses money.Allocate, which is exact by
// construction; the closing reconciliation pass exists as defense in
// depth against ingestion-tolerated discrepancies in the declared grand
// total.
func Settle(receipt *models.Receipt, alloc *models.Allocation) (*Result, error) {
	if err := alloc.Validate(receipt); err != nil {
		return nil, err
	}

	run := newRunState(receipt.Currency(), alloc)
	tb := &traceBuilder{}

	// Pass one: apportion each line across its owners.
	for _, line := range receipt.Lines {
		weights := shareWeights(alloc.LineShares[line.ID])
		parts, err := money.Allocate(line.LineTotal, weights)
		if err != nil {
			return nil, fmt.Errorf("line %s: %w", line.ID, err)
		}
		tb.record(line.ID, models.SubjectLine, "apportion line total across owners by weight", line.LineTotal, weights, parts)
		run.accumulate(line.ID, models.SubjectLine, weights, parts)
	}
	run.snapshotItemTotals()

	// Pass two: apportion each charge under its policy.
	for _, charge := range receipt.Charges {
		rule := alloc.ChargeRuleFor(charge.ID)
		weights, action, err := run.chargeWeights(charge, rule)
		if err != nil {
			return nil, err
		}
		parts, err := money.Allocate(charge.Value, weights)
		if err != nil {
			return nil, fmt.Errorf("charge %s: %w", charge.ID, err)
		}
		tb.record(charge.ID, models.SubjectCharge, action, charge.Value, weights, parts)
		run.accumulate(charge.ID, models.SubjectCharge, weights, parts)
	}

	warnings, err := run.reconcile(receipt.GrandTotal, tb)
	if err != nil {
		return nil, err
	}

	settlement := run.settlement(receipt.GrandTotal)
	return &Result{
		Settlement: settlement,
		Trace:      tb.steps,
		Validation: validate(receipt, alloc, settlement),
		Warnings:   warnings,
	}, nil
}

// runState carries per-participant accumulation through one run.
type runState struct {
	currency     string
	participants []models.Participant
	totals       map[string]money.Money
	itemTotals   map[string]money.Money
	contribs     map[string][]models.Contribution
	residual     *models.ResidualAdjustment
}

func newRunState(currency string, alloc *models.Allocation) *runState {
	rs := &runState{
		currency:     currency,
		participants: alloc.Participants,
		totals:       make(map[string]money.Money, len(alloc.Participants)),
		contribs:     make(map[string][]models.Contribution, len(alloc.Participants)),
	}
	for _, p := range alloc.Participants {
		rs.totals[p.ID] = money.Zero(currency)
	}
	return rs
}

func (rs *runState) accumulate(subjectID string, kind models.SubjectKind, weights []money.Weight, parts []money.Money) {
	for i, part := range parts {
		id := weights[i].ID
		rs.totals[id], _ = rs.totals[id].Add(part)
		rs.contribs[id] = append(rs.contribs[id], models.Contribution{
			SubjectID: subjectID,
			Kind:      kind,
			Amount:    part,
		})
	}
}

// snapshotItemTotals freezes the per-participant totals at the end of the
// item pass. Proportional charges weight against this snapshot, so earlier
// charges never leak into a later charge's split.
func (rs *runState) snapshotItemTotals() {
	rs.itemTotals = make(map[string]money.Money, len(rs.totals))
	for id, total := range rs.totals {
		rs.itemTotals[id] = total
	}
}

// chargeWeights resolves a charge rule into concrete allocation weights
// plus the trace action describing the policy used.
func (rs *runState) chargeWeights(charge models.ChargeLine, rule models.ChargeRule) ([]money.Weight, string, error) {
	switch rule.Policy {
	case models.ChargeProportional:
		var weights []money.Weight
		for _, p := range rs.participants {
			total := rs.itemTotals[p.ID]
			if total.Amount() > 0 {
				weights = append(weights, money.Weight{ID: p.ID, Value: decimal.NewFromInt(total.Amount())})
			}
		}
		if len(weights) == 0 {
			return nil, "", fmt.Errorf("charge %s: %w: no positive item shares to apportion against", charge.ID, money.ErrInvalidAllocation)
		}
		return weights, "apportion " + string(charge.Kind) + " proportionally to item shares", nil

	case models.ChargeEqualSplit:
		ids := make([]string, len(rs.participants))
		for i, p := range rs.participants {
			ids[i] = p.ID
		}
		return money.EqualWeights(ids), "split " + string(charge.Kind) + " equally across all participants", nil

	case models.ChargeAssigned:
		return shareWeights(rule.Shares), "apportion " + string(charge.Kind) + " across assigned participants by weight", nil

	default:
		// Allocation validation rejects unknown policies before this point.
		return nil, "", fmt.Errorf("charge %s: unknown policy %q", charge.ID, rule.Policy)
	}
}

// settlement builds the final entries in participant declaration order.
func (rs *runState) settlement(grandTotal money.Money) *models.Settlement {
	entries := make([]models.SettlementEntry, 0, len(rs.participants))
	for _, p := range rs.participants {
		entries = append(entries, models.SettlementEntry{
			ParticipantID: p.ID,
			DisplayName:   p.DisplayName,
			Owed:          rs.totals[p.ID],
			Contributions: rs.contribs[p.ID],
		})
	}
	return &models.Settlement{
		Entries:    entries,
		Residual:   rs.residual,
		GrandTotal: grandTotal,
	}
}

func shareWeights(shares []models.Share) []money.Weight {
	weights := make([]money.Weight, len(shares))
	for i, share := range shares {
		weights[i] = money.Weight{ID: share.ParticipantID, Value: share.Weight}
	}
	return weights
}
