package models

import (
	"github.com/shopspring/decimal"
)

// Participant is one person taking part in a settlement run. The
// participant set is fixed for the duration of a run.
type Participant struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// Share assigns a positive weight to a participant. Weights need not sum
// to one; the allocator normalizes them.
type Share struct {
	ParticipantID string          `json:"participant_id"`
	Weight        decimal.Decimal `json:"weight"`
}

// ChargePolicy selects how a charge line is apportioned.
type ChargePolicy string

const (
	// ChargeProportional weights each participant by their item subtotal.
	// This is the default for charges with no explicit rule.
	ChargeProportional ChargePolicy = "proportional_to_item_share"

	// ChargeEqualSplit splits the charge uniformly over the full
	// participant set.
	ChargeEqualSplit ChargePolicy = "equal_split_across_participants"

	// ChargeAssigned splits the charge over an explicit share list.
	ChargeAssigned ChargePolicy = "assigned_to_specific_participants"
)

// ChargeRule is the apportionment rule for one charge line. Shares is
// required when Policy is ChargeAssigned and ignored otherwise.
type ChargeRule struct {
	Policy ChargePolicy `json:"policy"`
	Shares []Share      `json:"shares,omitempty"`
}

// Allocation is the validated splitting instruction set: who owes which
// line, with what weight, and how each charge is distributed.
type Allocation struct {
	// Participants is the ordered, immutable participant set. Settlement
	// entries are emitted in this order.
	Participants []Participant `json:"participants"`

	// LineShares maps each receipt line ID to its owner shares. Every
	// line of the receipt must appear exactly once.
	LineShares map[string][]Share `json:"line_shares"`

	// ChargeRules optionally overrides the apportionment policy per
	// charge line ID. Absent charges default to ChargeProportional.
	ChargeRules map[string]ChargeRule `json:"charge_rules,omitempty"`
}

// ChargeRuleFor returns the rule for a charge, defaulting to the
// proportional policy.
func (a *Allocation) ChargeRuleFor(chargeID string) ChargeRule {
	if rule, ok := a.ChargeRules[chargeID]; ok {
		return rule
	}
	return ChargeRule{Policy: ChargeProportional}
}

// ParticipantIDs returns the participant IDs in declaration order.
func (a *Allocation) ParticipantIDs() []string {
	ids := make([]string, len(a.Participants))
	for i, p := range a.Participants {
		ids[i] = p.ID
	}
	return ids
}

// Validate checks the allocation against the receipt it is meant to split:
// a non-empty participant set, full coverage of every receipt line, positive
// weights, and rules that only reference known lines, charges, and
// participants. Violations carry the offending ID.
func (a *Allocation) Validate(r *Receipt) error {
	if len(a.Participants) == 0 {
		return validationErrorf("", "participant set must not be empty")
	}

	known := make(map[string]bool, len(a.Participants))
	for _, p := range a.Participants {
		if p.ID == "" {
			return validationErrorf("", "participant is missing an id")
		}
		if known[p.ID] {
			return validationErrorf(p.ID, "duplicate participant id")
		}
		known[p.ID] = true
	}

	for _, line := range r.Lines {
		shares, ok := a.LineShares[line.ID]
		if !ok || len(shares) == 0 {
			return validationErrorf(line.ID, "receipt line has no allocation")
		}
		if err := a.validateShares(line.ID, shares, known); err != nil {
			return err
		}
	}
	for lineID := range a.LineShares {
		if r.LineByID(lineID) == nil {
			return validationErrorf(lineID, "allocation references unknown receipt line")
		}
	}

	for chargeID, rule := range a.ChargeRules {
		if r.ChargeByID(chargeID) == nil {
			return validationErrorf(chargeID, "charge rule references unknown charge line")
		}
		switch rule.Policy {
		case ChargeProportional, ChargeEqualSplit:
			// No explicit shares needed.
		case ChargeAssigned:
			if len(rule.Shares) == 0 {
				return validationErrorf(chargeID, "assigned charge rule has no shares")
			}
			if err := a.validateShares(chargeID, rule.Shares, known); err != nil {
				return err
			}
		default:
			return validationErrorf(chargeID, "unknown charge policy %q", rule.Policy)
		}
	}
	return nil
}

func (a *Allocation) validateShares(subjectID string, shares []Share, known map[string]bool) error {
	seen := make(map[string]bool, len(shares))
	for _, share := range shares {
		if !known[share.ParticipantID] {
			return validationErrorf(subjectID, "share references unknown participant %q", share.ParticipantID)
		}
		if seen[share.ParticipantID] {
			return validationErrorf(subjectID, "participant %q appears twice in shares", share.ParticipantID)
		}
		seen[share.ParticipantID] = true
		if !share.Weight.IsPositive() {
			return validationErrorf(subjectID, "weight for participant %q must be positive, got %s", share.ParticipantID, share.Weight)
		}
	}
	return nil
}

// EqualShares builds a unit-weight share per participant, the shape used
// for "shared" items split equally.
func EqualShares(participantIDs []string) []Share {
	shares := make([]Share, len(participantIDs))
	for i, id := range participantIDs {
		shares[i] = Share{ParticipantID: id, Weight: decimal.NewFromInt(1)}
	}
	return shares
}
