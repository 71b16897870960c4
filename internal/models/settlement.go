package models

import (
	"github.com/splitproof/splitproof/internal/money"
)

// SubjectKind classifies what a contribution or reasoning step refers to.
type SubjectKind string

const (
	SubjectLine       SubjectKind = "line"
	SubjectCharge     SubjectKind = "charge"
	SubjectAdjustment SubjectKind = "adjustment"
)

// Contribution is the exact sub-amount a line, charge, or residual
// adjustment added to one participant's total.
type Contribution struct {
	SubjectID string      `json:"subject_id"`
	Kind      SubjectKind `json:"kind"`
	Amount    money.Money `json:"amount"`
}

// SettlementEntry is one participant's final position: the owed amount and
// the ordered contributions it was built from. Entries are produced fresh
// per run and never mutated.
type SettlementEntry struct {
	ParticipantID string         `json:"participant_id"`
	DisplayName   string         `json:"display_name"`
	Owed          money.Money    `json:"owed"`
	Contributions []Contribution `json:"contributions"`
}

// ResidualAdjustment records which participant absorbed a rounding
// residual during reconciliation, and how much.
type ResidualAdjustment struct {
	ParticipantID string      `json:"participant_id"`
	Amount        money.Money `json:"amount"`
}

// Settlement is the per-participant result of a run. Its core contract:
// the entry amounts sum to GrandTotal exactly, in minor units, with zero
// tolerance.
type Settlement struct {
	Entries    []SettlementEntry   `json:"entries"`
	Residual   *ResidualAdjustment `json:"residual,omitempty"`
	GrandTotal money.Money         `json:"grand_total"`
}

// EntryFor returns the entry for a participant, or nil.
func (s *Settlement) EntryFor(participantID string) *SettlementEntry {
	for i := range s.Entries {
		if s.Entries[i].ParticipantID == participantID {
			return &s.Entries[i]
		}
	}
	return nil
}

// Total sums the owed amounts across all entries.
func (s *Settlement) Total() money.Money {
	total := money.Zero(s.GrandTotal.Currency())
	for _, entry := range s.Entries {
		total, _ = total.Add(entry.Owed)
	}
	return total
}

// StepAmount is one participant's resulting amount within a reasoning step.
type StepAmount struct {
	ParticipantID string      `json:"participant_id"`
	Amount        money.Money `json:"amount"`
}

// ReasoningStep is one append-only entry in the reasoning trace: which
// subject was apportioned, how, from what input amount, and what each
// participant received. The ordered sequence of steps is deterministic for
// identical inputs: replaying a run must produce byte-identical trace
// content.
type ReasoningStep struct {
	Index       int          `json:"index"`
	SubjectID   string       `json:"subject_id"`
	SubjectKind SubjectKind  `json:"subject_kind"`
	Action      string       `json:"action"`
	Input       money.Money  `json:"input"`
	Amounts     []StepAmount `json:"amounts"`
}

// ValidationResult is the final gate's verdict on a settlement.
type ValidationResult struct {
	Valid   bool     `json:"valid"`
	Reasons []string `json:"reasons,omitempty"`
}

// ReconciliationWarning is attached to a run when a residual was absorbed
// during reconciliation instead of failing the settlement.
type ReconciliationWarning struct {
	ParticipantID string      `json:"participant_id"`
	Residual      money.Money `json:"residual"`
	Message       string      `json:"message"`
}
