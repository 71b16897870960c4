package models

import (
	"github.com/splitproof/splitproof/internal/money"
)

// Run is a persisted settlement run: the inputs, the result, the trace,
// and the validator's verdict, kept together so the run can be audited or
// re-rendered later.
type Run struct {
	// ID is the unique identifier for the run (UUID format).
	ID string `json:"id"`

	// OwnerID is the user who stored the run.
	OwnerID string `json:"owner_id"`

	Receipt    *Receipt    `json:"receipt"`
	Allocation *Allocation `json:"allocation"`
	Settlement *Settlement `json:"settlement"`

	Trace    []ReasoningStep         `json:"trace"`
	Verdict  ValidationResult        `json:"verdict"`
	Warnings []ReconciliationWarning `json:"warnings,omitempty"`

	// CreatedAt is the Unix timestamp when the run was stored.
	CreatedAt int64 `json:"created_at"`
}

// RunSummary is the listing shape for stored runs.
type RunSummary struct {
	ID               string      `json:"id"`
	GrandTotal       money.Money `json:"grand_total"`
	ParticipantCount int         `json:"participant_count"`
	Valid            bool        `json:"valid"`
	CreatedAt        int64       `json:"created_at"`
}
