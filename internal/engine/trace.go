package engine

import (
	"github.com/splitproof/splitproof/internal/models"
	"github.com/splitproof/splitproof/internal/money"
)

// traceBuilder accumulates reasoning steps in the exact order operations
// occur: item lines in receipt order, then charge lines in receipt order,
// then any residual adjustment. Steps are append-only; nothing edits a
// recorded step.
type traceBuilder struct {
	steps []models.ReasoningStep
}

// record appends one step. Amounts are given in the same order as the
// weights that produced them.
func (tb *traceBuilder) record(subjectID string, kind models.SubjectKind, action string, input money.Money, weights []money.Weight, parts []money.Money) {
	amounts := make([]models.StepAmount, len(parts))
	for i, part := range parts {
		amounts[i] = models.StepAmount{ParticipantID: weights[i].ID, Amount: part}
	}
	tb.steps = append(tb.steps, models.ReasoningStep{
		Index:       len(tb.steps) + 1,
		SubjectID:   subjectID,
		SubjectKind: kind,
		Action:      action,
		Input:       input,
		Amounts:     amounts,
	})
}

// recordAdjustment appends the residual-adjustment step.
func (tb *traceBuilder) recordAdjustment(participantID string, residual money.Money) {
	tb.steps = append(tb.steps, models.ReasoningStep{
		Index:       len(tb.steps) + 1,
		SubjectID:   "residual",
		SubjectKind: models.SubjectAdjustment,
		Action:      "assign rounding residual to participant with largest total",
		Input:       residual,
		Amounts:     []models.StepAmount{{ParticipantID: participantID, Amount: residual}},
	})
}
