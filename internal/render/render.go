// Package render formats settlement results as shareable plain text.
// Rendering is pure string formatting over the structured result: no
// model calls, no locale logic, no randomness. Identical runs render to
// identical text, which keeps the output usable as an audit artifact.
package render

import (
	"fmt"
	"strings"

	"github.com/splitproof/splitproof/internal/models"
)

// Summary renders the per-participant totals followed by the step-by-step
// breakdown from the reasoning trace.
func Summary(settlement *models.Settlement, trace []models.ReasoningStep) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Total %s split %d ways\n", settlement.GrandTotal, len(settlement.Entries))
	for _, entry := range settlement.Entries {
		name := entry.DisplayName
		if name == "" {
			name = entry.ParticipantID
		}
		fmt.Fprintf(&b, "  %s owes %s\n", name, entry.Owed)
	}
	if settlement.Residual != nil {
		fmt.Fprintf(&b, "  (rounding residual of %s assigned to %s)\n",
			settlement.Residual.Amount, settlement.Residual.ParticipantID)
	}

	b.WriteString("\nHow it was computed:\n")
	for _, step := range trace {
		fmt.Fprintf(&b, "  %d. %s %s: %s (%s)\n", step.Index, step.SubjectKind, step.SubjectID, step.Action, step.Input)
		for _, amount := range step.Amounts {
			fmt.Fprintf(&b, "     - %s: %s\n", amount.ParticipantID, amount.Amount)
		}
	}
	return b.String()
}

// EntryDetail renders one participant's contributions, one line per
// subject, for per-person receipts.
func EntryDetail(entry *models.SettlementEntry) string {
	var b strings.Builder

	name := entry.DisplayName
	if name == "" {
		name = entry.ParticipantID
	}
	fmt.Fprintf(&b, "%s owes %s\n", name, entry.Owed)
	for _, c := range entry.Contributions {
		fmt.Fprintf(&b, "  %s %s: %s\n", c.Kind, c.SubjectID, c.Amount)
	}
	return b.String()
}
