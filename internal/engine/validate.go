package engine

import (
	"fmt"

	"github.com/splitproof/splitproof/internal/models"
)

// validate is the final gate. It re-sums the settlement against the grand
// total with zero tolerance, checks that no participant appears twice, and
// that nobody owes a negative amount unless the receipt carries a discount.
// The verdict is returned alongside the settlement, never in place of it.
func validate(receipt *models.Receipt, alloc *models.Allocation, settlement *models.Settlement) models.ValidationResult {
	var reasons []string

	total := settlement.Total()
	if !total.Equal(settlement.GrandTotal) {
		reasons = append(reasons, fmt.Sprintf("settlement sums to %s, receipt grand total is %s", total, settlement.GrandTotal))
	}

	seen := make(map[string]bool, len(settlement.Entries))
	for _, entry := range settlement.Entries {
		if seen[entry.ParticipantID] {
			reasons = append(reasons, fmt.Sprintf("participant %s appears more than once in settlement", entry.ParticipantID))
		}
		seen[entry.ParticipantID] = true
	}
	for _, p := range alloc.Participants {
		if !seen[p.ID] {
			reasons = append(reasons, fmt.Sprintf("participant %s is missing from settlement", p.ID))
		}
	}

	hasDiscount := false
	for _, charge := range receipt.Charges {
		if charge.Kind == models.ChargeDiscount {
			hasDiscount = true
			break
		}
	}
	if !hasDiscount {
		for _, entry := range settlement.Entries {
			if entry.Owed.IsNegative() {
				reasons = append(reasons, fmt.Sprintf("participant %s owes negative amount %s without any discount charge", entry.ParticipantID, entry.Owed))
			}
		}
	}

	return models.ValidationResult{Valid: len(reasons) == 0, Reasons: reasons}
}
