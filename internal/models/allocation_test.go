package models

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func testReceipt(t *testing.T) *Receipt {
	t.Helper()
	r, err := NewReceipt(
		[]ReceiptLine{line("l1", "1", 2000, 2000), line("l2", "1", 1000, 1000)},
		[]ChargeLine{{ID: "tax", Kind: ChargeTax, Value: usd(300), Basis: BasisFlat}},
		usd(3300),
	)
	if err != nil {
		t.Fatalf("test receipt invalid: %v", err)
	}
	return r
}

func participants(ids ...string) []Participant {
	ps := make([]Participant, len(ids))
	for i, id := range ids {
		ps[i] = Participant{ID: id, DisplayName: id}
	}
	return ps
}

func TestAllocationValidate(t *testing.T) {
	tests := []struct {
		name        string
		alloc       Allocation
		wantErr     bool
		wantSubject string
	}{
		{
			name: "full coverage passes",
			alloc: Allocation{
				Participants: participants("alice", "bob"),
				LineShares: map[string][]Share{
					"l1": EqualShares([]string{"alice", "bob"}),
					"l2": {{ParticipantID: "bob", Weight: decimal.NewFromInt(1)}},
				},
			},
		},
		{
			name: "uncovered line is rejected with its id",
			alloc: Allocation{
				Participants: participants("alice"),
				LineShares: map[string][]Share{
					"l1": EqualShares([]string{"alice"}),
				},
			},
			wantErr:     true,
			wantSubject: "l2",
		},
		{
			name: "unknown line reference is rejected",
			alloc: Allocation{
				Participants: participants("alice"),
				LineShares: map[string][]Share{
					"l1":    EqualShares([]string{"alice"}),
					"l2":    EqualShares([]string{"alice"}),
					"ghost": EqualShares([]string{"alice"}),
				},
			},
			wantErr:     true,
			wantSubject: "ghost",
		},
		{
			name: "empty participant set is rejected",
			alloc: Allocation{
				LineShares: map[string][]Share{
					"l1": EqualShares([]string{"alice"}),
					"l2": EqualShares([]string{"alice"}),
				},
			},
			wantErr: true,
		},
		{
			name: "unknown participant in share is rejected",
			alloc: Allocation{
				Participants: participants("alice"),
				LineShares: map[string][]Share{
					"l1": EqualShares([]string{"alice"}),
					"l2": EqualShares([]string{"mallory"}),
				},
			},
			wantErr:     true,
			wantSubject: "l2",
		},
		{
			name: "non-positive weight is rejected",
			alloc: Allocation{
				Participants: participants("alice", "bob"),
				LineShares: map[string][]Share{
					"l1": EqualShares([]string{"alice"}),
					"l2": {{ParticipantID: "bob", Weight: decimal.Zero}},
				},
			},
			wantErr:     true,
			wantSubject: "l2",
		},
		{
			name: "assigned charge rule needs shares",
			alloc: Allocation{
				Participants: participants("alice", "bob"),
				LineShares: map[string][]Share{
					"l1": EqualShares([]string{"alice"}),
					"l2": EqualShares([]string{"bob"}),
				},
				ChargeRules: map[string]ChargeRule{
					"tax": {Policy: ChargeAssigned},
				},
			},
			wantErr:     true,
			wantSubject: "tax",
		},
		{
			name: "charge rule for unknown charge is rejected",
			alloc: Allocation{
				Participants: participants("alice"),
				LineShares: map[string][]Share{
					"l1": EqualShares([]string{"alice"}),
					"l2": EqualShares([]string{"alice"}),
				},
				ChargeRules: map[string]ChargeRule{
					"tip": {Policy: ChargeEqualSplit},
				},
			},
			wantErr:     true,
			wantSubject: "tip",
		},
	}

	receipt := testReceipt(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.alloc.Validate(receipt)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr {
				return
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("error %v is not a ValidationError", err)
			}
			if tt.wantSubject != "" && verr.Subject != tt.wantSubject {
				t.Errorf("ValidationError subject = %q, want %q", verr.Subject, tt.wantSubject)
			}
		})
	}
}

func TestChargeRuleForDefaultsToProportional(t *testing.T) {
	alloc := Allocation{Participants: participants("alice")}
	rule := alloc.ChargeRuleFor("anything")
	if rule.Policy != ChargeProportional {
		t.Errorf("default policy = %q, want %q", rule.Policy, ChargeProportional)
	}
}
