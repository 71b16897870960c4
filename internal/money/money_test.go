package money

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

func TestAddSub(t *testing.T) {
	a := New(1050, "USD")
	b := New(25, "USD")

	sum, err := a.Add(b)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if sum.Amount() != 1075 {
		t.Errorf("Add = %d, want 1075", sum.Amount())
	}

	diff, err := a.Sub(b)
	if err != nil {
		t.Fatalf("Sub failed: %v", err)
	}
	if diff.Amount() != 1025 {
		t.Errorf("Sub = %d, want 1025", diff.Amount())
	}
}

func TestCurrencyMismatch(t *testing.T) {
	a := New(100, "USD")
	b := New(100, "EUR")

	if _, err := a.Add(b); err == nil {
		t.Error("expected error adding USD to EUR")
	}
	if _, err := a.Sub(b); err == nil {
		t.Error("expected error subtracting EUR from USD")
	}
}

func TestMulDecimal(t *testing.T) {
	tests := []struct {
		name     string
		amount   int64
		factor   string
		expected int64
	}{
		{"integer quantity", 1050, "3", 3150},
		{"fractional quantity", 499, "2.5", 1248}, // 1247.5 rounds half-up
		{"percentage", 5000, "0.10", 500},
		{"rounds down", 333, "0.1", 33},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := decimal.NewFromString(tt.factor)
			if err != nil {
				t.Fatalf("bad factor: %v", err)
			}
			got := New(tt.amount, "USD").MulDecimal(d)
			if got.Amount() != tt.expected {
				t.Errorf("MulDecimal(%d, %s) = %d, want %d", tt.amount, tt.factor, got.Amount(), tt.expected)
			}
		})
	}
}

func TestString(t *testing.T) {
	if got := New(1234, "USD").String(); got != "12.34 USD" {
		t.Errorf("String() = %q, want %q", got, "12.34 USD")
	}
	if got := New(-5, "USD").String(); got != "-0.05 USD" {
		t.Errorf("String() = %q, want %q", got, "-0.05 USD")
	}
}

func TestJSONRoundTrip(t *testing.T) {
	original := New(-250, "EUR")
	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var decoded Money
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if !decoded.Equal(original) {
		t.Errorf("round trip = %v, want %v", decoded, original)
	}
}

func TestAllocate(t *testing.T) {
	tests := []struct {
		name    string
		total   int64
		weights []Weight
		want    []int64
		wantErr bool
	}{
		{
			name:    "even two-way split",
			total:   3000,
			weights: EqualWeights([]string{"alice", "bob"}),
			want:    []int64{1500, 1500},
		},
		{
			name:    "10.01 three ways gives extra cents to first two",
			total:   1001,
			weights: EqualWeights([]string{"a", "b", "c"}),
			want:    []int64{334, 334, 333},
		},
		{
			name:  "proportional to item subtotals",
			total: 500,
			weights: []Weight{
				{ID: "alice", Value: decimal.NewFromInt(3000)},
				{ID: "bob", Value: decimal.NewFromInt(2000)},
			},
			want: []int64{300, 200},
		},
		{
			name:  "fractional weights",
			total: 100,
			weights: []Weight{
				{ID: "a", Value: decimal.RequireFromString("0.5")},
				{ID: "b", Value: decimal.RequireFromString("0.25")},
				{ID: "c", Value: decimal.RequireFromString("0.25")},
			},
			want: []int64{50, 25, 25},
		},
		{
			name:    "remainder ties broken by ascending id",
			total:   100,
			weights: EqualWeights([]string{"c", "a", "b"}),
			// 33.33 each; the extra unit goes to "a", the lowest id.
			want: []int64{33, 34, 33},
		},
		{
			name:    "negative total mirrors the positive split",
			total:   -1001,
			weights: EqualWeights([]string{"a", "b", "c"}),
			want:    []int64{-334, -334, -333},
		},
		{
			name:    "zero total",
			total:   0,
			weights: EqualWeights([]string{"a", "b"}),
			want:    []int64{0, 0},
		},
		{
			name:    "empty weights rejected",
			total:   100,
			weights: nil,
			wantErr: true,
		},
		{
			name:  "zero weight rejected",
			total: 100,
			weights: []Weight{
				{ID: "a", Value: decimal.NewFromInt(1)},
				{ID: "b", Value: decimal.Zero},
			},
			wantErr: true,
		},
		{
			name:  "negative weight rejected",
			total: 100,
			weights: []Weight{
				{ID: "a", Value: decimal.NewFromInt(-1)},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Allocate(New(tt.total, "USD"), tt.weights)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Allocate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}

			if len(got) != len(tt.want) {
				t.Fatalf("Allocate() returned %d parts, want %d", len(got), len(tt.want))
			}
			var sum int64
			for i, part := range got {
				if part.Amount() != tt.want[i] {
					t.Errorf("part[%d] = %d, want %d", i, part.Amount(), tt.want[i])
				}
				sum += part.Amount()
			}
			if sum != tt.total {
				t.Errorf("parts sum to %d, want %d", sum, tt.total)
			}
		})
	}
}

func TestAllocateExactSumProperty(t *testing.T) {
	// Awkward totals and weight sets must still sum exactly.
	totals := []int64{1, 7, 99, 100, 101, 9999, 123457}
	weightSets := [][]Weight{
		EqualWeights([]string{"a", "b", "c"}),
		EqualWeights([]string{"a", "b", "c", "d", "e", "f", "g"}),
		{
			{ID: "x", Value: decimal.RequireFromString("1.5")},
			{ID: "y", Value: decimal.RequireFromString("2.25")},
			{ID: "z", Value: decimal.RequireFromString("0.33")},
		},
	}

	for _, total := range totals {
		for _, weights := range weightSets {
			parts, err := Allocate(New(total, "USD"), weights)
			if err != nil {
				t.Fatalf("Allocate(%d) failed: %v", total, err)
			}
			var sum int64
			for _, p := range parts {
				sum += p.Amount()
			}
			if sum != total {
				t.Errorf("Allocate(%d) parts sum to %d", total, sum)
			}
		}
	}
}
