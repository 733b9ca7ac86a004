package llm

import (
	"math"
	"testing"
)

func TestLookupCost(t *testing.T) {
	tests := []struct {
		model string
		want  *ModelCost
	}{
		{"gpt-4o-mini", &ModelCost{0.15, 0.6}},
		{"openai/gpt-4o-mini", &ModelCost{0.15, 0.6}},
		{"meta-llama/llama-3.1-8b-instruct", &ModelCost{0.02, 0.03}},
		{"mystery/model", nil},
	}
	for _, tt := range tests {
		got := LookupCost(tt.model)
		switch {
		case tt.want == nil && got != nil:
			t.Errorf("LookupCost(%q) = %+v, want nil", tt.model, *got)
		case tt.want != nil && (got == nil || *got != *tt.want):
			t.Errorf("LookupCost(%q) = %v, want %+v", tt.model, got, *tt.want)
		}
	}
}

func TestModelCost_Cost(t *testing.T) {
	c := ModelCost{InputPerMTok: 0.15, OutputPerMTok: 0.6}
	got := c.Cost(1_000_000, 500_000)
	if math.Abs(got-0.45) > 1e-9 {
		t.Fatalf("Cost = %f, want 0.45", got)
	}
}
