package models

import (
	"testing"
)

func TestParseUpstreamVariant(t *testing.T) {
	tests := []struct {
		input    string
		expected VariantKind
		ok       bool
	}{
		{"holofoil", VariantHolofoil, true},
		{"unlimitedHolofoil", VariantHolofoil, true},
		{"reverseHolofoil", VariantReverseHolofoil, true},
		{"normal", VariantNormal, true},
		{"1stEditionHolofoil", VariantFirstEdition, true},
		{"1stEditionNormal", VariantFirstEdition, true},
		{"  Normal ", VariantNormal, true},
		{"graded", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseUpstreamVariant(tt.input)
			if got != tt.expected || ok != tt.ok {
				t.Errorf("ParseUpstreamVariant(%q) = (%q, %v), want (%q, %v)", tt.input, got, ok, tt.expected, tt.ok)
			}
		})
	}
}

func TestVariantKindRank(t *testing.T) {
	kinds := AllVariantKinds()
	for i, k := range kinds {
		if k.Rank() != i {
			t.Errorf("%s.Rank() = %d, want %d", k, k.Rank(), i)
		}
	}
	if VariantKind("mystery").Rank() != len(kinds) {
		t.Error("unknown kind should rank last")
	}
}

func TestWithSet(t *testing.T) {
	ref := SetRef{Query: "base", ID: "base1", Name: "Base Set"}

	got := WithSet(TopNValuable{Set: SetRef{Query: "base"}, N: 3}, ref)
	top, ok := got.(TopNValuable)
	if !ok {
		t.Fatalf("WithSet changed intent type to %T", got)
	}
	if top.Set != ref || top.N != 3 {
		t.Errorf("WithSet = %+v, want set %+v and N 3", top, ref)
	}

	unchanged := WithSet(SearchByName{Fragment: "pika"}, ref)
	if unchanged != (SearchByName{Fragment: "pika"}) {
		t.Errorf("WithSet should not alter SearchByName, got %+v", unchanged)
	}

	if _, ok := SetOf(Unknown{Raw: "hi"}); ok {
		t.Error("Unknown carries no set")
	}
}
