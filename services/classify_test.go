package services

import (
	"errors"
	"testing"
)

type pricePoint struct {
	rating float64
	price  float64
}

func premiumTestRules() []Rule[pricePoint] {
	return []Rule[pricePoint]{
		{Label: "Premium Quality", Matches: func(p pricePoint) bool { return p.rating >= 4.2 && p.price >= 1500 }},
		{Label: "Affordable Quality", Matches: func(p pricePoint) bool { return p.rating >= 4.2 }},
		{Label: "Premium Price", Matches: func(p pricePoint) bool { return p.price >= 1500 }},
		{Label: "Standard"},
	}
}

func TestFirstMatchIsOrderSensitive(t *testing.T) {
	// rating 4.3 / price 1600 satisfies the later, more permissive rules
	// too; the first rule in chain order must win.
	got, err := FirstMatch(premiumTestRules(), pricePoint{rating: 4.3, price: 1600})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Premium Quality" {
		t.Errorf("label: got %q, want %q", got, "Premium Quality")
	}
}

func TestFirstMatchFallsThroughInOrder(t *testing.T) {
	tests := []struct {
		in   pricePoint
		want string
	}{
		{pricePoint{rating: 4.4, price: 300}, "Affordable Quality"},
		{pricePoint{rating: 3.1, price: 2500}, "Premium Price"},
		{pricePoint{rating: 3.0, price: 200}, "Standard"},
	}

	for _, tt := range tests {
		got, err := FirstMatch(premiumTestRules(), tt.in)
		if err != nil {
			t.Errorf("FirstMatch(%+v) unexpected error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("FirstMatch(%+v) = %q; want %q", tt.in, got, tt.want)
		}
	}
}

func TestFirstMatchWithoutCatchAll(t *testing.T) {
	rules := []Rule[float64]{
		{Label: "High", Matches: func(v float64) bool { return v >= 10 }},
	}

	_, err := FirstMatch(rules, 3.0)
	if !errors.Is(err, ErrUndefinedOperation) {
		t.Errorf("expected ErrUndefinedOperation, got %v", err)
	}
}
