package clsp

import "testing"

func TestQuantityDomainRoundTrip(t *testing.T) {
	cases := []float64{0, 1, 12.5, 100, 999.999}
	for _, v := range cases {
		d := quantityToDomain(v)
		got := domainToQuantity(d)
		if diff := got - v; diff > 1e-6 || diff < -1e-6 {
			t.Errorf("quantityToDomain/domainToQuantity(%v) round-trip = %v, want %v", v, got, v)
		}
	}
}

func TestQuantityToDomainNeverZero(t *testing.T) {
	// Zero is a legitimate quantity (empty inventory); the domain encoding
	// must not collide with the 1-indexed domain's invalid-zero convention.
	if d := quantityToDomain(0); d != domainOffset {
		t.Errorf("quantityToDomain(0) = %d, want %d (domainOffset)", d, domainOffset)
	}
}

func TestCountDomainRoundTrip(t *testing.T) {
	for _, v := range []int{0, 1, 5, 100} {
		d := countToDomain(v)
		if got := domainToCount(d); got != v {
			t.Errorf("countToDomain/domainToCount(%d) round-trip = %d, want %d", v, got, v)
		}
	}
}

func TestDomainToBool(t *testing.T) {
	tests := []struct {
		raw  int
		want bool
	}{
		{countToDomain(0), false},
		{countToDomain(1), true},
	}
	for _, tt := range tests {
		if got := domainToBool(tt.raw); got != tt.want {
			t.Errorf("domainToBool(%d) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}
