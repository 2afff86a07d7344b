package clsp

import "testing"

func TestTightenBounds_DemandSideBindsWhenTighterThanCapacity(t *testing.T) {
	pA := ProductKey{Model: "A", Variant: "L"}
	in := &ScenarioInput{
		Products: []ProductKey{pA},
		Demand: map[ProductKey]map[string]float64{
			pA: {"t1": 50, "t2": 0},
		},
		Productivity:   map[ProductKey]map[string]float64{pA: {"1": 10}},
		ActiveMachines: []string{"1"},
		StartPeriod:    "t1",
		HoursPerPeriod: 720,
		StepHours:      6,
		IntegerVar:     true,
	}
	h, ok := BuildHorizon(in)
	if !ok {
		t.Fatal("BuildHorizon() ok = false")
	}
	bounds := TightenBounds(in, h)

	// capacity cap = floor(720/6) = 120 steps; demand cap at t1 =
	// ceil(remaining[p,0]/(rate*step)) = ceil(50/(10*6)) = ceil(0.833) = 1.
	if got := bounds[pA][0]; got != 1 {
		t.Errorf("bounds[pA][0] = %d, want 1 (demand-bound tighter than capacity)", got)
	}
	// t2 has zero remaining demand, so its bound is 0.
	if got := bounds[pA][1]; got != 0 {
		t.Errorf("bounds[pA][1] = %d, want 0", got)
	}
}

func TestTightenBounds_NoEligibleMachineYieldsZeroBound(t *testing.T) {
	pA := ProductKey{Model: "A", Variant: "L"}
	in := &ScenarioInput{
		Products: []ProductKey{pA},
		Demand: map[ProductKey]map[string]float64{
			pA: {"t1": 50},
		},
		Productivity:   map[ProductKey]map[string]float64{}, // no eligibility at all
		ActiveMachines: []string{"1"},
		StartPeriod:    "t1",
		HoursPerPeriod: 720,
		StepHours:      6,
		IntegerVar:     true,
	}
	h, ok := BuildHorizon(in)
	if !ok {
		t.Fatal("BuildHorizon() ok = false")
	}
	bounds := TightenBounds(in, h)
	for i, b := range bounds[pA] {
		if b != 0 {
			t.Errorf("bounds[pA][%d] = %d, want 0 (no eligible machine)", i, b)
		}
	}
}

func TestTightenBounds_CapacityCapsWhenDemandIsLarge(t *testing.T) {
	pA := ProductKey{Model: "A", Variant: "L"}
	in := &ScenarioInput{
		Products: []ProductKey{pA},
		Demand: map[ProductKey]map[string]float64{
			pA: {"t1": 100000},
		},
		Productivity:   map[ProductKey]map[string]float64{pA: {"1": 10}},
		ActiveMachines: []string{"1"},
		StartPeriod:    "t1",
		HoursPerPeriod: 720,
		StepHours:      6,
		IntegerVar:     true,
	}
	h, ok := BuildHorizon(in)
	if !ok {
		t.Fatal("BuildHorizon() ok = false")
	}
	bounds := TightenBounds(in, h)
	if got := bounds[pA][0]; got != 120 {
		t.Errorf("bounds[pA][0] = %d, want 120 (capacity-bound tighter than demand)", got)
	}
}
