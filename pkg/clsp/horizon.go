package clsp

import "sort"

// Horizon is the output of the Index & Horizon Builder (spec.md §4.1):
// the ordered period set plus the machine<->product eligibility maps.
type Horizon struct {
	Periods         []string
	MachineProducts map[string][]ProductKey
	ProductMachines map[ProductKey][]string
}

// BuildHorizon filters and orders the period set and builds the eligibility
// maps restricted to active machines. Returns ok=false (no error) when the
// resulting period set is empty, per spec.md §4.1's documented failure mode:
// the caller should report {status: "No valid periods found"} without
// constructing a model.
func BuildHorizon(in *ScenarioInput) (*Horizon, bool) {
	periodSet := map[string]bool{}
	for _, p := range in.Products {
		for period := range in.Demand[p] {
			periodSet[period] = true
		}
	}

	periods := make([]string, 0, len(periodSet))
	for period := range periodSet {
		if period < in.StartPeriod {
			continue
		}
		if in.EndPeriod != "" && period > in.EndPeriod {
			continue
		}
		periods = append(periods, period)
	}
	sort.Strings(periods)

	if len(periods) == 0 {
		return nil, false
	}

	active := make(map[string]bool, len(in.ActiveMachines))
	for _, m := range in.ActiveMachines {
		active[m] = true
	}

	machineProducts := make(map[string][]ProductKey, len(in.ActiveMachines))
	productMachines := make(map[ProductKey][]string, len(in.Products))
	for _, p := range in.Products {
		for machine, rate := range in.Productivity[p] {
			if !active[machine] || rate <= 0 {
				continue
			}
			machineProducts[machine] = append(machineProducts[machine], p)
			productMachines[p] = append(productMachines[p], machine)
		}
	}
	// Deterministic iteration order for rows derived from these maps.
	for m := range machineProducts {
		sort.Slice(machineProducts[m], func(i, j int) bool {
			return machineProducts[m][i].symbol() < machineProducts[m][j].symbol()
		})
	}
	for p := range productMachines {
		sort.Strings(productMachines[p])
	}

	return &Horizon{
		Periods:         periods,
		MachineProducts: machineProducts,
		ProductMachines: productMachines,
	}, true
}

// demandAt returns demand[p, period], zero-filled per spec.md §3.
func demandAt(in *ScenarioInput, p ProductKey, period string) float64 {
	if m, ok := in.Demand[p]; ok {
		return m[period]
	}
	return 0
}

// remainingDemand computes remaining[p, i] = sum_{j>=i} demand[p, Periods[j]],
// the suffix sum the Big-M Tightener needs (spec.md §4.2).
func remainingDemand(in *ScenarioInput, h *Horizon, p ProductKey) []float64 {
	n := len(h.Periods)
	out := make([]float64, n)
	running := 0.0
	for i := n - 1; i >= 0; i-- {
		running += demandAt(in, p, h.Periods[i])
		out[i] = running
	}
	return out
}
