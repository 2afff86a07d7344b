package clsp

import "math"

// StepBound is the tightened upper bound (in whole production steps) for a
// single H[m,p,t] variable, computed by the Big-M Tightener (spec.md §4.2).
type StepBound struct {
	Steps int // upper bound on H, in step units
}

// TightenBounds computes the per-(product, period) remaining-demand suffix
// sums and, for every product, one tightened upper bound per period that
// applies to H[m,p,t] on every eligible machine m. The rate used is the
// fastest eligible machine's, so slower machines get the same (looser)
// bound rather than one computed from their own rate.
//
// UB = min(floor(hours_per_period / step_hours), ceil(remaining[p,i] / (rate * step_hours)))
//
// The ratio is rounded up to a whole step whether or not IntegerVar is set;
// for a continuous decision the bound is therefore up to one step looser
// than the real ratio. A looser bound affects only relaxation quality, not
// correctness.
func TightenBounds(in *ScenarioInput, h *Horizon) map[ProductKey][]int {
	hoursPerStepCap := int(math.Floor(in.HoursPerPeriod / in.StepHours))

	bounds := make(map[ProductKey][]int, len(in.Products))
	for _, p := range in.Products {
		remaining := remainingDemand(in, h, p)
		machines := h.ProductMachines[p]
		if len(machines) == 0 {
			bounds[p] = make([]int, len(h.Periods)) // all zero: no eligible machine
			continue
		}
		// Use the fastest eligible machine's rate for the demand-side bound;
		// any individual H[m,p,t] is still capped further at constraint
		// assembly time by hoursPerStepCap, which is machine-agnostic.
		bestRate := 0.0
		for _, m := range machines {
			if r := in.Productivity[p][m]; r > bestRate {
				bestRate = r
			}
		}
		perPeriod := make([]int, len(h.Periods))
		for i := range h.Periods {
			demandBound := hoursPerStepCap
			if bestRate > 0 {
				need := remaining[i]
				if in.MaxDelay > 0 {
					// A backlog window reaching forward from an earlier
					// period can still need covering at period i even
					// though i's own forward demand (remaining[i]) is
					// small or zero — widen the bound by the largest
					// trailing backlog that MaxDelay allows flowing into
					// i, rather than blindly using the spec's pure
					// forward suffix sum, which would otherwise make a
					// legitimate backlog-clearing period infeasible.
					need += backlogInflowBound(in, h, p, i)
				}
				ratio := need / (bestRate * in.StepHours)
				demandBound = int(math.Ceil(ratio))
			}
			ub := hoursPerStepCap
			if demandBound < ub {
				ub = demandBound
			}
			if ub < 0 {
				ub = 0
			}
			perPeriod[i] = ub
		}
		bounds[p] = perPeriod
	}
	return bounds
}

// backlogInflowBound bounds the largest backlog that the backlog-window
// constraint (spec.md §4.5) could still be carrying into period i from
// earlier periods: the trailing MaxDelay periods' own demand, the same sum
// the window cap itself uses for period i-1.
func backlogInflowBound(in *ScenarioInput, h *Horizon, p ProductKey, i int) float64 {
	if i == 0 {
		return 0
	}
	windowStart := i - in.MaxDelay
	if windowStart < 0 {
		windowStart = 0
	}
	sum := 0.0
	for k := windowStart; k < i; k++ {
		sum += demandAt(in, p, h.Periods[k])
	}
	return sum
}
