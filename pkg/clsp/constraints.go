package clsp

import (
	"math"

	"github.com/lotopt/clsp/pkg/minikanren"
)

// AssembleConstraints adds the constraint families of spec.md §3/§4.5:
// one-state, setup-indicator linking, Y<->S linking with idleness, capacity
// with setup time, mass balance, delivery identity, the backlog window cap
// (when MaxDelay > 0), safety-stock forward coverage, and the optional
// vacation total. It never fails at assembly time (spec.md §4.5);
// any infeasibility this produces surfaces only once the solver runs.
func AssembleConstraints(model *minikanren.Model, in *ScenarioInput, h *Horizon, vs *VariableSet) error {
	n := len(h.Periods)

	for _, m := range in.ActiveMachines {
		products := h.MachineProducts[m]

		// 1. One state at a time: sum_p S[m,p,t] = 1.
		if len(products) > 0 {
			for t := 0; t < n; t++ {
				terms := make([]term, 0, len(products))
				for _, p := range products {
					s, _ := vs.SVar(m, p, t)
					terms = append(terms, bin(s, 1))
				}
				if err := mustAddRelation(model, "one_state", terms, minikanren.RelEQ, 1); err != nil {
					return err
				}
			}
		}

		for t := 0; t < n; t++ {
			idle := vs.Idle[m][t]

			// 4. sum_p Y[m,p,t] + |P_m|*Idle[m,t] <= |P_m|.
			if len(products) > 0 {
				terms := make([]term, 0, len(products)+1)
				for _, p := range products {
					y, _ := vs.YVar(m, p, t)
					terms = append(terms, bin(y, 1))
				}
				terms = append(terms, bin(idle, float64(len(products))))
				if err := mustAddRelation(model, "idle_forbids_production", terms, minikanren.RelLE, float64(len(products))); err != nil {
					return err
				}
			}

			// 5. Capacity: sum_p (H*step_hours + setup_time*Delta) <= hours_per_period.
			capTerms := make([]term, 0, 2*len(products))
			for _, p := range products {
				hv, _ := vs.HVar(m, p, t)
				dv, _ := vs.DeltaVar(m, p, t)
				capTerms = append(capTerms, hterm(hv, in.StepHours, in.IntegerVar))
				capTerms = append(capTerms, bin(dv, in.setupHours(m)))
			}
			if len(capTerms) > 0 {
				if err := mustAddRelation(model, "capacity", capTerms, minikanren.RelLE, in.HoursPerPeriod); err != nil {
					return err
				}
			}
		}

		for _, p := range products {
			yv := vs.Y[m][p]
			sv := vs.S[m][p]
			dv := vs.Delta[m][p]
			for t := 0; t < n; t++ {
				// 3. S[m,p,t] <= Y[m,p,t] + Idle[m,t].
				if err := mustAddRelation(model, "configured_implies_produced_or_idle",
					[]term{bin(sv[t], 1), bin(yv[t], -1), bin(vs.Idle[m][t], -1)},
					minikanren.RelLE, 0); err != nil {
					return err
				}

				// 2. Setup-indicator linking. t_idx==0 treats prev_S as 0
				// (spec.md §4.5's "every active configuration pays an
				// initial setup" edge case), so the prevS term is simply
				// omitted rather than bound to a constant variable.
				if t == 0 {
					if err := mustAddRelation(model, "setup_ge_config_transition",
						[]term{bin(dv[t], 1), bin(sv[t], -1)}, minikanren.RelGE, 0); err != nil {
						return err
					}
					if err := mustAddRelation(model, "setup_ge_production_transition",
						[]term{bin(dv[t], 1), bin(yv[t], -1)}, minikanren.RelGE, 0); err != nil {
						return err
					}
				} else {
					if err := mustAddRelation(model, "setup_ge_config_transition",
						[]term{bin(dv[t], 1), bin(sv[t], -1), bin(sv[t-1], 1)}, minikanren.RelGE, 0); err != nil {
						return err
					}
					if err := mustAddRelation(model, "setup_ge_production_transition",
						[]term{bin(dv[t], 1), bin(yv[t], -1), bin(sv[t-1], 1)}, minikanren.RelGE, 0); err != nil {
						return err
					}
				}
			}
		}
	}

	for _, p := range in.Products {
		machines := h.ProductMachines[p]
		iv := vs.I[p]
		qv := vs.Q[p]
		kv := vs.K[p]
		var bv []*minikanren.FDVariable
		if vs.B != nil {
			bv = vs.B[p]
		}

		for t := 0; t < n; t++ {
			demand := demandAt(in, p, h.Periods[t])

			// 6. Mass balance: I[t-1] + produced[t] + (B[t]-B[t-1]) = I[t] + demand - K[t],
			// rearranged so every variable term lands on the left:
			// I[t-1] - I[t] + produced[t] + B[t] - B[t-1] + K[t] = demand.
			balTerms := make([]term, 0, len(machines)+4)
			rhs := demand
			if t == 0 {
				rhs -= in.InitialStock[p]
			} else {
				balTerms = append(balTerms, qty(iv[t-1], 1))
			}
			balTerms = append(balTerms, qty(iv[t], -1))
			for _, m := range machines {
				hv, ok := vs.HVar(m, p, t)
				if !ok {
					continue
				}
				rate := in.Productivity[p][m]
				balTerms = append(balTerms, hterm(hv, in.StepHours*rate, in.IntegerVar))
			}
			balTerms = append(balTerms, qty(kv[t], 1))
			if bv != nil {
				balTerms = append(balTerms, qty(bv[t], 1))
				if t > 0 {
					balTerms = append(balTerms, qty(bv[t-1], -1))
				}
			}
			if err := mustAddRelation(model, "mass_balance", balTerms, minikanren.RelEQ, rhs); err != nil {
				return err
			}

			// 7. Delivery identity: Q[t] + K[t] + (B[t]-B[t-1]) = demand.
			delTerms := []term{qty(qv[t], 1), qty(kv[t], 1)}
			if bv != nil {
				delTerms = append(delTerms, qty(bv[t], 1))
				if t > 0 {
					delTerms = append(delTerms, qty(bv[t-1], -1))
				}
			}
			if err := mustAddRelation(model, "delivery_identity", delTerms, minikanren.RelEQ, demand); err != nil {
				return err
			}

			// backlog window cap: B[t] <= sum of demand over the trailing
			// max_delay periods (spec.md §4.5).
			if bv != nil && in.MaxDelay > 0 {
				windowStart := t - in.MaxDelay + 1
				if windowStart < 0 {
					windowStart = 0
				}
				windowDemand := 0.0
				for k := windowStart; k <= t; k++ {
					windowDemand += demandAt(in, p, h.Periods[k])
				}
				if err := mustAddRelation(model, "backlog_window", []term{qty(bv[t], 1)}, minikanren.RelLE, windowDemand); err != nil {
					return err
				}
			}

			// 8. Safety stock: I[t] >= safety_stock_pct * demand[t+1],
			// falling back to current-period demand on the last period.
			nextDemand := demand
			if t+1 < n {
				nextDemand = demandAt(in, p, h.Periods[t+1])
			}
			target := in.SafetyStockPct * nextDemand
			if err := mustAddRelation(model, "safety_stock", []term{qty(iv[t], 1)}, minikanren.RelGE, target); err != nil {
				return err
			}
		}
	}

	// 9. Vacation total: sum Idle = ceil(|active_machines| * horizon_years),
	// applied as equality, or as a minimum when VacationMinimumOnly is true
	// (spec.md §9's open question on over-tight vacation enforcement).
	if in.VacationPlanning {
		years := float64(n) / 12.0
		required := int(math.Ceil(float64(len(in.ActiveMachines)) * years))
		terms := make([]term, 0, len(in.ActiveMachines)*n)
		for _, m := range in.ActiveMachines {
			for t := 0; t < n; t++ {
				terms = append(terms, bin(vs.Idle[m][t], 1))
			}
		}
		relop := minikanren.RelEQ
		if in.VacationMinimumOnly {
			relop = minikanren.RelGE
		}
		if len(terms) > 0 {
			if err := mustAddRelation(model, "vacation_total", terms, relop, float64(required)); err != nil {
				return err
			}
		}
	}

	return nil
}
