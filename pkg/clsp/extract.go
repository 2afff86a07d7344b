package clsp

import (
	"sort"

	"github.com/lotopt/clsp/pkg/minikanren"
)

// setupChainInit and setupChainVacation are the synthetic "from"/"to" labels
// spec.md §4.7's setup-chain reconstruction emits in place of a real product
// when a machine starts cold or comes back from idle.
const (
	setupChainInit     = "Início/Ocioso"
	setupChainVacation = "Parada/Férias"
	capacityTolerance  = 1e-6
)

func qtyValue(assignment []int, v *minikanren.FDVariable) float64 {
	return ValueOrZero(domainToQuantity(assignment[v.ID()]))
}

func boolValue(assignment []int, v *minikanren.FDVariable) bool {
	return domainToBool(assignment[v.ID()])
}

func stepsValue(assignment []int, v *minikanren.FDVariable, _ bool) float64 {
	raw := assignment[v.ID()]
	return float64(raw-domainOffset) / float64(hDenom())
}

// ExtractResult reads variable values from a solved assignment and
// reconstructs the interpretable production schedule of spec.md §4.7:
// inventory/demand/production/setup/vacation rows, a per-period summary,
// and the KPI block. Called only after a successful (Optimal or Feasible)
// solve; callers otherwise short-circuit to a rows-free result.
func ExtractResult(in *ScenarioInput, h *Horizon, vs *VariableSet, objTerms ObjectiveTerms, assignment []int, objRaw int) *SolveResult {
	n := len(h.Periods)
	res := &SolveResult{}

	productionKgByPeriod := make([]float64, n)
	productionHoursByPeriod := make([]float64, n)
	inventoryByPeriod := make([]float64, n)
	lostByPeriod := make([]float64, n)
	setupHoursByMachinePeriod := map[string][]float64{}
	for _, m := range in.ActiveMachines {
		setupHoursByMachinePeriod[m] = make([]float64, n)
	}

	// Inventory, demand, production rows (spec.md §4.7).
	for _, p := range in.Products {
		iv := vs.I[p]
		qv := vs.Q[p]
		kv := vs.K[p]
		var bv []*minikanren.FDVariable
		if vs.B != nil {
			bv = vs.B[p]
		}
		for t := 0; t < n; t++ {
			nextDemand := demandAt(in, p, h.Periods[t])
			if t+1 < n {
				nextDemand = demandAt(in, p, h.Periods[t+1])
			}
			invT := qtyValue(assignment, iv[t])
			lostT := qtyValue(assignment, kv[t])
			inventoryByPeriod[t] += invT
			lostByPeriod[t] += lostT

			res.Inventory = append(res.Inventory, InventoryRow{
				Period:    h.Periods[t],
				Product:   p,
				Inventory: invT,
				Target:    nextDemand,
			})

			backlog := 0.0
			if bv != nil {
				backlog = qtyValue(assignment, bv[t])
			}
			res.Demand = append(res.Demand, DemandRow{
				Period:  h.Periods[t],
				Product: p,
				Demand:  demandAt(in, p, h.Periods[t]),
				Met:     qtyValue(assignment, qv[t]),
				Lost:    lostT,
				Backlog: backlog,
			})
		}

		for _, m := range h.ProductMachines[p] {
			rate := in.Productivity[p][m]
			for t := 0; t < n; t++ {
				hvt, _ := vs.HVar(m, p, t)
				steps := stepsValue(assignment, hvt, in.IntegerVar)
				hours := steps * in.StepHours
				if hours <= capacityTolerance {
					continue
				}
				res.Production = append(res.Production, ProductionRow{
					Period:     h.Periods[t],
					Machine:    m,
					Product:    p,
					QuantityKg: hours * rate,
					Hours:      hours,
				})
				productionKgByPeriod[t] += hours * rate
				productionHoursByPeriod[t] += hours
			}
		}
	}

	// Setup-chain reconstruction and vacation rows (spec.md §4.7).
	for _, m := range in.ActiveMachines {
		products := h.MachineProducts[m]
		for t := 0; t < n; t++ {
			idleNow := boolValue(assignment, vs.Idle[m][t])

			if in.VacationPlanning && idleNow {
				res.Vacations = append(res.Vacations, VacationRow{
					Period:    h.Periods[t],
					Machine:   m,
					Operators: in.OperatorsPerMachine,
				})
			}

			fromProd := resolveFromProduct(vs, assignment, m, products, t)

			var finalProd ProductKey
			haveFinal := false
			for _, p := range products {
				s, _ := vs.SVar(m, p, t)
				if boolValue(assignment, s) {
					finalProd = p
					haveFinal = true
					break
				}
			}

			fired := make([]ProductKey, 0, len(products))
			for _, p := range products {
				d, _ := vs.DeltaVar(m, p, t)
				if boolValue(assignment, d) {
					fired = append(fired, p)
				}
			}
			sort.Slice(fired, func(i, j int) bool { return fired[i].symbol() < fired[j].symbol() })

			var chain []ProductKey
			firedFinal := false
			for _, p := range fired {
				if haveFinal && p == finalProd {
					firedFinal = true
					continue
				}
				chain = append(chain, p)
			}
			if haveFinal && firedFinal {
				chain = append(chain, finalProd)
			}

			currFrom := fromProd
			setupH := in.setupHours(m)
			for _, to := range chain {
				rate := in.Productivity[to][m]
				cost := in.Costs[to] * rate * setupH
				res.Setups = append(res.Setups, SetupRow{
					Period:  h.Periods[t],
					Machine: m,
					From:    currFrom,
					To:      to.String(),
					Cost:    cost,
				})
				setupHoursByMachinePeriod[m][t] += setupH
				currFrom = to.String()
			}
		}
	}

	// Per-period summary (spec.md §4.7).
	activeCount := float64(len(in.ActiveMachines))
	for t := 0; t < n; t++ {
		dem := 0.0
		for _, p := range in.Products {
			dem += demandAt(in, p, h.Periods[t])
		}
		setupHours := 0.0
		for _, m := range in.ActiveMachines {
			setupHours += setupHoursByMachinePeriod[m][t]
		}
		utilization := 0.0
		if activeCount > 0 && in.HoursPerPeriod > 0 {
			utilization = (productionHoursByPeriod[t] + setupHours) / (in.HoursPerPeriod * activeCount)
		}
		res.Summary = append(res.Summary, PeriodSummary{
			Period:      h.Periods[t],
			Inventory:   inventoryByPeriod[t],
			Utilization: ValueOrZero(utilization),
			Demand:      dem,
			Lost:        lostByPeriod[t],
			Production:  productionKgByPeriod[t],
		})
	}

	// KPIs (spec.md §4.7).
	totalDemand, totalLost := 0.0, 0.0
	for _, row := range res.Demand {
		totalDemand += row.Demand
		totalLost += row.Lost
	}
	serviceLevel := 1.0
	if totalDemand > 0 {
		serviceLevel = 1.0 - totalLost/totalDemand
	}
	avgInventory := 0.0
	if n > 0 {
		sum := 0.0
		for _, s := range res.Summary {
			sum += s.Inventory
		}
		avgInventory = sum / float64(n)
	}

	res.KPIs = KPIs{
		TotalCost:    ValueOrZero(domainToQuantity(objRaw)),
		ServiceLevel: ValueOrZero(serviceLevel),
		AvgInventory: ValueOrZero(avgInventory),
		CostBreakdown: CostBreakdown{
			LostSales: sumTerms(objTerms.LostSales, assignment),
			Backlog:   sumTerms(objTerms.Backlog, assignment),
			Setup:     sumTerms(objTerms.Setup, assignment),
		},
	}

	return res
}

// resolveFromProduct implements the first step of spec.md §4.7's setup-chain
// reconstruction: the configuration a machine carries into period t.
func resolveFromProduct(vs *VariableSet, assignment []int, m string, products []ProductKey, t int) string {
	if t == 0 {
		return setupChainInit
	}
	if boolValue(assignment, vs.Idle[m][t-1]) {
		return setupChainVacation
	}
	for _, p := range products {
		s, _ := vs.SVar(m, p, t-1)
		if boolValue(assignment, s) {
			return p.String()
		}
	}
	return setupChainInit
}

