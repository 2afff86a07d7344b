package clsp

import "github.com/lotopt/clsp/pkg/minikanren"

// ObjectiveTerms retains the three named cost-term groups of spec.md §4.4 as
// lists, mirroring original_source's PuLP expression lists, so the Result
// Extractor can report a cost breakdown instead of only a scalar total.
type ObjectiveTerms struct {
	LostSales []term
	Backlog   []term
	Setup     []term
}

func (o ObjectiveTerms) all() []term {
	out := make([]term, 0, len(o.LostSales)+len(o.Backlog)+len(o.Setup))
	out = append(out, o.LostSales...)
	out = append(out, o.Backlog...)
	out = append(out, o.Setup...)
	return out
}

// sumTerms evaluates Σ coeff*real(v) for a solved assignment, where
// assignment holds each variable's raw domain value indexed by variable ID.
func sumTerms(terms []term, assignment []int) float64 {
	total := 0.0
	for _, t := range terms {
		raw := assignment[t.v.ID()]
		real := float64(raw-domainOffset) / float64(t.denom)
		total += t.coeff * real
	}
	return total
}

// AssembleObjective builds the minimization objective (spec.md §4.4):
// lost sales, optional backlog, and setup cost, summed into a single
// objective variable via one equality relation. Setup time is
// HighSetupMachines-dependent (7h vs 3h; spec.md §4.4).
func AssembleObjective(model *minikanren.Model, in *ScenarioInput, h *Horizon, vs *VariableSet) (*minikanren.FDVariable, ObjectiveTerms, error) {
	var terms ObjectiveTerms
	ub := 0.0

	for _, p := range in.Products {
		cost := in.Costs[p]
		bound := productBound(in, h, p)
		for t := range h.Periods {
			terms.LostSales = append(terms.LostSales, qty(vs.K[p][t], cost))
		}
		ub += cost * bound
		if vs.B != nil {
			for t := range h.Periods {
				terms.Backlog = append(terms.Backlog, qty(vs.B[p][t], cost*in.BacklogPenaltyFactor))
			}
			ub += cost * in.BacklogPenaltyFactor * bound
		}
	}

	for m, products := range h.MachineProducts {
		setupH := in.setupHours(m)
		for _, p := range products {
			rate := in.Productivity[p][m]
			coeff := in.Costs[p] * rate * setupH
			for t := range h.Periods {
				terms.Setup = append(terms.Setup, bin(vs.Delta[m][p][t], coeff))
				ub += coeff
			}
		}
	}

	objVar := model.NewVariableWithName(quantityDomain(ub), "Objective")

	relTerms := append(terms.all(), qty(objVar, -1))
	if err := mustAddRelation(model, "objective_total", relTerms, minikanren.RelEQ, 0); err != nil {
		return nil, ObjectiveTerms{}, err
	}
	return objVar, terms, nil
}
