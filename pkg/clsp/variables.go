package clsp

import "github.com/lotopt/clsp/pkg/minikanren"

// VariableSet holds every decision/state/accounting variable declared for a
// single solve, indexed the way spec.md §3 indexes them: production-side
// families by [machine][product][periodIndex], demand-side families by
// [product][periodIndex]. Each family is created exactly once (spec.md §3
// "Lifecycle").
type VariableSet struct {
	H     map[string]map[ProductKey][]*minikanren.FDVariable
	Y     map[string]map[ProductKey][]*minikanren.FDVariable
	S     map[string]map[ProductKey][]*minikanren.FDVariable
	Delta map[string]map[ProductKey][]*minikanren.FDVariable
	Idle  map[string][]*minikanren.FDVariable

	I map[ProductKey][]*minikanren.FDVariable
	Q map[ProductKey][]*minikanren.FDVariable
	K map[ProductKey][]*minikanren.FDVariable
	B map[ProductKey][]*minikanren.FDVariable // nil when MaxDelay == 0
}

// productBound bounds I, Q, K, and B for product p: its initial stock plus
// everything it could ever be asked to cover is a safe (if loose) upper
// bound — tightness here is an LP-relaxation nicety, not a correctness
// requirement (spec.md §4.2).
func productBound(in *ScenarioInput, h *Horizon, p ProductKey) float64 {
	total := in.InitialStock[p]
	for _, period := range h.Periods {
		total += demandAt(in, p, period)
	}
	return total
}

// getFamily looks up a production-side variable, returning (nil, false) when
// p has no eligible machine m — spec.md §4.5's "no H/Y/S/Δ created for it"
// edge case.
func (vs *VariableSet) getFamily(fam map[string]map[ProductKey][]*minikanren.FDVariable, m string, p ProductKey, t int) (*minikanren.FDVariable, bool) {
	byProduct, ok := fam[m]
	if !ok {
		return nil, false
	}
	vars, ok := byProduct[p]
	if !ok {
		return nil, false
	}
	return vars[t], true
}

func (vs *VariableSet) HVar(m string, p ProductKey, t int) (*minikanren.FDVariable, bool) {
	return vs.getFamily(vs.H, m, p, t)
}
func (vs *VariableSet) YVar(m string, p ProductKey, t int) (*minikanren.FDVariable, bool) {
	return vs.getFamily(vs.Y, m, p, t)
}
func (vs *VariableSet) SVar(m string, p ProductKey, t int) (*minikanren.FDVariable, bool) {
	return vs.getFamily(vs.S, m, p, t)
}
func (vs *VariableSet) DeltaVar(m string, p ProductKey, t int) (*minikanren.FDVariable, bool) {
	return vs.getFamily(vs.Delta, m, p, t)
}

// NewVariableFactory declares the decision, state, and accounting variable
// families of spec.md §3/§4.3 with sanitized symbolic names, and links
// H[m,p,t] <= UB*Y[m,p,t] at construction time so Y is forced up whenever H
// is positive (spec.md §4.3's "links ... at construction time").
func NewVariableFactory(model *minikanren.Model, in *ScenarioInput, h *Horizon, bounds map[ProductKey][]int) (*VariableSet, error) {
	n := len(h.Periods)
	vs := &VariableSet{
		H:     map[string]map[ProductKey][]*minikanren.FDVariable{},
		Y:     map[string]map[ProductKey][]*minikanren.FDVariable{},
		S:     map[string]map[ProductKey][]*minikanren.FDVariable{},
		Delta: map[string]map[ProductKey][]*minikanren.FDVariable{},
		Idle:  map[string][]*minikanren.FDVariable{},
		I:     map[ProductKey][]*minikanren.FDVariable{},
		Q:     map[ProductKey][]*minikanren.FDVariable{},
		K:     map[ProductKey][]*minikanren.FDVariable{},
	}
	if in.MaxDelay > 0 {
		vs.B = map[ProductKey][]*minikanren.FDVariable{}
	}

	for _, m := range in.ActiveMachines {
		vars := make([]*minikanren.FDVariable, n)
		for t := 0; t < n; t++ {
			vars[t] = model.NewVariableWithName(binaryDomain(), "Idle_"+SanitizeName(m)+"_"+SanitizeName(h.Periods[t]))
		}
		vs.Idle[m] = vars
	}

	for m, products := range h.MachineProducts {
		vs.H[m] = map[ProductKey][]*minikanren.FDVariable{}
		vs.Y[m] = map[ProductKey][]*minikanren.FDVariable{}
		vs.S[m] = map[ProductKey][]*minikanren.FDVariable{}
		vs.Delta[m] = map[ProductKey][]*minikanren.FDVariable{}
		for _, p := range products {
			ub := bounds[p]
			hv := make([]*minikanren.FDVariable, n)
			yv := make([]*minikanren.FDVariable, n)
			sv := make([]*minikanren.FDVariable, n)
			dv := make([]*minikanren.FDVariable, n)
			for t := 0; t < n; t++ {
				base := SanitizeName(m) + "_" + p.symbol() + "_" + SanitizeName(h.Periods[t])
				hv[t] = model.NewVariableWithName(stepDomain(ub[t], in.IntegerVar), "H_"+base)
				yv[t] = model.NewVariableWithName(binaryDomain(), "Y_"+base)
				sv[t] = model.NewVariableWithName(binaryDomain(), "S_"+base)
				dv[t] = model.NewVariableWithName(binaryDomain(), "Delta_"+base)

				// H[m,p,t] <= UB * Y[m,p,t], i.e. H - UB*Y <= 0 in step units.
				c, err := buildRelation("H_le_UB_Y",
					[]term{hterm(hv[t], 1, in.IntegerVar), bin(yv[t], -float64(ub[t]))},
					minikanren.RelLE, 0)
				if err != nil {
					return nil, err
				}
				model.AddConstraint(c)
			}
			vs.H[m][p] = hv
			vs.Y[m][p] = yv
			vs.S[m][p] = sv
			vs.Delta[m][p] = dv
		}
	}

	for _, p := range in.Products {
		ub := productBound(in, h, p)
		vs.I[p] = namedQuantitySeries(model, "I_"+p.symbol(), h.Periods, ub)
		vs.Q[p] = namedQuantitySeries(model, "Q_"+p.symbol(), h.Periods, ub)
		vs.K[p] = namedQuantitySeries(model, "K_"+p.symbol(), h.Periods, ub)
		if vs.B != nil {
			vs.B[p] = namedQuantitySeries(model, "B_"+p.symbol(), h.Periods, ub)
		}
	}

	return vs, nil
}

func namedQuantitySeries(model *minikanren.Model, prefix string, periods []string, ub float64) []*minikanren.FDVariable {
	out := make([]*minikanren.FDVariable, len(periods))
	for t, period := range periods {
		out[t] = model.NewVariableWithName(quantityDomain(ub), prefix+"_"+SanitizeName(period))
	}
	return out
}
