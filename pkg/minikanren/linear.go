// Package minikanren: general linear constraints over offset-encoded integers.
//
// LinearConstraint generalizes LinearSum (see sum.go) to arbitrary relational
// operators against a constant right-hand side, instead of requiring a
// dedicated "total" variable. It is the workhorse used to encode the lot
// sizing and scheduling model's balance, linking, and capacity relations,
// all of which take the shape:
//
//	Σ coeff[i] * x[i]  relop  rhs
//
// Domains in this package are 1-indexed (see domain.go); callers that model
// values which may be zero or negative encode them as (real value + offset)
// and fold the resulting constant shift into rhs once, at construction time.
// Bounds consistency then operates directly in domain space, so no decoding
// happens during propagation.
package minikanren

import "fmt"

// Relop identifies the relational operator a LinearConstraint enforces.
type Relop int

const (
	// RelEQ enforces Σ coeff[i]*x[i] == rhs.
	RelEQ Relop = iota
	// RelLE enforces Σ coeff[i]*x[i] <= rhs.
	RelLE
	// RelGE enforces Σ coeff[i]*x[i] >= rhs.
	RelGE
)

func (r Relop) String() string {
	switch r {
	case RelEQ:
		return "="
	case RelLE:
		return "<="
	case RelGE:
		return ">="
	default:
		return "?"
	}
}

// LinearConstraint enforces Σ coeff[i]*x[i] relop rhs using bounds-consistent
// propagation, the same interval-pruning strategy LinearSum uses, generalized
// to a constant right-hand side and any of =, <=, >=.
type LinearConstraint struct {
	vars   []*FDVariable
	coeffs []int
	relop  Relop
	rhs    int
	label  string // constraint family, for String()/debugging
}

// NewLinearConstraint builds a constraint Σ coeff[i]*x[i] relop rhs.
//
// Contract: len(vars) == len(coeffs) > 0, no nil variables.
func NewLinearConstraint(label string, vars []*FDVariable, coeffs []int, relop Relop, rhs int) (*LinearConstraint, error) {
	if len(vars) == 0 {
		return nil, fmt.Errorf("LinearConstraint %s: vars cannot be empty", label)
	}
	if len(vars) != len(coeffs) {
		return nil, fmt.Errorf("LinearConstraint %s: len(vars) != len(coeffs)", label)
	}
	for i, v := range vars {
		if v == nil {
			return nil, fmt.Errorf("LinearConstraint %s: vars[%d] is nil", label, i)
		}
	}
	vcopy := make([]*FDVariable, len(vars))
	copy(vcopy, vars)
	ccopy := make([]int, len(coeffs))
	copy(ccopy, coeffs)
	return &LinearConstraint{vars: vcopy, coeffs: ccopy, relop: relop, rhs: rhs, label: label}, nil
}

// Variables implements ModelConstraint.
func (lc *LinearConstraint) Variables() []*FDVariable {
	out := make([]*FDVariable, len(lc.vars))
	copy(out, lc.vars)
	return out
}

// Type implements ModelConstraint.
func (lc *LinearConstraint) Type() string { return "LinearConstraint:" + lc.label }

// String implements ModelConstraint.
func (lc *LinearConstraint) String() string {
	return fmt.Sprintf("LinearConstraint(%s, %d terms %s %d)", lc.label, len(lc.vars), lc.relop, lc.rhs)
}

// Propagate applies bounds-consistent pruning for the configured relop.
// Implements PropagationConstraint.
func (lc *LinearConstraint) Propagate(solver *Solver, state *SolverState) (*SolverState, error) {
	if solver == nil {
		return nil, fmt.Errorf("LinearConstraint %s: nil solver", lc.label)
	}
	n := len(lc.vars)
	xdom := make([]Domain, n)
	for i, v := range lc.vars {
		d := solver.GetDomain(state, v.ID())
		if d == nil {
			return nil, fmt.Errorf("LinearConstraint %s: variable %d has nil domain", lc.label, v.ID())
		}
		if d.Count() == 0 {
			return nil, fmt.Errorf("LinearConstraint %s: variable %d has empty domain", lc.label, v.ID())
		}
		xdom[i] = d
	}

	// The admissible band for the sum, derived from relop.
	// RelEQ: [rhs, rhs]; RelLE: [-inf, rhs]; RelGE: [rhs, +inf].
	const inf = 1 << 30
	bandMin, bandMax := -inf, inf
	switch lc.relop {
	case RelEQ:
		bandMin, bandMax = lc.rhs, lc.rhs
	case RelLE:
		bandMax = lc.rhs
	case RelGE:
		bandMin = lc.rhs
	}

	sumMin, sumMax := 0, 0
	for i := 0; i < n; i++ {
		c := lc.coeffs[i]
		if c == 0 {
			continue
		}
		minX, maxX := xdom[i].Min(), xdom[i].Max()
		if c > 0 {
			sumMin += c * minX
			sumMax += c * maxX
		} else {
			sumMin += c * maxX
			sumMax += c * minX
		}
	}
	if sumMin > bandMax || sumMax < bandMin {
		return nil, fmt.Errorf("LinearConstraint %s: infeasible, sum range [%d,%d] outside [%d,%d]", lc.label, sumMin, sumMax, bandMin, bandMax)
	}

	otherMinPrefix := make([]int, n+1)
	otherMaxPrefix := make([]int, n+1)
	for i := 0; i < n; i++ {
		c := lc.coeffs[i]
		minX, maxX := xdom[i].Min(), xdom[i].Max()
		switch {
		case c > 0:
			otherMinPrefix[i+1] = otherMinPrefix[i] + c*minX
			otherMaxPrefix[i+1] = otherMaxPrefix[i] + c*maxX
		case c < 0:
			otherMinPrefix[i+1] = otherMinPrefix[i] + c*maxX
			otherMaxPrefix[i+1] = otherMaxPrefix[i] + c*minX
		default:
			otherMinPrefix[i+1] = otherMinPrefix[i]
			otherMaxPrefix[i+1] = otherMaxPrefix[i]
		}
	}

	for i := 0; i < n; i++ {
		c := lc.coeffs[i]
		if c == 0 {
			continue
		}
		minX, maxX := xdom[i].Min(), xdom[i].Max()
		var myMinContrib, myMaxContrib int
		if c > 0 {
			myMinContrib, myMaxContrib = c*minX, c*maxX
		} else {
			myMinContrib, myMaxContrib = c*maxX, c*minX
		}
		otherMin := otherMinPrefix[n] - myMinContrib
		otherMax := otherMaxPrefix[n] - myMaxContrib

		contribMin := bandMin - otherMax
		contribMax := bandMax - otherMin
		if contribMin < -inf/2 {
			contribMin = -inf / 2
		}
		if contribMax > inf/2 {
			contribMax = inf / 2
		}

		var xiMin, xiMax int
		if c > 0 {
			xiMin = ceilDiv(contribMin, c)
			xiMax = floorDiv(contribMax, c)
		} else {
			xiMin = ceilDivNeg(contribMax, c)
			xiMax = floorDivNeg(contribMin, c)
		}

		d := xdom[i]
		if d.Min() < xiMin {
			d = d.RemoveBelow(xiMin)
		}
		if d.Count() > 0 && d.Max() > xiMax {
			d = d.RemoveAbove(xiMax)
		}
		if d.Count() == 0 {
			return nil, fmt.Errorf("LinearConstraint %s: variable %d domain became empty", lc.label, lc.vars[i].ID())
		}
		if !d.Equal(xdom[i]) {
			var ok bool
			state, ok = solver.SetDomain(state, lc.vars[i].ID(), d)
			if !ok {
				return nil, fmt.Errorf("LinearConstraint %s: SetDomain rejected for variable %d", lc.label, lc.vars[i].ID())
			}
			xdom[i] = d
		}
	}

	return state, nil
}
