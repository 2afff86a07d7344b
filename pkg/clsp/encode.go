package clsp

import (
	"math"

	"github.com/lotopt/clsp/pkg/minikanren"
)

// binaryDomain is the domain shared by every Y/S/Δ/Idle indicator: the two
// offset values representing {false, true}.
func binaryDomain() minikanren.Domain {
	return minikanren.NewBitSetDomain(2)
}

// countDomain is the domain for a nonnegative integer tally (a step count,
// or the vacation total) bounded above by ub.
func countDomain(ub int) minikanren.Domain {
	if ub < 0 {
		ub = 0
	}
	return minikanren.NewBitSetDomain(ub + domainOffset)
}

// quantityDomain is the domain for a nonnegative real kg/currency quantity
// bounded above by ubReal, encoded at quantityScale fixed-point precision.
func quantityDomain(ubReal float64) minikanren.Domain {
	ub := scaleQuantity(ubReal)
	if ub < 0 {
		ub = 0
	}
	return minikanren.NewBitSetDomain(ub + domainOffset)
}

// stepDomain is H[m,p,t]'s domain: ub whole production steps, restricted to
// exact multiples of quantityScale when the decision is integer-valued, or
// the full fixed-point range when it is continuous (spec.md §4.2/§6 — the
// integer_var flag). Restricting to the multiple-of-quantityScale subset
// via NewBitSetDomainFromValues, rather than widening the encoding, keeps
// every H variable in the same fixed-point space regardless of IntegerVar.
func stepDomain(ub int, integerVar bool) minikanren.Domain {
	if ub < 0 {
		ub = 0
	}
	max := ub*quantityScale + domainOffset
	if integerVar {
		values := make([]int, ub+1)
		for i := 0; i <= ub; i++ {
			values[i] = i*quantityScale + domainOffset
		}
		return minikanren.NewBitSetDomainFromValues(max, values)
	}
	return minikanren.NewBitSetDomain(max)
}

// hDenom is the fixed-point granularity of an H variable's domain. Both
// branches of stepDomain space a variable's raw values quantityScale apart —
// IntegerVar only restricts which of those raw values are reachable, it does
// not change the scale — so the raw-to-real conversion is quantityScale
// either way; there is nothing left for the flag to select.
func hDenom() int {
	return quantityScale
}

// term is one real-valued contribution coeff*real(v) to a linear relation,
// where v's raw domain value encodes real(v) as real(v)*denom + domainOffset.
// denom is quantityScale for quantity/step-fixed-point variables and 1 for
// plain counts and binary indicators.
type term struct {
	v     *minikanren.FDVariable
	coeff float64
	denom int
}

// qty builds a quantityScale-denominated term (I, Q, K, B, objective parts).
func qty(v *minikanren.FDVariable, coeff float64) term {
	return term{v: v, coeff: coeff, denom: quantityScale}
}

// bin builds a plain-count term (Y, S, Δ, Idle, and H when its coefficient
// is expressed directly in H's own fixed-point units via hterm).
func bin(v *minikanren.FDVariable, coeff float64) term {
	return term{v: v, coeff: coeff, denom: 1}
}

// hterm builds a term for an H variable, folding its own hDenom into the
// term's denom so it composes with qty/bin terms in the same relation.
func hterm(v *minikanren.FDVariable, coeff float64, _ bool) term {
	return term{v: v, coeff: coeff, denom: hDenom()}
}

// buildRelation turns "Σ terms[i].coeff * real(terms[i].v)  relop  rhsReal"
// into an integer minikanren.LinearConstraint over raw domain values,
// scaling every term to the common quantityScale fixed-point resolution and
// folding each variable's domainOffset shift into rhs — the convention
// pkg/minikanren/linear.go's header documents for offset-encoded domains.
func buildRelation(label string, terms []term, relop minikanren.Relop, rhsReal float64) (*minikanren.LinearConstraint, error) {
	vars := make([]*minikanren.FDVariable, len(terms))
	coeffs := make([]int, len(terms))
	offsetSum := 0
	for i, t := range terms {
		vars[i] = t.v
		scaled := t.coeff * float64(quantityScale) / float64(t.denom)
		ic := int(math.Round(scaled))
		coeffs[i] = ic
		offsetSum += ic * domainOffset
	}
	rhs := int(math.Round(rhsReal*float64(quantityScale))) + offsetSum
	return minikanren.NewLinearConstraint(label, vars, coeffs, relop, rhs)
}

// mustAddRelation is buildRelation followed by AddConstraint, for the common
// case where a malformed relation is a programming error (mismatched
// vars/coeffs), not a runtime condition the caller should branch on.
func mustAddRelation(model *minikanren.Model, label string, terms []term, relop minikanren.Relop, rhsReal float64) error {
	c, err := buildRelation(label, terms, relop, rhsReal)
	if err != nil {
		return err
	}
	model.AddConstraint(c)
	return nil
}
