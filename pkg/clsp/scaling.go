// Package clsp implements the capacitated lot-sizing and scheduling optimizer
// described by SPEC_FULL.md, built on top of the finite-domain branch-and-bound
// engine in github.com/lotopt/clsp/pkg/minikanren.
//
// minikanren's BitSetDomain only represents 1-indexed positive integers
// (see pkg/minikanren/domain.go), so every quantity the model tracks —
// including ones that are legitimately zero, like inventory or lost demand —
// is offset by one when it is encoded into a domain. The shift is the
// domainOffset constant below; the encode/decode helpers in this file, the
// domain constructors and buildRelation in encode.go, sumTerms in
// objective.go, and stepsValue in extract.go all apply it.
package clsp

import "math"

// quantityScale converts real-valued kilograms, hours, and currency amounts
// into fixed-point integers so they can live in an integer-only finite domain.
// Three decimal digits of precision is enough for the monthly-bucket demand
// and cost figures this model operates on.
const quantityScale = 1000

// scaleQuantity rounds a real kg/hour/currency amount to its fixed-point
// integer representation.
func scaleQuantity(v float64) int {
	return int(math.Round(v * quantityScale))
}

// unscaleQuantity is the inverse of scaleQuantity.
func unscaleQuantity(v int) float64 {
	return float64(v) / quantityScale
}

// Every FD variable this package creates is 1-indexed (domain.go), so a
// real value of zero — a perfectly ordinary inventory or lost-demand level —
// has to live at domain value 1, not 0. domainOffset is that shift; it is
// the "offset" linear.go's header talks about folding into a constraint's
// rhs once, at construction time.
const domainOffset = 1

// quantityToDomain and domainToQuantity encode/decode a nonnegative
// kg/currency quantity as a fixed-point, offset domain value.
func quantityToDomain(v float64) int {
	return scaleQuantity(v) + domainOffset
}

func domainToQuantity(d int) float64 {
	return unscaleQuantity(d - domainOffset)
}

// countToDomain and domainToCount encode/decode a nonnegative whole count
// (a step tally, or a 0/1 indicator) as an offset domain value with no
// fixed-point scaling.
func countToDomain(v int) int {
	return v + domainOffset
}

func domainToCount(d int) int {
	return d - domainOffset
}

// domainToBool thresholds a solved binary-indicator domain value through
// roundBinary (sanitize.go), per spec.md §9's "never compare a solver-
// returned indicator to == 1" rule.
func domainToBool(d int) bool {
	return roundBinary(float64(domainToCount(d)))
}
