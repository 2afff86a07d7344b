package clsp

import (
	"math"
	"strings"
)

// SanitizeName normalizes a product/period/machine label into a solver-safe
// symbolic identifier (spec.md §4.8): spaces, colons, and hyphens become
// underscores, since MIP back-ends often reject them in variable names.
func SanitizeName(s string) string {
	r := strings.NewReplacer(" ", "_", ":", "_", "-", "_")
	return r.Replace(s)
}

// ValueOrZero is the single value_or_zero lift spec.md §9 calls for: every
// float handed back to a caller passes through here, coercing NaN, ±Inf,
// and (by construction, since Go has no nil float) absent values to 0.0.
func ValueOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0.0
	}
	return v
}

// roundBinary applies spec.md §9's numerical-comparison rule to a raw
// solver value that is supposed to be 0 or 1: round to the nearest integer
// before thresholding, tolerating ±0.5 slack, rather than comparing for
// exact equality.
func roundBinary(v float64) bool {
	return math.Round(v) >= 1
}
