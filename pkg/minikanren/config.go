package minikanren

// VariableOrderingHeuristic defines strategies for selecting the next variable to assign.
type VariableOrderingHeuristic int

const (
	// HeuristicDomDeg uses domain size / degree (constraints) - smallest first
	HeuristicDomDeg VariableOrderingHeuristic = iota
	// HeuristicDom uses domain size only - smallest first
	HeuristicDom
	// HeuristicDeg uses degree (constraints) only - largest first
	HeuristicDeg
	// HeuristicLex uses lexicographic order (variable ID)
	HeuristicLex
	// HeuristicRandom uses random ordering
	HeuristicRandom
	// HeuristicActivity uses constraint activity (not yet implemented)
	HeuristicActivity
)

// ValueOrderingHeuristic defines strategies for ordering values within a domain.
type ValueOrderingHeuristic int

const (
	// ValueOrderAsc orders values ascending (1,2,3,...)
	ValueOrderAsc ValueOrderingHeuristic = iota
	// ValueOrderDesc orders values descending (...,3,2,1)
	ValueOrderDesc
	// ValueOrderRandom orders values randomly
	ValueOrderRandom
	// ValueOrderMid starts from middle value outward
	ValueOrderMid
)

// SolverConfig holds configuration for the FD solver's search heuristics.
type SolverConfig struct {
	VariableHeuristic VariableOrderingHeuristic
	ValueHeuristic    ValueOrderingHeuristic
	RandomSeed        int64
}

// DefaultSolverConfig returns a default solver configuration.
func DefaultSolverConfig() *SolverConfig {
	return &SolverConfig{
		VariableHeuristic: HeuristicDomDeg,
		ValueHeuristic:    ValueOrderAsc,
		RandomSeed:        42,
	}
}
