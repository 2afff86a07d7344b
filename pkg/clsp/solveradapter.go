package clsp

import (
	"context"
	"errors"
	"time"

	"github.com/lotopt/clsp/pkg/minikanren"
	"github.com/rs/zerolog"
)

// recognizedSolvers is the dispatch table of spec.md §4.6. Unknown names
// fall back to CBC.
var recognizedSolvers = map[string]bool{"CBC": true, "GLPK": true, "GUROBI": true}

// normalizeSolverName maps an arbitrary caller-supplied solver_name onto the
// recognized set, defaulting to CBC.
func normalizeSolverName(name string) string {
	if recognizedSolvers[name] {
		return name
	}
	return "CBC"
}

// Dispatch wraps the embedded branch-and-bound engine (pkg/minikanren) with
// the time limit, thread count, and log path spec.md §4.6 documents for the
// Solver Adapter, and maps its outcome onto the recognized terminal status
// set (spec.md §4.6). A non-nil error here means the solve could not be
// attempted at all (a model-construction bug), not a solver-reported
// outcome — those are always encoded in the returned status, never raised
// (spec.md §7's propagation policy).
func Dispatch(ctx context.Context, in *ScenarioInput, model *minikanren.Model, objVar *minikanren.FDVariable, log zerolog.Logger) (status string, assignment []int, objRaw int, err error) {
	backend := normalizeSolverName(in.SolverName)
	log.Info().
		Str("backend", backend).
		Str("engine_version", minikanren.Version).
		Int("variables", model.VariableCount()).
		Int("constraints", model.ConstraintCount()).
		Msg("dispatching solve")

	solver := minikanren.NewSolver(model)
	monitor := minikanren.NewSolverMonitor()
	solver.SetMonitor(monitor)

	var opts []minikanren.OptimizeOption
	if in.TimeLimit > 0 {
		opts = append(opts, minikanren.WithTimeLimit(time.Duration(in.TimeLimit)*time.Second))
	}
	if in.Threads > 1 {
		opts = append(opts, minikanren.WithParallelWorkers(in.Threads))
	}
	// HeuristicDomDeg/ValueOrderAsc branch smallest-domain-first and try the
	// lowest feasible value first, which for this model means trying "no
	// production" before committing a machine to a product — a reasonable
	// default for a cost-minimizing objective where zero is often cheap.
	opts = append(opts, minikanren.WithHeuristics(minikanren.HeuristicDomDeg, minikanren.ValueOrderAsc, 42))
	if in.NodeLimit > 0 {
		opts = append(opts, minikanren.WithNodeLimit(in.NodeLimit))
	}

	sol, val, serr := solver.SolveOptimalWithOptions(ctx, objVar, true, opts...)
	stats := monitor.GetStats()
	log.Debug().
		Int64("nodes_explored", stats.NodesExplored).
		Int64("backtracks", stats.Backtracks).
		Dur("search_time", stats.SearchTime).
		Msg("branch-and-bound search finished")

	switch {
	case serr != nil && errors.Is(serr, context.DeadlineExceeded):
		if sol == nil {
			log.Warn().Msg("time limit reached with no incumbent")
			return StatusNotSolved, nil, 0, nil
		}
		log.Info().Int("objective_raw", val).Msg("time limit reached, returning best incumbent")
		return StatusFeasible, sol, val, nil
	case serr != nil:
		log.Error().Err(serr).Msg("solve failed")
		return StatusUndefined, nil, 0, nil
	case sol == nil:
		log.Info().Msg("model is infeasible")
		return StatusInfeasible, nil, 0, nil
	default:
		log.Info().Int("objective_raw", val).Msg("solve completed optimally")
		return StatusOptimal, sol, val, nil
	}
}
