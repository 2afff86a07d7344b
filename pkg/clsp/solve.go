package clsp

import (
	"context"
	"time"

	"github.com/lotopt/clsp/internal/logging"
	"github.com/lotopt/clsp/internal/metrics"
	"github.com/lotopt/clsp/pkg/minikanren"
)

// Solve is the single operation the core exposes (spec.md §6). It builds
// the horizon, tightens big-M bounds, declares every variable family,
// assembles the objective and constraint system, dispatches to the MIP
// back-end, and — on a successful solve — extracts the interpretable
// production schedule. It never raises for a solver-reported outcome
// (infeasible, time-limited, back-end failure); those are encoded in the
// returned status (spec.md §7).
func Solve(ctx context.Context, in ScenarioInput) (*SolveResult, error) {
	in.applyDefaults()

	h, ok := BuildHorizon(&in)
	if !ok {
		return &SolveResult{Status: StatusNoPeriods}, nil
	}

	bounds := TightenBounds(&in, h)

	model := minikanren.NewModel()
	vs, err := NewVariableFactory(model, &in, h, bounds)
	if err != nil {
		return nil, err
	}
	objVar, terms, err := AssembleObjective(model, &in, h, vs)
	if err != nil {
		return nil, err
	}
	if err := AssembleConstraints(model, &in, h, vs); err != nil {
		return nil, err
	}

	metrics.RecordModelSize(model.VariableCount())

	log := logging.ForSolve(in.LogPath)
	started := time.Now()
	status, assignment, objRaw, err := Dispatch(ctx, &in, model, objVar, log)
	if err != nil {
		return nil, err
	}
	metrics.RecordSolve(status, normalizeSolverName(in.SolverName), time.Since(started))

	if status != StatusOptimal && status != StatusFeasible {
		return &SolveResult{Status: status}, nil
	}

	result := ExtractResult(&in, h, vs, terms, assignment, objRaw)
	result.Status = status
	return result, nil
}
