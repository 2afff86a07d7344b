package clsp

import "fmt"

// ProductKey identifies a SKU by its (model, variant) pair, the stable
// product identity used throughout the scenario (spec.md §3 "Product key").
type ProductKey struct {
	Model   string
	Variant string
}

// String renders the product key the way the extractor's setup/production
// rows name products: "<model> <variant>".
func (p ProductKey) String() string {
	return fmt.Sprintf("%s %s", p.Model, p.Variant)
}

// symbol returns the solver-safe identifier for this product, per the
// Numerical Hygiene / Symbol Sanitization rules in spec.md §4.8.
func (p ProductKey) symbol() string {
	return SanitizeName(p.Model) + "_" + SanitizeName(p.Variant)
}

// ScenarioInput is the full parameter set for the solve operation (spec.md §6).
//
// Products carries an explicit iteration order because Go maps have none;
// row emission order for per-period product rows follows this slice, the
// Go-idiomatic substitute for "iteration order of the input demand mapping".
type ScenarioInput struct {
	Products     []ProductKey
	Demand       map[ProductKey]map[string]float64
	Productivity map[ProductKey]map[string]float64 // product -> machine -> kg/hour
	InitialStock map[ProductKey]float64
	Costs        map[ProductKey]float64

	ActiveMachines []string
	StartPeriod    string
	EndPeriod      string // empty means open-ended

	HoursPerPeriod float64
	StepHours      float64
	IntegerVar     bool

	// DecisionType, when non-empty, resolves StepHours/IntegerVar per the
	// step-size policy table in spec.md §6 instead of using the fields above.
	DecisionType   string
	HoursPerShift  float64
	ShiftsPerDay   int
	DaysPerWeek    int
	BucketHours    float64

	SafetyStockPct float64
	MaxDelay       int

	VacationPlanning    bool
	OperatorsPerMachine int
	// VacationMinimumOnly relaxes the vacation total from the documented
	// "==" equality to a "≥ required" minimum, the alternative spec.md §9's
	// open question recommends exposing. False (the zero value) keeps the
	// documented equality behavior by default.
	VacationMinimumOnly bool

	SolverName string
	TimeLimit  int
	Threads    int
	LogPath    string
	// NodeLimit bounds branch-and-bound node exploration directly, an
	// alternative stopping condition to TimeLimit for reproducible test runs.
	NodeLimit int

	// HighSetupMachines and BacklogPenaltyFactor are the "recognized
	// configuration constants" of spec.md §6, overridable per scenario
	// instead of hardcoded.
	HighSetupMachines    map[string]bool
	BacklogPenaltyFactor float64
}

// DefaultHighSetupMachines mirrors the documented default {"11","14"}.
func DefaultHighSetupMachines() map[string]bool {
	return map[string]bool{"11": true, "14": true}
}

// DefaultBacklogPenaltyFactor is the documented 0.10 of unit cost.
const DefaultBacklogPenaltyFactor = 0.10

const (
	defaultHoursPerPeriod = 720.0
	defaultStepHours      = 6.0
	highSetupHours        = 7.0
	lowSetupHours         = 3.0
)

// applyDefaults fills in zero-valued fields with spec.md §6's documented defaults.
func (in *ScenarioInput) applyDefaults() {
	if in.HoursPerPeriod == 0 {
		if in.ShiftsPerDay > 0 && in.DaysPerWeek > 0 && in.HoursPerShift > 0 {
			in.HoursPerPeriod = float64(in.ShiftsPerDay) * in.HoursPerShift * float64(in.DaysPerWeek) * 4.33
		} else {
			in.HoursPerPeriod = defaultHoursPerPeriod
		}
	}
	if in.DecisionType != "" {
		in.StepHours, in.IntegerVar = resolveStepPolicy(*in)
	} else if in.StepHours == 0 {
		in.StepHours = defaultStepHours
		in.IntegerVar = true
	}
	if in.HighSetupMachines == nil {
		in.HighSetupMachines = DefaultHighSetupMachines()
	}
	if in.BacklogPenaltyFactor == 0 {
		in.BacklogPenaltyFactor = DefaultBacklogPenaltyFactor
	}
	if in.OperatorsPerMachine == 0 {
		in.OperatorsPerMachine = 2
	}
}

// resolveStepPolicy implements the decision_type -> (step_hours, integer_var)
// table from spec.md §6, a feature original_source/app/utils.py performs
// before invoking the solver and which this module now performs itself.
func resolveStepPolicy(in ScenarioInput) (stepHours float64, integerVar bool) {
	switch in.DecisionType {
	case "kg":
		return 1.0, false
	case "hours":
		bucket := in.BucketHours
		if bucket == 0 {
			bucket = 6.0
		}
		return bucket, true
	case "shifts":
		return in.HoursPerShift, true
	case "days":
		return in.HoursPerShift * float64(in.ShiftsPerDay), true
	case "weeks":
		return in.HoursPerShift * float64(in.ShiftsPerDay) * float64(in.DaysPerWeek), true
	default:
		return defaultStepHours, true
	}
}

// setupHours returns the per-machine changeover duration: highSetupHours for
// machines in HighSetupMachines, lowSetupHours otherwise (spec.md §4.4).
func (in *ScenarioInput) setupHours(machine string) float64 {
	if in.HighSetupMachines[machine] {
		return highSetupHours
	}
	return lowSetupHours
}

// InventoryRow is one (period, product, inventory) output record.
type InventoryRow struct {
	Period    string
	Product   ProductKey
	Inventory float64
	Target    float64
}

// DemandRow is one (period, product, demand, met, lost, backlog) output record.
type DemandRow struct {
	Period   string
	Product  ProductKey
	Demand   float64
	Met      float64
	Lost     float64
	Backlog  float64
}

// ProductionRow is one (period, machine, product, quantity_kg, hours) output record.
type ProductionRow struct {
	Period      string
	Machine     string
	Product     ProductKey
	QuantityKg  float64
	Hours       float64
}

// SetupRow is one (period, machine, from, to, cost) output record.
type SetupRow struct {
	Period  string
	Machine string
	From    string
	To      string
	Cost    float64
}

// VacationRow is one (period, machine, operators) output record.
type VacationRow struct {
	Period    string
	Machine   string
	Operators int
}

// PeriodSummary is the per-period aggregate row from spec.md §4.7.
type PeriodSummary struct {
	Period      string
	Inventory   float64
	Utilization float64
	Demand      float64
	Lost        float64
	Production  float64
}

// CostBreakdown decomposes total_cost into its three objective term groups.
type CostBreakdown struct {
	LostSales float64
	Backlog   float64
	Setup     float64
}

// KPIs is the summary metrics block of spec.md §6's return schema.
type KPIs struct {
	TotalCost     float64
	ServiceLevel  float64
	AvgInventory  float64
	CostBreakdown CostBreakdown
}

// SolveResult is the full return value of Solve (spec.md §6).
type SolveResult struct {
	Status     string
	Inventory  []InventoryRow
	Production []ProductionRow
	Setups     []SetupRow
	Vacations  []VacationRow
	Demand     []DemandRow
	Summary    []PeriodSummary
	KPIs       KPIs
}

// Recognized terminal statuses (spec.md §4.6).
const (
	StatusOptimal     = "Optimal"
	StatusFeasible    = "Feasible"
	StatusInfeasible  = "Infeasible"
	StatusUnbounded   = "Unbounded"
	StatusNotSolved   = "Not Solved"
	StatusUndefined   = "Undefined"
	StatusNoPeriods   = "No valid periods found"
)
