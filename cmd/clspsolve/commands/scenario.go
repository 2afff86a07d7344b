package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/lotopt/clsp/pkg/clsp"
)

// wireScenario is the on-disk JSON shape a scenario file uses. Product keys
// that index Demand/Productivity/InitialStock/Costs are the "<model>
// <variant>" string produced by ProductKey.String(), matching the same
// format the result rows print so a scenario file and its result round-trip
// through the same product naming.
type wireScenario struct {
	Products []struct {
		Model   string `json:"model"`
		Variant string `json:"variant"`
	} `json:"products"`

	Demand       map[string]map[string]float64 `json:"demand"`
	Productivity map[string]map[string]float64 `json:"productivity"`
	InitialStock map[string]float64            `json:"initial_stock"`
	Costs        map[string]float64             `json:"costs"`

	ActiveMachines []string `json:"active_machines"`
	StartPeriod    string   `json:"start_period"`
	EndPeriod      string   `json:"end_period"`

	HoursPerPeriod float64 `json:"hours_per_period"`
	StepHours      float64 `json:"step_hours"`
	IntegerVar     bool    `json:"integer_var"`

	DecisionType  string  `json:"decision_type"`
	HoursPerShift float64 `json:"hours_per_shift"`
	ShiftsPerDay  int     `json:"shifts_per_day"`
	DaysPerWeek   int     `json:"days_per_week"`
	BucketHours   float64 `json:"bucket_hours"`

	SafetyStockPct float64 `json:"safety_stock_pct"`
	MaxDelay       int     `json:"max_delay"`

	VacationPlanning    bool `json:"vacation_planning"`
	OperatorsPerMachine int  `json:"operators_per_machine"`
	VacationMinimumOnly bool `json:"vacation_minimum_only"`

	SolverName string `json:"solver_name"`
	TimeLimit  int    `json:"time_limit"`
	Threads    int    `json:"threads"`
	LogPath    string `json:"log_path"`
	NodeLimit  int    `json:"node_limit"`

	HighSetupMachines    []string `json:"high_setup_machines"`
	BacklogPenaltyFactor float64  `json:"backlog_penalty_factor"`
}

// loadScenario reads and converts a scenario file into a clsp.ScenarioInput.
func loadScenario(path string) (clsp.ScenarioInput, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return clsp.ScenarioInput{}, fmt.Errorf("reading scenario %s: %w", path, err)
	}

	var w wireScenario
	if err := json.Unmarshal(raw, &w); err != nil {
		return clsp.ScenarioInput{}, fmt.Errorf("parsing scenario %s: %w", path, err)
	}
	return w.toScenarioInput(), nil
}

func (w wireScenario) toScenarioInput() clsp.ScenarioInput {
	products := make([]clsp.ProductKey, 0, len(w.Products))
	for _, p := range w.Products {
		products = append(products, clsp.ProductKey{Model: p.Model, Variant: p.Variant})
	}

	demand := map[clsp.ProductKey]map[string]float64{}
	for key, v := range w.Demand {
		demand[parseProductKey(key)] = v
	}
	productivity := map[clsp.ProductKey]map[string]float64{}
	for key, v := range w.Productivity {
		productivity[parseProductKey(key)] = v
	}
	initialStock := map[clsp.ProductKey]float64{}
	for key, v := range w.InitialStock {
		initialStock[parseProductKey(key)] = v
	}
	costs := map[clsp.ProductKey]float64{}
	for key, v := range w.Costs {
		costs[parseProductKey(key)] = v
	}

	var highSetup map[string]bool
	if len(w.HighSetupMachines) > 0 {
		highSetup = make(map[string]bool, len(w.HighSetupMachines))
		for _, m := range w.HighSetupMachines {
			highSetup[m] = true
		}
	}

	return clsp.ScenarioInput{
		Products:             products,
		Demand:               demand,
		Productivity:         productivity,
		InitialStock:         initialStock,
		Costs:                costs,
		ActiveMachines:       w.ActiveMachines,
		StartPeriod:          w.StartPeriod,
		EndPeriod:            w.EndPeriod,
		HoursPerPeriod:       w.HoursPerPeriod,
		StepHours:            w.StepHours,
		IntegerVar:           w.IntegerVar,
		DecisionType:         w.DecisionType,
		HoursPerShift:        w.HoursPerShift,
		ShiftsPerDay:         w.ShiftsPerDay,
		DaysPerWeek:          w.DaysPerWeek,
		BucketHours:          w.BucketHours,
		SafetyStockPct:       w.SafetyStockPct,
		MaxDelay:             w.MaxDelay,
		VacationPlanning:     w.VacationPlanning,
		OperatorsPerMachine:  w.OperatorsPerMachine,
		VacationMinimumOnly:  w.VacationMinimumOnly,
		SolverName:           w.SolverName,
		TimeLimit:            w.TimeLimit,
		Threads:              w.Threads,
		LogPath:              w.LogPath,
		NodeLimit:            w.NodeLimit,
		HighSetupMachines:    highSetup,
		BacklogPenaltyFactor: w.BacklogPenaltyFactor,
	}
}

// parseProductKey splits a "<model> <variant>" string on its first space.
func parseProductKey(s string) clsp.ProductKey {
	parts := strings.SplitN(s, " ", 2)
	if len(parts) == 2 {
		return clsp.ProductKey{Model: parts[0], Variant: parts[1]}
	}
	return clsp.ProductKey{Model: s}
}
