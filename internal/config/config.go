// Package config loads the process-wide defaults spec.md §6 calls
// "recognized configuration constants" — HIGH_SETUP_MACHINES,
// BACKLOG_PENALTY_FACTOR, and default solver_name/time_limit/threads —
// from an optional .env file and the environment, adapted from
// bbak-mcs-mcp's internal/config.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Defaults holds the process-wide overridable solve defaults. A
// ScenarioInput's own fields always take precedence; these only fill in
// what the caller left zero-valued.
type Defaults struct {
	HighSetupMachines   map[string]bool
	BacklogPenaltyFactor float64
	SolverName          string
	TimeLimit           int
	Threads             int
}

// Load reads a .env file (if present) and the environment into Defaults.
// Missing variables fall back to spec.md §6's documented defaults.
func Load() *Defaults {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found, relying on environment variables and built-in defaults")
	}

	d := &Defaults{
		HighSetupMachines:    parseMachineSet(getEnv("HIGH_SETUP_MACHINES", "11,14")),
		BacklogPenaltyFactor: getEnvFloat("BACKLOG_PENALTY_FACTOR", 0.10),
		SolverName:           getEnv("CLSP_SOLVER_NAME", "CBC"),
		TimeLimit:            getEnvInt("CLSP_TIME_LIMIT_SECONDS", 60),
		Threads:              getEnvInt("CLSP_THREADS", 0),
	}
	return d
}

func parseMachineSet(csv string) map[string]bool {
	set := map[string]bool{}
	for _, id := range strings.Split(csv, ",") {
		id = strings.TrimSpace(id)
		if id != "" {
			set[id] = true
		}
	}
	return set
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
