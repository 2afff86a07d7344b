package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/lotopt/clsp/pkg/clsp"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var solveTimeout time.Duration

var solveCmd = &cobra.Command{
	Use:   "solve <scenario.json>",
	Short: "Solve a single scenario and print its result as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := loadScenario(args[0])
		if err != nil {
			return err
		}
		applyConfigDefaults(&in)

		ctx, cancel := context.WithTimeout(cmd.Context(), solveTimeout)
		defer cancel()

		result, err := clsp.Solve(ctx, in)
		if err != nil {
			return fmt.Errorf("solve failed: %w", err)
		}

		log.Info().Str("status", result.Status).Msg("solve finished")
		return printJSON(result)
	},
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// applyConfigDefaults fills scenario-level overridables from the process
// config whenever the scenario file left them unset, so a scenario file
// need not repeat the recognized configuration constants on every run.
func applyConfigDefaults(in *clsp.ScenarioInput) {
	if cfg == nil {
		return
	}
	if in.HighSetupMachines == nil {
		in.HighSetupMachines = cfg.HighSetupMachines
	}
	if in.BacklogPenaltyFactor == 0 {
		in.BacklogPenaltyFactor = cfg.BacklogPenaltyFactor
	}
	if in.SolverName == "" {
		in.SolverName = cfg.SolverName
	}
	if in.TimeLimit == 0 {
		in.TimeLimit = cfg.TimeLimit
	}
	if in.Threads == 0 {
		in.Threads = cfg.Threads
	}
}

func init() {
	solveCmd.Flags().DurationVar(&solveTimeout, "timeout", 2*time.Minute, "maximum wall-clock time for the solve")
	rootCmd.AddCommand(solveCmd)
}
