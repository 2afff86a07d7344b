package commands

import (
	"github.com/lotopt/clsp/internal/config"
	"github.com/lotopt/clsp/internal/logging"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	// Version is set at build time via ldflags.
	Version = "dev"

	verbose bool
	cfg     *config.Defaults
)

var rootCmd = &cobra.Command{
	Use:   "clspsolve",
	Short: "clspsolve schedules lot sizes and machine setups under capacity and vacation constraints",
	Long: `clspsolve builds and solves a capacitated lot-sizing and scheduling
model from a JSON scenario file: production quantities, machine setup
assignments, safety stock, and optional vacation planning over a fixed
horizon of periods.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(verbose)
		cfg = config.Load()

		log.Info().
			Str("version", Version).
			Msg("clspsolve starting")
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}
