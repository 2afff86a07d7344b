package commands

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/lotopt/clsp/pkg/clsp"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	batchConcurrency int
	batchTimeout     time.Duration
)

type batchOutcome struct {
	File   string           `json:"file"`
	Result *clsp.SolveResult `json:"result,omitempty"`
	Error  string           `json:"error,omitempty"`
}

// batchCmd runs one Solve per scenario file in a directory, fanning out
// with bounded concurrency. Unlike solve's single call, a failure in one
// scenario does not cancel the others — a batch run reports every
// scenario's outcome rather than stopping at the first error, since a
// DOE-style sweep over many scenarios is expected to contain some
// infeasible points.
var batchCmd = &cobra.Command{
	Use:   "run-batch <scenario-dir>",
	Short: "Solve every scenario file in a directory concurrently",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := filepath.Glob(filepath.Join(args[0], "*.json"))
		if err != nil {
			return fmt.Errorf("listing scenario directory: %w", err)
		}
		sort.Strings(files)
		if len(files) == 0 {
			return fmt.Errorf("no *.json scenario files found in %s", args[0])
		}

		outcomes := make([]batchOutcome, len(files))
		var mu sync.Mutex

		g, ctx := errgroup.WithContext(cmd.Context())
		g.SetLimit(batchConcurrency)

		for i, f := range files {
			i, f := i, f
			g.Go(func() error {
				in, err := loadScenario(f)
				if err != nil {
					mu.Lock()
					outcomes[i] = batchOutcome{File: f, Error: err.Error()}
					mu.Unlock()
					return nil
				}
				applyConfigDefaults(&in)

				solveCtx, cancel := context.WithTimeout(ctx, batchTimeout)
				defer cancel()

				result, err := clsp.Solve(solveCtx, in)
				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					outcomes[i] = batchOutcome{File: f, Error: err.Error()}
					log.Error().Err(err).Str("file", f).Msg("scenario failed")
					return nil
				}
				outcomes[i] = batchOutcome{File: f, Result: result}
				log.Info().Str("file", f).Str("status", result.Status).Msg("scenario solved")
				return nil
			})
		}

		// Every goroutine above returns nil (each load or Solve error is
		// captured per-file), so g.Wait returns nil here.
		if err := g.Wait(); err != nil {
			return err
		}
		return printJSON(outcomes)
	},
}

func init() {
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 4, "maximum number of scenarios solved at once")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 2*time.Minute, "maximum wall-clock time per scenario")
	rootCmd.AddCommand(batchCmd)
}
