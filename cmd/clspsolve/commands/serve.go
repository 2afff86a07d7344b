package commands

import (
	"net/http"

	"github.com/lotopt/clsp/internal/metrics"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var serveAddr string

// serveCmd exposes /metrics for scrape-based monitoring of solve volume,
// duration, and model size across whatever other process is invoking
// solve/run-batch against this binary's library (clsp.Solve itself never
// opens a network port; this command only serves the counters it records).
var serveCmd = &cobra.Command{
	Use:   "serve-metrics",
	Short: "Serve the Prometheus /metrics endpoint for recorded solve statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		registry := metrics.Enable()
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

		log.Info().Str("addr", serveAddr).Msg("serving /metrics")
		return http.ListenAndServe(serveAddr, mux)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":9090", "address to serve /metrics on")
	rootCmd.AddCommand(serveCmd)
}
