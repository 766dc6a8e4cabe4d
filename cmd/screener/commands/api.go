package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/valuescan/internal/api"
	"github.com/wonny/valuescan/internal/api/handlers"
	"github.com/wonny/valuescan/internal/brain"
	"github.com/wonny/valuescan/internal/screenconfig"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the HTTP API server",
	Long: `Starts the REST API server.

Endpoints:
  GET  /health                      - Health check
  GET  /metrics                     - Prometheus metrics
  GET  /api/config/defaults         - Base thresholds and hash
  POST /api/scans                   - Run a scan (tickers + overrides)
  GET  /api/scans/latest            - Most recent scan
  GET  /api/scans/latest/{ticker}   - One ticker of the most recent scan

With --schedule the value_scan cron job runs in the same process and
publishes to the store behind /api/scans/latest.

Example:
  go run ./cmd/screener api
  go run ./cmd/screener api --port 8080
  go run ./cmd/screener api --schedule`,
	RunE: runAPIServer,
}

var (
	apiPort     string
	apiSchedule bool
)

func init() {
	rootCmd.AddCommand(apiCmd)

	// Flags
	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (default: PORT)")
	apiCmd.Flags().BoolVar(&apiSchedule, "schedule", false, "also run scheduled scans (SCAN_SCHEDULE over SCAN_TICKERS)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	return serve(cmd, apiSchedule)
}

// serve runs the API server, optionally with the scan scheduler.
// Both share one LatestStore so scheduled scans are served by the API.
func serve(cmd *cobra.Command, withScheduler bool) error {
	a, err := initApp()
	if err != nil {
		return err
	}
	defer a.close()

	// Override port if flag is set
	if apiPort != "" {
		a.cfg.Port = apiPort
	}

	// Fail fast on a bad thresholds file
	base, err := a.thresholds(screenconfig.Overrides{})
	if err != nil {
		return err
	}

	a.log.WithFields(map[string]interface{}{
		"port": a.cfg.Port,
		"env":  a.cfg.Env,
	}).Info("Initializing API server")

	store := brain.NewLatestStore()

	if withScheduler {
		sched, job, err := initScheduler(a, store)
		if err != nil {
			return fmt.Errorf("init scheduler: %w", err)
		}
		sched.Start()
		defer sched.Stop()

		next, _ := sched.NextRun(job.Name())
		a.log.WithFields(map[string]interface{}{
			"job":      job.Name(),
			"schedule": job.Schedule(),
			"next_run": next,
		}).Info("Scheduler started")
	}

	scanHandler := handlers.NewScanHandler(a.orchestrator, store, base, a.cfg.Scan.Tickers, a.log)
	router := api.NewRouter(scanHandler, a.metrics, a.log)
	server := api.New(a.cfg, a.log, router)

	// Start server with graceful shutdown
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	fmt.Fprintf(cmd.OutOrStdout(), "✅ Server running on http://localhost:%s (Ctrl+C to stop)\n", a.cfg.Port)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	a.log.Info("Server stopped")
	return nil
}
