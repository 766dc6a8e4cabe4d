package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wonny/valuescan/internal/brain"
	"github.com/wonny/valuescan/internal/scheduler"
	"github.com/wonny/valuescan/internal/scheduler/jobs"
	"github.com/wonny/valuescan/internal/screenconfig"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Scheduled scans",
	Long: `Runs the value scan on a cron schedule.

Subcommands:
  start   - start the scheduler with the API server (same as api --schedule)
  run     - run the scheduled scan once, now

The schedule is SCAN_SCHEDULE (six fields, with seconds) and the
universe is SCAN_TICKERS. Scheduled scans are served at
GET /api/scans/latest.

Example:
  go run ./cmd/screener scheduler start
  go run ./cmd/screener scheduler run`,
}

var (
	schedulerStartCmd = &cobra.Command{
		Use:   "start",
		Short: "Start the scheduler and the API server",
		RunE:  runScheduler,
	}

	schedulerRunCmd = &cobra.Command{
		Use:   "run",
		Short: "Run the scheduled scan once",
		RunE:  runScheduledOnce,
	}

	schedulerFormat string
)

func init() {
	rootCmd.AddCommand(schedulerCmd)
	schedulerCmd.AddCommand(schedulerStartCmd)
	schedulerCmd.AddCommand(schedulerRunCmd)

	schedulerStartCmd.Flags().StringVar(&apiPort, "port", "", "API server port (default: PORT)")
	schedulerRunCmd.Flags().StringVar(&schedulerFormat, "format", FormatTable, "output format (table|json)")
}

// initScheduler wires the scan job into a scheduler
func initScheduler(a *app, store *brain.LatestStore) (*scheduler.Scheduler, *jobs.ScanJob, error) {
	if len(a.cfg.Scan.Tickers) == 0 {
		return nil, nil, fmt.Errorf("SCAN_TICKERS is empty")
	}

	thresholds, err := a.thresholds(screenconfig.Overrides{})
	if err != nil {
		return nil, nil, err
	}

	job := jobs.NewScanJob(a.orchestrator, store, a.cfg.Scan.Tickers, thresholds, a.cfg.Scan.Schedule, a.log)

	sched := scheduler.New(a.log)
	if err := sched.AddJob(job); err != nil {
		return nil, nil, err
	}
	return sched, job, nil
}

func runScheduler(cmd *cobra.Command, args []string) error {
	return serve(cmd, true)
}

func runScheduledOnce(cmd *cobra.Command, args []string) error {
	a, err := initApp()
	if err != nil {
		return err
	}
	defer a.close()

	store := brain.NewLatestStore()
	sched, job, err := initScheduler(a, store)
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := sched.RunNow(ctx, job.Name())
	if err != nil {
		return err
	}
	if !result.Success {
		return fmt.Errorf("job %s failed: %s", result.JobName, result.Error)
	}

	scan, ok := store.Latest()
	if !ok {
		return fmt.Errorf("job %s published no scan", result.JobName)
	}
	return renderScan(cmd.OutOrStdout(), scan, schedulerFormat)
}
