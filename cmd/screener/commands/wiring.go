package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/wonny/valuescan/internal/brain"
	"github.com/wonny/valuescan/internal/contracts"
	"github.com/wonny/valuescan/internal/provider"
	"github.com/wonny/valuescan/internal/s0_data"
	"github.com/wonny/valuescan/internal/screenconfig"
	"github.com/wonny/valuescan/internal/telemetry"
	"github.com/wonny/valuescan/pkg/config"
	"github.com/wonny/valuescan/pkg/database"
	"github.com/wonny/valuescan/pkg/logger"
	"github.com/wonny/valuescan/pkg/redis"
)

// app holds the dependencies shared by every command
type app struct {
	cfg          *config.Config
	log          *logger.Logger
	metrics      *telemetry.Metrics
	orchestrator *brain.Orchestrator

	db    *database.DB
	redis *redis.Client
}

// initApp loads config and wires provider → orchestrator.
// Logs go to stderr so stdout stays clean for scan output.
func initApp() (*app, error) {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	// 2. Initialize logger
	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	log := logger.NewWithWriter(os.Stderr, level, cfg.LogFormat, cfg.Env)

	a := &app{cfg: cfg, log: log}

	// 3. Connect to database (only when the snapshot store is in the chain)
	if cfg.Provider.HasSource(config.SourcePostgres) {
		db, err := database.New(cfg)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		a.db = db
		log.Info("Connected to database")

		if err := prepareSnapshotStore(db.Pool, log); err != nil {
			a.close()
			return nil, err
		}
	}

	// 4. Connect to Redis (disabled client when REDIS_ENABLED=false)
	rc, err := redis.New(cfg)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	a.redis = rc

	// 5. Metrics
	if cfg.MetricsEnabled {
		a.metrics = telemetry.NewMetrics()
	}

	// 6. Provider chain
	p, err := provider.New(cfg, provider.Deps{DB: a.db, Redis: a.redis, Metrics: a.metrics}, log)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("init provider: %w", err)
	}

	// 7. Orchestrator
	a.orchestrator = brain.NewOrchestrator(p, a.metrics, brain.Options{
		Workers:      cfg.Scan.Workers,
		FetchTimeout: cfg.Scan.FetchTimeout,
	}, log)

	return a, nil
}

// thresholds resolves the run's thresholds: defaults, file, then overrides
func (a *app) thresholds(overrides screenconfig.Overrides) (contracts.ThresholdConfig, error) {
	path := thresholdsFile
	if path == "" {
		path = a.cfg.Scan.ThresholdsFile
	}
	return screenconfig.Resolve(path, overrides)
}

// close releases connections
func (a *app) close() {
	if a.redis != nil {
		a.redis.Close()
	}
	if a.db != nil {
		a.db.Close()
	}
}

// thresholdsPath is --thresholds, else SCAN_THRESHOLDS_FILE
func thresholdsPath() (string, error) {
	if thresholdsFile != "" {
		return thresholdsFile, nil
	}
	cfg, err := config.Load()
	if err != nil {
		return "", fmt.Errorf("load config: %w", err)
	}
	return cfg.Scan.ThresholdsFile, nil
}

// prepareSnapshotStore creates the snapshot table on a fresh database
func prepareSnapshotStore(q s0_data.Querier, log *logger.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s0_data.NewFundamentalsRepository(q, 0).EnsureSchema(ctx); err != nil {
		return fmt.Errorf("prepare snapshot store: %w", err)
	}
	log.Debug("Snapshot schema ready")
	return nil
}
