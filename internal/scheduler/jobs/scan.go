package jobs

import (
	"context"
	"fmt"

	"github.com/wonny/valuescan/internal/contracts"
	"github.com/wonny/valuescan/pkg/logger"
)

// Scanner runs one scan
type Scanner interface {
	Run(ctx context.Context, tickers []string, cfg contracts.ThresholdConfig) (*contracts.RankedScan, error)
}

// Publisher receives every completed scan
type Publisher interface {
	Set(scan *contracts.RankedScan)
}

// ScanJob runs the value screen over a fixed universe
// ⭐ SSOT: 정기 스캔은 이 Job에서만
type ScanJob struct {
	scanner   Scanner
	publisher Publisher
	tickers   []string
	cfg       contracts.ThresholdConfig
	schedule  string
	logger    *logger.Logger
}

// NewScanJob creates a new scan job.
// publisher may be nil.
func NewScanJob(
	scanner Scanner,
	publisher Publisher,
	tickers []string,
	cfg contracts.ThresholdConfig,
	schedule string,
	log *logger.Logger,
) *ScanJob {
	return &ScanJob{
		scanner:   scanner,
		publisher: publisher,
		tickers:   tickers,
		cfg:       cfg,
		schedule:  schedule,
		logger:    log,
	}
}

// Name returns the job name
func (j *ScanJob) Name() string {
	return "value_scan"
}

// Schedule returns the cron schedule
func (j *ScanJob) Schedule() string {
	return j.schedule
}

// Run executes one scan and publishes it
func (j *ScanJob) Run(ctx context.Context) error {
	j.logger.WithField("tickers", len(j.tickers)).Info("Starting scheduled scan")

	scan, err := j.scanner.Run(ctx, j.tickers, j.cfg)
	if err != nil {
		return fmt.Errorf("scheduled scan: %w", err)
	}

	if j.publisher != nil {
		j.publisher.Set(scan)
	}

	top := make([]string, 0, len(scan.TopPicks))
	for _, pick := range scan.TopPicks {
		top = append(top, pick.Ticker)
	}

	j.logger.WithFields(map[string]interface{}{
		"scored":      len(scan.Results),
		"excluded":    len(scan.Excluded),
		"top_picks":   top,
		"config_hash": scan.ConfigHash,
		"duration":    scan.Duration,
	}).Info("Scheduled scan completed")

	return nil
}
