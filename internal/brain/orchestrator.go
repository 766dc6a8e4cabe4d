package brain

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/wonny/valuescan/internal/contracts"
	"github.com/wonny/valuescan/internal/fundamentals"
	"github.com/wonny/valuescan/internal/screenconfig"
	"github.com/wonny/valuescan/internal/selection"
	"github.com/wonny/valuescan/internal/telemetry"
	"github.com/wonny/valuescan/internal/thesis"
	"github.com/wonny/valuescan/pkg/logger"
)

// minCoverageScore is the data coverage below which a scan is logged as degraded
const minCoverageScore = 0.7

// ErrNoTickers is returned when a scan is started without any usable ticker
var ErrNoTickers = errors.New("no tickers to scan")

// Orchestrator runs one scan: fetch → build → score → rank → thesis
// ⭐ SSOT: 스캔 파이프라인 조율은 여기서만
type Orchestrator struct {
	provider    contracts.FundamentalsProvider
	ranker      *selection.Ranker
	synthesizer *thesis.Synthesizer
	metrics     *telemetry.Metrics
	logger      *logger.Logger

	workers      int
	fetchTimeout time.Duration
	now          func() time.Time
}

// Options holds worker pool settings
type Options struct {
	Workers      int           // concurrent fetches, default runtime.NumCPU()
	FetchTimeout time.Duration // per-ticker fetch deadline, 0 = none
}

// NewOrchestrator creates a new orchestrator.
// metrics may be nil.
func NewOrchestrator(
	provider contracts.FundamentalsProvider,
	metrics *telemetry.Metrics,
	opts Options,
	log *logger.Logger,
) *Orchestrator {
	workers := opts.Workers
	if workers < 1 {
		workers = runtime.NumCPU()
	}

	return &Orchestrator{
		provider:     provider,
		ranker:       selection.NewRanker(log),
		synthesizer:  thesis.NewSynthesizer(),
		metrics:      metrics,
		logger:       log.WithField("module", "brain"),
		workers:      workers,
		fetchTimeout: opts.FetchTimeout,
		now:          time.Now,
	}
}

// Target is one normalized ticker and the symbol sent to the provider
type Target struct {
	Ticker string
	Symbol string
}

// fetchResult represents the result of one worker job
type fetchResult struct {
	index  int
	record *contracts.MetricsRecord
	err    error
}

// Run scans tickers with cfg.
// An invalid cfg aborts before any fetch; a failed fetch never aborts the batch.
func (o *Orchestrator) Run(ctx context.Context, tickers []string, cfg contracts.ThresholdConfig) (*contracts.RankedScan, error) {
	startTime := o.now()

	// Fail fast: 잘못된 설정은 스코어링 전에 거부
	if err := screenconfig.Validate(&cfg); err != nil {
		o.metrics.ObserveScan(0, err, 0)
		return nil, fmt.Errorf("scan rejected: %w", err)
	}

	targets := NormalizeTickers(tickers, cfg.MarketSuffix)
	if len(targets) == 0 {
		o.metrics.ObserveScan(0, ErrNoTickers, 0)
		return nil, ErrNoTickers
	}

	hash, err := screenconfig.Hash(cfg)
	if err != nil {
		return nil, fmt.Errorf("hash config: %w", err)
	}

	o.logger.WithFields(map[string]interface{}{
		"tickers":     len(targets),
		"workers":     o.workers,
		"suffix":      cfg.MarketSuffix,
		"threshold":   cfg.CriteriaPassThreshold,
		"config_hash": hash[:12],
	}).Info("Starting scan")

	records := o.fetchAll(ctx, targets)
	if err := ctx.Err(); err != nil {
		o.metrics.ObserveScan(0, err, 0)
		return nil, fmt.Errorf("scan cancelled: %w", err)
	}

	// Universe floor, score
	results := make([]contracts.ScoreResult, 0, len(records))
	var excluded []string
	for _, rec := range records {
		if belowFloor(rec, cfg.MinMarketCap) {
			excluded = append(excluded, rec.Ticker)
			o.metrics.CountTicker(telemetry.OutcomeExcluded)
			continue
		}

		result := selection.Score(rec, &cfg)
		results = append(results, result)

		switch {
		case !rec.HasData():
			o.metrics.CountTicker(telemetry.OutcomeNoData)
		case result.IsTopPick:
			o.metrics.CountTicker(telemetry.OutcomeTopPick)
		default:
			o.metrics.CountTicker(telemetry.OutcomeScored)
		}
	}
	sort.Strings(excluded)

	// Join point: 전체 결과가 모인 뒤에만 랭킹
	results = o.ranker.Rank(results)

	coverage := selection.Coverage(results)
	if len(results) > 0 && !coverage.IsValid(minCoverageScore) {
		o.logger.WithFields(map[string]interface{}{
			"with_data":     coverage.WithData,
			"total":         coverage.TotalTickers,
			"quality_score": coverage.QualityScore,
			"criteria":      coverage.Criteria,
		}).Warn("Low data coverage")
	}

	picks := len(selection.TopPicks(results, cfg.TopN))
	o.synthesizer.Attach(results[:picks])

	scan := &contracts.RankedScan{
		Config:     cfg,
		ConfigHash: hash,
		Results:    results,
		TopPicks:   append([]contracts.ScoreResult{}, results[:picks]...),
		Excluded:   excluded,
		Coverage:   coverage,
		StartedAt:  startTime,
		Duration:   o.now().Sub(startTime),
	}

	o.metrics.ObserveScan(scan.Duration, nil, picks)

	o.logger.WithFields(map[string]interface{}{
		"scored":    len(results),
		"excluded":  len(excluded),
		"top_picks": picks,
		"duration":  scan.Duration.String(),
	}).Info("Scan completed")

	return scan, nil
}

// fetchAll fetches every target through a bounded worker pool.
// The returned records keep the order of targets.
func (o *Orchestrator) fetchAll(ctx context.Context, targets []Target) []*contracts.MetricsRecord {
	records := make([]*contracts.MetricsRecord, len(targets))
	jobCh := make(chan int, len(targets))
	resultCh := make(chan fetchResult, len(targets))

	workers := o.workers
	if workers > len(targets) {
		workers = len(targets)
	}

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			o.worker(ctx, workerID, targets, jobCh, resultCh)
		}(i)
	}

	for i := range targets {
		jobCh <- i
	}
	close(jobCh)

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	failCount := 0
	for result := range resultCh {
		records[result.index] = result.record
		if result.err != nil {
			failCount++
		}
	}

	o.logger.WithFields(map[string]interface{}{
		"success": len(targets) - failCount,
		"failed":  failCount,
		"total":   len(targets),
	}).Info("Fundamentals fetch completed")

	return records
}

// worker fetches and builds records for jobs
func (o *Orchestrator) worker(ctx context.Context, workerID int, targets []Target, jobCh <-chan int, resultCh chan<- fetchResult) {
	for idx := range jobCh {
		t := targets[idx]

		raw, err := o.fetch(ctx, t.Symbol)
		if err != nil {
			// 실패 종목도 결과에 포함 (전 필드 absent → 0점, 최하위)
			o.logger.WithError(err).WithFields(map[string]interface{}{
				"worker": workerID,
				"ticker": t.Ticker,
				"symbol": t.Symbol,
			}).Warn("Failed to fetch fundamentals")

			rec := fundamentals.Build(t.Ticker, t.Symbol, nil)
			rec.FetchError = err.Error()
			resultCh <- fetchResult{index: idx, record: rec, err: err}
			continue
		}

		resultCh <- fetchResult{index: idx, record: fundamentals.Build(t.Ticker, t.Symbol, raw)}
	}
}

func (o *Orchestrator) fetch(ctx context.Context, symbol string) (*contracts.RawFundamentals, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fetchCtx := ctx
	if o.fetchTimeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, o.fetchTimeout)
		defer cancel()
	}

	raw, err := o.provider.Fetch(fetchCtx, symbol)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, contracts.ErrSymbolNotFound
	}
	return raw, nil
}

func belowFloor(rec *contracts.MetricsRecord, floor float64) bool {
	return floor > 0 && rec.MarketCap.Valid && rec.MarketCap.Value < floor
}

// NormalizeTickers trims, upper-cases and de-duplicates tickers and derives
// the provider symbol. The suffix is appended only to bare tickers (no '.').
func NormalizeTickers(tickers []string, suffix string) []Target {
	seen := make(map[string]struct{}, len(tickers))
	out := make([]Target, 0, len(tickers))

	for _, raw := range tickers {
		ticker := strings.ToUpper(strings.TrimSpace(raw))
		if ticker == "" {
			continue
		}
		if _, dup := seen[ticker]; dup {
			continue
		}
		seen[ticker] = struct{}{}

		symbol := ticker
		if suffix != "" && !strings.Contains(ticker, ".") {
			symbol = ticker + strings.ToUpper(suffix)
		}
		out = append(out, Target{Ticker: ticker, Symbol: symbol})
	}

	return out
}
