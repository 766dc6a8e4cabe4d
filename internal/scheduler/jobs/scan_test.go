package jobs

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/valuescan/internal/brain"
	"github.com/wonny/valuescan/internal/contracts"
	"github.com/wonny/valuescan/internal/screenconfig"
	"github.com/wonny/valuescan/pkg/logger"
)

type stubScanner struct {
	gotTickers []string
	gotCfg     contracts.ThresholdConfig
	scan       *contracts.RankedScan
	err        error
}

func (s *stubScanner) Run(ctx context.Context, tickers []string, cfg contracts.ThresholdConfig) (*contracts.RankedScan, error) {
	s.gotTickers = tickers
	s.gotCfg = cfg
	return s.scan, s.err
}

func TestScanJob_PublishesScan(t *testing.T) {
	scan := &contracts.RankedScan{
		Results:  []contracts.ScoreResult{{Ticker: "KO", PassCount: 4, IsTopPick: true, Rank: 1}},
		TopPicks: []contracts.ScoreResult{{Ticker: "KO", PassCount: 4, IsTopPick: true, Rank: 1}},
	}
	scanner := &stubScanner{scan: scan}
	store := brain.NewLatestStore()
	cfg := screenconfig.Default()
	cfg.TopN = 3

	job := NewScanJob(scanner, store, []string{"KO", "PEP"}, cfg, "@daily", logger.Nop())

	assert.Equal(t, "value_scan", job.Name())
	assert.Equal(t, "@daily", job.Schedule())
	require.NoError(t, job.Run(context.Background()))

	assert.Equal(t, []string{"KO", "PEP"}, scanner.gotTickers)
	assert.Equal(t, 3, scanner.gotCfg.TopN)

	latest, ok := store.Latest()
	require.True(t, ok)
	assert.Same(t, scan, latest)
}

func TestScanJob_FailureIsNotPublished(t *testing.T) {
	scanner := &stubScanner{err: brain.ErrNoTickers}
	store := brain.NewLatestStore()

	job := NewScanJob(scanner, store, nil, screenconfig.Default(), "@daily", logger.Nop())

	err := job.Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, brain.ErrNoTickers))

	_, ok := store.Latest()
	assert.False(t, ok)
}

func TestScanJob_NilPublisher(t *testing.T) {
	scanner := &stubScanner{scan: &contracts.RankedScan{}}
	job := NewScanJob(scanner, nil, []string{"KO"}, screenconfig.Default(), "@daily", logger.Nop())

	assert.NoError(t, job.Run(context.Background()))
}
