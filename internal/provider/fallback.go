// Package provider composes market data sources into one FundamentalsProvider.
package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/wonny/valuescan/internal/contracts"
	"github.com/wonny/valuescan/internal/telemetry"
	"github.com/wonny/valuescan/pkg/logger"
)

// Fallback tries each source in order; the first success wins
type Fallback struct {
	sources []contracts.FundamentalsProvider
	metrics *telemetry.Metrics
	logger  *logger.Logger
}

// NewFallback creates a fallback chain. metrics may be nil.
func NewFallback(sources []contracts.FundamentalsProvider, metrics *telemetry.Metrics, log *logger.Logger) *Fallback {
	return &Fallback{
		sources: sources,
		metrics: metrics,
		logger:  log.WithField("module", "provider"),
	}
}

// Name implements contracts.FundamentalsProvider
func (f *Fallback) Name() string {
	names := make([]string, len(f.sources))
	for i, s := range f.sources {
		names[i] = s.Name()
	}
	return strings.Join(names, "+")
}

// Fetch implements contracts.FundamentalsProvider.
// When every source fails the errors are joined; errors.Is(err, ErrSymbolNotFound)
// holds if any source reported the symbol as unknown.
func (f *Fallback) Fetch(ctx context.Context, symbol string) (*contracts.RawFundamentals, error) {
	if len(f.sources) == 0 {
		return nil, errors.New("no fundamentals source configured")
	}

	var errs []error
	for _, src := range f.sources {
		start := time.Now()
		raw, err := src.Fetch(ctx, symbol)
		f.metrics.ObserveFetch(src.Name(), time.Since(start), err)

		if err == nil && raw != nil {
			if len(errs) > 0 {
				f.logger.WithFields(map[string]interface{}{
					"symbol": symbol,
					"source": src.Name(),
				}).Debug("Fell back to secondary source")
			}
			return raw, nil
		}
		if err == nil {
			err = contracts.ErrSymbolNotFound
		}
		errs = append(errs, fmt.Errorf("%s: %w", src.Name(), err))

		// 호출자 취소 시 다음 소스 시도하지 않음
		if ctx.Err() != nil {
			break
		}
	}

	return nil, errors.Join(errs...)
}
