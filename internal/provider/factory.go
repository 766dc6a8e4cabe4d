package provider

import (
	"fmt"

	"github.com/wonny/valuescan/internal/contracts"
	"github.com/wonny/valuescan/internal/external/quote"
	"github.com/wonny/valuescan/internal/external/snapshot"
	"github.com/wonny/valuescan/internal/s0_data"
	"github.com/wonny/valuescan/internal/telemetry"
	"github.com/wonny/valuescan/pkg/config"
	"github.com/wonny/valuescan/pkg/database"
	"github.com/wonny/valuescan/pkg/httputil"
	"github.com/wonny/valuescan/pkg/logger"
	"github.com/wonny/valuescan/pkg/redis"
)

// Deps are the shared connections a provider chain may use.
// DB and Redis may be nil when their source or the cache is not configured.
type Deps struct {
	DB      *database.DB
	Redis   *redis.Client
	Metrics *telemetry.Metrics
}

// New builds the provider chain from PROVIDER_SOURCES:
// sources in order → Fallback → Cached (when Redis is enabled)
func New(cfg *config.Config, deps Deps, log *logger.Logger) (contracts.FundamentalsProvider, error) {
	sources := make([]contracts.FundamentalsProvider, 0, len(cfg.Provider.Sources))

	for _, name := range cfg.Provider.Sources {
		switch name {
		case config.SourceQuote:
			// 소스별 rate limit 분리
			httpClient := httputil.New(cfg, log)
			sources = append(sources, quote.NewClient(httpClient, cfg.Provider.QuoteBaseURL, cfg.Provider.QuoteAPIKey, quote.DefaultBreakerConfig(), log))

		case config.SourceSnapshot:
			httpClient := httputil.New(cfg, log)
			sources = append(sources, snapshot.NewClient(httpClient, cfg.Provider.SnapshotBaseURL, log))

		case config.SourcePostgres:
			if deps.DB == nil {
				return nil, fmt.Errorf("provider %q requires a database connection", name)
			}
			sources = append(sources, s0_data.NewFundamentalsRepository(deps.DB.Pool, cfg.Database.SnapshotMaxAge))

		default:
			return nil, fmt.Errorf("unknown provider source %q", name)
		}
	}

	if len(sources) == 0 {
		return nil, fmt.Errorf("no provider sources configured")
	}

	var chain contracts.FundamentalsProvider = NewFallback(sources, deps.Metrics, log)

	if deps.Redis != nil && deps.Redis.Enabled() {
		cache := redis.NewCache(deps.Redis, "valuescan")
		chain = NewCached(chain, cache, cfg.Provider.CacheTTL, deps.Metrics, log)
	}

	log.WithFields(map[string]interface{}{
		"sources": chain.Name(),
		"cached":  deps.Redis != nil && deps.Redis.Enabled(),
	}).Info("Fundamentals provider ready")

	return chain, nil
}
