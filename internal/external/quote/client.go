package quote

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/wonny/valuescan/internal/contracts"
	"github.com/wonny/valuescan/pkg/httputil"
	"github.com/wonny/valuescan/pkg/logger"
)

// Name is the provider name used in PROVIDER_SOURCES
const Name = "quote"

// Client fetches fundamentals from the JSON quote API
// ⭐ SSOT: quote API 호출은 이 클라이언트에서만
type Client struct {
	httpClient *httputil.Client
	breaker    *gobreaker.CircuitBreaker
	logger     *logger.Logger
	baseURL    string
}

// BreakerConfig controls when the circuit opens
type BreakerConfig struct {
	ConsecutiveFailures uint32        // failures in a row before opening
	OpenTimeout         time.Duration // how long the circuit stays open
}

// DefaultBreakerConfig returns the production breaker settings
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		ConsecutiveFailures: 5,
		OpenTimeout:         30 * time.Second,
	}
}

// NewClient creates a new quote API client.
// apiKey is sent as X-API-Key when non-empty.
func NewClient(httpClient *httputil.Client, baseURL, apiKey string, bc BreakerConfig, log *logger.Logger) *Client {
	if apiKey != "" {
		httpClient.WithHeader("X-API-Key", apiKey)
	}
	httpClient.WithHeader("Accept", "application/json")

	c := &Client{
		httpClient: httpClient,
		logger:     log.WithField("provider", Name),
		baseURL:    strings.TrimRight(baseURL, "/"),
	}

	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        Name,
		MaxRequests: 1,
		Timeout:     bc.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= bc.ConsecutiveFailures
		},
		// 종목 없음은 API 장애가 아님
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, contracts.ErrSymbolNotFound)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.logger.WithFields(map[string]interface{}{
				"from": from.String(),
				"to":   to.String(),
			}).Warn("Circuit breaker state changed")
		},
	})

	return c
}

// Name implements contracts.FundamentalsProvider
func (c *Client) Name() string {
	return Name
}

// State returns the current breaker state
func (c *Client) State() gobreaker.State {
	return c.breaker.State()
}

// Fetch implements contracts.FundamentalsProvider
func (c *Client) Fetch(ctx context.Context, symbol string) (*contracts.RawFundamentals, error) {
	out, err := c.breaker.Execute(func() (interface{}, error) {
		return c.fetch(ctx, symbol)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("quote API unavailable: %w", err)
		}
		return nil, err
	}

	return out.(*contracts.RawFundamentals), nil
}

func (c *Client) fetch(ctx context.Context, symbol string) (*contracts.RawFundamentals, error) {
	fullURL := fmt.Sprintf("%s/v1/fundamentals/%s", c.baseURL, url.PathEscape(symbol))

	var raw contracts.RawFundamentals
	if err := c.httpClient.GetJSON(ctx, fullURL, &raw); err != nil {
		var statusErr *httputil.StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("%s: %w", symbol, contracts.ErrSymbolNotFound)
		}
		return nil, fmt.Errorf("fetch %s: %w", symbol, err)
	}

	if raw.Symbol == "" {
		raw.Symbol = symbol
	}
	raw.Source = Name

	c.logger.WithField("symbol", symbol).Debug("Fetched fundamentals")

	return &raw, nil
}
