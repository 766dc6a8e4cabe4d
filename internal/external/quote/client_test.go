package quote

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/valuescan/internal/contracts"
	"github.com/wonny/valuescan/pkg/config"
	"github.com/wonny/valuescan/pkg/httputil"
	"github.com/wonny/valuescan/pkg/logger"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, bc BreakerConfig) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := &config.Config{Provider: config.ProviderConfig{Timeout: 2 * time.Second}}
	httpClient := httputil.New(cfg, logger.Nop()).DisableRetry()

	return NewClient(httpClient, server.URL+"/", "test-key", bc, logger.Nop()), server
}

func TestFetch(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/fundamentals/WALMEX.MX", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-API-Key"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"company_name": "Walmart de Mexico",
			"industry": "Discount Stores",
			"price": 61.2,
			"pe_ratio": 18.5,
			"pb_ratio": null,
			"profit_margin": 0.061,
			"debt_to_equity": 45.2,
			"market_cap": 1.07e12
		}`))
	}, DefaultBreakerConfig())

	raw, err := client.Fetch(context.Background(), "WALMEX.MX")
	require.NoError(t, err)

	assert.Equal(t, "WALMEX.MX", raw.Symbol)
	assert.Equal(t, "quote", raw.Source)
	assert.Equal(t, "Walmart de Mexico", raw.CompanyName)
	require.NotNil(t, raw.PERatio)
	assert.Equal(t, 18.5, *raw.PERatio)
	assert.Nil(t, raw.PBRatio, "null stays absent")
	assert.Nil(t, raw.ROE, "missing stays absent")
	assert.Equal(t, 45.2, *raw.DebtToEquity)
}

func TestFetch_NotFound(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}, BreakerConfig{ConsecutiveFailures: 1, OpenTimeout: time.Minute})

	for i := 0; i < 3; i++ {
		_, err := client.Fetch(context.Background(), "NOPE")
		assert.True(t, errors.Is(err, contracts.ErrSymbolNotFound))
	}
	assert.Equal(t, gobreaker.StateClosed, client.State(), "not found does not trip the breaker")
}

func TestFetch_BreakerOpens(t *testing.T) {
	var calls int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}, BreakerConfig{ConsecutiveFailures: 2, OpenTimeout: time.Minute})

	for i := 0; i < 2; i++ {
		_, err := client.Fetch(context.Background(), "KO")
		require.Error(t, err)
	}
	assert.Equal(t, gobreaker.StateOpen, client.State())

	_, err := client.Fetch(context.Background(), "KO")
	assert.True(t, errors.Is(err, gobreaker.ErrOpenState))
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls), "open circuit short-circuits requests")
}

func TestName(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {}, DefaultBreakerConfig())
	assert.Equal(t, "quote", client.Name())
}
