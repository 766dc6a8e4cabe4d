package telemetry

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveScan(t *testing.T) {
	m := NewMetrics()

	m.ObserveScan(2*time.Second, nil, 3)
	m.ObserveScan(time.Second, errors.New("invalid config"), 0)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ScansTotal.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ScansTotal.WithLabelValues("error")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.TopPicks))
}

func TestCountTickerAndFetch(t *testing.T) {
	m := NewMetrics()

	m.CountTicker(OutcomeTopPick)
	m.CountTicker(OutcomeNoData)
	m.CountTicker(OutcomeNoData)
	m.ObserveFetch("quote", 10*time.Millisecond, nil)
	m.ObserveFetch("quote", 20*time.Millisecond, errors.New("timeout"))
	m.CacheResult(true)
	m.CacheResult(false)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.TickersScored.WithLabelValues(OutcomeTopPick)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.TickersScored.WithLabelValues(OutcomeNoData)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ProviderFailures.WithLabelValues("quote")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheLookups.WithLabelValues("hit")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.ProviderLatency))
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveScan(time.Second, nil, 1)
		m.CountTicker(OutcomeScored)
		m.ObserveFetch("quote", time.Second, nil)
		m.CacheResult(true)
	})
}

func TestHandler(t *testing.T) {
	m := NewMetrics()
	m.CountTicker(OutcomeScored)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `valuescan_tickers_total{outcome="scored"} 1`)
}
