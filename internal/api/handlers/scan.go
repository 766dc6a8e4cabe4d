package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/wonny/valuescan/internal/brain"
	"github.com/wonny/valuescan/internal/contracts"
	"github.com/wonny/valuescan/internal/screenconfig"
	"github.com/wonny/valuescan/pkg/logger"
)

// maxTickersPerRequest bounds one synchronous scan
const maxTickersPerRequest = 500

// Scanner runs one scan
type Scanner interface {
	Run(ctx context.Context, tickers []string, cfg contracts.ThresholdConfig) (*contracts.RankedScan, error)
}

// ScanHandler handles scan API endpoints
// ⭐ SSOT: 스캔 API 핸들러는 이 구조체에서만
type ScanHandler struct {
	scanner        Scanner
	store          *brain.LatestStore
	base           contracts.ThresholdConfig
	defaultTickers []string
	logger         *logger.Logger
}

// NewScanHandler creates a new scan handler.
// base is the threshold config request overrides apply to.
func NewScanHandler(scanner Scanner, store *brain.LatestStore, base contracts.ThresholdConfig, defaultTickers []string, log *logger.Logger) *ScanHandler {
	return &ScanHandler{
		scanner:        scanner,
		store:          store,
		base:           base,
		defaultTickers: defaultTickers,
		logger:         log,
	}
}

// ScanRequest is the body of POST /api/scans
type ScanRequest struct {
	Tickers   []string               `json:"tickers"`
	Overrides screenconfig.Overrides `json:"overrides"`
}

// ConfigResponse is the body of GET /api/config/defaults
type ConfigResponse struct {
	Config contracts.ThresholdConfig `json:"config"`
	Hash   string                    `json:"hash"`
}

// GetDefaults returns the base threshold config
// GET /api/config/defaults
func (h *ScanHandler) GetDefaults(w http.ResponseWriter, r *http.Request) {
	hash, err := screenconfig.Hash(h.base)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to hash config")
		return
	}
	respondJSON(w, http.StatusOK, ConfigResponse{Config: h.base, Hash: hash})
}

// CreateScan runs a scan synchronously and stores it as the latest
// POST /api/scans
func (h *ScanHandler) CreateScan(w http.ResponseWriter, r *http.Request) {
	var req ScanRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	tickers := req.Tickers
	if len(tickers) == 0 {
		tickers = h.defaultTickers
	}
	if len(tickers) > maxTickersPerRequest {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("Too many tickers: %d (max %d)", len(tickers), maxTickersPerRequest))
		return
	}

	cfg := req.Overrides.Apply(h.base)

	scan, err := h.scanner.Run(r.Context(), tickers, cfg)
	if err != nil {
		switch {
		case errors.Is(err, screenconfig.ErrInvalidConfig), errors.Is(err, brain.ErrNoTickers):
			respondError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.WithError(err).Error("Scan failed")
			respondError(w, http.StatusInternalServerError, "Scan failed")
		}
		return
	}

	h.store.Set(scan)
	respondJSON(w, http.StatusOK, scan)
}

// GetLatest returns the most recent scan
// GET /api/scans/latest
func (h *ScanHandler) GetLatest(w http.ResponseWriter, r *http.Request) {
	scan, ok := h.store.Latest()
	if !ok {
		respondError(w, http.StatusNotFound, "No scan has been run yet")
		return
	}
	respondJSON(w, http.StatusOK, scan)
}

// GetLatestTicker returns one ticker of the most recent scan
// GET /api/scans/latest/{ticker}
func (h *ScanHandler) GetLatestTicker(w http.ResponseWriter, r *http.Request) {
	scan, ok := h.store.Latest()
	if !ok {
		respondError(w, http.StatusNotFound, "No scan has been run yet")
		return
	}

	ticker := strings.ToUpper(mux.Vars(r)["ticker"])
	result, found := scan.Result(ticker)
	if !found {
		respondError(w, http.StatusNotFound, fmt.Sprintf("Ticker %s not in latest scan", ticker))
		return
	}
	respondJSON(w, http.StatusOK, result)
}
