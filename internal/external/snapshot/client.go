package snapshot

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/wonny/valuescan/internal/contracts"
	"github.com/wonny/valuescan/pkg/httputil"
	"github.com/wonny/valuescan/pkg/logger"
)

// Name is the provider name used in PROVIDER_SOURCES
const Name = "snapshot"

// Client scrapes the quote snapshot page
// ⭐ SSOT: snapshot HTML 파싱은 이 패키지에서만
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
}

// NewClient creates a new snapshot page client
func NewClient(httpClient *httputil.Client, baseURL string, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log.WithField("provider", Name),
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// Name implements contracts.FundamentalsProvider
func (c *Client) Name() string {
	return Name
}

// Fetch implements contracts.FundamentalsProvider
func (c *Client) Fetch(ctx context.Context, symbol string) (*contracts.RawFundamentals, error) {
	params := url.Values{}
	params.Set("t", symbol)
	fullURL := fmt.Sprintf("%s/quote.ashx?%s", c.baseURL, params.Encode())

	resp, err := c.httpClient.Get(ctx, fullURL)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%s: %w", symbol, contracts.ErrSymbolNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &httputil.StatusError{StatusCode: resp.StatusCode}
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	raw, err := Parse(doc)
	if err != nil {
		if errors.Is(err, ErrNoSnapshotTable) {
			return nil, fmt.Errorf("%s: %w", symbol, contracts.ErrSymbolNotFound)
		}
		return nil, err
	}
	raw.Symbol = symbol
	raw.Source = Name

	c.logger.WithFields(map[string]interface{}{
		"symbol":  symbol,
		"company": raw.CompanyName,
	}).Debug("Parsed snapshot page")

	return raw, nil
}
