package contracts

import (
	"context"
	"errors"
)

// ErrSymbolNotFound is returned by providers that have no data for a symbol
var ErrSymbolNotFound = errors.New("symbol not found")

// FundamentalsProvider supplies raw fundamentals for one symbol
// ⭐ SSOT: every market data source implements this interface
type FundamentalsProvider interface {
	// Name identifies the source in logs, metrics and cache keys
	Name() string

	// Fetch returns the raw snapshot for symbol (ticker + market suffix).
	// Any field may be nil.
	Fetch(ctx context.Context, symbol string) (*RawFundamentals, error)
}

// RawFundamentals is a provider response; nil means the provider did not supply the field.
//
// Units: margins, growth, yields, ROA and ROE are fractions (0.15 = 15%);
// DebtToEquity is a percentage (45 = 0.45x); prices and caps are in quote currency.
type RawFundamentals struct {
	Symbol      string `json:"symbol"`
	CompanyName string `json:"company_name,omitempty"`
	Industry    string `json:"industry,omitempty"`
	Source      string `json:"source,omitempty"`

	Price             *float64 `json:"price"`
	EPS               *float64 `json:"eps"`
	BookValuePerShare *float64 `json:"book_value_per_share"`
	PERatio           *float64 `json:"pe_ratio"`
	PBRatio           *float64 `json:"pb_ratio"`
	ProfitMargin      *float64 `json:"profit_margin"`
	CurrentRatio      *float64 `json:"current_ratio"`
	DebtToEquity      *float64 `json:"debt_to_equity"`
	OperatingMargin   *float64 `json:"operating_margin"`
	EarningsGrowth    *float64 `json:"earnings_growth_rate"`
	DividendYield     *float64 `json:"dividend_yield"`
	ROA               *float64 `json:"roa"`
	ROE               *float64 `json:"roe"`
	MarketCap         *float64 `json:"market_cap"`
	FiftyTwoWeekHigh  *float64 `json:"fifty_two_week_high"`
	TwoHundredDayAvg  *float64 `json:"two_hundred_day_moving_avg"`
	EnterpriseValue   *float64 `json:"enterprise_value"`
	EBITDA            *float64 `json:"ebitda"`
}

// MetricsRecord is the canonical per-ticker record built once per scan.
// Treat as read-only after construction.
type MetricsRecord struct {
	Ticker      string `json:"ticker"`
	Symbol      string `json:"symbol"`
	CompanyName string `json:"company_name,omitempty"`
	Industry    string `json:"industry,omitempty"`
	Source      string `json:"source,omitempty"`
	FetchError  string `json:"fetch_error,omitempty"`

	// Raw fundamentals
	Price             Metric `json:"price"`
	EPS               Metric `json:"eps"`
	BookValuePerShare Metric `json:"book_value_per_share"`
	PERatio           Metric `json:"pe_ratio"`
	PBRatio           Metric `json:"pb_ratio"`
	ProfitMargin      Metric `json:"profit_margin"`
	CurrentRatio      Metric `json:"current_ratio"`
	DebtToEquity      Metric `json:"debt_to_equity"`
	OperatingMargin   Metric `json:"operating_margin"`
	EarningsGrowth    Metric `json:"earnings_growth_rate"`
	DividendYield     Metric `json:"dividend_yield"`
	ROA               Metric `json:"roa"`
	ROE               Metric `json:"roe"`
	MarketCap         Metric `json:"market_cap"`
	FiftyTwoWeekHigh  Metric `json:"fifty_two_week_high"`
	TwoHundredDayAvg  Metric `json:"two_hundred_day_moving_avg"`
	EnterpriseValue   Metric `json:"enterprise_value"`
	EBITDA            Metric `json:"ebitda"`

	// Derived
	PEGRatio        Metric `json:"peg_ratio"`
	GrahamNumber    Metric `json:"graham_number"`
	PctBelow52wHigh Metric `json:"pct_below_52w_high"`
	PctBelow200dAvg Metric `json:"pct_below_200d_avg"`
	EVToEBITDA      Metric `json:"ev_to_ebitda"`
}

// HasData reports whether any raw field is present
func (r *MetricsRecord) HasData() bool {
	for _, m := range []Metric{
		r.Price, r.EPS, r.BookValuePerShare, r.PERatio, r.PBRatio, r.ProfitMargin,
		r.CurrentRatio, r.DebtToEquity, r.OperatingMargin, r.EarningsGrowth,
		r.DividendYield, r.ROA, r.ROE, r.MarketCap, r.FiftyTwoWeekHigh,
		r.TwoHundredDayAvg, r.EnterpriseValue, r.EBITDA,
	} {
		if m.Valid {
			return true
		}
	}
	return false
}
