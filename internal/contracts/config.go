package contracts

// ThresholdConfig holds the thresholds for one scan run
// ⭐ SSOT: screenconfig loads, validates and hashes this struct
type ThresholdConfig struct {
	// Upper bounds
	PEMax  float64 `yaml:"pe_max" json:"pe_max"`
	PBMax  float64 `yaml:"pb_max" json:"pb_max"`
	PEGMax float64 `yaml:"peg_max" json:"peg_max"`
	DEMax  float64 `yaml:"de_max" json:"de_max"` // percent, 100 = 1.0x

	// Lower bounds (fractions)
	CurrentRatioMin    float64 `yaml:"current_ratio_min" json:"current_ratio_min"`
	OperatingMarginMin float64 `yaml:"operating_margin_min" json:"operating_margin_min"`
	EarningsGrowthMin  float64 `yaml:"earnings_growth_min" json:"earnings_growth_min"`
	DividendYieldMin   float64 `yaml:"dividend_yield_min" json:"dividend_yield_min"`
	ROAMin             float64 `yaml:"roa_min" json:"roa_min"`
	ROEMin             float64 `yaml:"roe_min" json:"roe_min"`
	ProfitMarginMin    float64 `yaml:"profit_margin_min" json:"profit_margin_min"`

	// BeatenDownMin is how far below the 52-week high counts as beaten down (0.30 = 30%)
	BeatenDownMin float64 `yaml:"beaten_down_min" json:"beaten_down_min"`

	// CriteriaPassThreshold is the pass count that makes a Top Pick, in [1,6]
	CriteriaPassThreshold int `yaml:"criteria_pass_threshold" json:"criteria_pass_threshold"`

	// MarketSuffix is appended to bare tickers for provider lookups (e.g. ".MX")
	MarketSuffix string `yaml:"market_suffix" json:"market_suffix"`

	// TopN caps the number of top picks that get a thesis
	TopN int `yaml:"top_n" json:"top_n"`

	// MinMarketCap excludes tickers whose known market cap is below it; 0 disables
	MinMarketCap float64 `yaml:"min_market_cap" json:"min_market_cap"`
}
