package screenconfig

import "github.com/wonny/valuescan/internal/contracts"

// Default returns the baseline thresholds
// ⭐ SSOT: 기본값은 여기서만 정의
func Default() contracts.ThresholdConfig {
	return contracts.ThresholdConfig{
		PEMax:  15,
		PBMax:  2,
		PEGMax: 1.5,
		DEMax:  100,

		CurrentRatioMin:    1.5,
		OperatingMarginMin: 0.15,
		EarningsGrowthMin:  0.10,
		DividendYieldMin:   0.025,
		ROAMin:             0.10,
		ROEMin:             0.15,
		ProfitMarginMin:    0,

		BeatenDownMin:         0.30,
		CriteriaPassThreshold: 3,
		MarketSuffix:          "",
		TopN:                  5,
		MinMarketCap:          0,
	}
}

// Overrides is a partial ThresholdConfig; nil fields keep the base value.
// CLI flags and the scan API body both decode into this.
type Overrides struct {
	PEMax                 *float64 `json:"pe_max,omitempty"`
	PBMax                 *float64 `json:"pb_max,omitempty"`
	PEGMax                *float64 `json:"peg_max,omitempty"`
	DEMax                 *float64 `json:"de_max,omitempty"`
	CurrentRatioMin       *float64 `json:"current_ratio_min,omitempty"`
	OperatingMarginMin    *float64 `json:"operating_margin_min,omitempty"`
	EarningsGrowthMin     *float64 `json:"earnings_growth_min,omitempty"`
	DividendYieldMin      *float64 `json:"dividend_yield_min,omitempty"`
	ROAMin                *float64 `json:"roa_min,omitempty"`
	ROEMin                *float64 `json:"roe_min,omitempty"`
	ProfitMarginMin       *float64 `json:"profit_margin_min,omitempty"`
	BeatenDownMin         *float64 `json:"beaten_down_min,omitempty"`
	CriteriaPassThreshold *int     `json:"criteria_pass_threshold,omitempty"`
	MarketSuffix          *string  `json:"market_suffix,omitempty"`
	TopN                  *int     `json:"top_n,omitempty"`
	MinMarketCap          *float64 `json:"min_market_cap,omitempty"`
}

// Apply returns base with every set override copied over.
// The result is not validated; call Validate before use.
func (o Overrides) Apply(base contracts.ThresholdConfig) contracts.ThresholdConfig {
	cfg := base

	setFloat := func(dst *float64, v *float64) {
		if v != nil {
			*dst = *v
		}
	}

	setFloat(&cfg.PEMax, o.PEMax)
	setFloat(&cfg.PBMax, o.PBMax)
	setFloat(&cfg.PEGMax, o.PEGMax)
	setFloat(&cfg.DEMax, o.DEMax)
	setFloat(&cfg.CurrentRatioMin, o.CurrentRatioMin)
	setFloat(&cfg.OperatingMarginMin, o.OperatingMarginMin)
	setFloat(&cfg.EarningsGrowthMin, o.EarningsGrowthMin)
	setFloat(&cfg.DividendYieldMin, o.DividendYieldMin)
	setFloat(&cfg.ROAMin, o.ROAMin)
	setFloat(&cfg.ROEMin, o.ROEMin)
	setFloat(&cfg.ProfitMarginMin, o.ProfitMarginMin)
	setFloat(&cfg.BeatenDownMin, o.BeatenDownMin)
	setFloat(&cfg.MinMarketCap, o.MinMarketCap)

	if o.CriteriaPassThreshold != nil {
		cfg.CriteriaPassThreshold = *o.CriteriaPassThreshold
	}
	if o.MarketSuffix != nil {
		cfg.MarketSuffix = *o.MarketSuffix
	}
	if o.TopN != nil {
		cfg.TopN = *o.TopN
	}

	return cfg
}

// IsZero reports whether no override is set
func (o Overrides) IsZero() bool {
	return o == Overrides{}
}
