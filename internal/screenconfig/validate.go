package screenconfig

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/wonny/valuescan/internal/contracts"
)

// ErrInvalidConfig marks a threshold config that must not be used for scoring
var ErrInvalidConfig = errors.New("invalid threshold config")

// ValidationError 검증 실패 (스캔 중단)
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Is lets errors.Is(err, ErrInvalidConfig) match any ValidationError
func (e ValidationError) Is(target error) bool {
	return target == ErrInvalidConfig
}

// Validate checks every invariant of a ThresholdConfig.
// Out-of-range values are rejected, never clamped.
func Validate(cfg *contracts.ThresholdConfig) error {
	// === Bounds: finite, >= 0 ===
	bounds := []struct {
		field string
		value float64
	}{
		{"pe_max", cfg.PEMax},
		{"pb_max", cfg.PBMax},
		{"peg_max", cfg.PEGMax},
		{"de_max", cfg.DEMax},
		{"current_ratio_min", cfg.CurrentRatioMin},
		{"operating_margin_min", cfg.OperatingMarginMin},
		{"earnings_growth_min", cfg.EarningsGrowthMin},
		{"dividend_yield_min", cfg.DividendYieldMin},
		{"roa_min", cfg.ROAMin},
		{"roe_min", cfg.ROEMin},
		{"profit_margin_min", cfg.ProfitMarginMin},
		{"beaten_down_min", cfg.BeatenDownMin},
		{"min_market_cap", cfg.MinMarketCap},
	}
	for _, b := range bounds {
		if math.IsNaN(b.value) || math.IsInf(b.value, 0) {
			return ValidationError{b.field, "must be finite"}
		}
		if b.value < 0 {
			return ValidationError{b.field, fmt.Sprintf("must be >= 0, got %g", b.value)}
		}
	}

	// 52주 고점 대비 하락률은 0~1
	if cfg.BeatenDownMin > 1 {
		return ValidationError{"beaten_down_min", fmt.Sprintf("must be in [0, 1], got %g", cfg.BeatenDownMin)}
	}

	// === Criteria count ===
	if cfg.CriteriaPassThreshold < 1 || cfg.CriteriaPassThreshold > 6 {
		return ValidationError{"criteria_pass_threshold", fmt.Sprintf("must be in [1, 6], got %d", cfg.CriteriaPassThreshold)}
	}

	if cfg.TopN < 1 {
		return ValidationError{"top_n", fmt.Sprintf("must be >= 1, got %d", cfg.TopN)}
	}

	// === Market suffix ===
	if s := cfg.MarketSuffix; s != "" {
		if !strings.HasPrefix(s, ".") || len(s) < 2 || strings.ContainsAny(s, " \t/") {
			return ValidationError{"market_suffix", fmt.Sprintf("must look like \".MX\", got %q", s)}
		}
	}

	return nil
}
