package criteria

import "github.com/wonny/valuescan/internal/contracts"

// Sub-condition names, stable across releases (API consumers key on them)
const (
	FactPERatio         = "pe_ratio"
	FactPBRatio         = "pb_ratio"
	FactProfitMargin    = "profit_margin"
	FactCurrentRatio    = "current_ratio"
	FactDebtToEquity    = "debt_to_equity"
	FactOperatingMargin = "operating_margin"
	FactPEGRatio        = "peg_ratio"
	FactEarningsGrowth  = "earnings_growth_rate"
	FactPriceVsGraham   = "price_vs_graham_number"
	FactDividendYield   = "dividend_yield"
	FactROA             = "roa"
	FactROE             = "roe"
	FactPctBelow52wHigh = "pct_below_52w_high"
	FactPriceVs200dAvg  = "price_vs_200d_avg"
)

// relative builds a Fact whose threshold is another metric of the same record
func relative(name, label string, observed contracts.Metric, op contracts.Comparison, reference string, threshold contracts.Metric) contracts.Fact {
	fact := compare(name, label, observed, op, threshold, contracts.UnitCurrency)
	fact.Reference = reference
	return fact
}

// compare builds a Fact; an absent observed value or threshold never holds
func compare(name, label string, observed contracts.Metric, op contracts.Comparison, threshold contracts.Metric, unit contracts.Unit) contracts.Fact {
	fact := contracts.Fact{
		Name:      name,
		Label:     label,
		Observed:  observed,
		Op:        op,
		Threshold: threshold,
		Unit:      unit,
	}
	if !observed.Valid || !threshold.Valid {
		return fact
	}

	switch op {
	case contracts.LessThan:
		fact.Held = observed.Value < threshold.Value
	case contracts.GreaterThan:
		fact.Held = observed.Value > threshold.Value
	case contracts.AtLeast:
		fact.Held = observed.Value >= threshold.Value
	}
	return fact
}

func bound(v float64) contracts.Metric {
	return contracts.Some(v)
}

// 1. P/E < pe_max, P/B < pb_max, profit margin > profit_margin_min
func traditionalValue(rec *contracts.MetricsRecord, cfg *contracts.ThresholdConfig) []contracts.Fact {
	return []contracts.Fact{
		compare(FactPERatio, "P/E", rec.PERatio, contracts.LessThan, bound(cfg.PEMax), contracts.UnitRatio),
		compare(FactPBRatio, "P/B", rec.PBRatio, contracts.LessThan, bound(cfg.PBMax), contracts.UnitRatio),
		compare(FactProfitMargin, "profit margin", rec.ProfitMargin, contracts.GreaterThan, bound(cfg.ProfitMarginMin), contracts.UnitPercent),
	}
}

// 2. current ratio, leverage (D/E in percent), operating margin
func quality(rec *contracts.MetricsRecord, cfg *contracts.ThresholdConfig) []contracts.Fact {
	return []contracts.Fact{
		compare(FactCurrentRatio, "current ratio", rec.CurrentRatio, contracts.GreaterThan, bound(cfg.CurrentRatioMin), contracts.UnitRatio),
		compare(FactDebtToEquity, "debt/equity", rec.DebtToEquity, contracts.LessThan, bound(cfg.DEMax), contracts.UnitRatio),
		compare(FactOperatingMargin, "operating margin", rec.OperatingMargin, contracts.GreaterThan, bound(cfg.OperatingMarginMin), contracts.UnitPercent),
	}
}

// 3. growth at a reasonable price
func garp(rec *contracts.MetricsRecord, cfg *contracts.ThresholdConfig) []contracts.Fact {
	return []contracts.Fact{
		compare(FactPEGRatio, "PEG", rec.PEGRatio, contracts.LessThan, bound(cfg.PEGMax), contracts.UnitRatio),
		compare(FactEarningsGrowth, "earnings growth", rec.EarningsGrowth, contracts.GreaterThan, bound(cfg.EarningsGrowthMin), contracts.UnitPercent),
	}
}

// 4. price under the Graham Number, with a dividend
func graham(rec *contracts.MetricsRecord, cfg *contracts.ThresholdConfig) []contracts.Fact {
	return []contracts.Fact{
		relative(FactPriceVsGraham, "price", rec.Price, contracts.LessThan, "Graham Number", rec.GrahamNumber),
		compare(FactDividendYield, "dividend yield", rec.DividendYield, contracts.GreaterThan, bound(cfg.DividendYieldMin), contracts.UnitPercent),
	}
}

// 5. returns on assets and equity
func profitability(rec *contracts.MetricsRecord, cfg *contracts.ThresholdConfig) []contracts.Fact {
	return []contracts.Fact{
		compare(FactROA, "ROA", rec.ROA, contracts.GreaterThan, bound(cfg.ROAMin), contracts.UnitPercent),
		compare(FactROE, "ROE", rec.ROE, contracts.GreaterThan, bound(cfg.ROEMin), contracts.UnitPercent),
	}
}

// 6. beaten down vs the 52-week high and trading under the 200-day average
func technical(rec *contracts.MetricsRecord, cfg *contracts.ThresholdConfig) []contracts.Fact {
	return []contracts.Fact{
		compare(FactPctBelow52wHigh, "distance below 52-week high", rec.PctBelow52wHigh, contracts.AtLeast, bound(cfg.BeatenDownMin), contracts.UnitPercent),
		relative(FactPriceVs200dAvg, "price", rec.Price, contracts.LessThan, "200-day average", rec.TwoHundredDayAvg),
	}
}
