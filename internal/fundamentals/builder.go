// Package fundamentals turns raw provider data into the canonical MetricsRecord.
package fundamentals

import (
	"math"

	"github.com/wonny/valuescan/internal/contracts"
)

// grahamMultiplier is Graham's P/E 15 × P/B 1.5
const grahamMultiplier = 22.5

// Build normalizes raw into a MetricsRecord and computes the derived fields.
// It never fails: nil raw yields an all-absent record, and derived values
// whose inputs are absent or whose denominator is non-positive stay absent.
// Negative raw values (e.g. P/E on losses) are kept as-is.
func Build(ticker, symbol string, raw *contracts.RawFundamentals) *contracts.MetricsRecord {
	rec := &contracts.MetricsRecord{
		Ticker: ticker,
		Symbol: symbol,
	}
	if raw == nil {
		return rec
	}

	rec.CompanyName = raw.CompanyName
	rec.Industry = raw.Industry
	rec.Source = raw.Source

	rec.Price = contracts.FromPtr(raw.Price)
	rec.EPS = contracts.FromPtr(raw.EPS)
	rec.BookValuePerShare = contracts.FromPtr(raw.BookValuePerShare)
	rec.PERatio = contracts.FromPtr(raw.PERatio)
	rec.PBRatio = contracts.FromPtr(raw.PBRatio)
	rec.ProfitMargin = contracts.FromPtr(raw.ProfitMargin)
	rec.CurrentRatio = contracts.FromPtr(raw.CurrentRatio)
	rec.DebtToEquity = contracts.FromPtr(raw.DebtToEquity)
	rec.OperatingMargin = contracts.FromPtr(raw.OperatingMargin)
	rec.EarningsGrowth = contracts.FromPtr(raw.EarningsGrowth)
	rec.DividendYield = contracts.FromPtr(raw.DividendYield)
	rec.ROA = contracts.FromPtr(raw.ROA)
	rec.ROE = contracts.FromPtr(raw.ROE)
	rec.MarketCap = contracts.FromPtr(raw.MarketCap)
	rec.FiftyTwoWeekHigh = contracts.FromPtr(raw.FiftyTwoWeekHigh)
	rec.TwoHundredDayAvg = contracts.FromPtr(raw.TwoHundredDayAvg)
	rec.EnterpriseValue = contracts.FromPtr(raw.EnterpriseValue)
	rec.EBITDA = contracts.FromPtr(raw.EBITDA)

	rec.PEGRatio = PEG(rec.PERatio, rec.EarningsGrowth)
	rec.GrahamNumber = GrahamNumber(rec.EPS, rec.BookValuePerShare)
	rec.PctBelow52wHigh = PctBelow(rec.FiftyTwoWeekHigh, rec.Price)
	rec.PctBelow200dAvg = PctBelow(rec.TwoHundredDayAvg, rec.Price)
	rec.EVToEBITDA = ratio(rec.EnterpriseValue, rec.EBITDA)

	return rec
}

// PEG returns P/E divided by earnings growth in percent.
// growth is a fraction (0.12 = 12%). Absent when growth is absent or ≤ 0;
// a negative P/E is kept and gives a negative PEG.
func PEG(pe, growth contracts.Metric) contracts.Metric {
	if !pe.Valid || !growth.Positive() {
		return contracts.None()
	}
	return contracts.Some(pe.Value / (growth.Value * 100))
}

// GrahamNumber returns √(22.5 × EPS × BVPS), absent unless both operands are > 0
func GrahamNumber(eps, bvps contracts.Metric) contracts.Metric {
	if !eps.Positive() || !bvps.Positive() {
		return contracts.None()
	}
	return contracts.Some(math.Sqrt(grahamMultiplier * eps.Value * bvps.Value))
}

// PctBelow returns (reference - price) / reference as a fraction.
// Negative when price is above the reference. Absent if reference <= 0.
func PctBelow(reference, price contracts.Metric) contracts.Metric {
	if !reference.Positive() || !price.Valid {
		return contracts.None()
	}
	return contracts.Some((reference.Value - price.Value) / reference.Value)
}

func ratio(num, den contracts.Metric) contracts.Metric {
	if !num.Valid || !den.Positive() {
		return contracts.None()
	}
	return contracts.Some(num.Value / den.Value)
}
