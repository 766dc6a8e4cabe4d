package criteria

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/valuescan/internal/contracts"
	"github.com/wonny/valuescan/internal/fundamentals"
	"github.com/wonny/valuescan/internal/screenconfig"
)

func f(v float64) *float64 { return &v }

// passingRaw satisfies every sub-condition of all six criteria under the defaults
func passingRaw() *contracts.RawFundamentals {
	return &contracts.RawFundamentals{
		Price:             f(25),
		EPS:               f(5),
		BookValuePerShare: f(40),  // Graham ≈ 67.08
		PERatio:           f(10),  // < 15
		PBRatio:           f(1.2), // < 2
		ProfitMargin:      f(0.08),
		CurrentRatio:      f(2.0),
		DebtToEquity:      f(45),
		OperatingMargin:   f(0.20),
		EarningsGrowth:    f(0.12), // PEG = 10/12 ≈ 0.83
		DividendYield:     f(0.03),
		ROA:               f(0.12),
		ROE:               f(0.20),
		MarketCap:         f(5e9),
		FiftyTwoWeekHigh:  f(40), // 37.5% below
		TwoHundredDayAvg:  f(30),
	}
}

func TestKeysAndNames(t *testing.T) {
	require.Len(t, All, Count)

	wantNames := []string{"Traditional Value", "Quality Metrics", "GARP", "Graham Style", "Profitability", "Technical Factors"}
	for i, c := range All {
		assert.Equal(t, wantNames[i], c.String())
		assert.NotEqual(t, "unknown", c.Key())
	}

	assert.Equal(t, "unknown", Criterion(42).Key())
	assert.Equal(t, "Unknown", Criterion(-1).String())
}

func TestEvaluateAll_AllPass(t *testing.T) {
	cfg := screenconfig.Default()
	rec := fundamentals.Build("ALL", "ALL", passingRaw())

	verdicts := EvaluateAll(rec, &cfg)
	require.Len(t, verdicts, Count)
	for i, v := range verdicts {
		assert.Equal(t, All[i].Key(), v.Key, "fixed order")
		assert.True(t, v.Passed, "%s should pass: %+v", v.Name, v.Facts)
	}
}

// Each sub-condition is individually necessary: breaking exactly one fails exactly its criterion
func TestEachSubConditionIsNecessary(t *testing.T) {
	tests := []struct {
		name      string
		criterion Criterion
		fact      string
		breakIt   func(r *contracts.RawFundamentals)
		tune      func(c *contracts.ThresholdConfig)
	}{
		{"pe at max", TraditionalValue, FactPERatio, func(r *contracts.RawFundamentals) { r.PERatio = f(15) }, nil},
		{"pb above max", TraditionalValue, FactPBRatio, func(r *contracts.RawFundamentals) { r.PBRatio = f(2.5) }, nil},
		{"zero profit margin", TraditionalValue, FactProfitMargin, func(r *contracts.RawFundamentals) { r.ProfitMargin = f(0) }, nil},
		{"low current ratio", Quality, FactCurrentRatio, func(r *contracts.RawFundamentals) { r.CurrentRatio = f(1.5) }, nil},
		{"high leverage", Quality, FactDebtToEquity, func(r *contracts.RawFundamentals) { r.DebtToEquity = f(150) }, nil},
		{"thin operating margin", Quality, FactOperatingMargin, func(r *contracts.RawFundamentals) { r.OperatingMargin = f(0.10) }, nil},
		{"slow growth", Garp, FactEarningsGrowth, func(r *contracts.RawFundamentals) { r.EarningsGrowth = f(0.10); r.PERatio = f(5) }, nil},
		{"expensive peg", Garp, FactPEGRatio, func(r *contracts.RawFundamentals) {}, func(c *contracts.ThresholdConfig) { c.PEGMax = 0.5 }},
		{"price above graham", Graham, FactPriceVsGraham, func(r *contracts.RawFundamentals) {
			r.Price = f(70)
			r.FiftyTwoWeekHigh = f(120)
			r.TwoHundredDayAvg = f(80)
		}, nil},
		{"low dividend", Graham, FactDividendYield, func(r *contracts.RawFundamentals) { r.DividendYield = f(0.02) }, nil},
		{"low roa", Profitability, FactROA, func(r *contracts.RawFundamentals) { r.ROA = f(0.05) }, nil},
		{"low roe", Profitability, FactROE, func(r *contracts.RawFundamentals) { r.ROE = f(0.15) }, nil},
		{"near high", Technical, FactPctBelow52wHigh, func(r *contracts.RawFundamentals) { r.FiftyTwoWeekHigh = f(30); r.TwoHundredDayAvg = f(28) }, nil},
		{"above 200d avg", Technical, FactPriceVs200dAvg, func(r *contracts.RawFundamentals) { r.TwoHundredDayAvg = f(24) }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := screenconfig.Default()
			if tt.tune != nil {
				tt.tune(&cfg)
			}
			raw := passingRaw()
			tt.breakIt(raw)
			rec := fundamentals.Build("X", "X", raw)

			for _, c := range All {
				v := Evaluate(c, rec, &cfg)
				if c == tt.criterion {
					assert.False(t, v.Passed, "%s should fail", c)
					fact, ok := v.Fact(tt.fact)
					require.True(t, ok)
					assert.False(t, fact.Held)
				} else {
					assert.True(t, v.Passed, "%s should still pass", c)
				}
			}
		})
	}
}

func TestAbsentFieldFailsCriterion(t *testing.T) {
	cfg := screenconfig.Default()
	rec := fundamentals.Build("NONE", "NONE", nil)

	for _, v := range EvaluateAll(rec, &cfg) {
		assert.False(t, v.Passed, v.Name)
		assert.NotEmpty(t, v.Facts, "facts are reported even when absent")
		for _, fact := range v.Facts {
			assert.False(t, fact.Held)
			assert.False(t, fact.Observed.Valid)
		}
	}
}

func TestValuScenario(t *testing.T) {
	cfg := screenconfig.Default()
	rec := fundamentals.Build("VALU", "VALU", &contracts.RawFundamentals{
		PERatio:      f(10),
		PBRatio:      f(1.2),
		ProfitMargin: f(0.08),
	})

	verdicts := EvaluateAll(rec, &cfg)
	passed := 0
	for _, v := range verdicts {
		if v.Passed {
			passed++
		}
	}

	assert.True(t, verdicts[TraditionalValue].Passed)
	assert.Equal(t, 1, passed)

	pe, ok := verdicts[TraditionalValue].Fact(FactPERatio)
	require.True(t, ok)
	assert.Equal(t, 10.0, pe.Observed.Value)
	assert.Equal(t, 15.0, pe.Threshold.Value)
	assert.Equal(t, contracts.LessThan, pe.Op)
}

func TestGrahamScenario(t *testing.T) {
	cfg := screenconfig.Default()
	rec := fundamentals.Build("GRAHM", "GRAHM", &contracts.RawFundamentals{
		EPS:               f(5),
		BookValuePerShare: f(40),
		Price:             f(25),
		DividendYield:     f(0.03),
	})

	v := Evaluate(Graham, rec, &cfg)
	assert.True(t, v.Passed)

	fact, ok := v.Fact(FactPriceVsGraham)
	require.True(t, ok)
	assert.InDelta(t, 67.08, fact.Threshold.Value, 0.01)
}

func TestGarp_NegativeGrowthHasNoPEG(t *testing.T) {
	cfg := screenconfig.Default()
	rec := fundamentals.Build("DECL", "DECL", &contracts.RawFundamentals{
		PERatio:        f(8),
		EarningsGrowth: f(-0.05),
	})

	v := Evaluate(Garp, rec, &cfg)
	assert.False(t, v.Passed)
	peg, _ := v.Fact(FactPEGRatio)
	assert.False(t, peg.Observed.Valid)
}

func TestGarp_NegativePEKeepsPEG(t *testing.T) {
	cfg := screenconfig.Default()
	rec := fundamentals.Build("LOSS", "LOSS", &contracts.RawFundamentals{
		PERatio:        f(-8),
		PBRatio:        f(1.2),
		ProfitMargin:   f(0.05),
		EarningsGrowth: f(0.20),
	})

	require.True(t, rec.PEGRatio.Valid)
	assert.InDelta(t, -8.0/20, rec.PEGRatio.Value, 1e-9)

	garp := Evaluate(Garp, rec, &cfg)
	assert.True(t, garp.Passed)
	peg, ok := garp.Fact(FactPEGRatio)
	require.True(t, ok)
	assert.True(t, peg.Held)

	value := Evaluate(TraditionalValue, rec, &cfg)
	pe, ok := value.Fact(FactPERatio)
	require.True(t, ok)
	assert.Equal(t, pe.Held, peg.Held, "P/E and PEG agree on a negative P/E")
}

func TestTechnical_BeatenDownIsInclusive(t *testing.T) {
	cfg := screenconfig.Default()
	rec := fundamentals.Build("EDGE", "EDGE", &contracts.RawFundamentals{
		Price:            f(70),
		FiftyTwoWeekHigh: f(100), // exactly 30% below
		TwoHundredDayAvg: f(80),
	})

	assert.True(t, Evaluate(Technical, rec, &cfg).Passed)

	cfg.BeatenDownMin = 0.40
	assert.False(t, Evaluate(Technical, rec, &cfg).Passed)
}

func TestEvaluate_IsDeterministic(t *testing.T) {
	cfg := screenconfig.Default()
	rec := fundamentals.Build("ALL", "ALL", passingRaw())

	assert.Equal(t, EvaluateAll(rec, &cfg), EvaluateAll(rec, &cfg))
}

func TestEvaluate_NilInputs(t *testing.T) {
	cfg := screenconfig.Default()
	v := Evaluate(Quality, nil, &cfg)
	assert.False(t, v.Passed)
	assert.Equal(t, "quality", v.Key)
}
