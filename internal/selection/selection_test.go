package selection

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/valuescan/internal/contracts"
	"github.com/wonny/valuescan/internal/fundamentals"
	"github.com/wonny/valuescan/internal/screenconfig"
	"github.com/wonny/valuescan/pkg/logger"
)

func f(v float64) *float64 { return &v }

func scored(ticker string, passCount int, marketCap *float64, threshold int) contracts.ScoreResult {
	rec := fundamentals.Build(ticker, ticker, &contracts.RawFundamentals{MarketCap: marketCap})
	return contracts.ScoreResult{
		Ticker:    ticker,
		Metrics:   rec,
		PassCount: passCount,
		IsTopPick: passCount >= threshold,
	}
}

func TestScore_ValuScenario(t *testing.T) {
	cfg := screenconfig.Default()
	rec := fundamentals.Build("VALU", "VALU", &contracts.RawFundamentals{
		PERatio:      f(10),
		PBRatio:      f(1.2),
		ProfitMargin: f(0.08),
	})

	result := Score(rec, &cfg)

	assert.Equal(t, "VALU", result.Ticker)
	assert.Same(t, rec, result.Metrics)
	require.Len(t, result.Verdicts, 6)
	assert.True(t, result.Verdicts[0].Passed)
	assert.Equal(t, 1, result.PassCount)
	assert.False(t, result.IsTopPick)
}

func TestScore_AllAbsent(t *testing.T) {
	cfg := screenconfig.Default()
	result := Score(fundamentals.Build("GONE", "GONE", nil), &cfg)

	assert.Equal(t, 0, result.PassCount)
	assert.False(t, result.IsTopPick)
	assert.Len(t, result.Verdicts, 6)
}

func TestScore_PassCountAndTopPickInvariant(t *testing.T) {
	raws := []*contracts.RawFundamentals{
		nil,
		{PERatio: f(10), PBRatio: f(1), ProfitMargin: f(0.1)},
		{PERatio: f(10), PBRatio: f(1), ProfitMargin: f(0.1), ROA: f(0.2), ROE: f(0.3)},
		{
			Price: f(25), EPS: f(5), BookValuePerShare: f(40), PERatio: f(10), PBRatio: f(1.2),
			ProfitMargin: f(0.08), CurrentRatio: f(2), DebtToEquity: f(45), OperatingMargin: f(0.2),
			EarningsGrowth: f(0.12), DividendYield: f(0.03), ROA: f(0.12), ROE: f(0.2),
			FiftyTwoWeekHigh: f(40), TwoHundredDayAvg: f(30),
		},
	}

	for threshold := 1; threshold <= 6; threshold++ {
		cfg := screenconfig.Default()
		cfg.CriteriaPassThreshold = threshold

		for i, raw := range raws {
			result := Score(fundamentals.Build(fmt.Sprintf("T%d", i), "", raw), &cfg)

			trueCount := 0
			for _, v := range result.Verdicts {
				if v.Passed {
					trueCount++
				}
			}
			assert.Equal(t, trueCount, result.PassCount)
			assert.GreaterOrEqual(t, result.PassCount, 0)
			assert.LessOrEqual(t, result.PassCount, 6)
			assert.Equal(t, result.PassCount >= threshold, result.IsTopPick)
		}
	}
}

func TestScore_Idempotent(t *testing.T) {
	cfg := screenconfig.Default()
	rec := fundamentals.Build("KO", "KO", &contracts.RawFundamentals{
		PERatio: f(12), PBRatio: f(1.5), ProfitMargin: f(0.2), ROA: f(0.11), ROE: f(0.4),
	})

	assert.Equal(t, Score(rec, &cfg), Score(rec, &cfg))
}

func TestRank_TieBreaks(t *testing.T) {
	results := []contracts.ScoreResult{
		scored("ZZZ", 2, nil, 3),
		scored("BBB", 4, f(1e9), 3),
		scored("AAA", 4, f(1e9), 3),
		scored("CCC", 4, f(5e9), 3),
		scored("DDD", 4, nil, 3),
		scored("EEE", 0, f(9e12), 3),
		scored("AAB", 2, nil, 3),
	}

	ranked := NewRanker(logger.Nop()).Rank(results)

	var order []string
	for i, r := range ranked {
		order = append(order, r.Ticker)
		assert.Equal(t, i+1, r.Rank)
	}
	assert.Equal(t, []string{"CCC", "AAA", "BBB", "DDD", "AAB", "ZZZ", "EEE"}, order)
}

func TestRank_TotalOrder(t *testing.T) {
	caps := []*float64{nil, f(1e9), f(2e9), f(1e9)}
	var results []contracts.ScoreResult
	for i := 0; i < 24; i++ {
		results = append(results, scored(fmt.Sprintf("T%02d", 23-i), i%4, caps[(i/4)%4], 3))
	}

	ranked := NewRanker(logger.Nop()).Rank(results)

	for i := 0; i+1 < len(ranked); i++ {
		a, b := ranked[i], ranked[i+1]
		switch {
		case a.PassCount != b.PassCount:
			assert.Greater(t, a.PassCount, b.PassCount)
		case a.MarketCap().Valid != b.MarketCap().Valid:
			assert.True(t, a.MarketCap().Valid, "absent market cap sorts last")
		case a.MarketCap().Valid && a.MarketCap().Value != b.MarketCap().Value:
			assert.Greater(t, a.MarketCap().Value, b.MarketCap().Value)
		default:
			assert.Less(t, a.Ticker, b.Ticker)
		}
	}
}

func TestRank_Empty(t *testing.T) {
	assert.Empty(t, NewRanker(logger.Nop()).Rank(nil))
}

func TestTopPicks(t *testing.T) {
	ranker := NewRanker(logger.Nop())

	t.Run("capped at five", func(t *testing.T) {
		var results []contracts.ScoreResult
		for i := 0; i < 8; i++ {
			results = append(results, scored(fmt.Sprintf("T%d", i), 4, nil, 3))
		}
		results = append(results, scored("LOW", 1, nil, 3))

		picks := TopPicks(ranker.Rank(results), 5)
		require.Len(t, picks, 5)
		for i, p := range picks {
			assert.True(t, p.IsTopPick)
			assert.Equal(t, i+1, p.Rank, "prefix of the ranked results")
		}
	})

	t.Run("never padded", func(t *testing.T) {
		results := []contracts.ScoreResult{
			scored("A", 3, nil, 3),
			scored("B", 5, nil, 3),
			scored("C", 2, f(1e12), 3),
			scored("D", 0, nil, 3),
		}

		picks := TopPicks(ranker.Rank(results), 5)
		require.Len(t, picks, 2)
		assert.Equal(t, "B", picks[0].Ticker)
		assert.Equal(t, "A", picks[1].Ticker)
	})

	t.Run("none qualify", func(t *testing.T) {
		picks := TopPicks(ranker.Rank([]contracts.ScoreResult{scored("A", 1, nil, 3)}), 5)
		assert.Empty(t, picks)
	})

	t.Run("non-positive n", func(t *testing.T) {
		assert.Empty(t, TopPicks([]contracts.ScoreResult{scored("A", 6, nil, 3)}, 0))
	})
}
