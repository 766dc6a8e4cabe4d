package selection

import (
	"sort"

	"github.com/wonny/valuescan/internal/contracts"
	"github.com/wonny/valuescan/pkg/logger"
)

// Ranker orders scored tickers
// ⭐ SSOT: 랭킹 로직은 여기서만
type Ranker struct {
	logger *logger.Logger
}

// NewRanker creates a new ranker
func NewRanker(logger *logger.Logger) *Ranker {
	return &Ranker{logger: logger}
}

// Rank sorts results in place and assigns 1-based ranks.
// Order: pass count desc, market cap desc (absent last), ticker asc.
func (r *Ranker) Rank(results []contracts.ScoreResult) []contracts.ScoreResult {
	sort.SliceStable(results, func(i, j int) bool {
		return Less(&results[i], &results[j])
	})

	for i := range results {
		results[i].Rank = i + 1
	}

	if len(results) > 0 {
		r.logger.WithFields(map[string]interface{}{
			"total_tickers":  len(results),
			"top_ticker":     results[0].Ticker,
			"top_pass_count": results[0].PassCount,
			"top_pick_count": countTopPicks(results),
		}).Info("Ranking completed")
	}

	return results
}

// Less reports whether a ranks ahead of b
func Less(a, b *contracts.ScoreResult) bool {
	if a.PassCount != b.PassCount {
		return a.PassCount > b.PassCount
	}

	// 시가총액 없는 종목은 뒤로
	capA, capB := a.MarketCap(), b.MarketCap()
	switch {
	case capA.Valid && !capB.Valid:
		return true
	case !capA.Valid && capB.Valid:
		return false
	case capA.Valid && capB.Valid && capA.Value != capB.Value:
		return capA.Value > capB.Value
	}

	return a.Ticker < b.Ticker
}

// TopPicks returns the leading top picks of a ranked slice, capped at n.
// Never padded with non-qualifying tickers.
func TopPicks(ranked []contracts.ScoreResult, n int) []contracts.ScoreResult {
	if n <= 0 {
		return []contracts.ScoreResult{}
	}

	picks := make([]contracts.ScoreResult, 0, n)
	for _, r := range ranked {
		if len(picks) >= n {
			break
		}
		if r.IsTopPick {
			picks = append(picks, r)
		}
	}
	return picks
}

func countTopPicks(results []contracts.ScoreResult) int {
	n := 0
	for _, r := range results {
		if r.IsTopPick {
			n++
		}
	}
	return n
}
