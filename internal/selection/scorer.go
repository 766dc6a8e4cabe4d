package selection

import (
	"github.com/wonny/valuescan/internal/contracts"
	"github.com/wonny/valuescan/internal/criteria"
)

// Score runs all six criteria over rec and classifies the ticker.
// Pure: identical (rec, cfg) always yields an identical ScoreResult.
// ⭐ SSOT: pass count / top pick 판정은 여기서만
func Score(rec *contracts.MetricsRecord, cfg *contracts.ThresholdConfig) contracts.ScoreResult {
	result := contracts.ScoreResult{
		Metrics:  rec,
		Verdicts: criteria.EvaluateAll(rec, cfg),
	}
	if rec != nil {
		result.Ticker = rec.Ticker
	}

	for _, v := range result.Verdicts {
		if v.Passed {
			result.PassCount++
		}
	}
	result.IsTopPick = cfg != nil && result.PassCount >= cfg.CriteriaPassThreshold

	return result
}
