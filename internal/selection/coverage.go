package selection

import (
	"github.com/wonny/valuescan/internal/contracts"
	"github.com/wonny/valuescan/internal/criteria"
)

// Coverage measures input availability across scored results.
// A criterion counts as covered for a ticker when every fact it checked had
// both an observed value and a threshold; failing on a real value still counts.
// QualityScore weights the six criteria equally.
func Coverage(results []contracts.ScoreResult) contracts.DataCoverage {
	cov := contracts.DataCoverage{
		TotalTickers: len(results),
		Criteria:     make(map[string]float64, criteria.Count),
	}

	counts := make(map[string]int, criteria.Count)
	for i := range results {
		r := &results[i]
		if r.Metrics != nil && r.Metrics.HasData() {
			cov.WithData++
		}
		for _, v := range r.Verdicts {
			if covered(v) {
				counts[v.Key]++
			}
		}
	}

	for _, c := range criteria.All {
		share := 0.0
		if len(results) > 0 {
			share = float64(counts[c.Key()]) / float64(len(results))
		}
		cov.Criteria[c.Key()] = share
		cov.QualityScore += share / float64(criteria.Count)
	}

	return cov
}

func covered(v contracts.CriterionVerdict) bool {
	if len(v.Facts) == 0 {
		return false
	}
	for _, f := range v.Facts {
		if !f.Observed.Valid || !f.Threshold.Valid {
			return false
		}
	}
	return true
}
