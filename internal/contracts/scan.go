package contracts

import "time"

// RankedScan is the full output of one scan run
// ⭐ SSOT: core → presentation (CLI, API)
type RankedScan struct {
	Config     ThresholdConfig `json:"config"`
	ConfigHash string          `json:"config_hash"`
	Results    []ScoreResult   `json:"results"`   // rank order
	TopPicks   []ScoreResult   `json:"top_picks"` // prefix of Results, with thesis
	Excluded   []string        `json:"excluded,omitempty"`
	Coverage   DataCoverage    `json:"coverage"`
	StartedAt  time.Time       `json:"started_at"`
	Duration   time.Duration   `json:"duration"`
}

// Result returns the ranked result for ticker
func (s *RankedScan) Result(ticker string) (*ScoreResult, bool) {
	for i := range s.Results {
		if s.Results[i].Ticker == ticker {
			return &s.Results[i], true
		}
	}
	return nil, false
}
