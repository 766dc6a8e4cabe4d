package contracts

// Comparison is the relation a sub-condition requires between observed value and threshold
type Comparison string

const (
	LessThan    Comparison = "<"
	GreaterThan Comparison = ">"
	AtLeast     Comparison = ">="
)

// Unit tells presentation how to render a fact value
type Unit string

const (
	UnitRatio    Unit = "ratio"    // 12.50
	UnitPercent  Unit = "percent"  // fraction rendered as 12.5%
	UnitCurrency Unit = "currency" // 61.20
)

// Fact is one sub-condition of a criterion: observed value vs. threshold
type Fact struct {
	Name      string     `json:"name"`
	Label     string     `json:"label"`
	Observed  Metric     `json:"observed"`
	Op        Comparison `json:"op"`
	Threshold Metric     `json:"threshold"`
	Reference string     `json:"reference,omitempty"` // set when the threshold is another metric
	Unit      Unit       `json:"unit"`
	Held      bool       `json:"held"`
}

// CriterionVerdict is the output of one evaluator for one record
type CriterionVerdict struct {
	Key    string `json:"key"`
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Facts  []Fact `json:"facts"` // evaluation order
}

// Fact looks up a sub-condition by name
func (v CriterionVerdict) Fact(name string) (Fact, bool) {
	for _, f := range v.Facts {
		if f.Name == name {
			return f, true
		}
	}
	return Fact{}, false
}

// ScoreResult is the per-ticker outcome of all six evaluators
type ScoreResult struct {
	Ticker    string             `json:"ticker"`
	Metrics   *MetricsRecord     `json:"metrics"`
	Verdicts  []CriterionVerdict `json:"verdicts"` // fixed criterion order
	PassCount int                `json:"pass_count"`
	IsTopPick bool               `json:"is_top_pick"`
	Rank      int                `json:"rank"` // 1-based, set by the ranker
	Thesis    *Thesis            `json:"thesis,omitempty"`
}

// PassedNames returns the names of passed criteria in criterion order
func (s *ScoreResult) PassedNames() []string {
	names := make([]string, 0, s.PassCount)
	for _, v := range s.Verdicts {
		if v.Passed {
			names = append(names, v.Name)
		}
	}
	return names
}

// MarketCap returns the ranked market cap, absent if unknown
func (s *ScoreResult) MarketCap() Metric {
	if s.Metrics == nil {
		return Metric{}
	}
	return s.Metrics.MarketCap
}
