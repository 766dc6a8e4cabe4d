// Package criteria implements the six value-investing criteria sets.
// Every evaluator is a pure function of (record, thresholds); none reads
// another's output, so they may run in any order.
package criteria

import (
	"github.com/wonny/valuescan/internal/contracts"
)

// Criterion identifies one of the six criteria sets
type Criterion int

const (
	TraditionalValue Criterion = iota
	Quality
	Garp
	Graham
	Profitability
	Technical
)

// All lists the criteria in their fixed verdict order
var All = []Criterion{TraditionalValue, Quality, Garp, Graham, Profitability, Technical}

// Count is the number of criteria sets
const Count = 6

type evaluator func(rec *contracts.MetricsRecord, cfg *contracts.ThresholdConfig) []contracts.Fact

var registry = [Count]struct {
	key  string
	name string
	eval evaluator
}{
	TraditionalValue: {"traditional_value", "Traditional Value", traditionalValue},
	Quality:          {"quality", "Quality Metrics", quality},
	Garp:             {"garp", "GARP", garp},
	Graham:           {"graham", "Graham Style", graham},
	Profitability:    {"profitability", "Profitability", profitability},
	Technical:        {"technical", "Technical Factors", technical},
}

// Key returns the stable machine name, e.g. "garp"
func (c Criterion) Key() string {
	if !c.valid() {
		return "unknown"
	}
	return registry[c].key
}

// String returns the display name, e.g. "GARP"
func (c Criterion) String() string {
	if !c.valid() {
		return "Unknown"
	}
	return registry[c].name
}

func (c Criterion) valid() bool {
	return c >= 0 && int(c) < Count
}

// Evaluate runs one criterion. It fails, never errors, when a required field is absent.
func Evaluate(c Criterion, rec *contracts.MetricsRecord, cfg *contracts.ThresholdConfig) contracts.CriterionVerdict {
	verdict := contracts.CriterionVerdict{
		Key:  c.Key(),
		Name: c.String(),
	}
	if !c.valid() || rec == nil || cfg == nil {
		return verdict
	}

	verdict.Facts = registry[c].eval(rec, cfg)

	// 모든 하위 조건 충족 시에만 통과
	verdict.Passed = len(verdict.Facts) > 0
	for _, fact := range verdict.Facts {
		if !fact.Held {
			verdict.Passed = false
			break
		}
	}
	return verdict
}

// EvaluateAll runs every criterion in fixed order
func EvaluateAll(rec *contracts.MetricsRecord, cfg *contracts.ThresholdConfig) []contracts.CriterionVerdict {
	verdicts := make([]contracts.CriterionVerdict, 0, Count)
	for _, c := range All {
		verdicts = append(verdicts, Evaluate(c, rec, cfg))
	}
	return verdicts
}
