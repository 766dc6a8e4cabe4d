// Package thesis turns a scored ticker's verdict facts into strength and risk statements.
package thesis

import (
	"fmt"
	"strings"

	"github.com/wonny/valuescan/internal/contracts"
)

const totalCriteria = 6

// Synthesizer builds investment theses from ScoreResults.
// Output depends only on the verdict facts and the record's identity.
type Synthesizer struct {
	includeRisks bool
}

// NewSynthesizer creates a synthesizer that emits risks for failed criteria
func NewSynthesizer() *Synthesizer {
	return &Synthesizer{includeRisks: true}
}

// WithoutRisks disables risk statements
func (s *Synthesizer) WithoutRisks() *Synthesizer {
	s.includeRisks = false
	return s
}

// Synthesize builds the thesis for one result
func (s *Synthesizer) Synthesize(result *contracts.ScoreResult) contracts.Thesis {
	th := contracts.Thesis{
		Ticker:    result.Ticker,
		Headline:  headline(result),
		Strengths: []contracts.Statement{},
		Risks:     []contracts.Statement{},
	}

	for _, v := range result.Verdicts {
		if v.Passed {
			th.Strengths = append(th.Strengths, contracts.Statement{
				Kind:      contracts.Strength,
				Criterion: v.Key,
				Text:      fmt.Sprintf("%s: %s", v.Name, joinFacts(v.Facts, true)),
			})
			continue
		}

		if !s.includeRisks {
			continue
		}
		// 충족하지 못한 하위 조건만 리스크로 기술
		th.Risks = append(th.Risks, contracts.Statement{
			Kind:      contracts.Risk,
			Criterion: v.Key,
			Text:      fmt.Sprintf("%s not met: %s", v.Name, joinFacts(v.Facts, false)),
		})
	}

	th.Recommendation = recommendation(result)
	return th
}

// Attach synthesizes a thesis for every result in picks
func (s *Synthesizer) Attach(picks []contracts.ScoreResult) {
	for i := range picks {
		th := s.Synthesize(&picks[i])
		picks[i].Thesis = &th
	}
}

func displayName(result *contracts.ScoreResult) string {
	if result.Metrics != nil && result.Metrics.CompanyName != "" {
		return fmt.Sprintf("%s (%s)", result.Metrics.CompanyName, result.Ticker)
	}
	return result.Ticker
}

func headline(result *contracts.ScoreResult) string {
	passed := result.PassedNames()
	if len(passed) == 0 {
		return fmt.Sprintf("%s meets none of the %d value criteria", displayName(result), totalCriteria)
	}
	return fmt.Sprintf("%s meets %d of %d value criteria: %s",
		displayName(result), len(passed), totalCriteria, strings.Join(passed, ", "))
}

func recommendation(result *contracts.ScoreResult) string {
	switch {
	case result.IsTopPick:
		return fmt.Sprintf("Consider for a value portfolio with appropriate position sizing: %d of %d criteria suggest a margin of safety.",
			result.PassCount, totalCriteria)
	case result.PassCount > 0:
		return fmt.Sprintf("Watch list: %d of %d criteria met, below the top pick threshold.", result.PassCount, totalCriteria)
	default:
		return "No value case: no criteria met."
	}
}

// joinFacts renders the facts that held (held=true) or did not hold (held=false)
func joinFacts(facts []contracts.Fact, held bool) string {
	parts := make([]string, 0, len(facts))
	for _, f := range facts {
		if f.Held == held {
			parts = append(parts, Describe(f))
		}
	}
	return strings.Join(parts, "; ")
}

// Describe renders one fact, e.g. "P/E of 10.00 is below 15.00"
func Describe(f contracts.Fact) string {
	if !f.Observed.Valid {
		return f.Label + " unavailable"
	}
	if !f.Threshold.Valid {
		ref := f.Reference
		if ref == "" {
			ref = f.Label + " threshold"
		}
		return ref + " unavailable"
	}

	observed := Format(f.Observed.Value, f.Unit)
	threshold := Format(f.Threshold.Value, f.Unit)
	relation := relationText(f.Op, f.Held)

	if f.Reference != "" {
		return fmt.Sprintf("%s of %s is %s the %s (%s)", f.Label, observed, relation, f.Reference, threshold)
	}
	return fmt.Sprintf("%s of %s is %s %s", f.Label, observed, relation, threshold)
}

func relationText(op contracts.Comparison, held bool) string {
	switch op {
	case contracts.LessThan:
		if held {
			return "below"
		}
		return "not below"
	case contracts.GreaterThan:
		if held {
			return "above"
		}
		return "not above"
	case contracts.AtLeast:
		if held {
			return "at or above"
		}
		return "below"
	}
	return string(op)
}

// Format renders a value in its unit; percents are stored as fractions
func Format(v float64, unit contracts.Unit) string {
	switch unit {
	case contracts.UnitPercent:
		return fmt.Sprintf("%.1f%%", v*100)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}
