package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/wonny/valuescan/internal/contracts"
	"github.com/wonny/valuescan/internal/criteria"
)

// ═══════════════════════════════════════════════════════════
// Common Formatting Utilities
// 모든 커맨드가 동일한 출력 포맷을 사용하도록 통일
// ═══════════════════════════════════════════════════════════

// Output formats accepted by --format
const (
	FormatTable = "table"
	FormatJSON  = "json"
)

const (
	doubleSeparator = "═══════════════════════════════════════════════════════════"
	separator       = "───────────────────────────────────────────────────────────"
)

// renderScan writes scan in the requested format
func renderScan(w io.Writer, scan *contracts.RankedScan, format string) error {
	switch format {
	case FormatJSON:
		return renderJSON(w, scan)
	case FormatTable:
		renderTable(w, scan)
		return nil
	default:
		return fmt.Errorf("unknown format %q (want %s or %s)", format, FormatTable, FormatJSON)
	}
}

// renderJSON writes any value as indented JSON
func renderJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// renderTable prints the ranked table followed by the top-pick theses
func renderTable(w io.Writer, scan *contracts.RankedScan) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, doubleSeparator)
	fmt.Fprintf(w, "  Value Screen  (%d tickers, pass threshold %d/%d)\n",
		len(scan.Results), scan.Config.CriteriaPassThreshold, criteria.Count)
	fmt.Fprintln(w, separator)
	printKeyValue(w, "Config", shortHash(scan.ConfigHash), 8)
	printKeyValue(w, "Duration", scan.Duration.Round(time.Millisecond).String(), 8)
	if len(scan.Excluded) > 0 {
		printKeyValue(w, "Excluded", strings.Join(scan.Excluded, ", "), 8)
	}
	fmt.Fprintln(w, separator)

	widths := []int{4, 10, 6, 3, 10, 40}
	printTableHeader(w, []string{"Rank", "Ticker", "Passed", "Top", "Mkt Cap", "Criteria met"}, widths)
	for i := range scan.Results {
		r := &scan.Results[i]
		top := ""
		if r.IsTopPick {
			top = "★"
		}
		met := strings.Join(r.PassedNames(), ", ")
		if r.Metrics != nil && r.Metrics.FetchError != "" {
			met = "no data: " + r.Metrics.FetchError
		}
		printTableRow(w, []string{
			fmt.Sprintf("%d", r.Rank),
			r.Ticker,
			fmt.Sprintf("%d/%d", r.PassCount, criteria.Count),
			top,
			formatMarketCap(r.MarketCap()),
			met,
		}, widths)
	}

	if len(scan.TopPicks) == 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "⚠️  No ticker met %d of %d criteria\n", scan.Config.CriteriaPassThreshold, criteria.Count)
		return
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, doubleSeparator)
	fmt.Fprintln(w, "  Top Picks")
	for i := range scan.TopPicks {
		printThesis(w, &scan.TopPicks[i])
	}
	fmt.Fprintln(w, doubleSeparator)
}

// printThesis prints one top pick's thesis
func printThesis(w io.Writer, pick *contracts.ScoreResult) {
	fmt.Fprintln(w, separator)
	if pick.Thesis == nil {
		fmt.Fprintf(w, "  #%d %s\n", pick.Rank, pick.Ticker)
		printDetails(w, pick.Metrics)
		return
	}
	t := pick.Thesis
	fmt.Fprintf(w, "  #%d %s\n", pick.Rank, t.Headline)
	printDetails(w, pick.Metrics)
	for _, s := range t.Strengths {
		fmt.Fprintf(w, "   ✅ %s\n", s.Text)
	}
	for _, s := range t.Risks {
		fmt.Fprintf(w, "   ⚠️  %s\n", s.Text)
	}
	fmt.Fprintf(w, "   → %s\n", t.Recommendation)
}

// printDetails prints the valuation snapshot of one pick.
// Presentation only; the thesis itself carries no metric beyond its facts.
func printDetails(w io.Writer, rec *contracts.MetricsRecord) {
	if rec == nil {
		return
	}
	if rec.Industry != "" {
		fmt.Fprintf(w, "   Industry: %s\n", rec.Industry)
	}
	fmt.Fprintf(w, "   P/E %s | PEG %s | EV/EBITDA %s | %s | %s\n",
		formatRatio(rec.PERatio),
		formatRatio(rec.PEGRatio),
		formatRatio(rec.EVToEBITDA),
		formatDistance(rec.PctBelow52wHigh, "52-week high"),
		formatDistance(rec.PctBelow200dAvg, "200-day avg"),
	)
}

// formatRatio renders a ratio with two decimals, n/a when absent
func formatRatio(m contracts.Metric) string {
	v, ok := m.Get()
	if !ok {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", v)
}

// formatDistance renders a fraction below (or above) a reference price
func formatDistance(m contracts.Metric, reference string) string {
	v, ok := m.Get()
	if !ok {
		return reference + " n/a"
	}
	if v < 0 {
		return fmt.Sprintf("%.1f%% above %s", -v*100, reference)
	}
	return fmt.Sprintf("%.1f%% below %s", v*100, reference)
}

// printTableHeader prints a table header
func printTableHeader(w io.Writer, columns []string, widths []int) {
	printTableRow(w, columns, widths)

	// Separator line
	totalWidth := 0
	for i, width := range widths {
		totalWidth += width
		if i < len(widths)-1 {
			totalWidth += 2 // spacing
		}
	}
	fmt.Fprintln(w, strings.Repeat("─", totalWidth))
}

// printTableRow prints a table row
func printTableRow(w io.Writer, values []string, widths []int) {
	for i, val := range values {
		if i == len(values)-1 {
			fmt.Fprint(w, val)
			break
		}
		fmt.Fprintf(w, "%-*s  ", widths[i], val)
	}
	fmt.Fprintln(w)
}

// printKeyValue prints key-value pairs
func printKeyValue(w io.Writer, key string, value string, keyWidth int) {
	fmt.Fprintf(w, "  %-*s : %s\n", keyWidth, key, value)
}

// formatMarketCap renders 2.6e11 as "260.00B"
func formatMarketCap(m contracts.Metric) string {
	v, ok := m.Get()
	if !ok {
		return "n/a"
	}

	abs := math.Abs(v)
	switch {
	case abs >= 1e12:
		return fmt.Sprintf("%.2fT", v/1e12)
	case abs >= 1e9:
		return fmt.Sprintf("%.2fB", v/1e9)
	case abs >= 1e6:
		return fmt.Sprintf("%.2fM", v/1e6)
	default:
		return fmt.Sprintf("%.0f", v)
	}
}

// shortHash keeps the first 12 characters of a config hash
func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
