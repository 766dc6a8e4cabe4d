package snapshot

import (
	"errors"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/wonny/valuescan/internal/contracts"
)

// ErrNoSnapshotTable is returned when the page has no snapshot table (unknown symbol)
var ErrNoSnapshotTable = errors.New("snapshot table not found")

// Parse extracts fundamentals from a snapshot page.
// The table alternates label and value cells; "-" means not available.
func Parse(doc *goquery.Document) (*contracts.RawFundamentals, error) {
	table := doc.Find("table.snapshot-table2").First()
	if table.Length() == 0 {
		return nil, ErrNoSnapshotTable
	}

	cells := make(map[string]string)
	table.Find("tr").Each(func(i int, row *goquery.Selection) {
		tds := row.Find("td")
		for j := 0; j+1 < tds.Length(); j += 2 {
			label := strings.TrimSpace(tds.Eq(j).Text())
			value := strings.TrimSpace(tds.Eq(j + 1).Text())
			// 같은 라벨이 두 번 나오면 첫 번째 값 사용
			if _, exists := cells[label]; !exists && label != "" {
				cells[label] = value
			}
		}
	})

	raw := &contracts.RawFundamentals{
		CompanyName: strings.TrimSpace(doc.Find(".quote-header_ticker-wrapper_company").First().Text()),
		Industry:    strings.TrimSpace(doc.Find(`a[href*="f=ind_"]`).First().Text()),

		Price:             parseNumber(cells["Price"]),
		EPS:               parseNumber(cells["EPS (ttm)"]),
		BookValuePerShare: parseNumber(cells["Book/sh"]),
		PERatio:           parseNumber(cells["P/E"]),
		PBRatio:           parseNumber(cells["P/B"]),
		ProfitMargin:      parsePercent(cells["Profit Margin"]),
		CurrentRatio:      parseNumber(cells["Current Ratio"]),
		OperatingMargin:   parsePercent(cells["Oper. Margin"]),
		EarningsGrowth:    parsePercent(cells["EPS next Y"]),
		DividendYield:     parseDividend(cells),
		ROA:               parsePercent(cells["ROA"]),
		ROE:               parsePercent(cells["ROE"]),
		MarketCap:         parseScaled(cells["Market Cap"]),
		EnterpriseValue:   parseScaled(cells["Enterprise Value"]),
		FiftyTwoWeekHigh:  parseRangeHigh(cells["52W Range"]),
	}

	// Debt/Eq 는 배수(0.45) → 퍼센트(45)
	if de := parseNumber(cells["Debt/Eq"]); de != nil {
		v := *de * 100
		raw.DebtToEquity = &v
	}

	// SMA200 is the price's distance from the average: price/sma - 1
	if rel := parsePercent(cells["SMA200"]); rel != nil && raw.Price != nil && *rel > -1 {
		v := *raw.Price / (1 + *rel)
		raw.TwoHundredDayAvg = &v
	}

	// EV/EBITDA 가 있으면 EBITDA 역산
	if evEbitda := parseNumber(cells["EV/EBITDA"]); evEbitda != nil && raw.EnterpriseValue != nil && *evEbitda != 0 {
		v := *raw.EnterpriseValue / *evEbitda
		raw.EBITDA = &v
	}

	return raw, nil
}

func isMissing(s string) bool {
	s = strings.TrimSpace(s)
	return s == "" || s == "-" || s == "N/A"
}

// parseNumber parses "1,234.56"; nil when missing or malformed
func parseNumber(s string) *float64 {
	if isMissing(s) {
		return nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", ""), 64)
	if err != nil {
		return nil
	}
	return &v
}

// parsePercent parses "12.34%" into a fraction (0.1234); values without % are rejected
func parsePercent(s string) *float64 {
	s = strings.TrimSpace(s)
	if isMissing(s) || !strings.HasSuffix(s, "%") {
		return nil
	}
	v := parseNumber(strings.TrimSuffix(s, "%"))
	if v == nil {
		return nil
	}
	frac := *v / 100
	return &frac
}

var scales = map[byte]float64{
	'K': 1e3,
	'M': 1e6,
	'B': 1e9,
	'T': 1e12,
}

// parseScaled parses "12.5B" style amounts
func parseScaled(s string) *float64 {
	s = strings.TrimSpace(s)
	if isMissing(s) {
		return nil
	}
	if mult, ok := scales[s[len(s)-1]]; ok {
		v := parseNumber(s[:len(s)-1])
		if v == nil {
			return nil
		}
		scaled := *v * mult
		return &scaled
	}
	return parseNumber(s)
}

// parseRangeHigh returns the upper end of "40.12 - 65.30"
func parseRangeHigh(s string) *float64 {
	parts := strings.Split(s, " - ")
	if len(parts) != 2 {
		return nil
	}
	return parseNumber(parts[1])
}

// parseDividend reads "Dividend %" or the "1.94 (3.05%)" form of "Dividend TTM"
func parseDividend(cells map[string]string) *float64 {
	if v := parsePercent(cells["Dividend %"]); v != nil {
		return v
	}

	ttm := cells["Dividend TTM"]
	open, closing := strings.Index(ttm, "("), strings.Index(ttm, ")")
	if open >= 0 && closing > open {
		return parsePercent(ttm[open+1 : closing])
	}
	return nil
}
