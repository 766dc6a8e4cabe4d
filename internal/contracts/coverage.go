package contracts

// DataCoverage reports how much of a scan's input was actually available
// ⭐ SSOT: 스캔 데이터 품질 정보 전달
type DataCoverage struct {
	TotalTickers int                `json:"total_tickers"`
	WithData     int                `json:"with_data"`
	Criteria     map[string]float64 `json:"criteria"`      // criterion key → share of tickers with every input present
	QualityScore float64            `json:"quality_score"` // 0.0 ~ 1.0
}

// IsValid checks if the coverage meets the minimum score
func (d *DataCoverage) IsValid(minScore float64) bool {
	return d.QualityScore >= minScore && d.WithData > 0
}
