package s0_data

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/wonny/valuescan/internal/contracts"
)

// Name is the provider name used in PROVIDER_SOURCES
const Name = "postgres"

// Querier is the subset of *pgxpool.Pool the repository needs
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Schema creates the fundamentals snapshot table.
// Snapshots are loaded by an external job; the screener only reads them.
const Schema = `
	CREATE SCHEMA IF NOT EXISTS screener;

	CREATE TABLE IF NOT EXISTS screener.fundamentals_snapshot (
		symbol               TEXT        NOT NULL,
		as_of                TIMESTAMPTZ NOT NULL,
		company_name         TEXT,
		industry             TEXT,
		price                DOUBLE PRECISION,
		eps                  DOUBLE PRECISION,
		book_value_per_share DOUBLE PRECISION,
		pe_ratio             DOUBLE PRECISION,
		pb_ratio             DOUBLE PRECISION,
		profit_margin        DOUBLE PRECISION,
		current_ratio        DOUBLE PRECISION,
		debt_to_equity       DOUBLE PRECISION,
		operating_margin     DOUBLE PRECISION,
		earnings_growth      DOUBLE PRECISION,
		dividend_yield       DOUBLE PRECISION,
		roa                  DOUBLE PRECISION,
		roe                  DOUBLE PRECISION,
		market_cap           DOUBLE PRECISION,
		fifty_two_week_high  DOUBLE PRECISION,
		two_hundred_day_avg  DOUBLE PRECISION,
		enterprise_value     DOUBLE PRECISION,
		ebitda               DOUBLE PRECISION,
		PRIMARY KEY (symbol, as_of)
	);
`

// FundamentalsRepository serves the latest stored snapshot per symbol
// ⭐ SSOT: 재무 스냅샷 조회는 여기서만
type FundamentalsRepository struct {
	db     Querier
	maxAge time.Duration
}

// NewFundamentalsRepository creates a new repository.
// maxAge > 0 ignores snapshots older than maxAge.
func NewFundamentalsRepository(db Querier, maxAge time.Duration) *FundamentalsRepository {
	return &FundamentalsRepository{db: db, maxAge: maxAge}
}

// Name implements contracts.FundamentalsProvider
func (r *FundamentalsRepository) Name() string {
	return Name
}

// EnsureSchema creates the snapshot table if missing
func (r *FundamentalsRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("create fundamentals schema: %w", err)
	}
	return nil
}

// Fetch implements contracts.FundamentalsProvider.
// NULL columns stay nil (absent), never zero.
func (r *FundamentalsRepository) Fetch(ctx context.Context, symbol string) (*contracts.RawFundamentals, error) {
	query := `
		SELECT symbol, as_of,
		       COALESCE(company_name, ''), COALESCE(industry, ''),
		       price, eps, book_value_per_share, pe_ratio, pb_ratio,
		       profit_margin, current_ratio, debt_to_equity, operating_margin,
		       earnings_growth, dividend_yield, roa, roe, market_cap,
		       fifty_two_week_high, two_hundred_day_avg, enterprise_value, ebitda
		FROM screener.fundamentals_snapshot
		WHERE symbol = $1
		ORDER BY as_of DESC
		LIMIT 1
	`

	var (
		f    contracts.RawFundamentals
		asOf time.Time
	)
	err := r.db.QueryRow(ctx, query, symbol).Scan(
		&f.Symbol, &asOf, &f.CompanyName, &f.Industry,
		&f.Price, &f.EPS, &f.BookValuePerShare, &f.PERatio, &f.PBRatio,
		&f.ProfitMargin, &f.CurrentRatio, &f.DebtToEquity, &f.OperatingMargin,
		&f.EarningsGrowth, &f.DividendYield, &f.ROA, &f.ROE, &f.MarketCap,
		&f.FiftyTwoWeekHigh, &f.TwoHundredDayAvg, &f.EnterpriseValue, &f.EBITDA,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", symbol, contracts.ErrSymbolNotFound)
		}
		return nil, fmt.Errorf("query fundamentals snapshot: %w", err)
	}

	// 오래된 스냅샷은 없는 것으로 취급
	if r.maxAge > 0 && time.Since(asOf) > r.maxAge {
		return nil, fmt.Errorf("%s: snapshot from %s is stale: %w",
			symbol, asOf.Format("2006-01-02"), contracts.ErrSymbolNotFound)
	}

	f.Source = Name
	return &f, nil
}
