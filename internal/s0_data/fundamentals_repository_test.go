package s0_data

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/valuescan/internal/contracts"
	"github.com/wonny/valuescan/pkg/config"
	"github.com/wonny/valuescan/pkg/database"
)

// fakeRow scans canned values into the destinations in order
type fakeRow struct {
	values []any
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	for i, d := range dest {
		switch p := d.(type) {
		case *string:
			*p = r.values[i].(string)
		case *time.Time:
			*p = r.values[i].(time.Time)
		case **float64:
			if v, ok := r.values[i].(float64); ok {
				*p = &v
			} else {
				*p = nil
			}
		}
	}
	return nil
}

type fakeQuerier struct {
	row      fakeRow
	lastArgs []any
	execSQL  string
}

func (q *fakeQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	q.lastArgs = args
	return q.row
}

func (q *fakeQuerier) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	q.execSQL = sql
	return pgconn.NewCommandTag("CREATE TABLE"), nil
}

func snapshotRow(asOf time.Time) []any {
	return []any{
		"KOF.MX", asOf, "Coca-Cola FEMSA", "Beverages",
		160.5, 9.8, nil, 16.4, 2.3,
		0.072, 1.3, 55.0, 0.14,
		0.11, 0.034, nil, 0.16, 3.4e11,
		190.0, 170.0, nil, nil,
	}
}

func TestFetch(t *testing.T) {
	q := &fakeQuerier{row: fakeRow{values: snapshotRow(time.Now().Add(-time.Hour))}}
	repo := NewFundamentalsRepository(q, 48*time.Hour)

	raw, err := repo.Fetch(context.Background(), "KOF.MX")
	require.NoError(t, err)

	assert.Equal(t, []any{"KOF.MX"}, q.lastArgs)
	assert.Equal(t, "Coca-Cola FEMSA", raw.CompanyName)
	assert.Equal(t, "postgres", raw.Source)
	require.NotNil(t, raw.PERatio)
	assert.Equal(t, 16.4, *raw.PERatio)
	assert.Nil(t, raw.BookValuePerShare, "NULL stays absent")
	assert.Nil(t, raw.ROA)
	assert.Equal(t, 3.4e11, *raw.MarketCap)
}

func TestFetch_NoRows(t *testing.T) {
	repo := NewFundamentalsRepository(&fakeQuerier{row: fakeRow{err: pgx.ErrNoRows}}, 0)

	_, err := repo.Fetch(context.Background(), "NOPE")
	assert.True(t, errors.Is(err, contracts.ErrSymbolNotFound))
}

func TestFetch_Stale(t *testing.T) {
	q := &fakeQuerier{row: fakeRow{values: snapshotRow(time.Now().Add(-10 * 24 * time.Hour))}}
	repo := NewFundamentalsRepository(q, 7*24*time.Hour)

	_, err := repo.Fetch(context.Background(), "KOF.MX")
	assert.True(t, errors.Is(err, contracts.ErrSymbolNotFound))
}

func TestFetch_QueryError(t *testing.T) {
	repo := NewFundamentalsRepository(&fakeQuerier{row: fakeRow{err: errors.New("connection reset")}}, 0)

	_, err := repo.Fetch(context.Background(), "KOF.MX")
	require.Error(t, err)
	assert.False(t, errors.Is(err, contracts.ErrSymbolNotFound))
}

func TestEnsureSchema(t *testing.T) {
	q := &fakeQuerier{}
	require.NoError(t, NewFundamentalsRepository(q, 0).EnsureSchema(context.Background()))
	assert.Contains(t, q.execSQL, "screener.fundamentals_snapshot")
}

// Integration test against a real database
func TestFetch_Integration(t *testing.T) {
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set")
	}

	db, err := database.New(&config.Config{Database: config.DatabaseConfig{URL: url, MaxConns: 2, MinConns: 1}})
	require.NoError(t, err)
	defer db.Close()

	repo := NewFundamentalsRepository(db.Pool, 0)
	require.NoError(t, repo.EnsureSchema(context.Background()))

	_, err = repo.Fetch(context.Background(), "__MISSING__")
	assert.True(t, errors.Is(err, contracts.ErrSymbolNotFound))
}
