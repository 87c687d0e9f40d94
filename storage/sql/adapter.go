package sql

import (
	"context"
	"fmt"
	"io/fs"
	"math"
	"math/big"
	"sort"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/sig-0/fxquotes/storage/types"
)

const (
	insertQuoteQuery = `INSERT INTO quotes (source, buy_price, sell_price, region, created_at)
VALUES ($1, $2, $3, $4, $5)`

	trimHistoryQuery = `DELETE FROM quotes
WHERE region = $1
  AND id IN (
    SELECT id FROM (
      SELECT id, ROW_NUMBER() OVER (ORDER BY created_at DESC, id DESC) AS rn
      FROM quotes
      WHERE region = $1
    ) ranked
    WHERE ranked.rn > $2
  )`

	historyQuery = `SELECT id, source, buy_price, sell_price, region, created_at
FROM quotes
WHERE region = $1
ORDER BY created_at DESC, id DESC
LIMIT $2`
)

// DB is the subset of the pgx pool / connection API used by the storage
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

type Storage struct {
	db  DB
	now func() time.Time
}

func NewStorage(db DB) *Storage {
	return &Storage{
		db:  db,
		now: time.Now,
	}
}

// Bootstrap creates the quote tables, if missing
func (s *Storage) Bootstrap(ctx context.Context) error {
	names, err := fs.Glob(SchemaFS, "schema/*.sql")
	if err != nil {
		return fmt.Errorf("unable to list schema files: %w", err)
	}

	sort.Strings(names)

	for _, name := range names {
		content, err := SchemaFS.ReadFile(name)
		if err != nil {
			return fmt.Errorf("unable to read schema %q: %w", name, err)
		}

		if _, err = s.db.Exec(ctx, string(content)); err != nil {
			return fmt.Errorf("unable to apply schema %q: %w", name, err)
		}
	}

	return nil
}

func (s *Storage) SaveQuotes(
	ctx context.Context,
	region types.Region,
	quotes []types.Quote,
) error {
	if len(quotes) == 0 {
		return nil
	}

	var (
		createdAt = timeToTimestampz(s.now())
		batch     = &pgx.Batch{}
	)

	for _, q := range quotes {
		batch.Queue(
			insertQuoteQuery,
			q.Source.String(),
			floatToNumeric(q.BuyPrice),
			floatToNumeric(q.SellPrice),
			region.String(),
			createdAt,
		)
	}

	if err := s.db.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("unable to save quotes: %w", err)
	}

	return nil
}

func (s *Storage) TrimHistory(ctx context.Context, region types.Region, keep int) error {
	if keep < 0 {
		keep = 0
	}

	if _, err := s.db.Exec(ctx, trimHistoryQuery, region.String(), keep); err != nil {
		return fmt.Errorf("unable to trim quote history: %w", err)
	}

	return nil
}

func (s *Storage) History(
	ctx context.Context,
	region types.Region,
	limit int,
) ([]*types.QuoteRecord, error) {
	var lim any // NULL means no limit

	if limit > 0 {
		lim = limit
	}

	rows, err := s.db.Query(ctx, historyQuery, region.String(), lim)
	if err != nil {
		return nil, fmt.Errorf("unable to fetch quote history: %w", err)
	}
	defer rows.Close()

	out := make([]*types.QuoteRecord, 0, max(limit, 0))

	for rows.Next() {
		var (
			id              int64
			source, reg     string
			buyNum, sellNum pgtype.Numeric
			createdAt       pgtype.Timestamptz
		)

		if err = rows.Scan(&id, &source, &buyNum, &sellNum, &reg, &createdAt); err != nil {
			return nil, fmt.Errorf("unable to scan quote record: %w", err)
		}

		out = append(out, &types.QuoteRecord{
			CreatedAt: timestampzToTime(createdAt),
			ID:        strconv.FormatInt(id, 10),
			Source:    types.Source(source),
			Region:    types.Region(reg),
			BuyPrice:  numericToFloat(buyNum),
			SellPrice: numericToFloat(sellNum),
		})
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("unable to iterate quote history: %w", err)
	}

	return out, nil
}

// floatToNumeric converts the float value to postgres numeric
func floatToNumeric(value float64) pgtype.Numeric {
	// round to 4dp and store as integer with exponent -4
	i := int64(math.Round(value * 1e4))

	return pgtype.Numeric{
		Int:   big.NewInt(i),
		Exp:   -4,
		Valid: true,
	}
}

// numericToFloat converts the postgres value to float
func numericToFloat(value pgtype.Numeric) float64 {
	if !value.Valid || value.Int == nil {
		return 0
	}

	f, _ := new(big.Rat).SetInt(value.Int).Float64()

	if value.Exp > 0 {
		f *= math.Pow10(int(value.Exp))
	} else if value.Exp < 0 {
		f /= math.Pow10(int(-value.Exp))
	}

	return f
}

// timeToTimestampz converts the time value to postgres timestamp
func timeToTimestampz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{
		Time:  t.UTC(),
		Valid: true,
	}
}

// timestampzToTime converts the postgres timestamp value to time
func timestampzToTime(ts pgtype.Timestamptz) time.Time {
	if !ts.Valid {
		return time.Time{}
	}

	return ts.Time.UTC()
}
