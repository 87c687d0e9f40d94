package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/xid"

	"github.com/sig-0/fxquotes/storage/types"
)

const defaultPrefix = "fxquotes:quotes:"

// Storage keeps the quote history of each region in a Redis list,
// newest record at the head
type Storage struct {
	client redis.UniversalClient
	now    func() time.Time
	prefix string
}

func NewStorage(client redis.UniversalClient) *Storage {
	return &Storage{
		client: client,
		now:    time.Now,
		prefix: defaultPrefix,
	}
}

func (s *Storage) SaveQuotes(
	ctx context.Context,
	region types.Region,
	quotes []types.Quote,
) error {
	if len(quotes) == 0 {
		return nil
	}

	payloads, err := encodeRecords(region, quotes, s.now().UTC())
	if err != nil {
		return err
	}

	if err = s.client.LPush(ctx, s.key(region), payloads...).Err(); err != nil {
		return fmt.Errorf("unable to save quotes: %w", err)
	}

	return nil
}

func (s *Storage) TrimHistory(ctx context.Context, region types.Region, keep int) error {
	key := s.key(region)

	if keep <= 0 {
		if err := s.client.Del(ctx, key).Err(); err != nil {
			return fmt.Errorf("unable to trim quote history: %w", err)
		}

		return nil
	}

	if err := s.client.LTrim(ctx, key, 0, int64(keep-1)).Err(); err != nil {
		return fmt.Errorf("unable to trim quote history: %w", err)
	}

	return nil
}

func (s *Storage) History(
	ctx context.Context,
	region types.Region,
	limit int,
) ([]*types.QuoteRecord, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit - 1)
	}

	raw, err := s.client.LRange(ctx, s.key(region), 0, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("unable to fetch quote history: %w", err)
	}

	return decodeRecords(raw)
}

func (s *Storage) key(region types.Region) string {
	return s.prefix + region.String()
}

// encodeRecords serializes the quotes as history records. The returned order
// makes the last quote of the batch the list head after LPUSH
func encodeRecords(
	region types.Region,
	quotes []types.Quote,
	createdAt time.Time,
) ([]any, error) {
	out := make([]any, 0, len(quotes))

	for _, q := range quotes {
		rec := types.QuoteRecord{
			CreatedAt: createdAt,
			ID:        xid.New().String(),
			Source:    q.Source,
			Region:    region,
			BuyPrice:  q.BuyPrice,
			SellPrice: q.SellPrice,
		}

		b, err := json.Marshal(rec)
		if err != nil {
			return nil, fmt.Errorf("unable to marshal quote record: %w", err)
		}

		out = append(out, string(b))
	}

	return out, nil
}

func decodeRecords(raw []string) ([]*types.QuoteRecord, error) {
	out := make([]*types.QuoteRecord, 0, len(raw))

	for _, item := range raw {
		var rec types.QuoteRecord

		if err := json.Unmarshal([]byte(item), &rec); err != nil {
			return nil, fmt.Errorf("unable to unmarshal quote record: %w", err)
		}

		out = append(out, &rec)
	}

	return out, nil
}
