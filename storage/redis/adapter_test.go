package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sig-0/fxquotes/storage/types"
)

// newTestStorage creates a storage backed by an in-process Redis server
func newTestStorage(t *testing.T) (*Storage, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)

	client := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs: []string{mr.Addr()},
	})
	t.Cleanup(func() {
		_ = client.Close()
	})

	return NewStorage(client), mr
}

// saveSequence saves count single-quote batches, with buy prices 1..count
func saveSequence(t *testing.T, s *Storage, region types.Region, count int) {
	t.Helper()

	for i := 1; i <= count; i++ {
		require.NoError(
			t,
			s.SaveQuotes(context.Background(), region, []types.Quote{
				{Source: "https://www.dolarhoy.com", BuyPrice: float64(i), SellPrice: float64(i) + 1},
			}),
		)
	}
}

func TestStorage_History(t *testing.T) {
	t.Parallel()

	t.Run("trim keeps newest", func(t *testing.T) {
		t.Parallel()

		s, _ := newTestStorage(t)

		saveSequence(t, s, types.RegionAR, 15)
		require.NoError(t, s.TrimHistory(context.Background(), types.RegionAR, 10))

		records, err := s.History(context.Background(), types.RegionAR, 0)
		require.NoError(t, err)
		require.Len(t, records, 10)

		for i, rec := range records {
			assert.Equal(t, float64(15-i), rec.BuyPrice)
			assert.Equal(t, types.RegionAR, rec.Region)
		}
	})

	t.Run("batch order", func(t *testing.T) {
		t.Parallel()

		s, _ := newTestStorage(t)

		require.NoError(
			t,
			s.SaveQuotes(context.Background(), types.RegionBR, []types.Quote{
				{Source: "https://wise.com/br/currency-converter/brl-to-usd-rate", BuyPrice: 5.0},
				{Source: "https://nubank.com.br/taxas-conversao/", BuyPrice: 5.1},
			}),
		)

		records, err := s.History(context.Background(), types.RegionBR, 0)
		require.NoError(t, err)
		require.Len(t, records, 2)

		assert.Equal(t, 5.1, records[0].BuyPrice)
		assert.Equal(t, 5.0, records[1].BuyPrice)
	})

	t.Run("limit", func(t *testing.T) {
		t.Parallel()

		s, _ := newTestStorage(t)

		saveSequence(t, s, types.RegionAR, 5)

		records, err := s.History(context.Background(), types.RegionAR, 3)
		require.NoError(t, err)
		require.Len(t, records, 3)

		assert.Equal(t, 5.0, records[0].BuyPrice)
		assert.Equal(t, 3.0, records[2].BuyPrice)
	})

	t.Run("keep zero clears history", func(t *testing.T) {
		t.Parallel()

		s, mr := newTestStorage(t)

		saveSequence(t, s, types.RegionAR, 3)
		require.NoError(t, s.TrimHistory(context.Background(), types.RegionAR, 0))

		records, err := s.History(context.Background(), types.RegionAR, 0)
		require.NoError(t, err)

		assert.Empty(t, records)
		assert.False(t, mr.Exists(s.key(types.RegionAR)))
	})

	t.Run("regions are isolated", func(t *testing.T) {
		t.Parallel()

		s, _ := newTestStorage(t)

		saveSequence(t, s, types.RegionAR, 12)
		saveSequence(t, s, types.RegionBR, 2)
		require.NoError(t, s.TrimHistory(context.Background(), types.RegionAR, 10))

		ar, err := s.History(context.Background(), types.RegionAR, 0)
		require.NoError(t, err)

		br, err := s.History(context.Background(), types.RegionBR, 0)
		require.NoError(t, err)

		assert.Len(t, ar, 10)
		assert.Len(t, br, 2)
	})

	t.Run("empty batch is a no-op", func(t *testing.T) {
		t.Parallel()

		s, mr := newTestStorage(t)

		require.NoError(t, s.SaveQuotes(context.Background(), types.RegionAR, nil))
		assert.False(t, mr.Exists(s.key(types.RegionAR)))
	})

	t.Run("server unavailable", func(t *testing.T) {
		t.Parallel()

		mr, err := miniredis.Run()
		require.NoError(t, err)

		client := redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs:      []string{mr.Addr()},
			MaxRetries: -1,
		})
		t.Cleanup(func() {
			_ = client.Close()
		})

		mr.Close()

		s := NewStorage(client)

		assert.Error(t, s.SaveQuotes(context.Background(), types.RegionAR, []types.Quote{{BuyPrice: 1}}))
		assert.Error(t, s.TrimHistory(context.Background(), types.RegionAR, 10))

		_, err = s.History(context.Background(), types.RegionAR, 0)
		assert.Error(t, err)
	})
}

func TestRecords_Encoding(t *testing.T) {
	t.Parallel()

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()

		createdAt := time.Date(2026, time.February, 2, 10, 0, 0, 0, time.UTC)

		payloads, err := encodeRecords(
			types.RegionBR,
			[]types.Quote{{Source: "https://nubank.com.br/taxas-conversao/", BuyPrice: 5.05, SellPrice: 5.2}},
			createdAt,
		)
		require.NoError(t, err)
		require.Len(t, payloads, 1)

		records, err := decodeRecords([]string{payloads[0].(string)})
		require.NoError(t, err)
		require.Len(t, records, 1)

		assert.Equal(t, types.RegionBR, records[0].Region)
		assert.Equal(t, 5.05, records[0].BuyPrice)
		assert.Equal(t, 5.2, records[0].SellPrice)
		assert.True(t, createdAt.Equal(records[0].CreatedAt))
		assert.NotEmpty(t, records[0].ID)
	})

	t.Run("invalid payload", func(t *testing.T) {
		t.Parallel()

		_, err := decodeRecords([]string{"{"})

		assert.Error(t, err)
	})
}
