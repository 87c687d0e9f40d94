package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rs/xid"

	"github.com/sig-0/fxquotes/storage/types"
)

// entry is a stored record with its insertion sequence, used to break
// created_at ties deterministically
type entry struct {
	record types.QuoteRecord
	seq    uint64
}

type Storage struct {
	data map[types.Region][]entry
	now  func() time.Time

	seq uint64
	mu  sync.RWMutex
}

func NewStorage() *Storage {
	return &Storage{
		data: make(map[types.Region][]entry),
		now:  time.Now,
	}
}

func (s *Storage) SaveQuotes(_ context.Context, region types.Region, quotes []types.Quote) error {
	createdAt := s.now().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, q := range quotes {
		s.seq++

		s.data[region] = append(s.data[region], entry{
			record: types.QuoteRecord{
				CreatedAt: createdAt,
				ID:        xid.New().String(),
				Source:    q.Source,
				Region:    region,
				BuyPrice:  q.BuyPrice,
				SellPrice: q.SellPrice,
			},
			seq: s.seq,
		})
	}

	return nil
}

func (s *Storage) TrimHistory(_ context.Context, region types.Region, keep int) error {
	if keep < 0 {
		keep = 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries := sortedNewestFirst(s.data[region])
	if len(entries) <= keep {
		return nil
	}

	s.data[region] = entries[:keep]

	return nil
}

func (s *Storage) History(_ context.Context, region types.Region, limit int) ([]*types.QuoteRecord, error) {
	s.mu.RLock()
	entries := sortedNewestFirst(s.data[region])
	s.mu.RUnlock()

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}

	out := make([]*types.QuoteRecord, 0, len(entries))

	for _, e := range entries {
		rec := e.record
		out = append(out, &rec)
	}

	return out, nil
}

// sortedNewestFirst returns a sorted copy of the entries (created_at desc, seq desc)
func sortedNewestFirst(entries []entry) []entry {
	out := make([]entry, len(entries))
	copy(out, entries)

	sort.Slice(out, func(i, j int) bool {
		if !out[i].record.CreatedAt.Equal(out[j].record.CreatedAt) {
			return out[i].record.CreatedAt.After(out[j].record.CreatedAt)
		}

		return out[i].seq > out[j].seq
	})

	return out
}
