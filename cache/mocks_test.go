package cache

import (
	"context"
	"sync"
	"time"

	"github.com/sig-0/fxquotes/storage/types"
)

type aggregateDelegate func(context.Context, types.Region) []types.Quote

type mockAggregator struct {
	aggregateFn aggregateDelegate
}

func (m *mockAggregator) Aggregate(ctx context.Context, region types.Region) []types.Quote {
	if m.aggregateFn != nil {
		return m.aggregateFn(ctx, region)
	}

	return nil
}

// fixedAggregator always yields the given quotes
func fixedAggregator(quotes ...types.Quote) *mockAggregator {
	return &mockAggregator{
		aggregateFn: func(context.Context, types.Region) []types.Quote {
			return quotes
		},
	}
}

// testClock is a manually advanced clock
type testClock struct {
	now time.Time
	mu  sync.Mutex
}

func newTestClock() *testClock {
	return &testClock{
		now: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(d)
}

var testQuotes = []types.Quote{
	{Source: "https://a.example", Provenance: types.ProvenanceStructured, BuyPrice: 140, SellPrice: 144},
	{Source: "https://b.example", Provenance: types.ProvenancePattern, BuyPrice: 141, SellPrice: 145},
	{Source: "https://c.example", Provenance: types.ProvenanceSynthetic, BuyPrice: 142, SellPrice: 146},
}
