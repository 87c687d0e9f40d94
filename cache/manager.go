package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sig-0/fxquotes/metrics"
	"github.com/sig-0/fxquotes/storage"
	"github.com/sig-0/fxquotes/storage/types"
)

const (
	// DefaultStaleAfter is the snapshot age after which it is reported stale
	DefaultStaleAfter = 60 * time.Second

	// DefaultRefreshInterval is the refresh cadence
	DefaultRefreshInterval = 60 * time.Second

	// DefaultPersistTimeout bounds a single background history write
	DefaultPersistTimeout = 10 * time.Second
)

var (
	// ErrRefreshInFlight is returned when a refresh is requested while
	// another one is still running. The request is skipped
	ErrRefreshInFlight = errors.New("refresh already in flight")

	errRefreshDefect = errors.New("refresh defect")
)

// Aggregator yields the current quotes for a region
type Aggregator interface {
	Aggregate(context.Context, types.Region) []types.Quote
}

// View is a point-in-time read of the live snapshot
type View struct {
	FetchedAt  time.Time
	Region     types.Region
	Quotes     []types.Quote
	Generation uint64 // refresh generation that produced the snapshot
	IsStale    bool
}

// snapshot is the immutable live quote set. It is swapped as a whole,
// readers never observe a partial update
type snapshot struct {
	fetchedAt  time.Time
	quotes     []types.Quote
	generation uint64
}

// Manager owns the region's live snapshot: it refreshes it from the
// aggregator, persists every non-empty refresh, and serves reads
type Manager struct {
	aggregator Aggregator
	storage    storage.Storage
	logger     *slog.Logger
	clock      func() time.Time

	current atomic.Pointer[snapshot]

	region types.Region

	staleAfter     time.Duration
	interval       time.Duration
	persistTimeout time.Duration
	historyKeep    int

	generation atomic.Uint64
	inFlight   atomic.Bool
	persistWG  sync.WaitGroup
}

// New creates a new cache manager for the region
func New(
	region types.Region,
	aggregator Aggregator,
	storage storage.Storage,
	opts ...Option,
) *Manager {
	m := &Manager{
		aggregator:     aggregator,
		storage:        storage,
		logger:         noopLogger,
		clock:          time.Now,
		region:         region,
		staleAfter:     DefaultStaleAfter,
		interval:       DefaultRefreshInterval,
		persistTimeout: DefaultPersistTimeout,
		historyKeep:    defaultHistoryKeep,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Region returns the region the manager serves
func (m *Manager) Region() types.Region {
	return m.region
}

// Read returns the live snapshot. Before the first refresh
// the view is empty and stale
func (m *Manager) Read() View {
	s := m.current.Load()
	if s == nil {
		return View{
			Region:  m.region,
			Quotes:  []types.Quote{},
			IsStale: true,
		}
	}

	quotes := make([]types.Quote, len(s.quotes))
	copy(quotes, s.quotes)

	return View{
		FetchedAt:  s.fetchedAt,
		Region:     m.region,
		Quotes:     quotes,
		Generation: s.generation,
		IsStale:    m.clock().Sub(s.fetchedAt) > m.staleAfter,
	}
}

// Refresh aggregates the region quotes and swaps the live snapshot,
// even when no quotes were produced. Non-empty results are persisted in
// the background. A refresh requested while another is running is
// skipped with ErrRefreshInFlight. A defect during the refresh leaves
// the previous snapshot in place
func (m *Manager) Refresh(ctx context.Context) (err error) {
	if !m.inFlight.CompareAndSwap(false, true) {
		m.logger.Warn(
			"refresh already in flight, skipping",
			"region", m.region.String(),
		)

		metrics.RecordRefresh(m.region.String(), "skipped", 0)

		return ErrRefreshInFlight
	}

	var (
		generation = m.generation.Add(1)
		start      = m.clock()
		logger     = m.logger.With(
			"region", m.region.String(),
			"generation", generation,
		)
	)

	defer func() {
		m.inFlight.Store(false)

		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", errRefreshDefect, r)

			logger.Error(
				"refresh defect, keeping previous snapshot",
				"err", err,
			)

			metrics.RecordRefresh(m.region.String(), "failed", 0)
		}
	}()

	quotes := m.aggregator.Aggregate(ctx, m.region)
	if quotes == nil {
		quotes = []types.Quote{}
	}

	fetchedAt := m.clock()

	m.current.Store(&snapshot{
		fetchedAt:  fetchedAt,
		quotes:     quotes,
		generation: generation,
	})

	metrics.RecordSnapshot(m.region.String(), len(quotes))
	metrics.RecordRefresh(m.region.String(), "ok", fetchedAt.Sub(start))

	logger.Info(
		"snapshot refreshed",
		"quotes", len(quotes),
		"fetched_at", fetchedAt.UTC().String(),
	)

	if len(quotes) == 0 {
		logger.Warn("refresh yielded no quotes, nothing to persist")

		return nil
	}

	// The snapshot quotes are never mutated, so they are safe to share
	m.persistWG.Add(1)

	go m.persist(context.WithoutCancel(ctx), generation, quotes)

	return nil
}

// persist saves the refreshed quotes and trims the region history.
// Errors are logged, they never affect the live snapshot
func (m *Manager) persist(ctx context.Context, generation uint64, quotes []types.Quote) {
	defer m.persistWG.Done()

	logger := m.logger.With(
		"region", m.region.String(),
		"generation", generation,
	)

	defer func() {
		if r := recover(); r != nil {
			logger.Error(
				"history persistence defect",
				"err", fmt.Sprintf("%v", r),
			)

			metrics.RecordPersistenceError(m.region.String(), "defect")
		}
	}()

	ctx, cancelFn := context.WithTimeout(ctx, m.persistTimeout)
	defer cancelFn()

	if err := m.storage.SaveQuotes(ctx, m.region, quotes); err != nil {
		logger.Error(
			"unable to save quotes",
			"err", err,
		)

		metrics.RecordPersistenceError(m.region.String(), "save")

		return
	}

	if err := m.storage.TrimHistory(ctx, m.region, m.historyKeep); err != nil {
		logger.Error(
			"unable to trim quote history",
			"keep", m.historyKeep,
			"err", err,
		)

		metrics.RecordPersistenceError(m.region.String(), "trim")

		return
	}

	logger.Debug(
		"persisted quotes",
		"quotes", len(quotes),
		"keep", m.historyKeep,
	)
}

// Wait blocks until all in-progress background persistence completes
func (m *Manager) Wait() {
	m.persistWG.Wait()
}

// Name returns the refresh job name
func (m *Manager) Name() string {
	return "quotes refresh (" + m.region.String() + ")"
}

// Interval returns the refresh cadence
func (m *Manager) Interval() time.Duration {
	return m.interval
}

// Run refreshes the snapshot, as a scheduled job
func (m *Manager) Run(ctx context.Context) error {
	return m.Refresh(ctx)
}
