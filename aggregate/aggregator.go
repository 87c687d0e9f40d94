package aggregate

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/sig-0/fxquotes/metrics"
	"github.com/sig-0/fxquotes/storage/types"
)

// Extractor produces a single quote for a source. It should never fail,
// but a defective extractor (panic) is tolerated and dropped
type Extractor interface {
	// Source returns the source identifier the quote is stamped with
	Source() types.Source

	// Extract derives the source quote
	Extract(context.Context) types.Quote
}

// Aggregator fans out to every extractor of a region concurrently
type Aggregator struct {
	logger *slog.Logger

	table map[types.Region][]Extractor
}

// New creates a new aggregator over the given region -> extractors table.
// Extractor order within a region is the order quotes are returned in
func New(table map[types.Region][]Extractor, opts ...Option) *Aggregator {
	a := &Aggregator{
		logger: noopLogger,
		table:  make(map[types.Region][]Extractor, len(table)),
	}

	for region, extractors := range table {
		a.table[region] = append([]Extractor(nil), extractors...)
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Sources returns the source identifiers configured for the region, in order
func (a *Aggregator) Sources(region types.Region) []types.Source {
	extractors := a.table[region]

	sources := make([]types.Source, 0, len(extractors))
	for _, e := range extractors {
		sources = append(sources, e.Source())
	}

	return sources
}

// Aggregate runs every extractor of the region concurrently and waits for
// all of them. Quotes are returned in configuration order; extractors that
// panic are dropped. Unknown regions yield an empty result
func (a *Aggregator) Aggregate(ctx context.Context, region types.Region) []types.Quote {
	extractors := a.table[region]
	if len(extractors) == 0 {
		a.logger.Warn(
			"no extractors configured for region",
			"region", region.String(),
		)

		return []types.Quote{}
	}

	var (
		g       errgroup.Group
		results = make([]*types.Quote, len(extractors))
	)

	for i, e := range extractors {
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					a.logger.Error(
						"extractor defect, dropping source",
						"region", region.String(),
						"source", e.Source().String(),
						"err", fmt.Sprintf("%v", r),
					)

					metrics.RecordAggregationDefect(e.Source().String())
				}
			}()

			q := e.Extract(ctx)
			q.Source = e.Source()

			results[i] = &q

			return nil
		})
	}

	// Workers never return errors
	_ = g.Wait()

	quotes := make([]types.Quote, 0, len(results))
	for _, q := range results {
		if q == nil {
			continue
		}

		quotes = append(quotes, *q)
	}

	a.logger.Debug(
		"aggregated region quotes",
		"region", region.String(),
		"quotes", len(quotes),
		"sources", len(extractors),
	)

	return quotes
}
