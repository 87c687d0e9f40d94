package storage

import (
	"context"

	"github.com/sig-0/fxquotes/storage/types"
)

// DefaultHistoryKeep is the number of quote records retained per region
const DefaultHistoryKeep = 10

// Storage is an abstraction over the quote history log
type Storage interface {
	// SaveQuotes appends the given quotes to the region's history
	SaveQuotes(context.Context, types.Region, []types.Quote) error

	// TrimHistory prunes all but the most recent keep records for the region
	TrimHistory(ctx context.Context, region types.Region, keep int) error

	// History lists the most recent records for the region, newest first
	History(ctx context.Context, region types.Region, limit int) ([]*types.QuoteRecord, error)
}
