package mock

import (
	"context"

	"github.com/sig-0/fxquotes/storage/types"
)

type (
	SaveQuotesDelegate  func(context.Context, types.Region, []types.Quote) error
	TrimHistoryDelegate func(context.Context, types.Region, int) error
	HistoryDelegate     func(context.Context, types.Region, int) ([]*types.QuoteRecord, error)
)

type Storage struct {
	SaveQuotesFn  SaveQuotesDelegate
	TrimHistoryFn TrimHistoryDelegate
	HistoryFn     HistoryDelegate
}

func (m *Storage) SaveQuotes(ctx context.Context, region types.Region, quotes []types.Quote) error {
	if m.SaveQuotesFn != nil {
		return m.SaveQuotesFn(ctx, region, quotes)
	}

	return nil
}

func (m *Storage) TrimHistory(ctx context.Context, region types.Region, keep int) error {
	if m.TrimHistoryFn != nil {
		return m.TrimHistoryFn(ctx, region, keep)
	}

	return nil
}

func (m *Storage) History(
	ctx context.Context,
	region types.Region,
	limit int,
) ([]*types.QuoteRecord, error) {
	if m.HistoryFn != nil {
		return m.HistoryFn(ctx, region, limit)
	}

	return nil, nil
}
