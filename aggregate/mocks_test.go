package aggregate

import (
	"context"

	"github.com/sig-0/fxquotes/storage/types"
)

type (
	sourceDelegate  func() types.Source
	extractDelegate func(context.Context) types.Quote
)

type mockExtractor struct {
	sourceFn  sourceDelegate
	extractFn extractDelegate
}

func (m *mockExtractor) Source() types.Source {
	if m.sourceFn != nil {
		return m.sourceFn()
	}

	return ""
}

func (m *mockExtractor) Extract(ctx context.Context) types.Quote {
	if m.extractFn != nil {
		return m.extractFn(ctx)
	}

	return types.Quote{}
}

// newFixedExtractor creates an extractor that always yields the given prices
func newFixedExtractor(source types.Source, buy, sell float64) *mockExtractor {
	return &mockExtractor{
		sourceFn: func() types.Source {
			return source
		},
		extractFn: func(context.Context) types.Quote {
			return types.Quote{
				Provenance: types.ProvenanceStructured,
				BuyPrice:   buy,
				SellPrice:  sell,
			}
		},
	}
}
