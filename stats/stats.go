// Package stats derives aggregate figures from a quote snapshot.
// All arithmetic is done in decimal and rounded half away from zero to 2 places
package stats

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/sig-0/fxquotes/storage/types"
)

// ErrNoQuotes is returned when there are no quotes to derive figures from
var ErrNoQuotes = errors.New("no quotes available")

const places = 2

var hundred = decimal.NewFromInt(100)

// Average is the mean buy / sell price across sources
type Average struct {
	AverageBuyPrice  float64 `json:"average_buy_price"`
	AverageSellPrice float64 `json:"average_sell_price"`
	SourceCount      int     `json:"source_count"`
}

// Slippage is a single source's deviation from the mean, in percent
type Slippage struct {
	Source            types.Source `json:"source"`
	BuyPriceSlippage  float64      `json:"buy_price_slippage"`
	SellPriceSlippage float64      `json:"sell_price_slippage"`
}

// ComputeAverage returns the mean buy and sell prices of the quotes
func ComputeAverage(quotes []types.Quote) (Average, error) {
	buy, sell, err := means(quotes)
	if err != nil {
		return Average{}, err
	}

	return Average{
		AverageBuyPrice:  round(buy),
		AverageSellPrice: round(sell),
		SourceCount:      len(quotes),
	}, nil
}

// ComputeSlippage returns, per source and in quote order, the percentage
// deviation of its prices from the (unrounded) mean
func ComputeSlippage(quotes []types.Quote) ([]Slippage, error) {
	buyMean, sellMean, err := means(quotes)
	if err != nil {
		return nil, err
	}

	out := make([]Slippage, 0, len(quotes))

	for _, q := range quotes {
		out = append(out, Slippage{
			Source:            q.Source,
			BuyPriceSlippage:  round(deviation(decimal.NewFromFloat(q.BuyPrice), buyMean)),
			SellPriceSlippage: round(deviation(decimal.NewFromFloat(q.SellPrice), sellMean)),
		})
	}

	return out, nil
}

// means returns the mean buy and sell prices
func means(quotes []types.Quote) (decimal.Decimal, decimal.Decimal, error) {
	if len(quotes) == 0 {
		return decimal.Zero, decimal.Zero, ErrNoQuotes
	}

	var (
		buySum  = decimal.Zero
		sellSum = decimal.Zero
		count   = decimal.NewFromInt(int64(len(quotes)))
	)

	for _, q := range quotes {
		buySum = buySum.Add(decimal.NewFromFloat(q.BuyPrice))
		sellSum = sellSum.Add(decimal.NewFromFloat(q.SellPrice))
	}

	return buySum.Div(count), sellSum.Div(count), nil
}

// deviation returns (price - mean) / mean * 100
func deviation(price, mean decimal.Decimal) decimal.Decimal {
	if mean.IsZero() {
		return decimal.Zero
	}

	return price.Sub(mean).Mul(hundred).Div(mean)
}

func round(d decimal.Decimal) float64 {
	return d.Round(places).InexactFloat64()
}
