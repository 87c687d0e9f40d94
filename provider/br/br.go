package br

import (
	"regexp"

	"github.com/sig-0/fxquotes/provider"
	"github.com/sig-0/fxquotes/storage/types"
)

var (
	WiseSource   types.Source = "https://wise.com/es/currency-converter/brl-to-usd-rate"
	NubankSource types.Source = "https://nubank.com.br/taxas-conversao/"
	NomadSource  types.Source = "https://www.nomadglobal.com"
)

// wiseSpread is the sell markup applied over the inverted Wise mid rate
const wiseSpread = 0.02

var (
	// wiseRatePattern matches the "1 BRL = 0.1834 USD" converter headline
	wiseRatePattern = regexp.MustCompile(`1\s*BRL\s*=\s*(\d+[.,]\d+)\s*USD`)

	// brlPattern matches BRL amounts with cents ("5,12", "5.1234")
	brlPattern = regexp.MustCompile(`\d+[.,]\d{2,4}`)
)

// Sources returns the Brazil (USD/BRL) quote sources, in aggregation order
func Sources() []provider.Source {
	return []provider.Source{
		Wise(),
		Nubank(),
		Nomad(),
	}
}

// Wise is the Wise BRL -> USD converter page. Wise publishes a single
// mid rate (1 BRL in USD), so both strategies invert it
func Wise() provider.Source {
	return provider.Source{
		ID: WiseSource,
		Structured: &provider.InverseRateStrategy{
			Selectors: []string{"[data-rate]", ".rate", ".conversion-rate"},
			Spread:    wiseSpread,
		},
		Pattern: &provider.InverseRateStrategy{
			Pattern: wiseRatePattern,
			Spread:  wiseSpread,
		},
		Fallback: provider.Synthetic{
			Base:   5,
			Jitter: 0.5,
			Spread: 0.15,
		},
	}
}

// Nubank is the Nubank conversion rates page
func Nubank() provider.Source {
	return provider.Source{
		ID:         NubankSource,
		Structured: provider.NewSelectorStrategy(".rate", ".conversion", ".price"),
		Pattern:    provider.NewPatternStrategy(brlPattern),
		Fallback: provider.Synthetic{
			Base:   5.05,
			Jitter: 0.5,
			Spread: 0.15,
		},
	}
}

// Nomad is the Nomad home page
func Nomad() provider.Source {
	return provider.Source{
		ID:         NomadSource,
		Structured: provider.NewSelectorStrategy(".exchange-rate", ".rate", ".price"),
		Pattern:    provider.NewPatternStrategy(brlPattern),
		Fallback: provider.Synthetic{
			Base:   5.10,
			Jitter: 0.5,
			Spread: 0.15,
		},
	}
}
