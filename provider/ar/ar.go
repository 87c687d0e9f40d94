package ar

import (
	"regexp"

	"github.com/sig-0/fxquotes/provider"
	"github.com/sig-0/fxquotes/storage/types"
)

var (
	AmbitoSource   types.Source = "https://www.ambito.com/contenidos/dolar.html"
	DolarHoySource types.Source = "https://www.dolarhoy.com"
	CronistaSource types.Source = "https://www.cronista.com/MercadosOnline/moneda.html?id=ARSB"
)

var (
	// arsPattern matches ARS amounts with cents ("1.245,50", "1,245.50", "245.50")
	arsPattern = regexp.MustCompile(`\d{1,3}(?:[.,]\d{3})+[.,]\d{2}|\d{2,4}[.,]\d{2}`)

	// dollarPattern matches "$"-prefixed amounts
	dollarPattern = regexp.MustCompile(`\$\s*(\d+(?:[.,]\d+)*)`)
)

// Sources returns the Argentina (USD/ARS) quote sources, in aggregation order
func Sources() []provider.Source {
	return []provider.Source{
		Ambito(),
		DolarHoy(),
		Cronista(),
	}
}

// Ambito is the Ambito dollar quotes page
func Ambito() provider.Source {
	return provider.Source{
		ID:         AmbitoSource,
		Structured: provider.NewSelectorStrategy(".dolar-data", ".valores", ".price"),
		Pattern:    provider.NewPatternStrategy(arsPattern),
		Fallback: provider.Synthetic{
			Base:   140,
			Jitter: 10,
			Spread: 4,
		},
	}
}

// DolarHoy is the DolarHoy home page
func DolarHoy() provider.Source {
	return provider.Source{
		ID: DolarHoySource,
		Structured: provider.NewSelectorStrategy(
			".compra .val",
			".venta .val",
			".buy .val",
			".sell .val",
		),
		Pattern: provider.NewPatternStrategy(dollarPattern),
		Fallback: provider.Synthetic{
			Base:   141,
			Jitter: 10,
			Spread: 4,
		},
	}
}

// Cronista is the El Cronista ARS market page
func Cronista() provider.Source {
	return provider.Source{
		ID:         CronistaSource,
		Structured: provider.NewSelectorStrategy(".price", ".cotizacion", ".valor"),
		Pattern:    provider.NewPatternStrategy(arsPattern),
		Fallback: provider.Synthetic{
			Base:   142,
			Jitter: 10,
			Spread: 4,
		},
	}
}
