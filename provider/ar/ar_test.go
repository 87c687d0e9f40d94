package ar

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDocument(t *testing.T, html string) *goquery.Document {
	t.Helper()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)

	return doc
}

func TestSources(t *testing.T) {
	t.Parallel()

	sources := Sources()
	require.Len(t, sources, 3)

	assert.Equal(t, AmbitoSource, sources[0].ID)
	assert.Equal(t, DolarHoySource, sources[1].ID)
	assert.Equal(t, CronistaSource, sources[2].ID)
}

func TestAmbito(t *testing.T) {
	t.Parallel()

	t.Run("structured", func(t *testing.T) {
		t.Parallel()

		doc := newDocument(t, `
			<div class="dolar-data">
				<span class="data-compra">1.205,00</span>
				<span class="data-venta">1.245,00</span>
			</div>`,
		)

		pair, err := Ambito().Structured.Extract(doc)
		require.NoError(t, err)

		assert.InDelta(t, 1205.0, pair.Buy, 1e-9)
		assert.InDelta(t, 1245.0, pair.Sell, 1e-9)
	})

	t.Run("pattern", func(t *testing.T) {
		t.Parallel()

		doc := newDocument(t, `<p>Dólar oficial: compra 1.180,50 y venta 1.220,50</p>`)

		pair, err := Ambito().Pattern.Extract(doc)
		require.NoError(t, err)

		assert.InDelta(t, 1180.5, pair.Buy, 1e-9)
		assert.InDelta(t, 1220.5, pair.Sell, 1e-9)
	})
}

func TestDolarHoy(t *testing.T) {
	t.Parallel()

	t.Run("structured", func(t *testing.T) {
		t.Parallel()

		doc := newDocument(t, `
			<div class="tile">
				<div class="compra"><div class="val">$1205,00</div></div>
				<div class="venta"><div class="val">$1245,00</div></div>
			</div>`,
		)

		pair, err := DolarHoy().Structured.Extract(doc)
		require.NoError(t, err)

		assert.InDelta(t, 1205.0, pair.Buy, 1e-9)
		assert.InDelta(t, 1245.0, pair.Sell, 1e-9)
	})

	t.Run("pattern", func(t *testing.T) {
		t.Parallel()

		doc := newDocument(t, `<p>Actualizado 10.30hs: $ 150,25 / $ 152,10</p>`)

		pair, err := DolarHoy().Pattern.Extract(doc)
		require.NoError(t, err)

		assert.InDelta(t, 150.25, pair.Buy, 1e-9)
		assert.InDelta(t, 152.10, pair.Sell, 1e-9)
	})
}

func TestCronista(t *testing.T) {
	t.Parallel()

	doc := newDocument(t, `
		<div class="buy"><div class="price">150,25</div></div>
		<div class="sell"><div class="price">152,10</div></div>`,
	)

	pair, err := Cronista().Structured.Extract(doc)
	require.NoError(t, err)

	assert.InDelta(t, 150.25, pair.Buy, 1e-9)
	assert.InDelta(t, 152.10, pair.Sell, 1e-9)
}
