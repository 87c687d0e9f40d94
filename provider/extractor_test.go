package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sig-0/fxquotes/storage/types"
)

var testFallback = Synthetic{
	Base:   140,
	Jitter: 10,
	Spread: 4,
}

// newPageServer serves the given page body with the given status code
func newPageServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)

		_, _ = w.Write([]byte(body))
	}))

	t.Cleanup(srv.Close)

	return srv
}

// newTestSource creates a test source pointing at the given URL
func newTestSource(url string) Source {
	return Source{
		ID:         types.Source(url),
		Structured: NewSelectorStrategy(".price"),
		Fallback:   testFallback,
	}
}

// assertSynthetic verifies the quote is a valid synthetic fallback quote
func assertSynthetic(t *testing.T, q types.Quote) {
	t.Helper()

	buyMin, buyMax, sellMin, sellMax := testFallback.Bounds()

	assert.Equal(t, types.ProvenanceSynthetic, q.Provenance)
	assert.GreaterOrEqual(t, q.BuyPrice, buyMin)
	assert.Less(t, q.BuyPrice, buyMax)
	assert.GreaterOrEqual(t, q.SellPrice, sellMin)
	assert.Less(t, q.SellPrice, sellMax)
	assert.Greater(t, q.SellPrice, q.BuyPrice)
}

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("structured tier", func(t *testing.T) {
		t.Parallel()

		srv := newPageServer(
			t,
			http.StatusOK,
			`<html><body><span class="price">150.25</span><span class="price">152.10</span></body></html>`,
		)

		q := NewExtractor(newTestSource(srv.URL)).Extract(context.Background())

		assert.Equal(t, types.Source(srv.URL), q.Source)
		assert.Equal(t, types.ProvenanceStructured, q.Provenance)
		assert.InDelta(t, 150.25, q.BuyPrice, 1e-9)
		assert.InDelta(t, 152.10, q.SellPrice, 1e-9)
	})

	t.Run("pattern tier", func(t *testing.T) {
		t.Parallel()

		srv := newPageServer(
			t,
			http.StatusOK,
			`<html><body><p>Compra 151,50 / Venta 153,00</p></body></html>`,
		)

		q := NewExtractor(newTestSource(srv.URL)).Extract(context.Background())

		assert.Equal(t, types.ProvenancePattern, q.Provenance)
		assert.InDelta(t, 151.5, q.BuyPrice, 1e-9)
		assert.InDelta(t, 153.0, q.SellPrice, 1e-9)
	})

	t.Run("synthetic tier", func(t *testing.T) {
		t.Parallel()

		testTable := []struct {
			name   string
			body   string
			status int
		}{
			{"no numbers", `<html><body><p>Cotizaciones no disponibles</p></body></html>`, http.StatusOK},
			{"empty page", ``, http.StatusOK},
			{"malformed page", `<<div class=>>< </span`, http.StatusOK},
			{"server error", `<span class="price">150.25</span><span class="price">152.10</span>`, http.StatusInternalServerError},
			{"not found", ``, http.StatusNotFound},
		}

		for _, testCase := range testTable {
			t.Run(testCase.name, func(t *testing.T) {
				t.Parallel()

				srv := newPageServer(t, testCase.status, testCase.body)

				assertSynthetic(t, NewExtractor(newTestSource(srv.URL)).Extract(context.Background()))
			})
		}
	})

	t.Run("network error", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		q := NewExtractor(newTestSource(url)).Extract(context.Background())

		assert.Equal(t, types.Source(url), q.Source)
		assertSynthetic(t, q)
	})

	t.Run("fetch timeout", func(t *testing.T) {
		t.Parallel()

		release := make(chan struct{})

		srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}))

		t.Cleanup(func() {
			close(release)
			srv.Close()
		})

		q := NewExtractor(
			newTestSource(srv.URL),
			WithTimeout(50*time.Millisecond),
		).Extract(context.Background())

		assertSynthetic(t, q)
	})

	t.Run("fetch timeout with custom client", func(t *testing.T) {
		t.Parallel()

		release := make(chan struct{})

		srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}))

		t.Cleanup(func() {
			close(release)
			srv.Close()
		})

		client := &http.Client{}

		q := NewExtractor(
			newTestSource(srv.URL),
			WithTimeout(50*time.Millisecond),
			WithHTTPClient(client),
		).Extract(context.Background())

		assertSynthetic(t, q)
		assert.Zero(t, client.Timeout)
	})

	t.Run("canceled context", func(t *testing.T) {
		t.Parallel()

		srv := newPageServer(t, http.StatusOK, `<span class="price">150.25</span><span class="price">152.10</span>`)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		assertSynthetic(t, NewExtractor(newTestSource(srv.URL)).Extract(ctx))
	})

	t.Run("deterministic synthetic quote", func(t *testing.T) {
		t.Parallel()

		srv := newPageServer(t, http.StatusOK, ``)

		q := NewExtractor(
			newTestSource(srv.URL),
			WithRand(func() float64 { return 0.5 }),
		).Extract(context.Background())

		assert.InDelta(t, 145.0, q.BuyPrice, 1e-9)
		assert.InDelta(t, 149.0, q.SellPrice, 1e-9)
	})
}

func TestExtractor_Headers(t *testing.T) {
	t.Parallel()

	userAgentCh := make(chan string, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userAgentCh <- r.Header.Get("User-Agent")

		_, _ = w.Write([]byte(`<span class="price">1,00</span><span class="price">2,00</span>`))
	}))
	t.Cleanup(srv.Close)

	q := NewExtractor(
		newTestSource(srv.URL),
		WithUserAgent("test-agent"),
	).Extract(context.Background())

	require.Equal(t, types.ProvenanceStructured, q.Provenance)
	assert.Equal(t, "test-agent", <-userAgentCh)
}

func TestNewExtractor_Defaults(t *testing.T) {
	t.Parallel()

	e := NewExtractor(Source{ID: "https://example.com"})

	assert.Equal(t, DefaultTimeout, e.timeout)
	assert.Zero(t, e.client.Timeout)
	assert.Equal(t, DefaultUserAgent, e.userAgent)
	assert.NotNil(t, e.source.Pattern)
	assert.NotNil(t, e.logger)
}
