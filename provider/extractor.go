package provider

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/sig-0/fxquotes/metrics"
	"github.com/sig-0/fxquotes/storage/types"
)

const (
	// DefaultTimeout is the per-page fetch timeout
	DefaultTimeout = 10 * time.Second

	// DefaultUserAgent is sent with every page fetch
	DefaultUserAgent = "Mozilla/5.0 (compatible; fxquotes/1.0; +https://github.com/sig-0/fxquotes)"

	maxPageSize = 5 << 20 // 5 MiB
)

// Extractor fetches a single source page and derives a quote through the
// structured -> pattern -> synthetic chain. It never fails
type Extractor struct {
	logger *slog.Logger
	client *http.Client
	rand   func() float64

	timeout   time.Duration
	userAgent string
	source    Source
}

// NewExtractor creates a new extractor for the given source
func NewExtractor(source Source, opts ...Option) *Extractor {
	e := &Extractor{
		logger:    noopLogger,
		client:    &http.Client{},
		rand:      rand.Float64,
		timeout:   DefaultTimeout,
		userAgent: DefaultUserAgent,
		source:    source,
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.source.Pattern == nil {
		e.source.Pattern = NewPatternStrategy(nil)
	}

	return e
}

// Source returns the source identifier (canonical URL)
func (e *Extractor) Source() types.Source {
	return e.source.ID
}

// Extract fetches the source page and derives a quote.
// Failures are logged and degrade the quote provenance
func (e *Extractor) Extract(ctx context.Context) types.Quote {
	logger := e.logger.With("source", e.source.ID.String())

	doc, err := e.fetch(ctx)
	if err != nil {
		logger.Warn(
			"unable to fetch quote page, using synthetic quote",
			"err", err,
		)

		return e.synthetic()
	}

	pair, err := extractWith(e.source.Structured, doc)
	if err == nil {
		return e.quote(pair, types.ProvenanceStructured)
	}

	logger.Warn(
		"structured extraction failed, falling back to pattern",
		"err", err,
	)

	pair, err = extractWith(e.source.Pattern, doc)
	if err == nil {
		return e.quote(pair, types.ProvenancePattern)
	}

	logger.Warn(
		"pattern extraction failed, using synthetic quote",
		"err", err,
	)

	return e.synthetic()
}

// fetch downloads and parses the source page
func (e *Extractor) fetch(ctx context.Context) (*goquery.Document, error) {
	if e.timeout > 0 {
		var cancelFn context.CancelFunc

		ctx, cancelFn = context.WithTimeout(ctx, e.timeout)
		defer cancelFn()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.source.ID.String(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("unable to create GET request: %w", err)
	}

	req.Header.Set("User-Agent", e.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("unable to execute GET request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("invalid status code received: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxPageSize))
	if err != nil {
		return nil, fmt.Errorf("unable to parse html: %w", err)
	}

	return doc, nil
}

func (e *Extractor) synthetic() types.Quote {
	return e.quote(e.source.Fallback.Quote(e.rand), types.ProvenanceSynthetic)
}

func (e *Extractor) quote(pair Pair, provenance types.Provenance) types.Quote {
	metrics.RecordExtraction(e.source.ID.String(), provenance.String())

	return types.Quote{
		Source:     e.source.ID,
		Provenance: provenance,
		BuyPrice:   pair.Buy,
		SellPrice:  pair.Sell,
	}
}

// extractWith runs the strategy, rejecting unusable pairs
func extractWith(s Strategy, doc *goquery.Document) (Pair, error) {
	if s == nil {
		return Pair{}, errNoStrategy
	}

	pair, err := s.Extract(doc)
	if err != nil {
		return Pair{}, err
	}

	if !validPrice(pair.Buy) || !validPrice(pair.Sell) {
		return Pair{}, fmt.Errorf("%w: buy %v, sell %v", errInvalidPrice, pair.Buy, pair.Sell)
	}

	return pair, nil
}

func validPrice(v float64) bool {
	return v > 0 && !math.IsNaN(v) && !math.IsInf(v, 0)
}
