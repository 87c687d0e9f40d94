package provider

import (
	"io"
	"log/slog"
	"net/http"
	"time"
)

var noopLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type Option func(e *Extractor)

// WithLogger specifies the logger for the extractor
func WithLogger(l *slog.Logger) Option {
	return func(e *Extractor) {
		e.logger = l
	}
}

// WithTimeout specifies the page fetch timeout. Defaults to 10s.
// It is applied per request, independently of the HTTP client
func WithTimeout(timeout time.Duration) Option {
	return func(e *Extractor) {
		e.timeout = timeout
	}
}

// WithHTTPClient specifies the HTTP client used for page fetches.
// The client is never modified
func WithHTTPClient(c *http.Client) Option {
	return func(e *Extractor) {
		e.client = c
	}
}

// WithUserAgent specifies the User-Agent header sent with page fetches
func WithUserAgent(ua string) Option {
	return func(e *Extractor) {
		e.userAgent = ua
	}
}

// WithRand specifies the [0, 1) random source used for synthetic quotes
func WithRand(fn func() float64) Option {
	return func(e *Extractor) {
		e.rand = fn
	}
}
