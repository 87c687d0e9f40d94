package aggregate

import (
	"io"
	"log/slog"
)

var noopLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type Option func(a *Aggregator)

// WithLogger specifies the logger for the aggregator
func WithLogger(l *slog.Logger) Option {
	return func(a *Aggregator) {
		a.logger = l
	}
}
