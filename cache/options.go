package cache

import (
	"io"
	"log/slog"
	"time"

	"github.com/sig-0/fxquotes/storage"
)

const defaultHistoryKeep = storage.DefaultHistoryKeep

var noopLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type Option func(m *Manager)

// WithLogger specifies the logger for the manager
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = l
	}
}

// WithClock specifies the clock used for snapshot timestamps and staleness.
// Defaults to time.Now
func WithClock(clock func() time.Time) Option {
	return func(m *Manager) {
		m.clock = clock
	}
}

// WithStaleAfter specifies the snapshot staleness threshold. Defaults to 60s
func WithStaleAfter(d time.Duration) Option {
	return func(m *Manager) {
		m.staleAfter = d
	}
}

// WithRefreshInterval specifies the refresh cadence. Defaults to 60s
func WithRefreshInterval(d time.Duration) Option {
	return func(m *Manager) {
		m.interval = d
	}
}

// WithHistoryKeep specifies how many persisted records are retained
// per region. Defaults to 10
func WithHistoryKeep(keep int) Option {
	return func(m *Manager) {
		m.historyKeep = keep
	}
}

// WithPersistTimeout specifies the background persistence timeout. Defaults to 10s
func WithPersistTimeout(d time.Duration) Option {
	return func(m *Manager) {
		m.persistTimeout = d
	}
}
