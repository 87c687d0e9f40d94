package server

import (
	"log/slog"
	"time"

	"github.com/sig-0/fxquotes/server/config"
)

type Option func(s *Server)

// WithLogger specifies the logger for the server
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// WithConfig specifies the config for the server
func WithConfig(c *config.Config) Option {
	return func(s *Server) {
		s.config = c
	}
}

// WithClock specifies the clock used for health timestamps and uptime
func WithClock(clock func() time.Time) Option {
	return func(s *Server) {
		s.clock = clock
	}
}
