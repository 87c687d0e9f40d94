package serve

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

const (
	logFormatText = "text"
	logFormatJSON = "json"
)

// newLogger creates the service logger from the given level and format
func newLogger(w io.Writer, levelRaw, format string) (*slog.Logger, error) {
	var level slog.Level

	if err := level.UnmarshalText([]byte(strings.TrimSpace(levelRaw))); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", levelRaw, err)
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	switch strings.ToLower(strings.TrimSpace(format)) {
	case logFormatText, "":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case logFormatJSON:
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("invalid log format %q (must be %s or %s)", format, logFormatText, logFormatJSON)
	}
}
