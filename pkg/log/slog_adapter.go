package log

import (
	"context"
	"log/slog"
)

// SlogAdapter writes records to an slog.Logger.
type SlogAdapter struct {
	logger *slog.Logger
	level  slog.Level
}

// NewSlogAdapter creates a SlogAdapter that logs at Info level.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return NewSlogAdapterLevel(logger, slog.LevelInfo)
}

// NewSlogAdapterLevel creates a SlogAdapter that logs at level.
func NewSlogAdapterLevel(logger *slog.Logger, level slog.Level) *SlogAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogAdapter{logger: logger, level: level}
}

// Log writes the record line as the message with the routing fields as attributes.
func (a *SlogAdapter) Log(rec Record) {
	a.logger.LogAttrs(context.Background(), a.level, rec.Line,
		slog.String("client_id", rec.ClientID),
		slog.String("kind", rec.Kind.MessageType()),
		slog.String("direction", rec.Direction.String()),
		slog.String("encoding", rec.Encoding.String()),
	)
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)
