// Package slog provides logging decorators for clipdoc services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/clipdoc"
)

// Ensure LoggingFetcher implements clipdoc.Fetcher.
var _ clipdoc.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with logging.
type LoggingFetcher struct {
	next    clipdoc.Fetcher
	backend clipdoc.Backend
	logger  *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher. Log lines carry the
// backend name.
func NewLoggingFetcher(next clipdoc.Fetcher, backend clipdoc.Backend, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, backend: backend, logger: logger}
}

// Fetch delegates to the wrapped fetcher and logs the operation.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (html string, err error) {
	defer func(begin time.Time) {
		level := slog.LevelDebug
		if err != nil {
			level = slog.LevelWarn
		}
		f.logger.Log(ctx, level, "fetch",
			"backend", f.backend,
			"url", url,
			"bytes", len(html),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.Fetch(ctx, url)
}

// Close delegates to the wrapped fetcher.
func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}
