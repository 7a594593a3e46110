package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/clipdoc"
)

// Ensure LoggingRacer implements clipdoc.Racer.
var _ clipdoc.Racer = (*LoggingRacer)(nil)

// LoggingRacer wraps a Racer with logging.
type LoggingRacer struct {
	next   clipdoc.Racer
	logger *slog.Logger
}

// NewLoggingRacer creates a new LoggingRacer.
func NewLoggingRacer(next clipdoc.Racer, logger *slog.Logger) *LoggingRacer {
	return &LoggingRacer{next: next, logger: logger}
}

// Race delegates to the wrapped racer and logs the winning strategy.
func (r *LoggingRacer) Race(ctx context.Context, url string) (result *clipdoc.ExtractionResult, err error) {
	defer func(begin time.Time) {
		if err != nil {
			r.logger.Warn("race",
				"url", url,
				"duration", time.Since(begin),
				"err", err,
			)
			return
		}
		r.logger.Info("race",
			"url", url,
			"strategy", result.Strategy.String(),
			"chars", result.Length,
			"duration", time.Since(begin),
		)
	}(time.Now())
	return r.next.Race(ctx, url)
}
