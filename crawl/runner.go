// Package crawl orchestrates fetching, extraction and publishing of a
// batch of URLs.
package crawl

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/fwojciec/clipdoc"
	"golang.org/x/sync/errgroup"
)

// Runner defaults.
const (
	DefaultConcurrency = 15
	DefaultMaxRounds   = 3
	DefaultRoundDelay  = 2 * time.Second
)

// Runner processes a batch of URLs in rounds. Every URL is raced and
// published in the first round; later rounds retry only the failures.
type Runner struct {
	Racer     clipdoc.Racer
	Publisher clipdoc.Publisher

	Concurrency int
	MaxRounds   int
	RoundDelay  time.Duration // negative disables the delay

	Logger *slog.Logger
}

// Report summarizes a run.
type Report struct {
	// Outcomes has one entry per input URL, in input order. Duplicate
	// inputs share an outcome.
	Outcomes []*clipdoc.Outcome

	Succeeded int
	Failed    int

	// Rounds is the number of rounds that ran.
	Rounds int

	// Exhausted is true when retryable failures remained after the last round.
	Exhausted bool
}

// task is one distinct normalized URL.
type task struct {
	url     string
	outcome *clipdoc.Outcome
}

// Run processes urls and reports per-URL outcomes. Per-URL failures never
// make Run fail; it returns an error only when ctx ends, together with the
// report so far.
func (r *Runner) Run(ctx context.Context, urls []string, progress clipdoc.ProgressFunc) (*Report, error) {
	concurrency := r.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	maxRounds := r.MaxRounds
	if maxRounds <= 0 {
		maxRounds = DefaultMaxRounds
	}
	delay := r.RoundDelay
	if delay == 0 {
		delay = DefaultRoundDelay
	}
	logger := r.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	report := &Report{Outcomes: make([]*clipdoc.Outcome, len(urls))}
	byURL := make(map[string]*task)
	var pending []*task
	for i, raw := range urls {
		u, err := clipdoc.NormalizeURL(raw)
		if err != nil {
			report.Outcomes[i] = &clipdoc.Outcome{URL: raw, Err: err}
			continue
		}
		t, ok := byURL[u]
		if !ok {
			t = &task{url: u, outcome: &clipdoc.Outcome{URL: u}}
			byURL[u] = t
			pending = append(pending, t)
		}
		report.Outcomes[i] = t.outcome
	}

	var runErr error
	for round := 1; round <= maxRounds && len(pending) > 0; round++ {
		if round > 1 {
			logger.Info("retrying failed URLs", "round", round, "count", len(pending))
			if err := sleep(ctx, delay); err != nil {
				runErr = err
				break
			}
		}
		report.Rounds = round

		r.runRound(ctx, round, pending, concurrency, progress)

		var failed []*task
		for _, t := range pending {
			if t.outcome.Err != nil && Retryable(t.outcome.Err) {
				failed = append(failed, t)
			}
		}
		pending = failed

		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}
	}
	report.Exhausted = runErr == nil && len(pending) > 0

	for _, o := range report.Outcomes {
		if o.OK() {
			report.Succeeded++
		} else {
			report.Failed++
		}
	}
	return report, runErr
}

// runRound processes tasks concurrently and records their outcomes.
func (r *Runner) runRound(ctx context.Context, round int, tasks []*task, concurrency int, progress clipdoc.ProgressFunc) {
	var mu sync.Mutex
	completed := 0

	var g errgroup.Group
	g.SetLimit(concurrency)
	for _, t := range tasks {
		g.Go(func() error {
			result, pub, err := r.process(ctx, t.url)

			mu.Lock()
			defer mu.Unlock()
			t.outcome.Attempts++
			t.outcome.Result = result
			t.outcome.Publication = pub
			t.outcome.Err = err
			completed++
			if progress != nil {
				progress(clipdoc.Progress{
					Round:     round,
					Completed: completed,
					Total:     len(tasks),
					URL:       t.url,
					Err:       err,
				})
			}
			return nil
		})
	}
	_ = g.Wait()
}

// process races a URL and publishes the winner. A URL only succeeds once
// its document has been written.
func (r *Runner) process(ctx context.Context, url string) (*clipdoc.ExtractionResult, *clipdoc.Publication, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	result, err := r.Racer.Race(ctx, url)
	if err != nil {
		return nil, nil, err
	}
	pub, err := r.Publisher.Publish(ctx, url, result)
	if err != nil {
		return result, nil, err
	}
	return result, pub, nil
}
