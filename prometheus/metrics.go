// Package prometheus records pipeline metrics with the Prometheus client
// and exports them to a node-exporter textfile.
package prometheus

import (
	"github.com/fwojciec/clipdoc"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors of one run in their own registry.
type Metrics struct {
	Registry *prometheus.Registry

	FetchDuration  *prometheus.HistogramVec
	FetchErrors    *prometheus.CounterVec
	RaceWins       *prometheus.CounterVec
	RaceFailures   *prometheus.CounterVec
	ExtractedChars prometheus.Histogram
	Publications   *prometheus.CounterVec
}

// NewMetrics creates and registers the collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		FetchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "clipdoc_fetch_duration_seconds",
				Help:    "Duration of page fetches in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"backend"},
		),
		FetchErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "clipdoc_fetch_errors_total",
				Help: "Failed page fetches, labeled by backend and error code.",
			},
			[]string{"backend", "code"},
		),
		RaceWins: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "clipdoc_race_wins_total",
				Help: "Races won, labeled by strategy.",
			},
			[]string{"strategy"},
		),
		RaceFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "clipdoc_race_failures_total",
				Help: "Races without a usable result, labeled by error code.",
			},
			[]string{"code"},
		),
		ExtractedChars: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "clipdoc_extracted_chars",
				Help:    "Length of winning extractions in characters.",
				Buckets: prometheus.ExponentialBuckets(100, 4, 6),
			},
		),
		Publications: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "clipdoc_publications_total",
				Help: "Publish results: written, reused or failed.",
			},
			[]string{"result"},
		),
	}
	m.Registry.MustRegister(
		m.FetchDuration,
		m.FetchErrors,
		m.RaceWins,
		m.RaceFailures,
		m.ExtractedChars,
		m.Publications,
	)
	return m
}

// WriteToTextfile writes the current metrics for the node exporter's
// textfile collector.
func (m *Metrics) WriteToTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.Registry); err != nil {
		return clipdoc.Wrapf(err, clipdoc.EINTERNAL, "write metrics to %s", path)
	}
	return nil
}
