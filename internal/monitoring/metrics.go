// Package monitoring exposes Prometheus metrics for long sweep runs so an
// operator can watch throughput and failure rates from the outside.
package monitoring

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the instrument set for backtest execution. All record
// methods are nil-safe so callers can run without monitoring wired up.
type Metrics struct {
	registry *prometheus.Registry

	backtestsTotal   prometheus.Counter
	backtestFailures prometheus.Counter
	backtestSeconds  prometheus.Histogram
	tradesTotal      *prometheus.CounterVec
	barsProcessed    prometheus.Counter
}

// NewMetrics creates a metric set on its own registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		backtestsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "backtest_runs_total",
			Help: "Number of completed backtest runs",
		}),
		backtestFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "backtest_failures_total",
			Help: "Number of backtest runs that ended in error",
		}),
		backtestSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "backtest_duration_seconds",
			Help:    "Wall time of a single backtest run",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		}),
		tradesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "backtest_trades_total",
			Help: "Simulated trades by book and side",
		}, []string{"book", "side"}),
		barsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "backtest_bars_processed_total",
			Help: "Daily bars fed through strategies",
		}),
	}

	m.registry.MustRegister(
		m.backtestsTotal,
		m.backtestFailures,
		m.backtestSeconds,
		m.tradesTotal,
		m.barsProcessed,
	)
	return m
}

// ObserveRun records one finished backtest.
func (m *Metrics) ObserveRun(duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.backtestsTotal.Inc()
	m.backtestSeconds.Observe(duration.Seconds())
	if err != nil {
		m.backtestFailures.Inc()
	}
}

// RecordTrade counts one simulated trade.
func (m *Metrics) RecordTrade(book, side string) {
	if m == nil {
		return
	}
	m.tradesTotal.WithLabelValues(book, side).Inc()
}

// AddBars counts processed daily bars.
func (m *Metrics) AddBars(n int) {
	if m == nil {
		return
	}
	m.barsProcessed.Add(float64(n))
}

// Handler returns the scrape endpoint for this metric set.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve runs an HTTP server exposing /metrics until the context ends.
func (m *Metrics) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())

	server := &http.Server{Addr: addr, Handler: mux}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
