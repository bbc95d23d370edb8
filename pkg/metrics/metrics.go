// Package metrics defines the Prometheus collectors of the solver service and
// exposes an HTTP handler for scraping.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/bastiangx/ringserve/pkg/solver"
	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors and the registry they are registered with.
type Metrics struct {
	SolvesTotal      *prometheus.CounterVec
	SolveLatency     *prometheus.HistogramVec
	CandidatesCount  prometheus.Histogram
	PairsCount       prometheus.Histogram
	CacheHitsTotal   prometheus.Counter
	CacheMissesTotal prometheus.Counter
	VocabularyWords  prometheus.Gauge

	registry *prometheus.Registry
}

// New creates the collectors on a fresh registry, together with the Go
// runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		SolvesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ring_solves_total",
				Help: "Total solve requests by status.",
			},
			[]string{"status"},
		),
		SolveLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ring_solve_duration_seconds",
				Help:    "Solve latency in seconds.",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
			},
			[]string{"cache_status"},
		),
		CandidatesCount: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "ring_candidates_count",
				Help:    "Number of candidate words per solved ring.",
				Buckets: []float64{0, 10, 50, 100, 500, 1000, 5000},
			},
		),
		PairsCount: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "ring_pairs_count",
				Help:    "Number of matching pairs per solved ring before ranking.",
				Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 500},
			},
		),
		CacheHitsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "ring_cache_hits_total",
				Help: "Total number of solution cache hits.",
			},
		),
		CacheMissesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "ring_cache_misses_total",
				Help: "Total number of solution cache misses.",
			},
		),
		VocabularyWords: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "ring_vocabulary_words",
				Help: "Number of words in the loaded vocabulary.",
			},
		),
		registry: prometheus.NewRegistry(),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.SolvesTotal,
		m.SolveLatency,
		m.CandidatesCount,
		m.PairsCount,
		m.CacheHitsTotal,
		m.CacheMissesTotal,
		m.VocabularyWords,
	)

	return m
}

// ObserveSolve records one solve. cacheStatus is "hit", "miss" or "off".
func (m *Metrics) ObserveSolve(res solver.Result, cacheStatus string) {
	m.SolvesTotal.WithLabelValues(res.Status.String()).Inc()
	m.SolveLatency.WithLabelValues(cacheStatus).Observe(res.Elapsed.Seconds())
	if res.Status == solver.StatusInvalidRing || res.Status == solver.StatusEmptyVocabulary {
		return
	}
	m.CandidatesCount.Observe(float64(res.Candidates))
	m.PairsCount.Observe(float64(res.RawPairs))
}

// ObserveCache counts one cache lookup.
func (m *Metrics) ObserveCache(hit bool) {
	if hit {
		m.CacheHitsTotal.Inc()
		return
	}
	m.CacheMissesTotal.Inc()
}

// SetVocabularySize records the number of loaded words.
func (m *Metrics) SetVocabularySize(n int) {
	m.VocabularyWords.Set(float64(n))
}

// Registry returns the registry the collectors live in.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns the Prometheus scrape HTTP handler.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is done.
func (m *Metrics) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Info("metrics listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
