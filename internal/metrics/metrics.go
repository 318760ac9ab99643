// Package metrics exposes Prometheus counters and latency histograms for
// expression evaluation.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Config controls metric naming
type Config struct {
	Enabled         bool
	Namespace       string
	DurationBuckets []float64
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		Enabled:   true,
		Namespace: "pratt",
		// Evaluations are sub-millisecond for typical input (10µs - 100ms)
		DurationBuckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.1},
	}
}

// Collector records evaluation metrics. A nil *Collector records nothing.
type Collector struct {
	config   Config
	registry *prometheus.Registry

	evaluationsTotal *prometheus.CounterVec
	errorsTotal      *prometheus.CounterVec
	tokensTotal      prometheus.Counter
	duration         prometheus.Histogram
	reloadsTotal     *prometheus.CounterVec
}

// NewCollector creates a collector on registry. If registry is nil a
// fresh one is created so that collectors never clash.
func NewCollector(cfg Config, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if cfg.Namespace == "" {
		cfg.Namespace = "pratt"
	}
	if len(cfg.DurationBuckets) == 0 {
		cfg.DurationBuckets = DefaultConfig().DurationBuckets
	}

	c := &Collector{
		config:   cfg,
		registry: registry,
		evaluationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "evaluations_total",
				Help:      "Total number of evaluated expressions by outcome",
			},
			[]string{"outcome"},
		),
		errorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "errors_total",
				Help:      "Total number of failed evaluations by error code",
			},
			[]string{"code"},
		),
		tokensTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "tokens_total",
				Help:      "Total number of tokens produced by the tokenizer",
			},
		),
		duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "evaluation_duration_seconds",
				Help:      "Duration of tokenizing, parsing and evaluating one expression",
				Buckets:   cfg.DurationBuckets,
			},
		),
		reloadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "grammar_reloads_total",
				Help:      "Total number of grammar reloads by outcome",
			},
			[]string{"outcome"},
		),
	}

	registry.MustRegister(c.evaluationsTotal, c.errorsTotal, c.tokensTotal, c.duration, c.reloadsTotal)
	return c
}

// RecordEvaluation records one evaluation. An empty code means success.
func (c *Collector) RecordEvaluation(code string, tokens int, duration time.Duration) {
	if c == nil || !c.config.Enabled {
		return
	}

	if code == "" {
		c.evaluationsTotal.WithLabelValues(OutcomeSuccess).Inc()
	} else {
		c.evaluationsTotal.WithLabelValues(OutcomeError).Inc()
		c.errorsTotal.WithLabelValues(code).Inc()
	}
	if tokens > 0 {
		c.tokensTotal.Add(float64(tokens))
	}
	c.duration.Observe(duration.Seconds())
}

// RecordReload records a grammar reload attempt
func (c *Collector) RecordReload(err error) {
	if c == nil || !c.config.Enabled {
		return
	}
	if err != nil {
		c.reloadsTotal.WithLabelValues(OutcomeError).Inc()
		return
	}
	c.reloadsTotal.WithLabelValues(OutcomeSuccess).Inc()
}

// Registry returns the underlying registry
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler returns an HTTP handler for the Prometheus metrics endpoint
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(
		c.registry,
		promhttp.HandlerOpts{
			EnableOpenMetrics: true,
			ErrorHandling:     promhttp.ContinueOnError,
		},
	)
}
