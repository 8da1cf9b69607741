package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Config contains configuration for the metrics collector.
type Config struct {
	// Enabled controls whether metrics are recorded.
	// Default: true
	Enabled bool

	// Namespace is the Prometheus namespace for all metrics.
	// Default: "callisto"
	Namespace string

	// Subsystem is the Prometheus subsystem for all metrics.
	// Default: "parser"
	Subsystem string

	// ParseDurationBuckets are histogram buckets for parse latency in
	// seconds. Parses are bounded CPU work over short strings, so the
	// buckets run from microseconds up to the regex match timeout.
	ParseDurationBuckets []float64
}

// DefaultConfig returns the default metrics configuration.
func DefaultConfig() *Config {
	return &Config{
		Enabled:   true,
		Namespace: "callisto",
		Subsystem: "parser",
	}
}

// Parse outcome label values.
const (
	OutcomeMatch   = "match"
	OutcomeNoMatch = "no_match"
	OutcomeError   = "error"
)

// Collector records Prometheus metrics for parse traffic and registry
// lifecycle events. A nil *Collector is valid and records nothing, so
// callers don't need to branch on whether telemetry is wired.
type Collector struct {
	config   *Config
	registry *prometheus.Registry

	parseTotal     *prometheus.CounterVec
	parseDuration  *prometheus.HistogramVec
	regexTimeouts  prometheus.Counter
	grammarsLoaded prometheus.Gauge
	reloadsTotal   *prometheus.CounterVec
	auditDropped   prometheus.Counter
}

// NewCollector creates a new metrics collector with the specified
// configuration and Prometheus registry. If registry is nil, a fresh
// registry is created; if cfg is nil or disabled, NewCollector returns a
// nil collector and every recording method becomes a no-op.
func NewCollector(cfg *Config, registry *prometheus.Registry) *Collector {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if !cfg.Enabled {
		return nil
	}
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if cfg.Namespace == "" {
		cfg.Namespace = "callisto"
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = "parser"
	}
	if len(cfg.ParseDurationBuckets) == 0 {
		cfg.ParseDurationBuckets = []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.025, 0.1, 0.25}
	}

	c := &Collector{
		config:   cfg,
		registry: registry,
		parseTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "parse_total",
			Help:      "Parse attempts by grammar, field, and outcome.",
		}, []string{"grammar", "field", "outcome"}),
		parseDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "parse_duration_seconds",
			Help:      "Parse latency by grammar.",
			Buckets:   cfg.ParseDurationBuckets,
		}, []string{"grammar"}),
		regexTimeouts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "regex_timeouts_total",
			Help:      "Match attempts degraded to no-match by the regex match timeout.",
		}),
		grammarsLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "grammars_loaded",
			Help:      "Number of grammars in the active registry snapshot.",
		}),
		reloadsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "registry_reloads_total",
			Help:      "Registry reloads by status.",
		}, []string{"status"}),
		auditDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "audit_records_dropped_total",
			Help:      "Audit records dropped because the recorder buffer was full.",
		}),
	}

	registry.MustRegister(
		c.parseTotal,
		c.parseDuration,
		c.regexTimeouts,
		c.grammarsLoaded,
		c.reloadsTotal,
		c.auditDropped,
	)

	return c
}

// RecordParse records one parse attempt.
func (c *Collector) RecordParse(grammar, field, outcome string, duration time.Duration) {
	if c == nil {
		return
	}
	c.parseTotal.WithLabelValues(grammar, field, outcome).Inc()
	c.parseDuration.WithLabelValues(grammar).Observe(duration.Seconds())
}

// RecordRegexTimeout records a match attempt degraded by the match timeout.
func (c *Collector) RecordRegexTimeout() {
	if c == nil {
		return
	}
	c.regexTimeouts.Inc()
}

// SetGrammarsLoaded records the size of the active registry snapshot.
func (c *Collector) SetGrammarsLoaded(n int) {
	if c == nil {
		return
	}
	c.grammarsLoaded.Set(float64(n))
}

// RecordReload records a registry reload attempt.
func (c *Collector) RecordReload(ok bool) {
	if c == nil {
		return
	}
	status := "success"
	if !ok {
		status = "failure"
	}
	c.reloadsTotal.WithLabelValues(status).Inc()
}

// RecordAuditDrop records an audit record dropped under backpressure.
func (c *Collector) RecordAuditDrop() {
	if c == nil {
		return
	}
	c.auditDropped.Inc()
}

// Registry returns the underlying Prometheus registry, or nil for a
// disabled collector.
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}
