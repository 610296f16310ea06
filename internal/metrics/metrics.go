// Package metrics defines Prometheus metrics for the opsdesk pipeline.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds all registered Prometheus collectors.
type Metrics struct {
	InquiriesTotal              *prometheus.CounterVec
	ResolveDuration             prometheus.Histogram
	CacheLookupsTotal           *prometheus.CounterVec
	TicketsCreatedTotal         prometheus.Counter
	ClassificationFailuresTotal prometheus.Counter
	ActivityDuration            *prometheus.HistogramVec
	ActivityTotal               *prometheus.CounterVec
}

// Register registers all metrics with the given registry and returns the Metrics instance.
func Register(reg prometheus.Registerer) (*Metrics, error) {
	m := New()
	if err := RegisterWith(reg, m); err != nil {
		return nil, err
	}
	return m, nil
}

// RegisterWith registers a pre-built Metrics instance with the given registry.
func RegisterWith(reg prometheus.Registerer, m *Metrics) error {
	collectors := []prometheus.Collector{
		m.InquiriesTotal,
		m.ResolveDuration,
		m.CacheLookupsTotal,
		m.TicketsCreatedTotal,
		m.ClassificationFailuresTotal,
		m.ActivityDuration,
		m.ActivityTotal,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// New creates uninitialised metric instances (used internally and by interceptor).
func New() *Metrics {
	return &Metrics{
		InquiriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "opsdesk_inquiries_total",
				Help: "Total number of inquiries handled, by terminal outcome.",
			},
			[]string{"outcome"},
		),
		ResolveDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "opsdesk_resolve_duration_seconds",
			Help:    "End-to-end duration of inquiry handling in seconds.",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		}),
		CacheLookupsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "opsdesk_knowledge_cache_lookups_total",
				Help: "Total number of knowledge cache lookups by result.",
			},
			[]string{"result"},
		),
		TicketsCreatedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "opsdesk_tickets_created_total",
			Help: "Total number of escalation tickets successfully filed.",
		}),
		ClassificationFailuresTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "opsdesk_classification_failures_total",
			Help: "Total number of classification calls that fell back to defaults.",
		}),
		ActivityDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "opsdesk_activity_duration_seconds",
				Help:    "Duration of each Temporal activity execution in seconds.",
				Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120},
			},
			[]string{"activity_name", "result"},
		),
		ActivityTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "opsdesk_activity_total",
				Help: "Total number of Temporal activity executions by name and result.",
			},
			[]string{"activity_name", "result"},
		),
	}
}

// CacheObserver returns a callback suitable for the knowledge cache decorator.
func (m *Metrics) CacheObserver() func(hit bool) {
	return func(hit bool) {
		result := "miss"
		if hit {
			result = "hit"
		}
		m.CacheLookupsTotal.WithLabelValues(result).Inc()
	}
}
