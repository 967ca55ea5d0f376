// Package prom implements the observability.Metrics port using the
// Prometheus client library. Metric vectors are created lazily per metric
// name; dotted names from the rest of the codebase are normalized to
// Prometheus conventions ("download.completed" -> "download_completed").
package prom

import (
	"sort"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/BrianKoge/Ubuntu-Requests/internal/observability"
)

// Metrics implements observability.Metrics over a prometheus.Registerer.
type Metrics struct {
	namespace string
	registry  prometheus.Registerer
	tags      map[string]string

	mu         *sync.Mutex
	counters   map[string]*prometheus.CounterVec
	histograms map[string]*prometheus.HistogramVec
	gauges     map[string]*prometheus.GaugeVec
}

// New creates a Metrics instance registering into the given registerer.
// The namespace is prefixed to every metric name.
func New(namespace string, registry prometheus.Registerer) *Metrics {
	return &Metrics{
		namespace:  sanitize(namespace),
		registry:   registry,
		tags:       map[string]string{},
		mu:         &sync.Mutex{},
		counters:   map[string]*prometheus.CounterVec{},
		histograms: map[string]*prometheus.HistogramVec{},
		gauges:     map[string]*prometheus.GaugeVec{},
	}
}

// IncrementCounter increments a counter metric by 1
func (m *Metrics) IncrementCounter(name string, tags map[string]string) {
	labels := m.merge(tags)
	vec := m.counterVec(name, labelKeys(labels))
	vec.With(labels).Inc()
}

// RecordHistogram records a value in a histogram distribution
func (m *Metrics) RecordHistogram(name string, value float64, tags map[string]string) {
	labels := m.merge(tags)
	vec := m.histogramVec(name, labelKeys(labels))
	vec.With(labels).Observe(value)
}

// RecordGauge records a point-in-time measurement
func (m *Metrics) RecordGauge(name string, value float64, tags map[string]string) {
	labels := m.merge(tags)
	vec := m.gaugeVec(name, labelKeys(labels))
	vec.With(labels).Set(value)
}

// WithTags returns a new Metrics view sharing the underlying vectors
func (m *Metrics) WithTags(tags map[string]string) observability.Metrics {
	merged := make(map[string]string, len(m.tags)+len(tags))
	for k, v := range m.tags {
		merged[k] = v
	}
	for k, v := range tags {
		merged[k] = v
	}

	return &Metrics{
		namespace:  m.namespace,
		registry:   m.registry,
		tags:       merged,
		mu:         m.mu,
		counters:   m.counters,
		histograms: m.histograms,
		gauges:     m.gauges,
	}
}

func (m *Metrics) counterVec(name string, keys []string) *prometheus.CounterVec {
	m.mu.Lock()
	defer m.mu.Unlock()

	full := m.namespace + "_" + sanitize(name)
	if vec, ok := m.counters[full]; ok {
		return vec
	}

	vec := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: full,
		Help: "Counter " + name,
	}, keys)
	m.registry.MustRegister(vec)
	m.counters[full] = vec
	return vec
}

func (m *Metrics) histogramVec(name string, keys []string) *prometheus.HistogramVec {
	m.mu.Lock()
	defer m.mu.Unlock()

	full := m.namespace + "_" + sanitize(name)
	if vec, ok := m.histograms[full]; ok {
		return vec
	}

	vec := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    full,
		Help:    "Histogram " + name,
		Buckets: prometheus.DefBuckets,
	}, keys)
	m.registry.MustRegister(vec)
	m.histograms[full] = vec
	return vec
}

func (m *Metrics) gaugeVec(name string, keys []string) *prometheus.GaugeVec {
	m.mu.Lock()
	defer m.mu.Unlock()

	full := m.namespace + "_" + sanitize(name)
	if vec, ok := m.gauges[full]; ok {
		return vec
	}

	vec := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: full,
		Help: "Gauge " + name,
	}, keys)
	m.registry.MustRegister(vec)
	m.gauges[full] = vec
	return vec
}

func (m *Metrics) merge(tags map[string]string) prometheus.Labels {
	labels := prometheus.Labels{}
	for k, v := range m.tags {
		labels[sanitize(k)] = v
	}
	for k, v := range tags {
		labels[sanitize(k)] = v
	}
	return labels
}

func labelKeys(labels prometheus.Labels) []string {
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sanitize(name string) string {
	name = strings.ToLower(name)
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}
