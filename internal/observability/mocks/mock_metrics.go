package mocks

import (
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/BrianKoge/Ubuntu-Requests/internal/observability"
)

// MockMetrics is a testify mock for observability.Metrics
type MockMetrics struct {
	mock.Mock
}

func (m *MockMetrics) IncrementCounter(name string, tags map[string]string) {
	m.Called(name, tags)
}

func (m *MockMetrics) RecordHistogram(name string, value float64, tags map[string]string) {
	m.Called(name, value, tags)
}

func (m *MockMetrics) RecordGauge(name string, value float64, tags map[string]string) {
	m.Called(name, value, tags)
}

func (m *MockMetrics) WithTags(tags map[string]string) observability.Metrics {
	args := m.Called(tags)
	if metrics, ok := args.Get(0).(observability.Metrics); ok {
		return metrics
	}
	return m
}

// RecordingMetrics counts increments in memory so tests can assert on
// them without scripting every call.
type RecordingMetrics struct {
	mu       sync.Mutex
	Counters map[string]int
}

func NewRecordingMetrics() *RecordingMetrics {
	return &RecordingMetrics{Counters: map[string]int{}}
}

func (r *RecordingMetrics) IncrementCounter(name string, tags map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Counters[name]++
}

func (r *RecordingMetrics) RecordHistogram(string, float64, map[string]string) {}
func (r *RecordingMetrics) RecordGauge(string, float64, map[string]string)     {}

func (r *RecordingMetrics) WithTags(map[string]string) observability.Metrics {
	return r
}

// Count returns the number of increments recorded for a counter.
func (r *RecordingMetrics) Count(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.Counters[name]
}
