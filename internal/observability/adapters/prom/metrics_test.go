package prom

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIncrementCounter(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := New("imagefetcher", registry)

	metrics.IncrementCounter("download.outcome", map[string]string{"outcome": "saved"})
	metrics.IncrementCounter("download.outcome", map[string]string{"outcome": "saved"})
	metrics.IncrementCounter("download.outcome", map[string]string{"outcome": "failed"})

	families, err := registry.Gather()
	require.NoError(t, err)
	require.Len(t, families, 1)
	assert.Equal(t, "imagefetcher_download_outcome", families[0].GetName())

	saved := testutil.ToFloat64(metrics.counters["imagefetcher_download_outcome"].
		WithLabelValues("saved"))
	assert.Equal(t, float64(2), saved)
}

func TestRecordHistogram(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := New("imagefetcher", registry)

	metrics.RecordHistogram("download.duration_seconds", 0.25, nil)
	metrics.RecordHistogram("download.duration_seconds", 0.75, nil)

	count := testutil.CollectAndCount(metrics.histograms["imagefetcher_download_duration_seconds"])
	assert.Equal(t, 1, count)
}

func TestRecordGauge(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := New("imagefetcher", registry)

	metrics.RecordGauge("registry.size", 3, nil)
	metrics.RecordGauge("registry.size", 7, nil)

	value := testutil.ToFloat64(metrics.gauges["imagefetcher_registry_size"].WithLabelValues())
	assert.Equal(t, float64(7), value)
}

func TestWithTags_MergesIntoEveryMetric(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := New("imagefetcher", registry).WithTags(map[string]string{
		"component": "downloader",
	})

	metrics.IncrementCounter("requests", map[string]string{"outcome": "saved"})

	families, err := registry.Gather()
	require.NoError(t, err)
	require.Len(t, families, 1)

	labels := families[0].GetMetric()[0].GetLabel()
	names := make(map[string]string, len(labels))
	for _, l := range labels {
		names[l.GetName()] = l.GetValue()
	}
	assert.Equal(t, "downloader", names["component"])
	assert.Equal(t, "saved", names["outcome"])
}

func TestSanitizeNames(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := New("Image-Fetcher", registry)

	metrics.IncrementCounter("batch.size-total", nil)

	families, err := registry.Gather()
	require.NoError(t, err)
	require.Len(t, families, 1)
	assert.Equal(t, "image_fetcher_batch_size_total", families[0].GetName())
}
