package batch

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BrianKoge/Ubuntu-Requests/internal/domain/model"
	"github.com/BrianKoge/Ubuntu-Requests/internal/observability/mocks"
)

// scriptedPipeline returns canned outcomes keyed by URL.
type scriptedPipeline struct {
	outcomes map[string]model.Outcome
	calls    []string
}

func (p *scriptedPipeline) Download(ctx context.Context, url string) model.Result {
	p.calls = append(p.calls, url)
	outcome, ok := p.outcomes[url]
	if !ok {
		outcome = model.OutcomeSaved
	}
	if outcome == model.OutcomeFailed {
		return model.Failed(url, model.NewDownloadError(model.NetworkError, "request failed", url))
	}
	return model.Skipped(url, outcome)
}

type captureRecorder struct {
	records []model.Result
	err     error
}

func (r *captureRecorder) Record(result model.Result) error {
	r.records = append(r.records, result)
	return r.err
}

func newTestDriver(pipeline Pipeline, recorder Recorder) *Driver {
	return NewDriver(pipeline, recorder, 0, false, mocks.NopLogger{}, mocks.NewRecordingMetrics())
}

func TestDownloadAll_ProcessesInOrder(t *testing.T) {
	urls := []string{
		"https://example.com/1.png",
		"https://example.com/2.png",
		"https://example.com/3.png",
	}
	pipeline := &scriptedPipeline{outcomes: map[string]model.Outcome{}}
	recorder := &captureRecorder{}

	results := newTestDriver(pipeline, recorder).DownloadAll(context.Background(), urls)

	require.Len(t, results, 3)
	assert.Equal(t, urls, pipeline.calls)
	for i, r := range results {
		assert.Equal(t, urls[i], r.URL)
	}
	require.Len(t, recorder.records, 3)
}

func TestDownloadAll_FailureDoesNotStopTheBatch(t *testing.T) {
	urls := []string{"https://a.example/1.png", "https://b.example/2.png", "https://c.example/3.png"}
	pipeline := &scriptedPipeline{outcomes: map[string]model.Outcome{
		"https://b.example/2.png": model.OutcomeFailed,
	}}
	recorder := &captureRecorder{}

	results := newTestDriver(pipeline, recorder).DownloadAll(context.Background(), urls)

	require.Len(t, results, 3)
	assert.Equal(t, model.OutcomeFailed, results[1].Outcome)
	assert.Equal(t, model.OutcomeSaved, results[2].Outcome)
}

func TestDownloadAll_RecorderErrorIsTolerated(t *testing.T) {
	pipeline := &scriptedPipeline{outcomes: map[string]model.Outcome{}}
	recorder := &captureRecorder{err: errors.New("disk full")}

	results := newTestDriver(pipeline, recorder).DownloadAll(context.Background(),
		[]string{"https://example.com/1.png", "https://example.com/2.png"})

	assert.Len(t, results, 2)
}

func TestDownloadAll_CancelledContextStopsEarly(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pipeline := &scriptedPipeline{outcomes: map[string]model.Outcome{}}
	results := newTestDriver(pipeline, &captureRecorder{}).DownloadAll(ctx,
		[]string{"https://example.com/1.png"})

	assert.Empty(t, results)
	assert.Empty(t, pipeline.calls)
}

func TestSummarize(t *testing.T) {
	results := []model.Result{
		model.Saved("u1", "a.png", "d1", 10),
		model.Skipped("u2", model.OutcomeSkippedDuplicate),
		model.Skipped("u3", model.OutcomeSkippedBlockedDomain),
		model.Skipped("u4", model.OutcomeSkippedOversize),
		model.Failed("u5", model.NewDownloadError(model.NetworkError, "x", "u5")),
	}

	s := Summarize(results)
	assert.Equal(t, Summary{Saved: 1, Skipped: 3, Failed: 1}, s)
}
