// Package batch runs the download pipeline over an ordered list of URLs,
// one at a time. Each URL is independent: a skip or failure is recorded
// and the run continues.
package batch

import (
	"context"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"

	"github.com/BrianKoge/Ubuntu-Requests/internal/domain/model"
	"github.com/BrianKoge/Ubuntu-Requests/internal/observability"
)

// Pipeline is the single-URL contract the driver delegates to.
type Pipeline interface {
	Download(ctx context.Context, url string) model.Result
}

// Recorder receives every produced result, in order.
type Recorder interface {
	Record(r model.Result) error
}

// Driver processes URLs sequentially in input order.
type Driver struct {
	pipeline Pipeline
	recorder Recorder
	delay    time.Duration
	progress bool

	logger  observability.Logger
	metrics observability.Metrics
}

// NewDriver builds a batch driver. delay is the politeness pause between
// consecutive requests; progress enables a stderr progress bar.
func NewDriver(
	pipeline Pipeline,
	recorder Recorder,
	delay time.Duration,
	progress bool,
	logger observability.Logger,
	metrics observability.Metrics,
) *Driver {
	return &Driver{
		pipeline: pipeline,
		recorder: recorder,
		delay:    delay,
		progress: progress,
		logger:   logger,
		metrics:  metrics,
	}
}

// DownloadAll runs the pipeline for every URL in order and returns one
// result per URL. Context cancellation stops the run early; results
// produced so far are returned.
func (d *Driver) DownloadAll(ctx context.Context, urls []string) []model.Result {
	results := make([]model.Result, 0, len(urls))

	var bar *progressbar.ProgressBar
	if d.progress {
		bar = progressbar.NewOptions(len(urls),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription("downloading"),
			progressbar.OptionClearOnFinish(),
		)
	}

	start := time.Now()
	for i, url := range urls {
		if ctx.Err() != nil {
			d.logger.Warn("batch interrupted", "processed", i, "total", len(urls))
			break
		}

		requestID := uuid.NewString()
		logger := d.logger.WithFields(map[string]interface{}{
			"request_id": requestID,
			"url":        url,
		})
		logger.Info("processing", "position", i+1, "total", len(urls))

		result := d.pipeline.Download(ctx, url)
		results = append(results, result)

		if err := d.recorder.Record(result); err != nil {
			logger.Error("failed to record outcome", "error", err)
		}

		if bar != nil {
			_ = bar.Add(1)
		}

		if d.delay > 0 && i < len(urls)-1 {
			select {
			case <-time.After(d.delay):
			case <-ctx.Done():
			}
		}
	}

	summary := Summarize(results)
	d.logger.Info("batch finished",
		"total", len(results),
		"saved", summary.Saved,
		"skipped", summary.Skipped,
		"failed", summary.Failed,
		"duration_ms", time.Since(start).Milliseconds())
	d.metrics.RecordHistogram("batch.size", float64(len(results)), nil)
	d.metrics.RecordHistogram("batch.duration_seconds", time.Since(start).Seconds(), nil)

	return results
}

// Summary aggregates a run's outcomes.
type Summary struct {
	Saved   int
	Skipped int
	Failed  int
}

// Summarize counts outcomes by coarse category.
func Summarize(results []model.Result) Summary {
	var s Summary
	for _, r := range results {
		switch r.Outcome {
		case model.OutcomeSaved:
			s.Saved++
		case model.OutcomeFailed:
			s.Failed++
		default:
			s.Skipped++
		}
	}
	return s
}
