package observability

import (
	"github.com/BrianKoge/Ubuntu-Requests/internal/config"
)

// Logger defines the interface for structured logging in the application.
// Fields are variadic key-value pairs: logger.Info("saved", "url", url).
type Logger interface {
	// Info logs informational messages for normal operations.
	Info(msg string, fields ...interface{})

	// Warn logs conditions that deserve attention but are not failures,
	// such as a download proceeding over plain HTTP.
	Warn(msg string, fields ...interface{})

	// Error logs error conditions. Pass the actual error under the
	// "error" key; implementations extract its message.
	Error(msg string, fields ...interface{})

	// WithFields returns a new Logger with the given fields attached to
	// all subsequent log lines.
	WithFields(fields map[string]interface{}) Logger
}

// Metrics defines the interface for recording application metrics.
type Metrics interface {
	// IncrementCounter increments a counter metric by 1.
	IncrementCounter(name string, tags map[string]string)

	// RecordHistogram records a value in a histogram distribution.
	// Use for latencies and sizes.
	RecordHistogram(name string, value float64, tags map[string]string)

	// RecordGauge records a point-in-time measurement.
	RecordGauge(name string, value float64, tags map[string]string)

	// WithTags returns a new Metrics instance with additional default tags.
	WithTags(tags map[string]string) Metrics
}

// Factory creates the concrete logger and metrics implementations.
type Factory interface {
	CreateObservability(cfg *config.Config) (Logger, Metrics, error)
}
