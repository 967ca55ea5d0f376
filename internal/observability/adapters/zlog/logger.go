// Package zlog implements the observability.Logger port on top of
// rs/zerolog.
package zlog

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/BrianKoge/Ubuntu-Requests/internal/observability"
)

// Logger wraps a zerolog.Logger behind the observability.Logger port.
type Logger struct {
	zl zerolog.Logger
}

// New creates a logger writing to stderr with the given level and format.
// Format "text" uses zerolog's console writer; anything else emits JSON.
func New(level, format string) observability.Logger {
	return NewWithWriter(os.Stderr, level, format)
}

// NewWithWriter creates a logger writing to w. Tests pass io.Discard.
func NewWithWriter(w io.Writer, level, format string) observability.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = zerolog.InfoLevel
	}

	if format == "text" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
	}

	zl := zerolog.New(w).Level(lvl).With().Timestamp().Logger()
	return &Logger{zl: zl}
}

func (l *Logger) Info(msg string, fields ...interface{}) {
	l.emit(l.zl.Info(), msg, fields)
}

func (l *Logger) Warn(msg string, fields ...interface{}) {
	l.emit(l.zl.Warn(), msg, fields)
}

func (l *Logger) Error(msg string, fields ...interface{}) {
	l.emit(l.zl.Error(), msg, fields)
}

// WithFields returns a new Logger with additional persistent fields
func (l *Logger) WithFields(fields map[string]interface{}) observability.Logger {
	zctx := l.zl.With()
	for k, v := range fields {
		zctx = zctx.Interface(k, v)
	}
	return &Logger{zl: zctx.Logger()}
}

// emit applies variadic key-value pairs to a zerolog event. Keys that are
// not strings are skipped; a trailing dangling value is ignored.
func (l *Logger) emit(event *zerolog.Event, msg string, fields []interface{}) {
	for i := 0; i+1 < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			continue
		}
		if err, ok := fields[i+1].(error); ok && key == "error" {
			event = event.Err(err)
			continue
		}
		event = event.Interface(key, fields[i+1])
	}
	event.Msg(msg)
}
