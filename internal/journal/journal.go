// Package journal appends one plain-text line per download outcome to the
// run log and mirrors it to standard output. The file is append-only;
// nothing ever rewrites or rotates it.
package journal

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/BrianKoge/Ubuntu-Requests/internal/domain/model"
)

// Journal writes outcome lines to a log file and a mirror writer.
type Journal struct {
	mu     sync.Mutex
	file   *os.File
	mirror io.Writer
}

// Open opens (or creates) the log file for appending. Pass os.Stdout as
// the mirror for interactive runs, io.Discard in tests.
func Open(path string, mirror io.Writer) (*Journal, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	if mirror == nil {
		mirror = io.Discard
	}
	return &Journal{file: file, mirror: mirror}, nil
}

// Record appends one line for a result.
func (j *Journal) Record(r model.Result) error {
	line := formatLine(r)

	j.mu.Lock()
	defer j.mu.Unlock()

	if _, err := fmt.Fprintln(j.file, line); err != nil {
		return fmt.Errorf("failed to append log entry: %w", err)
	}
	fmt.Fprintln(j.mirror, line)
	return nil
}

// Close releases the log file.
func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.file.Close()
}

// formatLine renders: timestamp, outcome, URL, then optional detail and
// an insecure-scheme marker, tab separated.
func formatLine(r model.Result) string {
	ts := r.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	parts := []string{
		ts.Format(time.RFC3339),
		r.Outcome.String(),
		r.URL,
	}
	if detail := r.Detail(); detail != "" {
		parts = append(parts, detail)
	}
	if r.InsecureScheme {
		parts = append(parts, "insecure_scheme")
	}
	return strings.Join(parts, "\t")
}
