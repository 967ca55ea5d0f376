// Package registry tracks the SHA-256 digests of images already accepted,
// so identical content is downloaded at most once. With an index file the
// set survives across runs; without one it lives for the process only.
package registry

import (
	"bufio"
	"fmt"
	"os"
	"sync"
)

// HashRegistry is a set of hex digests with optional append-only
// persistence.
type HashRegistry struct {
	mu   sync.RWMutex
	seen map[string]struct{}

	index *os.File // nil when persistence is disabled
}

// New creates an in-memory registry with no persistence.
func New() *HashRegistry {
	return &HashRegistry{seen: make(map[string]struct{})}
}

// Open creates a registry backed by an index file: one hex digest per
// line. Existing entries are loaded; new ones are appended as they are
// accepted. The file is created if missing.
func Open(indexPath string) (*HashRegistry, error) {
	file, err := os.OpenFile(indexPath, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open hash index: %w", err)
	}

	seen := make(map[string]struct{})
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if line != "" {
			seen[line] = struct{}{}
		}
	}
	if err := scanner.Err(); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to read hash index: %w", err)
	}

	return &HashRegistry{seen: seen, index: file}, nil
}

// Contains reports whether a digest has been seen before.
func (r *HashRegistry) Contains(digest string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.seen[digest]
	return ok
}

// Add records a digest, appending it to the index file when one is open.
// The in-memory set is updated even if the append fails.
func (r *HashRegistry) Add(digest string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.seen[digest]; ok {
		return nil
	}
	r.seen[digest] = struct{}{}

	if r.index == nil {
		return nil
	}
	if _, err := fmt.Fprintln(r.index, digest); err != nil {
		return fmt.Errorf("failed to append to hash index: %w", err)
	}
	return nil
}

// Len returns the number of known digests
func (r *HashRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.seen)
}

// Close releases the index file, if any.
func (r *HashRegistry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.index == nil {
		return nil
	}
	err := r.index.Close()
	r.index = nil
	return err
}
