package storage

import (
	"errors"
	"fmt"
)

var (
	// ErrObjectNotFound is returned by Get for a missing key.
	ErrObjectNotFound = errors.New("object not found")
)

func ErrWriteObject(key string, err error) error {
	return fmt.Errorf("failed to write object %q: %w", key, err)
}

func ErrReadObject(key string, err error) error {
	return fmt.Errorf("failed to read object %q: %w", key, err)
}
