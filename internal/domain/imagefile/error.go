package imagefile

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyContent = errors.New("image content cannot be empty")
	ErrEmptyURL     = errors.New("image URL cannot be empty")
	ErrSizeExceeded = errors.New("content size exceeds the configured limit")
)

func ErrReadContent(err error) error {
	return fmt.Errorf("failed to read content: %w", err)
}
