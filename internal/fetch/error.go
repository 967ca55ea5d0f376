package fetch

import "fmt"

func ErrRequestCreation(err error) error {
	return fmt.Errorf("failed to create HTTP request: %w", err)
}

func ErrTransport(err error) error {
	return fmt.Errorf("HTTP request failed: %w", err)
}
