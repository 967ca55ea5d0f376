package mocks

import (
	"github.com/stretchr/testify/mock"

	"github.com/BrianKoge/Ubuntu-Requests/internal/observability"
)

// MockLogger is a testify mock for observability.Logger
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Info(msg string, fields ...interface{}) {
	m.Called(msg, fields)
}

func (m *MockLogger) Warn(msg string, fields ...interface{}) {
	m.Called(msg, fields)
}

func (m *MockLogger) Error(msg string, fields ...interface{}) {
	m.Called(msg, fields)
}

func (m *MockLogger) WithFields(fields map[string]interface{}) observability.Logger {
	args := m.Called(fields)
	if logger, ok := args.Get(0).(observability.Logger); ok {
		return logger
	}
	return m
}

// NopLogger discards everything. Handy when a test only needs the seam.
type NopLogger struct{}

func (NopLogger) Info(string, ...interface{})  {}
func (NopLogger) Warn(string, ...interface{})  {}
func (NopLogger) Error(string, ...interface{}) {}
func (n NopLogger) WithFields(map[string]interface{}) observability.Logger {
	return n
}
