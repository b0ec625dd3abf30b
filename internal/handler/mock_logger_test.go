package handler

import (
	"sync"

	"pdf-converter/internal/domain"
)

// MockHandlerLogger records messages for assertions in handler tests
type MockHandlerLogger struct {
	mu       *sync.Mutex
	messages *[]string
}

func NewMockHandlerLogger() *MockHandlerLogger {
	return &MockHandlerLogger{mu: &sync.Mutex{}, messages: &[]string{}}
}

func (m *MockHandlerLogger) record(line string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	*m.messages = append(*m.messages, line)
}

func (m *MockHandlerLogger) Messages() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), *m.messages...)
}

func (m *MockHandlerLogger) Info(msg string, fields ...interface{})  { m.record("INFO: " + msg) }
func (m *MockHandlerLogger) Debug(msg string, fields ...interface{}) { m.record("DEBUG: " + msg) }
func (m *MockHandlerLogger) Warn(msg string, fields ...interface{})  { m.record("WARN: " + msg) }

func (m *MockHandlerLogger) Error(msg string, err error, fields ...interface{}) {
	line := "ERROR: " + msg
	if err != nil {
		line += " - " + err.Error()
	}
	m.record(line)
}

// With shares the message log so child loggers are visible to the test
func (m *MockHandlerLogger) With(fields ...interface{}) domain.Logger {
	return m
}
