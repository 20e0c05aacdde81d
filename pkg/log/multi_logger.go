package log

import (
	"errors"
	"io"
	"sync"
)

// MultiLogger sends records to multiple loggers.
// Typical use is console output via LineLogger plus a CBOR capture file.
type MultiLogger struct {
	mu      sync.RWMutex
	loggers []Logger
}

// NewMultiLogger creates a MultiLogger that sends records to all provided
// loggers. Nil loggers are skipped.
func NewMultiLogger(loggers ...Logger) *MultiLogger {
	m := &MultiLogger{loggers: make([]Logger, 0, len(loggers))}
	for _, l := range loggers {
		if l != nil {
			m.loggers = append(m.loggers, l)
		}
	}
	return m
}

// Add appends a logger. Sinks that can only start once the broker is
// serving, such as an MQTTLogger pointed at it, are added this way.
func (m *MultiLogger) Add(l Logger) {
	if l == nil {
		return
	}
	m.mu.Lock()
	m.loggers = append(m.loggers, l)
	m.mu.Unlock()
}

// Len returns the number of loggers.
func (m *MultiLogger) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.loggers)
}

// Log sends the record to all configured loggers.
func (m *MultiLogger) Log(rec Record) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, l := range m.loggers {
		l.Log(rec)
	}
}

// Close closes every logger that implements io.Closer and joins the errors.
func (m *MultiLogger) Close() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var errs []error
	for _, l := range m.loggers {
		if c, ok := l.(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// Compile-time interface satisfaction check.
var _ Logger = (*MultiLogger)(nil)
