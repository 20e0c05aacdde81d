package log

// Logger receives formatted packet records.
// Pass nil or NoopLogger to disable logging.
type Logger interface {
	// Log writes a record. Implementations must be thread-safe and must
	// not block the caller for long; broker goroutines call Log inline.
	Log(rec Record)
}

// NoopLogger discards all records.
// NoopLogger is safe for concurrent use and usable as a zero value.
type NoopLogger struct{}

// Log discards the record.
func (NoopLogger) Log(Record) {}

// Compile-time interface satisfaction check.
var _ Logger = NoopLogger{}
