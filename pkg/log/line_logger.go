package log

import (
	"io"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// LineLogger writes each record line followed by a newline to a writer.
// It is safe for concurrent use.
type LineLogger struct {
	mu     sync.Mutex
	w      io.Writer
	closer io.Closer
	closed bool
}

// NewLineLogger creates a LineLogger over w. Close closes w when it is an
// io.Closer.
func NewLineLogger(w io.Writer) *LineLogger {
	l := &LineLogger{w: w}
	if c, ok := w.(io.Closer); ok {
		l.closer = c
	}
	return l
}

// RotationConfig configures a size-rotated log file.
type RotationConfig struct {
	// Filename is the file to write to. Backups use the same directory.
	Filename string
	// MaxSize in megabytes before the file is rotated.
	MaxSize int
	// MaxBackups is the number of rotated files kept. Zero keeps all.
	MaxBackups int
	// MaxAge in days rotated files are kept. Zero keeps all.
	MaxAge int
	// Compress rotated files with gzip.
	Compress bool
}

// NewRotatingLogger creates a LineLogger writing to a size-rotated file.
func NewRotatingLogger(cfg RotationConfig) *LineLogger {
	return NewLineLogger(&lumberjack.Logger{
		Filename:   cfg.Filename,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   cfg.Compress,
	})
}

// Log writes the record line. Records logged after Close are dropped.
func (l *LineLogger) Log(rec Record) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return
	}
	_, _ = io.WriteString(l.w, rec.Line+"\n")
}

// Close closes the underlying writer if it is closable.
// It is safe to call Close multiple times.
func (l *LineLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}
	l.closed = true
	if l.closer != nil {
		return l.closer.Close()
	}
	return nil
}

// Compile-time interface satisfaction check.
var _ Logger = (*LineLogger)(nil)
