// Package log provides the debug logger used across lazychanges. Messages
// are buffered in memory until a log file is configured, then flushed, so
// early startup logging is never lost.
package log

import (
	"log"
	"os"
	"sync"
)

// debugWriter implements io.Writer so it can back a standard log.Logger.
// It writes to the configured file, buffers while no file is set, or
// discards everything once logging is disabled.
type debugWriter struct {
	mu      sync.Mutex
	file    *os.File
	buffer  []byte
	discard bool
}

var (
	writer    = &debugWriter{}
	stdLogger = log.New(writer, "", log.LstdFlags|log.Lmicroseconds)
)

// Write implements io.Writer.
func (w *debugWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.discard {
		return len(p), nil
	}
	if w.file != nil {
		n, err := w.file.Write(p)
		// Flush immediately so a crashing TUI still leaves the tail behind.
		_ = w.file.Sync()
		return n, err
	}

	// The caller may reuse p, so keep a copy.
	w.buffer = append(w.buffer, append([]byte(nil), p...)...)
	return len(p), nil
}

// SetFile points the logger at path, creating the file if needed and
// flushing anything buffered so far. An empty path disables logging and
// drops the buffer.
func SetFile(path string) error {
	writer.mu.Lock()
	defer writer.mu.Unlock()

	if writer.file != nil {
		_ = writer.file.Close()
		writer.file = nil
	}

	if path == "" {
		writer.discard = true
		writer.buffer = nil
		return nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600) //nolint:gosec
	if err != nil {
		writer.discard = true
		writer.buffer = nil
		return err
	}

	writer.file = f
	writer.discard = false
	if len(writer.buffer) > 0 {
		_, _ = f.Write(writer.buffer)
		_ = f.Sync()
		writer.buffer = nil
	}
	return nil
}

// Printf writes a formatted debug message.
func Printf(format string, args ...any) {
	stdLogger.Printf(format, args...)
}

// Println writes a debug message.
func Println(v ...any) {
	stdLogger.Println(v...)
}

// Close closes the debug log file if one is open.
func Close() error {
	writer.mu.Lock()
	defer writer.mu.Unlock()

	if writer.file == nil {
		return nil
	}
	err := writer.file.Close()
	writer.file = nil
	return err
}
