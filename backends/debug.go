package backends

import (
	"io"
	"log/slog"
	"time"
)

// Debug wraps any Backend and adds debug logging.
// This allows any backend implementation to have debug logging without
// coupling the debug logic to the backend implementation.
type Debug struct {
	backend Backend
	logger  *slog.Logger
}

// NewDebug creates a new debug wrapper around an existing backend.
func NewDebug(backend Backend, logger *slog.Logger) *Debug {
	return &Debug{
		backend: backend,
		logger:  logger,
	}
}

// Put publishes an artifact with debug logging.
func (d *Debug) Put(key string, body io.Reader, bodySize int64) error {
	d.logger.Debug("backend: put", "key", key, "size", bodySize)

	start := time.Now()
	err := d.backend.Put(key, body, bodySize)
	duration := time.Since(start)

	if err != nil {
		d.logger.Debug("backend: put failed", "key", key, "error", err, "duration", duration)
		return err
	}

	d.logger.Debug("backend: put done", "key", key, "duration", duration)
	return nil
}

// Close performs cleanup operations with debug logging.
func (d *Debug) Close() error {
	start := time.Now()
	err := d.backend.Close()
	d.logger.Debug("backend: close", "error", err, "duration", time.Since(start))
	return err
}

// Clear removes all published artifacts with debug logging.
func (d *Debug) Clear() error {
	d.logger.Debug("backend: clearing")

	start := time.Now()
	err := d.backend.Clear()
	duration := time.Since(start)

	if err != nil {
		d.logger.Debug("backend: clear failed", "error", err, "duration", duration)
		return err
	}

	d.logger.Debug("backend: cleared", "duration", duration)
	return nil
}
