package backends

import (
	"fmt"
	"io"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"
)

// Error wraps any Backend and randomly fails publications based on a
// configured percentage. Builds must succeed even when every publication
// fails; the local artifact stays authoritative.
type Error struct {
	backend   Backend
	errorRate float64 // Percentage of operations that should fail (0.0 to 1.0)

	rng   *rand.Rand
	rngMu sync.Mutex // Protects rng access (rand.Rand is not thread-safe)

	putErrors   atomic.Int64
	clearErrors atomic.Int64
}

// NewError creates a new error-injecting wrapper around an existing backend.
// errorRate should be between 0.0 (no errors) and 1.0 (all operations fail).
func NewError(backend Backend, errorRate float64) *Error {
	errorRate = min(max(errorRate, 0.0), 1.0)

	return &Error{
		backend:   backend,
		errorRate: errorRate,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (e *Error) shouldError() bool {
	e.rngMu.Lock()
	defer e.rngMu.Unlock()
	return e.rng.Float64() < e.errorRate
}

// Put publishes an artifact, potentially returning an error. The body is
// drained either way so callers see the same reader state.
func (e *Error) Put(key string, body io.Reader, bodySize int64) error {
	if e.shouldError() {
		e.putErrors.Add(1)
		io.Copy(io.Discard, body)
		return fmt.Errorf("error backend: simulated Put error on %s (error rate: %.2f%%)", key, e.errorRate*100)
	}
	return e.backend.Put(key, body, bodySize)
}

// Clear removes all published artifacts, potentially returning an error.
func (e *Error) Clear() error {
	if e.shouldError() {
		e.clearErrors.Add(1)
		return fmt.Errorf("error backend: simulated Clear error (error rate: %.2f%%)", e.errorRate*100)
	}
	return e.backend.Clear()
}

// Close closes the wrapped backend.
func (e *Error) Close() error {
	return e.backend.Close()
}

// GetStats returns the number of injected errors per operation.
func (e *Error) GetStats() (putErrors, clearErrors int64) {
	return e.putErrors.Load(), e.clearErrors.Load()
}
