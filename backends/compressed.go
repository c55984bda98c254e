package backends

import (
	"bytes"
	"fmt"
	"io"

	"github.com/pierrec/lz4/v4"
)

// Compressed wraps any Backend and stores lz4 frames instead of raw
// artifacts, under the original key with a ".lz4" suffix. It is meant for
// archival buckets where storage size matters more than direct serving.
type Compressed struct {
	backend Backend
}

// NewCompressed creates a new lz4-compressing wrapper around an existing backend.
func NewCompressed(backend Backend) *Compressed {
	return &Compressed{backend: backend}
}

// Put compresses body and stores it in the wrapped backend.
func (c *Compressed) Put(key string, body io.Reader, bodySize int64) error {
	var buf bytes.Buffer
	zw := lz4.NewWriter(&buf)
	if _, err := io.Copy(zw, body); err != nil {
		return fmt.Errorf("failed to compress %s: %w", key, err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finish lz4 frame for %s: %w", key, err)
	}
	return c.backend.Put(key+".lz4", &buf, int64(buf.Len()))
}

// Clear clears the wrapped backend.
func (c *Compressed) Clear() error {
	return c.backend.Clear()
}

// Close closes the wrapped backend.
func (c *Compressed) Close() error {
	return c.backend.Close()
}

// Decompress reads an lz4 frame written by Compressed.
func Decompress(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(lz4.NewReader(r))
	if err != nil {
		return nil, fmt.Errorf("failed to decompress: %w", err)
	}
	return data, nil
}
