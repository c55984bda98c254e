// Package backends publishes built artifacts to remote storage such as a CDN
// origin bucket.
package backends

import (
	"io"
	"mime"
	"path"
)

// Backend defines the interface for artifact publication backends.
//
// Implementations can be swapped to use different storage mechanisms.
//
// Implementations must be thread-safe and support concurrent operations,
// but the caller (the minifier's dedupe group) normally guarantees that there
// will never be two inflight publications of the same key.
type Backend interface {
	// Put stores an artifact under key, replacing any previous object.
	// key is the artifact path relative to the public root using forward
	// slashes (for example "cache/css/3f2a...9c.css"), body is the content
	// to store, and bodySize is the size in bytes.
	Put(key string, body io.Reader, bodySize int64) error

	// Clear removes all published artifacts.
	Clear() error

	// Close performs any cleanup operations needed by the backend.
	Close() error
}

// contentType returns the MIME type to publish key with.
func contentType(key string) string {
	switch path.Ext(key) {
	case ".css":
		return "text/css; charset=utf-8"
	case ".js":
		return "application/javascript; charset=utf-8"
	case ".gz":
		return contentType(key[:len(key)-len(".gz")])
	}
	if t := mime.TypeByExtension(path.Ext(key)); t != "" {
		return t
	}
	return "application/octet-stream"
}

// contentEncoding returns the Content-Encoding to publish key with.
func contentEncoding(key string) string {
	if path.Ext(key) == ".gz" {
		return "gzip"
	}
	return ""
}
