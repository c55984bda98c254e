package backends

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
)

// Disk implements Backend by mirroring artifacts into a local directory,
// typically a volume shared with a static file server.
type Disk struct {
	baseDir string
}

// NewDisk creates a new disk-based publication backend.
// baseDir is the directory where artifacts will be mirrored.
func NewDisk(baseDir string) (*Disk, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create publish directory: %w", err)
	}

	return &Disk{
		baseDir: baseDir,
	}, nil
}

// Put stores an artifact in the mirror directory.
func (d *Disk) Put(key string, body io.Reader, bodySize int64) error {
	diskPath := d.keyToPath(key)
	if err := os.MkdirAll(filepath.Dir(diskPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	// Write to a temp file first so readers never see a partial artifact
	tmpFile, err := os.CreateTemp(filepath.Dir(diskPath), ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)

	written, err := io.Copy(tmpFile, body)
	closeErr := tmpFile.Close()
	if err != nil {
		return fmt.Errorf("failed to write artifact: %w", err)
	}
	if closeErr != nil {
		return fmt.Errorf("failed to close temp file: %w", closeErr)
	}
	if written != bodySize {
		return fmt.Errorf("size mismatch: expected %d, wrote %d", bodySize, written)
	}

	if err := os.Rename(tmpPath, diskPath); err != nil {
		return fmt.Errorf("failed to rename artifact: %w", err)
	}
	return nil
}

// Close performs cleanup operations.
func (d *Disk) Close() error {
	// No cleanup needed for disk backend
	return nil
}

// Clear removes all entries from the mirror directory.
func (d *Disk) Clear() error {
	entries, err := os.ReadDir(d.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			// Directory doesn't exist, nothing to clear
			return nil
		}
		return fmt.Errorf("failed to read publish directory: %w", err)
	}

	for _, entry := range entries {
		p := filepath.Join(d.baseDir, entry.Name())
		if err := os.RemoveAll(p); err != nil {
			return fmt.Errorf("failed to remove %s: %w", p, err)
		}
	}

	return nil
}

// keyToPath converts a key to a file path below baseDir.
func (d *Disk) keyToPath(key string) string {
	return filepath.Join(d.baseDir, filepath.FromSlash(path.Clean("/"+key)))
}
