package backends

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDiskPutAndClear(t *testing.T) {
	dir := t.TempDir()
	d, err := NewDisk(dir)
	if err != nil {
		t.Fatal(err)
	}

	body := "a{b:c}"
	if err := d.Put("cache/css/abc.css", strings.NewReader(body), int64(len(body))); err != nil {
		t.Fatal(err)
	}
	got, err := os.ReadFile(filepath.Join(dir, "cache", "css", "abc.css"))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != body {
		t.Errorf("wrong contents %q", got)
	}

	// keys cannot escape the mirror directory
	if err := d.Put("../../escape.css", strings.NewReader(body), int64(len(body))); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, "escape.css")); err != nil {
		t.Errorf("expected escaping key to be rooted in the mirror: %v", err)
	}

	if err := d.Put("short.css", strings.NewReader(body), 100); err == nil {
		t.Errorf("expected a size mismatch error")
	}

	if err := d.Clear(); err != nil {
		t.Fatal(err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("expected empty mirror, found %d entries", len(entries))
	}
}

func TestCompressedRoundTrip(t *testing.T) {
	dir := t.TempDir()
	d, err := NewDisk(dir)
	if err != nil {
		t.Fatal(err)
	}
	c := NewCompressed(NewDebug(d, slog.New(slog.NewTextHandler(io.Discard, nil))))

	body := strings.Repeat("body{margin:0}", 64)
	if err := c.Put("cache/css/x.css", strings.NewReader(body), int64(len(body))); err != nil {
		t.Fatal(err)
	}

	raw, err := os.ReadFile(filepath.Join(dir, "cache", "css", "x.css.lz4"))
	if err != nil {
		t.Fatal(err)
	}
	if len(raw) >= len(body) {
		t.Errorf("expected compressed object to be smaller: %d >= %d", len(raw), len(body))
	}

	got, err := Decompress(bytes.NewReader(raw))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != body {
		t.Errorf("round trip mismatch")
	}
}

func TestNoop(t *testing.T) {
	n := NewNoop()
	if err := n.Put("a.css", io.LimitReader(strings.NewReader("x"), 1), 1); err != nil {
		t.Fatal(err)
	}
	if err := n.Clear(); err != nil {
		t.Fatal(err)
	}
}

func TestContentType(t *testing.T) {
	tests := []struct {
		key, typ, enc string
	}{
		{"cache/css/a.css", "text/css; charset=utf-8", ""},
		{"cache/js/a.js", "application/javascript; charset=utf-8", ""},
		{"cache/css/a.css.gz", "text/css; charset=utf-8", "gzip"},
		{"cache/css/a.css.unknownext", "application/octet-stream", ""},
	}
	for _, tt := range tests {
		if got := contentType(tt.key); got != tt.typ {
			t.Errorf("contentType(%s) = %s, expected %s", tt.key, got, tt.typ)
		}
		if got := contentEncoding(tt.key); got != tt.enc {
			t.Errorf("contentEncoding(%s) = %s, expected %s", tt.key, got, tt.enc)
		}
	}
}

func TestErrorBackend(t *testing.T) {
	dir := t.TempDir()
	d, err := NewDisk(dir)
	if err != nil {
		t.Fatal(err)
	}

	always := NewError(d, 2.0)
	if err := always.Put("a.css", strings.NewReader("x"), 1); err == nil || !strings.Contains(err.Error(), "simulated") {
		t.Errorf("expected simulated Put error, got %v", err)
	}
	if err := always.Clear(); err == nil {
		t.Errorf("expected simulated Clear error")
	}
	if puts, clears := always.GetStats(); puts != 1 || clears != 1 {
		t.Errorf("GetStats() = %d, %d", puts, clears)
	}

	never := NewError(d, -1)
	if err := never.Put("a.css", strings.NewReader("x"), 1); err != nil {
		t.Errorf("expected Put to pass through: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "a.css")); err != nil {
		t.Errorf("expected published file: %v", err)
	}
}
