package main

import (
	"fmt"
	"os"
	"path"
	"strings"
	"sync"

	"github.com/richardartoul/assetmin/backends"
	"github.com/richardartoul/assetmin/filestore"
	"github.com/richardartoul/assetmin/minifier"
)

// Assets routes requests to the stylesheet or script minifier and records
// build statistics.
type Assets struct {
	store   filestore.Store
	cfg     minifier.Config
	backend backends.Backend
	stats   *Stats

	mu    sync.Mutex
	hosts map[string]*minifierPair
}

// minifierPair holds the minifiers sharing one host tag.
type minifierPair struct {
	css *minifier.Minifier
	js  *minifier.Minifier
}

// NewAssets creates the minifiers for every asset type over one store.
func NewAssets(store filestore.Store, cfg minifier.Config) *Assets {
	backend := cfg.Publisher
	if backend == nil {
		backend = backends.NewNoop()
	}
	a := &Assets{
		store:   store,
		cfg:     cfg,
		backend: backend,
		stats:   NewStats(),
		hosts:   make(map[string]*minifierPair),
	}
	a.forHost("")
	return a
}

// forHost returns the minifiers for host, creating them on first use. An
// empty host means the configured default.
func (a *Assets) forHost(host string) *minifierPair {
	a.mu.Lock()
	defer a.mu.Unlock()

	if pair, ok := a.hosts[host]; ok {
		return pair
	}
	cfg := a.cfg
	if host != "" {
		cfg.Host = host
	}
	pair := &minifierPair{
		css: minifier.NewStylesheet(a.store, cfg),
		js:  minifier.NewScript(a.store, cfg),
	}
	a.hosts[host] = pair
	return pair
}

// Minify builds the artifact of type typ ("css" or "js") for resources.
// A non-empty host overrides the configured host tag for this request.
func (a *Assets) Minify(typ, host string, resources []string) (*minifier.Artifact, error) {
	m, err := a.minifierFor(typ, host)
	if err != nil {
		a.stats.RecordError()
		return nil, err
	}

	artifact, err := m.Minify(resources)
	if err != nil {
		a.stats.RecordError()
		return nil, err
	}

	var size int64
	if artifact.Rebuilt {
		if info, err := os.Stat(artifact.Path); err == nil {
			size = info.Size()
		}
	}
	a.stats.Record(artifact.Rebuilt, artifact.Duration, size)
	return artifact, nil
}

// Clear removes the cached artifacts of every asset type. All hosts share
// the cache directories, so clearing the default minifiers clears them all.
func (a *Assets) Clear() error {
	pair := a.forHost("")
	if err := pair.css.ClearCache(); err != nil {
		return err
	}
	return pair.js.ClearCache()
}

// Close releases the publication backend.
func (a *Assets) Close() error {
	return a.backend.Close()
}

func (a *Assets) minifierFor(typ, host string) (*minifier.Minifier, error) {
	switch strings.ToLower(strings.TrimPrefix(typ, ".")) {
	case "css":
		return a.forHost(host).css, nil
	case "js":
		return a.forHost(host).js, nil
	default:
		return nil, fmt.Errorf("unknown asset type: %q (supported: css, js)", typ)
	}
}

// typeFromName guesses the asset type from a resource name.
func typeFromName(name string) string {
	return strings.TrimPrefix(path.Ext(name), ".")
}
