// Package fixture resolves the input documents conformance cases are
// evaluated against.
package fixture

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// Fixture is one parsed input document, keyed by filename. Immutable once
// loaded.
type Fixture struct {
	Name string
	Doc  any
}

// Resolver looks fixtures up by filename under a fixed input directory,
// caching parsed documents. The cache is guarded so the resolver stays safe
// if cases are ever executed concurrently.
type Resolver struct {
	dir string
	log *slog.Logger

	mu    sync.RWMutex
	cache map[string]*Fixture
}

// NewResolver creates a Resolver over dir. A nil logger defaults to
// slog.Default.
func NewResolver(dir string, log *slog.Logger) *Resolver {
	if log == nil {
		log = slog.Default()
	}
	return &Resolver{
		dir:   dir,
		log:   log,
		cache: make(map[string]*Fixture),
	}
}

// Resolve returns the fixture for name, or ok=false when it is unavailable.
// Unavailability is not a fault: callers skip the dependent case. A missing
// file and a malformed one both resolve to ok=false but are logged
// distinguishably.
func (r *Resolver) Resolve(name string) (*Fixture, bool) {
	if name == "" {
		return nil, false
	}

	r.mu.RLock()
	fx, hit := r.cache[name]
	r.mu.RUnlock()
	if hit {
		return fx, true
	}

	path := filepath.Join(r.dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			r.log.Warn("fixture file not found", "file", name)
		} else {
			r.log.Warn("failed to read fixture file", "file", name, "err", err)
		}
		return nil, false
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		r.log.Warn("failed to parse fixture file", "file", name, "err", err)
		return nil, false
	}

	fx = &Fixture{Name: name, Doc: doc}
	r.mu.Lock()
	r.cache[name] = fx
	r.mu.Unlock()
	return fx, true
}
