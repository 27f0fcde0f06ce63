// package lyrics normalizes lyrics from multiple upstream sources
package lyrics

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Lualttt/Pipe-Bomb-Server/internal/models"
	"github.com/Lualttt/Pipe-Bomb-Server/internal/shared"
)

// Source produces normalized lyrics for a canonical track.
type Source interface {
	// Name identifies the source; it becomes the Provider field on results.
	Name() string

	// Get fetches and normalizes lyrics for the track. Definitive absence is
	// reported as [shared.ErrLyricsNotFound].
	Get(ctx context.Context, track *models.Track) (*models.Lyrics, error)
}

// Registry holds lyrics sources in registration order. Lookup tries them in
// that order, so the caller decides source priority by registering the
// preferred source first.
type Registry struct {
	mu      sync.RWMutex
	sources map[string]Source
	order   []string
}

// NewRegistry creates an empty source registry.
func NewRegistry() *Registry {
	return &Registry{sources: make(map[string]Source)}
}

// Register adds a source under its Name, replacing any previous registration.
func (r *Registry) Register(src Source) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := src.Name()
	if _, ok := r.sources[name]; !ok {
		r.order = append(r.order, name)
	}
	r.sources[name] = src
}

// Get returns the source registered under name.
func (r *Registry) Get(name string) (Source, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	src, ok := r.sources[name]
	if !ok {
		return nil, fmt.Errorf("%w: no lyrics source named %q", shared.ErrServiceUnavailable, name)
	}
	return src, nil
}

// Names lists registered source names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// CacheSize sums cached lyric sets across every source that reports one.
func (r *Registry) CacheSize() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	total := 0
	for _, name := range r.order {
		if reporter, ok := r.sources[name].(interface{ CacheSize() int }); ok {
			total += reporter.CacheSize()
		}
	}
	return total
}

func (r *Registry) ordered() []Source {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sources := make([]Source, 0, len(r.order))
	for _, name := range r.order {
		sources = append(sources, r.sources[name])
	}
	return sources
}

// Lookup tries each source in registration order and returns the first
// result. Sources that have no lyrics for the track, or are disabled by
// configuration, are skipped; when every source comes up empty the caller
// gets not-found. A genuine upstream failure is preferred over not-found so
// it isn't silently swallowed by a fallback miss.
func (r *Registry) Lookup(ctx context.Context, track *models.Track) (*models.Lyrics, error) {
	sources := r.ordered()
	if len(sources) == 0 {
		return nil, fmt.Errorf("%w: no lyrics sources registered", shared.ErrServiceUnavailable)
	}

	var failure error
	for _, src := range sources {
		lyr, err := src.Get(ctx, track)
		if err == nil {
			return lyr, nil
		}
		if skippable(err) {
			continue
		}
		if failure == nil {
			failure = err
		}
	}

	if failure != nil {
		return nil, failure
	}
	return nil, fmt.Errorf("%w: no source has lyrics for %s", shared.ErrLyricsNotFound, track.TrackID)
}

// skippable reports whether a source error means "move on to the next source"
// rather than "the lookup is broken".
func skippable(err error) bool {
	return errors.Is(err, shared.ErrLyricsNotFound) ||
		errors.Is(err, shared.ErrTrackNotFound) ||
		errors.Is(err, shared.ErrServiceUnavailable)
}
