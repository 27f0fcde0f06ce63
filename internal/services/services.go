// package services defines interface Service for interacting with HTTP APIs
//
// Streaming proxy (canonical IDs), Spotify
package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/Lualttt/Pipe-Bomb-Server/internal/models"
	"github.com/Lualttt/Pipe-Bomb-Server/internal/shared"
)

// Service defines the interface for track catalog providers (the streaming
// proxy, Spotify) that can look up tracks by ID and search their catalogs.
type Service interface {
	// Name returns the registry identifier for the provider. It doubles as
	// the prefix of qualified track IDs (e.g. "spotify" in "spotify:abc123").
	Name() string

	// GetTrack retrieves a single track by its provider-local ID.
	GetTrack(ctx context.Context, trackID string) (*models.Track, error)

	// Search queries the provider catalog and returns matching tracks in the
	// provider's rank order.
	Search(ctx context.Context, query string) ([]models.Track, error)
}

// Registry routes track IDs to registered services. A track ID may carry a
// "service:" prefix naming its owner; IDs without a recognized prefix belong
// to the default service, which receives them unchanged.
type Registry struct {
	mu       sync.RWMutex
	services map[string]Service
	order    []string
	fallback string
}

// NewRegistry creates an empty service registry.
func NewRegistry() *Registry {
	return &Registry{services: make(map[string]Service)}
}

// Register adds a service under its Name, replacing any previous registration.
// The first service registered becomes the default for unqualified track IDs.
func (r *Registry) Register(svc Service) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := svc.Name()
	if _, ok := r.services[name]; !ok {
		r.order = append(r.order, name)
	}
	r.services[name] = svc
	if r.fallback == "" {
		r.fallback = name
	}
}

// SetDefault overrides which service receives unqualified track IDs.
func (r *Registry) SetDefault(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.services[name]; !ok {
		return fmt.Errorf("%w: no service named %q", shared.ErrServiceUnavailable, name)
	}
	r.fallback = name
	return nil
}

// Get returns the service registered under name.
func (r *Registry) Get(name string) (Service, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	svc, ok := r.services[name]
	if !ok {
		return nil, fmt.Errorf("%w: no service named %q", shared.ErrServiceUnavailable, name)
	}
	return svc, nil
}

// Default returns the service that owns unqualified track IDs.
func (r *Registry) Default() (Service, error) {
	r.mu.RLock()
	name := r.fallback
	r.mu.RUnlock()

	if name == "" {
		return nil, fmt.Errorf("%w: no services registered", shared.ErrServiceUnavailable)
	}
	return r.Get(name)
}

// Names lists registered service names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// Route resolves a possibly qualified track ID to its owning service and the
// ID that service understands. An unknown prefix is treated as part of the ID
// and routed to the default service, since canonical IDs use their own
// prefixing scheme.
func (r *Registry) Route(id string) (Service, string, error) {
	if id == "" {
		return nil, "", fmt.Errorf("%w: empty track ID", shared.ErrInvalidInput)
	}

	if name, local, ok := strings.Cut(id, ":"); ok && local != "" {
		if svc, err := r.Get(name); err == nil {
			return svc, local, nil
		}
	}

	svc, err := r.Default()
	if err != nil {
		return nil, "", err
	}
	return svc, id, nil
}

// Fetch routes a track ID and retrieves the track from its owner.
func (r *Registry) Fetch(ctx context.Context, id string) (*models.Track, error) {
	svc, local, err := r.Route(id)
	if err != nil {
		return nil, err
	}
	return svc.GetTrack(ctx, local)
}
