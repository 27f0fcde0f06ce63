package resolver

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/Lualttt/Pipe-Bomb-Server/internal/cache"
	"github.com/Lualttt/Pipe-Bomb-Server/internal/models"
	"github.com/Lualttt/Pipe-Bomb-Server/internal/services"
	"github.com/Lualttt/Pipe-Bomb-Server/internal/shared"
	"github.com/charmbracelet/log"
)

// defaultTTL bounds how long resolution outcomes stay cached when the
// configuration provides no value.
const defaultTTL = time.Hour

// Searcher finds candidate tracks on the alternative provider.
type Searcher interface {
	SearchTracks(ctx context.Context, query string) ([]services.SpotifyTrack, error)
}

// Gate blocks until provider credentials are usable. It must fail fast with
// [shared.ErrServiceUnavailable] when the provider is not configured at all.
type Gate interface {
	Ready(ctx context.Context) error
}

// Journal persists resolution outcomes for audit. Satisfied by the
// resolutions repository; may be nil when no database is configured.
type Journal interface {
	Create(ctx context.Context, res *models.Resolution) error
}

// Resolver maps canonical tracks and free-text queries to their Spotify
// counterparts. Every outcome, hit or miss, is cached for the configured TTL
// so repeat lookups within the window never touch the network.
type Resolver struct {
	searcher Searcher
	gate     Gate
	journal  Journal
	cache    *cache.Store[*services.SpotifyTrack]
	ttl      time.Duration
	logger   *log.Logger
}

// New creates a resolver. journal may be nil, in which case outcomes are not
// recorded. A non-positive ttl falls back to one hour.
func New(searcher Searcher, gate Gate, journal Journal, ttl time.Duration, logger *log.Logger) *Resolver {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &Resolver{
		searcher: searcher,
		gate:     gate,
		journal:  journal,
		cache:    cache.New[*services.SpotifyTrack](),
		ttl:      ttl,
		logger:   logger,
	}
}

// Resolve finds the Spotify counterpart of a canonical track by searching for
// "{title} - {artists}" and taking the first candidate within the duration
// tolerance. The outcome is cached under the canonical ID: a repeat lookup
// within the TTL returns the identical value for a hit and the same not-found
// error for a miss.
//
// Credential readiness is checked before any network call, so an unconfigured
// provider surfaces as [shared.ErrServiceUnavailable] immediately.
func (r *Resolver) Resolve(ctx context.Context, track *models.Track) (*services.SpotifyTrack, error) {
	if track == nil || track.TrackID == "" {
		return nil, fmt.Errorf("%w: missing track", shared.ErrInvalidInput)
	}

	key := track.TrackID
	if entry, ok := r.cache.Get(key); ok {
		return cached(key, entry)
	}

	if err := r.gate.Ready(ctx); err != nil {
		return nil, err
	}

	query := track.SearchQuery()
	candidates, err := r.searcher.SearchTracks(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search failed for track %s: %w", key, err)
	}

	match, ok := MatchDuration(track.Metadata.Duration, candidates)

	var delta float64
	if ok {
		delta = math.Abs(match.Duration() - track.Metadata.Duration)
	}
	r.store(ctx, key, query, delta, match, ok)

	if !ok {
		r.logger.Debug("no duration match", "track", key, "candidates", len(candidates))
		return nil, fmt.Errorf("%w: no spotify match for %s", shared.ErrTrackNotFound, key)
	}

	return match, nil
}

// ResolveQuery resolves a free-text query instead of a canonical track. With
// no canonical duration to compare against, the first search result wins.
// The outcome is cached under the raw query string.
func (r *Resolver) ResolveQuery(ctx context.Context, query string) (*services.SpotifyTrack, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: empty query", shared.ErrInvalidInput)
	}

	if entry, ok := r.cache.Get(query); ok {
		return cached(query, entry)
	}

	if err := r.gate.Ready(ctx); err != nil {
		return nil, err
	}

	candidates, err := r.searcher.SearchTracks(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search failed for query %q: %w", query, err)
	}

	var match *services.SpotifyTrack
	ok := len(candidates) > 0
	if ok {
		match = &candidates[0]
	}
	r.store(ctx, query, query, 0, match, ok)

	if !ok {
		return nil, fmt.Errorf("%w: no spotify match for %q", shared.ErrTrackNotFound, query)
	}

	return match, nil
}

// CacheSize reports how many outcomes are currently cached.
func (r *Resolver) CacheSize() int {
	return r.cache.Len()
}

// Flush drops every cached outcome.
func (r *Resolver) Flush() {
	r.cache.Flush()
}

// cached translates a cache entry back into the resolve result it recorded.
func cached(key string, entry cache.Entry[*services.SpotifyTrack]) (*services.SpotifyTrack, error) {
	if !entry.OK {
		return nil, fmt.Errorf("%w: no spotify match for %s", shared.ErrTrackNotFound, key)
	}
	return entry.Value, nil
}

// store caches the outcome and appends it to the journal. Journal failures
// never fail the resolution.
func (r *Resolver) store(ctx context.Context, key, query string, delta float64, match *services.SpotifyTrack, ok bool) {
	if ok {
		r.cache.Put(key, match, r.ttl)
	} else {
		r.cache.PutMiss(key, r.ttl)
	}

	if r.journal == nil {
		return
	}

	res := models.NewResolution(key, query)
	if ok {
		res.RecordMatch(match.ID, match.Name, delta)
	}
	if err := r.journal.Create(ctx, res); err != nil {
		r.logger.Debug("journal write failed", "key", key, "error", err)
	}
}
