package tasks

import (
	"context"
	"fmt"
	"math"

	"github.com/Lualttt/Pipe-Bomb-Server/internal/models"
	"github.com/Lualttt/Pipe-Bomb-Server/internal/services"
	"github.com/Lualttt/Pipe-Bomb-Server/internal/shared"
)

// LyricsRunResult bundles a lyrics lookup with the canonical track it served.
type LyricsRunResult struct {
	Track  *models.Track  // Canonical track from the service registry
	Lyrics *models.Lyrics // Normalized lyrics from the first source that had them
}

// ResolveRunResult bundles a resolution with the canonical track it served.
type ResolveRunResult struct {
	Track *models.Track          // Canonical track from the service registry
	Match *services.SpotifyTrack // Accepted Spotify counterpart
	Delta float64                // Absolute duration difference in seconds
}

// LyricsEngine defines the aggregation operations behind the CLI and TUI.
type LyricsEngine interface {
	// Lyrics fetches the canonical track, then walks the lyrics sources for it.
	Lyrics(ctx context.Context, progress chan<- ProgressUpdate, trackID string) (*LyricsRunResult, error)

	// Resolve fetches the canonical track, then resolves its Spotify counterpart.
	Resolve(ctx context.Context, progress chan<- ProgressUpdate, trackID string) (*ResolveRunResult, error)

	// Warm resolves many track IDs concurrently to pre-populate the caches.
	Warm(ctx context.Context, progress chan<- ProgressUpdate, ids []string, opts WarmOpts) (*WarmResult, error)
}

// TrackDirectory fetches canonical tracks by possibly qualified id.
// Satisfied by [services.Registry].
type TrackDirectory interface {
	Fetch(ctx context.Context, id string) (*models.Track, error)
}

// Resolver maps canonical tracks to their Spotify counterparts.
type Resolver interface {
	Resolve(ctx context.Context, track *models.Track) (*services.SpotifyTrack, error)
}

// LyricsLookup walks the registered lyrics sources for a canonical track.
type LyricsLookup interface {
	Lookup(ctx context.Context, track *models.Track) (*models.Lyrics, error)
}

// TrackEngine implements LyricsEngine over the service registry, the
// cross-service resolver, and the lyrics source registry.
type TrackEngine struct {
	directory TrackDirectory
	resolver  Resolver
	lyrics    LyricsLookup
}

// NewTrackEngine creates a new TrackEngine with the provided collaborators.
func NewTrackEngine(directory TrackDirectory, resolver Resolver, lyrics LyricsLookup) *TrackEngine {
	return &TrackEngine{
		directory: directory,
		resolver:  resolver,
		lyrics:    lyrics,
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *TrackEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}

// Lyrics fetches the canonical track and walks the lyrics sources for it.
func (e *TrackEngine) Lyrics(ctx context.Context, progress chan<- ProgressUpdate, trackID string) (*LyricsRunResult, error) {
	if e.directory == nil {
		return nil, fmt.Errorf("%w: service registry not initialized", shared.ErrServiceUnavailable)
	}
	if e.lyrics == nil {
		return nil, fmt.Errorf("%w: lyrics sources not initialized", shared.ErrServiceUnavailable)
	}

	e.sendProgress(progress, fetchTrackUpdate(1, 2, trackID))

	track, err := e.directory.Fetch(ctx, trackID)
	if err != nil {
		return nil, err
	}

	e.sendProgress(progress, fetchLyricsUpdate(2, 2, track.Metadata.Title))

	found, err := e.lyrics.Lookup(ctx, track)
	if err != nil {
		return nil, err
	}

	e.sendProgress(progress, lyricsFoundUpdate(2, 2, found))

	return &LyricsRunResult{Track: track, Lyrics: found}, nil
}

// Resolve fetches the canonical track and resolves its Spotify counterpart.
func (e *TrackEngine) Resolve(ctx context.Context, progress chan<- ProgressUpdate, trackID string) (*ResolveRunResult, error) {
	if e.directory == nil {
		return nil, fmt.Errorf("%w: service registry not initialized", shared.ErrServiceUnavailable)
	}
	if e.resolver == nil {
		return nil, fmt.Errorf("%w: resolver not initialized", shared.ErrServiceUnavailable)
	}

	e.sendProgress(progress, fetchTrackUpdate(1, 2, trackID))

	track, err := e.directory.Fetch(ctx, trackID)
	if err != nil {
		return nil, err
	}

	e.sendProgress(progress, resolvingUpdate(2, 2, track.SearchQuery()))

	match, err := e.resolver.Resolve(ctx, track)
	if err != nil {
		return nil, err
	}

	e.sendProgress(progress, matchedUpdate(2, 2, match))

	return &ResolveRunResult{
		Track: track,
		Match: match,
		Delta: math.Abs(match.Duration() - track.Metadata.Duration),
	}, nil
}
