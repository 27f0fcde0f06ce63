package tasks

import (
	"fmt"

	"github.com/Lualttt/Pipe-Bomb-Server/internal/models"
	"github.com/Lualttt/Pipe-Bomb-Server/internal/services"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchTrack Phase = iota
	ResolveMatch
	FetchLyrics
	WarmCache
)

func (p Phase) String() string {
	switch p {
	case FetchTrack:
		return "fetch_track"
	case ResolveMatch:
		return "resolve_match"
	case FetchLyrics:
		return "fetch_lyrics"
	case WarmCache:
		return "warm_cache"
	default:
		return ""
	}
}

func fetchTrackUpdate(step, total int, id string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchTrack,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Fetching track %s...", id),
	}
}

func resolvingUpdate(step, total int, query string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ResolveMatch,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Searching Spotify for %q...", query),
	}
}

func matchedUpdate(step, total int, match *services.SpotifyTrack) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ResolveMatch,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Matched: %s (ID: %s)", match.Name, match.ID),
		Data:    match,
	}
}

func fetchLyricsUpdate(step, total int, title string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchLyrics,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Looking up lyrics for %s...", title),
	}
}

func lyricsFoundUpdate(step, total int, lyr *models.Lyrics) ProgressUpdate {
	kind := "plain"
	if lyr.Synced {
		kind = "synced"
	}
	return ProgressUpdate{
		Phase:   FetchLyrics,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Found %d %s lines (%s)", len(lyr.Lines), kind, lyr.Provider),
		Data:    lyr,
	}
}

func warmStartUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WarmCache,
		Step:    0,
		Total:   total,
		Message: fmt.Sprintf("Warming resolution cache for %d tracks...", total),
	}
}

func warmResolvedUpdate(step, total int, id string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WarmCache,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s", step, total, id),
	}
}

func warmUnmatchedUpdate(step, total int, id string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WarmCache,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] - %s: no counterpart", step, total, id),
	}
}

func warmFailedUpdate(step, total int, id string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WarmCache,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, id, err),
	}
}
