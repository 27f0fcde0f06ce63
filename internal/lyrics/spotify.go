// Spotify lyrics source backed by the cross-service resolver
package lyrics

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Lualttt/Pipe-Bomb-Server/internal/cache"
	"github.com/Lualttt/Pipe-Bomb-Server/internal/models"
	"github.com/Lualttt/Pipe-Bomb-Server/internal/services"
	"github.com/Lualttt/Pipe-Bomb-Server/internal/shared"
	"github.com/charmbracelet/log"
)

// defaultLyricsTTL bounds how long lyrics stay cached when the configuration
// provides no value.
const defaultLyricsTTL = 10 * time.Minute

// Resolver maps a canonical track to its Spotify counterpart.
type Resolver interface {
	Resolve(ctx context.Context, track *models.Track) (*services.SpotifyTrack, error)
}

// Fetcher retrieves raw lyric payloads for Spotify track IDs.
type Fetcher interface {
	Fetch(ctx context.Context, spotifyID string) (*services.LyricsPayload, error)
}

// SpotifySource implements [Source] by resolving the canonical track to its
// Spotify counterpart and normalizing the lyrics API payload.
//
// Results are cached by Spotify ID, and an empty line set doubles as the
// negative marker: the parse that produced it returns successfully, while
// every read of the cached empty entry reports not-found. Fetch failures are
// cached as negatives too, so a flaky track can't hammer the lyrics API.
type SpotifySource struct {
	resolver Resolver
	fetcher  Fetcher
	cache    *cache.Store[*models.Lyrics]
	ttl      time.Duration
	logger   *log.Logger
}

// NewSpotifySource creates the Spotify lyrics source. A non-positive ttl
// falls back to ten minutes.
func NewSpotifySource(resolver Resolver, fetcher Fetcher, ttl time.Duration, logger *log.Logger) *SpotifySource {
	if ttl <= 0 {
		ttl = defaultLyricsTTL
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &SpotifySource{
		resolver: resolver,
		fetcher:  fetcher,
		cache:    cache.New[*models.Lyrics](),
		ttl:      ttl,
		logger:   logger,
	}
}

func (s *SpotifySource) Name() string {
	return "spotify"
}

// Get fetches lyrics for the track's Spotify counterpart.
func (s *SpotifySource) Get(ctx context.Context, track *models.Track) (*models.Lyrics, error) {
	match, err := s.resolver.Resolve(ctx, track)
	if err != nil {
		if errors.Is(err, shared.ErrTrackNotFound) {
			return nil, fmt.Errorf("alternative track not found: %w", err)
		}
		return nil, err
	}

	if entry, ok := s.cache.Get(match.ID); ok {
		if entry.OK && !entry.Value.Empty() {
			return entry.Value, nil
		}
		return nil, fmt.Errorf("%w: no lyrics for spotify track %s", shared.ErrLyricsNotFound, match.ID)
	}

	payload, err := s.fetcher.Fetch(ctx, match.ID)
	if err != nil {
		s.cache.PutMiss(match.ID, s.ttl)

		// Anomalous payloads are an upstream defect, not absence; keep the
		// two cases distinguishable for the caller.
		if errors.Is(err, shared.ErrInvalidResponse) {
			return nil, fmt.Errorf("failed to get lyrics: %w", err)
		}

		s.logger.Debug("caching lyrics miss", "spotify", match.ID, "reason", err)
		return nil, fmt.Errorf("%w: %v", shared.ErrLyricsNotFound, err)
	}

	lyr := &models.Lyrics{
		Provider: s.Name(),
		Synced:   payload.Synced(),
		Lines:    parseLines(payload),
	}

	s.cache.Put(match.ID, lyr, s.ttl)

	return lyr, nil
}

// CacheSize reports how many lyric sets are currently cached.
func (s *SpotifySource) CacheSize() int {
	return s.cache.Len()
}

// parseLines normalizes raw payload rows, dropping any row that doesn't carry
// the fields its sync type requires: words always, plus a numeric-string
// start offset when the payload is line-synced.
func parseLines(payload *services.LyricsPayload) []models.LyricLine {
	lines := make([]models.LyricLine, 0, len(payload.Lines))
	synced := payload.Synced()

	for _, row := range payload.Lines {
		words, ok := row["words"].(string)
		if !ok {
			continue
		}

		text := cleanLine(words)

		if !synced {
			lines = append(lines, models.LyricLine{Text: text})
			continue
		}

		raw, ok := row["startTimeMs"].(string)
		if !ok {
			continue
		}
		ms, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			continue
		}

		lines = append(lines, models.LyricLine{Time: ms / 1000.0, Text: text})
	}

	return lines
}

// cleanLine strips the musical-note placeholders Spotify uses for
// instrumental passages and trims the leftovers.
func cleanLine(words string) string {
	return strings.TrimSpace(strings.ReplaceAll(words, "♪", " "))
}
