// Musixmatch lyrics source
package lyrics

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Lualttt/Pipe-Bomb-Server/internal/cache"
	"github.com/Lualttt/Pipe-Bomb-Server/internal/models"
	"github.com/Lualttt/Pipe-Bomb-Server/internal/shared"
	mxm "github.com/milindmadhukar/go-musixmatch"
	"github.com/milindmadhukar/go-musixmatch/params"
)

// TextLookup finds plain lyrics text by title and artist.
type TextLookup interface {
	LyricsText(ctx context.Context, title, artist string) (string, error)
}

// MusixmatchClient adapts the go-musixmatch matcher endpoint to [TextLookup].
type MusixmatchClient struct {
	client *mxm.Client
}

// NewMusixmatchClient creates a Musixmatch API client.
func NewMusixmatchClient(apiKey string, httpClient *http.Client) *MusixmatchClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &MusixmatchClient{client: mxm.New(apiKey, httpClient)}
}

// LyricsText fetches the matcher lyrics body for a title and artist pair.
func (m *MusixmatchClient) LyricsText(ctx context.Context, title, artist string) (string, error) {
	lyrics, err := m.client.GetMatcherLyrics(ctx, params.QueryTrack(title), params.QueryArtist(artist))
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	return lyrics.Body, nil
}

// MusixmatchSource implements [Source] against the Musixmatch matcher API.
// Unlike the Spotify source it needs no cross-service resolution: the matcher
// takes title and artist directly, so results are cached by canonical ID.
// Musixmatch only serves plain text, never timestamps.
type MusixmatchSource struct {
	lookup TextLookup
	cache  *cache.Store[*models.Lyrics]
	ttl    time.Duration
}

// NewMusixmatchSource creates the Musixmatch lyrics source. A non-positive
// ttl falls back to ten minutes.
func NewMusixmatchSource(lookup TextLookup, ttl time.Duration) *MusixmatchSource {
	if ttl <= 0 {
		ttl = defaultLyricsTTL
	}

	return &MusixmatchSource{
		lookup: lookup,
		cache:  cache.New[*models.Lyrics](),
		ttl:    ttl,
	}
}

func (s *MusixmatchSource) Name() string {
	return "musixmatch"
}

// Get fetches plain lyrics for the track by title and primary artist.
func (s *MusixmatchSource) Get(ctx context.Context, track *models.Track) (*models.Lyrics, error) {
	if track == nil || track.Metadata.Title == "" {
		return nil, fmt.Errorf("%w: track has no title", shared.ErrInvalidInput)
	}

	key := track.TrackID
	if key == "" {
		key = track.SearchQuery()
	}

	if entry, ok := s.cache.Get(key); ok {
		if entry.OK {
			return entry.Value, nil
		}
		return nil, fmt.Errorf("%w: musixmatch has no lyrics for %s", shared.ErrLyricsNotFound, key)
	}

	var artist string
	if len(track.Metadata.Artists) > 0 {
		artist = track.Metadata.Artists[0]
	}

	body, err := s.lookup.LyricsText(ctx, track.Metadata.Title, artist)
	if err != nil {
		s.cache.PutMiss(key, s.ttl)
		return nil, fmt.Errorf("%w: %v", shared.ErrLyricsNotFound, err)
	}

	lines := splitBody(body)
	if len(lines) == 0 {
		s.cache.PutMiss(key, s.ttl)
		return nil, fmt.Errorf("%w: musixmatch returned an empty body for %s", shared.ErrLyricsNotFound, key)
	}

	lyr := &models.Lyrics{
		Provider: s.Name(),
		Synced:   false,
		Lines:    lines,
	}

	s.cache.Put(key, lyr, s.ttl)

	return lyr, nil
}

// splitBody turns a Musixmatch lyrics body into lines, discarding the
// commercial-use disclaimer block the free tier appends after an asterisk
// ruler.
func splitBody(body string) []models.LyricLine {
	if i := strings.Index(body, "*******"); i >= 0 {
		body = body[:i]
	}
	body = strings.TrimRight(strings.ReplaceAll(body, "\r\n", "\n"), "\n \t")
	if body == "" {
		return nil
	}

	raw := strings.Split(body, "\n")
	lines := make([]models.LyricLine, 0, len(raw))
	for _, line := range raw {
		lines = append(lines, models.LyricLine{Text: strings.TrimSpace(line)})
	}
	return lines
}
