// Spotify API implementation of [Service]
//
// Spotify API response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/Lualttt/Pipe-Bomb-Server/internal/models"
	"github.com/Lualttt/Pipe-Bomb-Server/internal/shared"
)

const (
	spotifyBaseURL = "https://api.spotify.com/v1"

	// spotifySearchLimit caps how many candidates a catalog search returns.
	// Duration matching only ever inspects the head of the list, so a small
	// page is enough.
	spotifySearchLimit = 10
)

// SpotifyImage represents an image resource.
type SpotifyImage struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// SpotifyArtist represents a Spotify artist.
type SpotifyArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URI  string `json:"uri"`
}

// SpotifyAlbum represents a Spotify album.
type SpotifyAlbum struct {
	ID     string         `json:"id"`
	Name   string         `json:"name"`
	Images []SpotifyImage `json:"images"`
	URI    string         `json:"uri"`
}

// SpotifyTrack represents a Spotify track.
type SpotifyTrack struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Artists    []SpotifyArtist `json:"artists"`
	Album      SpotifyAlbum    `json:"album"`
	DurationMS int             `json:"duration_ms"`
	Explicit   bool            `json:"explicit"`
	URI        string          `json:"uri"`
}

// Duration returns the track length in seconds. Spotify reports milliseconds.
func (t *SpotifyTrack) Duration() float64 {
	return float64(t.DurationMS) / 1000.0
}

// ArtistNames returns the track's artist names in credit order.
func (t *SpotifyTrack) ArtistNames() []string {
	names := make([]string, 0, len(t.Artists))
	for _, artist := range t.Artists {
		names = append(names, artist.Name)
	}
	return names
}

// Model converts the wire track to the shared track shape. The resulting ID
// is qualified with the "spotify:" prefix so it round-trips through the
// service registry.
func (t *SpotifyTrack) Model() *models.Track {
	meta := models.TrackMeta{
		Title:    t.Name,
		Artists:  t.ArtistNames(),
		Duration: t.Duration(),
	}
	if len(t.Album.Images) > 0 {
		meta.Image = t.Album.Images[0].URL
	}

	return &models.Track{
		TrackID:  "spotify:" + t.ID,
		Metadata: meta,
	}
}

// SpotifyClient implements [Service] for the Spotify Web API using an
// app-level access token. It holds no credentials itself: the token arrives
// through SetAccessToken whenever the credential session refreshes.
type SpotifyClient struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.RWMutex
	token string
}

// NewSpotifyClient creates a Spotify catalog client. The client starts
// unauthenticated and rejects requests until a token is installed.
func NewSpotifyClient(client *http.Client) *SpotifyClient {
	if client == nil {
		client = http.DefaultClient
	}

	return &SpotifyClient{
		baseURL:    spotifyBaseURL,
		httpClient: client,
	}
}

func (s *SpotifyClient) Name() string {
	return "spotify"
}

// SetAccessToken installs a bearer token for subsequent requests. The
// credential session calls this after every successful grant.
func (s *SpotifyClient) SetAccessToken(token string) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
}

func (s *SpotifyClient) accessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// doRequest performs an authenticated GET against the Spotify API and decodes
// the JSON response into result.
func (s *SpotifyClient) doRequest(ctx context.Context, endpoint string, result any) error {
	token := s.accessToken()
	if token == "" {
		return fmt.Errorf("%w: no spotify access token", shared.ErrNotAuthenticated)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return fmt.Errorf("%w: spotify returned 401", shared.ErrTokenExpired)
	case resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: spotify returned 403", shared.ErrInvalidCredentials)
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: spotify returned 404", shared.ErrTrackNotFound)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return fmt.Errorf("%w: spotify returned status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// SearchTracks searches the Spotify catalog and returns raw track candidates
// in Spotify's rank order. Duration matching needs the millisecond field, so
// this returns wire tracks rather than the shared shape.
func (s *SpotifyClient) SearchTracks(ctx context.Context, query string) ([]SpotifyTrack, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: empty search query", shared.ErrInvalidInput)
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("type", "track")
	params.Set("limit", strconv.Itoa(spotifySearchLimit))

	var response struct {
		Tracks struct {
			Items []SpotifyTrack `json:"items"`
		} `json:"tracks"`
	}

	if err := s.doRequest(ctx, "/search?"+params.Encode(), &response); err != nil {
		return nil, err
	}

	return response.Tracks.Items, nil
}

// Track retrieves a single track by its Spotify ID.
func (s *SpotifyClient) Track(ctx context.Context, trackID string) (*SpotifyTrack, error) {
	var track SpotifyTrack
	endpoint := fmt.Sprintf("/tracks/%s", url.PathEscape(trackID))
	if err := s.doRequest(ctx, endpoint, &track); err != nil {
		return nil, err
	}
	return &track, nil
}

// Service interface implementation

// GetTrack retrieves a track by its Spotify ID in the shared track shape.
func (s *SpotifyClient) GetTrack(ctx context.Context, trackID string) (*models.Track, error) {
	track, err := s.Track(ctx, trackID)
	if err != nil {
		return nil, err
	}
	return track.Model(), nil
}

// Search queries the catalog and converts each candidate to the shared shape.
func (s *SpotifyClient) Search(ctx context.Context, query string) ([]models.Track, error) {
	found, err := s.SearchTracks(ctx, query)
	if err != nil {
		return nil, err
	}

	tracks := make([]models.Track, 0, len(found))
	for _, st := range found {
		tracks = append(tracks, *st.Model())
	}

	return tracks, nil
}
