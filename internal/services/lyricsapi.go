// Client for the Spotify lyrics proxy API
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/Lualttt/Pipe-Bomb-Server/internal/shared"
	"github.com/charmbracelet/log"
)

const (
	defaultLyricsBaseURL = "https://spotify-lyrics-api-pi.vercel.app"

	// SyncTypeLineSynced marks payloads whose lines carry start timestamps.
	SyncTypeLineSynced = "LINE_SYNCED"
)

// LyricsPayload is the decoded body of a successful lyrics API response.
// Lines are kept loosely typed because the upstream occasionally emits rows
// with missing or oddly typed fields, and a single bad row should not sink
// the whole payload.
type LyricsPayload struct {
	SyncType string           `json:"syncType"`
	Lines    []map[string]any `json:"lines"`
}

// Synced reports whether each line carries a start timestamp.
func (p *LyricsPayload) Synced() bool {
	return p.SyncType == SyncTypeLineSynced
}

// LyricsAPIClient fetches lyrics for Spotify track IDs from a lyrics proxy
// deployment. The upstream reports its own failures in-body via an "error"
// flag alongside the HTTP status, so the client translates both into typed
// errors rather than leaking the flag to callers:
//
//   - [shared.ErrAPIRequest] : transport failure, 5xx, or the in-body flag
//   - [shared.ErrInvalidResponse] : body did not decode into the expected shape
type LyricsAPIClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *log.Logger
}

// NewLyricsAPIClient creates a lyrics client against baseURL, falling back to
// the public deployment when empty.
func NewLyricsAPIClient(baseURL string, client *http.Client, logger *log.Logger) *LyricsAPIClient {
	if baseURL == "" {
		baseURL = defaultLyricsBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &LyricsAPIClient{
		baseURL:    baseURL,
		httpClient: client,
		logger:     logger,
	}
}

// Fetch retrieves the lyrics payload for a Spotify track ID. A payload with
// zero lines is a valid result, not an error.
func (c *LyricsAPIClient) Fetch(ctx context.Context, spotifyID string) (*LyricsPayload, error) {
	if spotifyID == "" {
		return nil, fmt.Errorf("%w: empty spotify track ID", shared.ErrInvalidInput)
	}

	endpoint := fmt.Sprintf("%s/?trackid=%s", c.baseURL, url.QueryEscape(spotifyID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return nil, fmt.Errorf("%w: lyrics api returned status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	// The upstream reports not-found as a 4xx with {"error": true}, so the
	// flag is checked before the status is.
	var envelope struct {
		Failed  bool   `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		c.logger.Error("undecodable lyrics payload", "track", spotifyID, "status", resp.StatusCode, "body", string(body))
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidResponse, err)
	}

	if envelope.Failed {
		if envelope.Message != "" {
			return nil, fmt.Errorf("%w: %s", shared.ErrAPIRequest, envelope.Message)
		}
		return nil, fmt.Errorf("%w: lyrics api flagged track %s", shared.ErrAPIRequest, spotifyID)
	}

	var payload LyricsPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		c.logger.Error("malformed lyrics payload", "track", spotifyID, "body", string(body))
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidResponse, err)
	}

	return &payload, nil
}
