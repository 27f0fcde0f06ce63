// Streaming proxy implementation of [Service]
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/Lualttt/Pipe-Bomb-Server/internal/models"
	"github.com/Lualttt/Pipe-Bomb-Server/internal/shared"
)

const defaultProxyBaseURL = "http://127.0.0.1:8080"

// ProxyService implements [Service] for the upstream streaming node that owns
// canonical track IDs and audio. Canonical IDs carry the node's own prefixing
// scheme (e.g. "yt:dQw4w9WgXcQ"), so the registry hands them over unchanged.
type ProxyService struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewProxyService creates a client for a streaming node. When apiKey is
// non-empty it is sent as the X-API-Key header on every request.
func NewProxyService(baseURL, apiKey string) *ProxyService {
	if baseURL == "" {
		baseURL = defaultProxyBaseURL
	}

	return &ProxyService{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: http.DefaultClient,
	}
}

func (p *ProxyService) Name() string {
	return "proxy"
}

// doRequest performs an HTTP request against the streaming node and decodes
// the JSON response into result.
func (p *ProxyService) doRequest(ctx context.Context, method, path string, result any) error {
	req, err := http.NewRequestWithContext(ctx, method, p.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if p.apiKey != "" {
		req.Header.Set("X-API-Key", p.apiKey)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", shared.ErrTrackNotFound, errorDetail(resp.Body))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: proxy returned status %d: %s", shared.ErrAPIRequest, resp.StatusCode, errorDetail(resp.Body))
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// errorDetail extracts the detail message from a JSON error body, falling
// back to the raw text.
func errorDetail(r io.Reader) string {
	body, err := io.ReadAll(r)
	if err != nil || len(body) == 0 {
		return "no error detail"
	}

	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Detail != "" {
		return payload.Detail
	}

	return strings.TrimSpace(string(body))
}

// GetTrack retrieves a track by its canonical ID.
func (p *ProxyService) GetTrack(ctx context.Context, trackID string) (*models.Track, error) {
	if trackID == "" {
		return nil, fmt.Errorf("%w: empty track ID", shared.ErrInvalidInput)
	}

	var track models.Track
	path := fmt.Sprintf("/v1/tracks/%s", url.PathEscape(trackID))
	if err := p.doRequest(ctx, http.MethodGet, path, &track); err != nil {
		return nil, fmt.Errorf("failed to get track %s: %w", trackID, err)
	}

	return &track, nil
}

// Search queries the node's aggregated catalog.
func (p *ProxyService) Search(ctx context.Context, query string) ([]models.Track, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: empty search query", shared.ErrInvalidInput)
	}

	params := url.Values{}
	params.Set("query", query)

	var response struct {
		Results []models.Track `json:"results"`
	}

	if err := p.doRequest(ctx, http.MethodGet, "/v1/search?"+params.Encode(), &response); err != nil {
		return nil, fmt.Errorf("search failed for query %s: %w", query, err)
	}

	return response.Results, nil
}

// Status checks whether the node is reachable and responding.
func (p *ProxyService) Status(ctx context.Context) error {
	return p.doRequest(ctx, http.MethodGet, "/v1/health", nil)
}
