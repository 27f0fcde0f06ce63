package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Lualttt/Pipe-Bomb-Server/internal/models"
	"github.com/Lualttt/Pipe-Bomb-Server/internal/services"
	"github.com/Lualttt/Pipe-Bomb-Server/internal/shared"
	"github.com/charmbracelet/log"
)

// Directory selects streaming services and fetches canonical tracks by
// qualified id. Satisfied by [services.Registry].
type Directory interface {
	Fetch(ctx context.Context, id string) (*models.Track, error)
	Get(name string) (services.Service, error)
	Default() (services.Service, error)
	Names() []string
}

// TrackResolver maps canonical tracks to their Spotify counterparts.
type TrackResolver interface {
	Resolve(ctx context.Context, track *models.Track) (*services.SpotifyTrack, error)
}

// LyricsLookup walks the registered lyrics sources for a canonical track.
type LyricsLookup interface {
	Lookup(ctx context.Context, track *models.Track) (*models.Lyrics, error)
}

// SessionInfo reports provider credential state for the health endpoint.
type SessionInfo interface {
	Configured() bool
	Authenticated() bool
}

// StatusChecker is implemented by services that can probe their backend.
// The health endpoint uses it opportunistically.
type StatusChecker interface {
	Status(ctx context.Context) error
}

// CacheReporter is implemented by collaborators that cache outcomes in
// memory. The health endpoint reports their sizes when available.
type CacheReporter interface {
	CacheSize() int
}

// APIHandler serves the v1 aggregation API:
//
//	GET /v1/health        service and session diagnostics
//	GET /v1/lyrics/{id}   normalized lyrics for a canonical track
//	GET /v1/resolve/{id}  Spotify counterpart for a canonical track
//	GET /v1/search        track search on a registered service
type APIHandler struct {
	directory Directory
	resolver  TrackResolver
	lyrics    LyricsLookup
	session   SessionInfo
	logger    *log.Logger
}

// NewAPIHandler creates the v1 API handler. session may be nil when no
// provider credentials exist; the health endpoint then reports unconfigured.
func NewAPIHandler(directory Directory, trackResolver TrackResolver, lyricsLookup LyricsLookup, session SessionInfo, logger *log.Logger) *APIHandler {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &APIHandler{
		directory: directory,
		resolver:  trackResolver,
		lyrics:    lyricsLookup,
		session:   session,
		logger:    logger,
	}
}

// Routes returns the patterns this handler serves. Method prefixes let the
// mux reject other verbs with 405 before the handler runs.
func (h *APIHandler) Routes() []string {
	return []string{
		"GET /v1/health",
		"GET /v1/lyrics/{id}",
		"GET /v1/resolve/{id}",
		"GET /v1/search",
	}
}

// ServeHTTP dispatches to the route-specific handlers.
func (h *APIHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/v1/health":
		h.handleHealth(w, r)
	case strings.HasPrefix(r.URL.Path, "/v1/lyrics/"):
		h.handleLyrics(w, r)
	case strings.HasPrefix(r.URL.Path, "/v1/resolve/"):
		h.handleResolve(w, r)
	case r.URL.Path == "/v1/search":
		h.handleSearch(w, r)
	default:
		h.writeError(w, r, fmt.Errorf("%w: no such route %s", shared.ErrInvalidInput, r.URL.Path))
	}
}

// healthResponse reports per-service reachability, session state, and the
// live size of each in-memory cache.
type healthResponse struct {
	Status   string            `json:"status"`
	Session  string            `json:"session"`
	Services map[string]string `json:"services"`
	Caches   map[string]int    `json:"caches,omitempty"`
}

func (h *APIHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	statuses := map[string]string{}

	for _, name := range h.directory.Names() {
		svc, err := h.directory.Get(name)
		if err != nil {
			continue
		}

		state := "registered"
		if checker, ok := svc.(StatusChecker); ok {
			if err := checker.Status(r.Context()); err != nil {
				state = "unreachable"
			} else {
				state = "ok"
			}
		}
		statuses[name] = state
	}

	caches := map[string]int{}
	if reporter, ok := h.resolver.(CacheReporter); ok {
		caches["resolver"] = reporter.CacheSize()
	}
	if reporter, ok := h.lyrics.(CacheReporter); ok {
		caches["lyrics"] = reporter.CacheSize()
	}

	h.writeJSON(w, http.StatusOK, healthResponse{
		Status:   "ok",
		Session:  h.sessionState(),
		Services: statuses,
		Caches:   caches,
	})
}

// lyricsResponse pairs the canonical id with its normalized lyrics.
type lyricsResponse struct {
	TrackID string         `json:"trackID"`
	Lyrics  *models.Lyrics `json:"lyrics"`
}

func (h *APIHandler) handleLyrics(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.writeError(w, r, fmt.Errorf("%w: track id is required", shared.ErrInvalidInput))
		return
	}

	track, err := h.directory.Fetch(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	found, err := h.lyrics.Lookup(r.Context(), track)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, lyricsResponse{TrackID: track.TrackID, Lyrics: found})
}

// resolveResponse pairs the canonical track with its accepted counterpart.
type resolveResponse struct {
	Track *models.Track          `json:"track"`
	Match *services.SpotifyTrack `json:"match"`
}

func (h *APIHandler) handleResolve(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.writeError(w, r, fmt.Errorf("%w: track id is required", shared.ErrInvalidInput))
		return
	}

	track, err := h.directory.Fetch(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	match, err := h.resolver.Resolve(r.Context(), track)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, resolveResponse{Track: track, Match: match})
}

// searchResponse mirrors the proxy wire shape so clients can reuse decoders.
type searchResponse struct {
	Service string         `json:"service"`
	Results []models.Track `json:"results"`
}

func (h *APIHandler) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if query == "" {
		h.writeError(w, r, fmt.Errorf("%w: query parameter is required", shared.ErrInvalidInput))
		return
	}

	var svc services.Service
	var err error
	if name := r.URL.Query().Get("service"); name != "" {
		svc, err = h.directory.Get(name)
	} else {
		svc, err = h.directory.Default()
	}
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	results, err := svc.Search(r.Context(), query)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, searchResponse{Service: svc.Name(), Results: results})
}

func (h *APIHandler) sessionState() string {
	switch {
	case h.session == nil || !h.session.Configured():
		return "unconfigured"
	case h.session.Authenticated():
		return "connected"
	default:
		return "pending"
	}
}

func (h *APIHandler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("response encode failed", "error", err)
	}
}

// errorResponse is the uniform error body for every v1 endpoint.
type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"requestId,omitempty"`
}

func (h *APIHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	requestID := RequestIDFrom(r.Context())

	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", "path", r.URL.Path, "status", status, "error", err, "request_id", requestID)
	} else {
		h.logger.Debug("request rejected", "path", r.URL.Path, "status", status, "error", err, "request_id", requestID)
	}

	h.writeJSON(w, status, errorResponse{Error: err.Error(), RequestID: requestID})
}

// statusFor maps the shared error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, shared.ErrServiceUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, shared.ErrTrackNotFound), errors.Is(err, shared.ErrLyricsNotFound):
		return http.StatusNotFound
	case errors.Is(err, shared.ErrInvalidInput), errors.Is(err, shared.ErrMissingArgument), errors.Is(err, shared.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, shared.ErrAPIRequest), errors.Is(err, shared.ErrInvalidResponse):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
