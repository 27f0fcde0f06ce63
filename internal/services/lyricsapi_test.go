package services

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	tu "github.com/Lualttt/Pipe-Bomb-Server/internal/testing"

	"github.com/Lualttt/Pipe-Bomb-Server/internal/shared"
)

func TestLyricsAPIClient(t *testing.T) {
	t.Run("New", func(t *testing.T) {
		c := NewLyricsAPIClient("", nil, nil)

		if c.baseURL != defaultLyricsBaseURL {
			t.Errorf("expected default base URL, got %s", c.baseURL)
		}
		if c.httpClient != http.DefaultClient {
			t.Error("expected http.DefaultClient to be used")
		}
		if c.logger == nil {
			t.Error("expected fallback logger")
		}
	})

	t.Run("Fetch", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/" {
				t.Errorf("expected path /, got %s", r.URL.Path)
			}
			if r.URL.Query().Get("trackid") != "4uLU6hMCjMI" {
				t.Errorf("expected trackid query param, got %s", r.URL.Query().Get("trackid"))
			}

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{
				"error": false,
				"syncType": "LINE_SYNCED",
				"lines": [
					{"startTimeMs": "1010", "words": "We're no strangers to love", "endTimeMs": "0"},
					{"startTimeMs": "5070", "words": "You know the rules and so do I", "endTimeMs": "0"}
				]
			}`))
		}))
		defer server.Close()

		c := NewLyricsAPIClient(server.URL, nil, nil)
		payload, err := c.Fetch(context.Background(), "4uLU6hMCjMI")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if !payload.Synced() {
			t.Error("expected line-synced payload")
		}
		if len(payload.Lines) != 2 {
			t.Fatalf("expected 2 lines, got %d", len(payload.Lines))
		}
		if payload.Lines[0]["startTimeMs"] != "1010" {
			t.Errorf("expected startTimeMs '1010', got %v", payload.Lines[0]["startTimeMs"])
		}
		if payload.Lines[1]["words"] != "You know the rules and so do I" {
			t.Errorf("unexpected words %v", payload.Lines[1]["words"])
		}
	})

	t.Run("Fetch Unsynced Payload", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"error": false, "syncType": "UNSYNCED", "lines": [{"words": "Hello"}]}`))
		}))
		defer server.Close()

		c := NewLyricsAPIClient(server.URL, nil, nil)
		payload, err := c.Fetch(context.Background(), "track1")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if payload.Synced() {
			t.Error("expected unsynced payload")
		}
	})

	t.Run("Fetch Empty Lines Is Not An Error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"error": false, "syncType": "LINE_SYNCED", "lines": []}`))
		}))
		defer server.Close()

		c := NewLyricsAPIClient(server.URL, nil, nil)
		payload, err := c.Fetch(context.Background(), "track1")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(payload.Lines) != 0 {
			t.Errorf("expected no lines, got %d", len(payload.Lines))
		}
	})

	t.Run("In-Body Error Flag", func(t *testing.T) {
		t.Run("with message", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
				w.Write([]byte(`{"error": true, "message": "lyrics for this track is not available on spotify"}`))
			}))
			defer server.Close()

			c := NewLyricsAPIClient(server.URL, nil, nil)
			_, err := c.Fetch(context.Background(), "track1")

			if !errors.Is(err, shared.ErrAPIRequest) {
				t.Fatalf("expected ErrAPIRequest, got %v", err)
			}
			if !strings.Contains(err.Error(), "not available on spotify") {
				t.Errorf("expected upstream message in error, got %v", err)
			}
		})

		t.Run("without message", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"error": true}`))
			}))
			defer server.Close()

			c := NewLyricsAPIClient(server.URL, nil, nil)
			if _, err := c.Fetch(context.Background(), "track1"); !errors.Is(err, shared.ErrAPIRequest) {
				t.Errorf("expected ErrAPIRequest, got %v", err)
			}
		})
	})

	t.Run("Undecodable Body Logs Raw Payload", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<html>not json</html>"))
		}))
		defer server.Close()

		var buf bytes.Buffer
		c := NewLyricsAPIClient(server.URL, nil, shared.NewLogger(&buf))

		_, err := c.Fetch(context.Background(), "track1")
		if !errors.Is(err, shared.ErrInvalidResponse) {
			t.Fatalf("expected ErrInvalidResponse, got %v", err)
		}
		if !strings.Contains(buf.String(), "<html>not json</html>") {
			t.Errorf("expected raw payload in log, got %s", buf.String())
		}
	})

	t.Run("Malformed Lines Shape Logs Raw Payload", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"error": false, "syncType": "LINE_SYNCED", "lines": "not an array"}`))
		}))
		defer server.Close()

		var buf bytes.Buffer
		c := NewLyricsAPIClient(server.URL, nil, shared.NewLogger(&buf))

		_, err := c.Fetch(context.Background(), "track1")
		if !errors.Is(err, shared.ErrInvalidResponse) {
			t.Fatalf("expected ErrInvalidResponse, got %v", err)
		}
		if !strings.Contains(buf.String(), "not an array") {
			t.Errorf("expected raw payload in log, got %s", buf.String())
		}
	})

	t.Run("Server Errors", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			w.Write([]byte("upstream exploded"))
		}))
		defer server.Close()

		c := NewLyricsAPIClient(server.URL, nil, nil)
		if _, err := c.Fetch(context.Background(), "track1"); !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
	})

	t.Run("Transport Failure", func(t *testing.T) {
		client := &http.Client{
			Transport: tu.NewMockRoundTripper(nil, errors.New("connection refused")),
		}

		c := NewLyricsAPIClient("http://example.com", client, nil)
		if _, err := c.Fetch(context.Background(), "track1"); !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
	})

	t.Run("Body Read Failure", func(t *testing.T) {
		client := &http.Client{
			Transport: tu.NewMockRoundTripper(&http.Response{
				StatusCode: http.StatusOK,
				Body:       &tu.FCloser{},
				Header:     http.Header{},
			}, nil),
		}

		c := NewLyricsAPIClient("http://example.com", client, nil)
		if _, err := c.Fetch(context.Background(), "track1"); !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
	})

	t.Run("Empty Track ID", func(t *testing.T) {
		c := NewLyricsAPIClient("http://example.com", nil, nil)
		if _, err := c.Fetch(context.Background(), ""); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})
}
