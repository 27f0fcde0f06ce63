package services

import (
	"context"
	"errors"
	"testing"

	tu "github.com/Lualttt/Pipe-Bomb-Server/internal/testing"

	"github.com/Lualttt/Pipe-Bomb-Server/internal/models"
	"github.com/Lualttt/Pipe-Bomb-Server/internal/shared"
)

func TestRegistry(t *testing.T) {
	proxy := &tu.MockService{ServiceName: "proxy"}
	spotify := &tu.MockService{ServiceName: "spotify"}

	t.Run("Register and Get", func(t *testing.T) {
		reg := NewRegistry()
		reg.Register(proxy)
		reg.Register(spotify)

		svc, err := reg.Get("spotify")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if svc.Name() != "spotify" {
			t.Errorf("expected spotify service, got %s", svc.Name())
		}

		if _, err := reg.Get("tidal"); !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable for unknown service, got %v", err)
		}
	})

	t.Run("First Registration Becomes Default", func(t *testing.T) {
		reg := NewRegistry()
		reg.Register(proxy)
		reg.Register(spotify)

		svc, err := reg.Default()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if svc.Name() != "proxy" {
			t.Errorf("expected proxy to be default, got %s", svc.Name())
		}
	})

	t.Run("SetDefault", func(t *testing.T) {
		reg := NewRegistry()
		reg.Register(proxy)
		reg.Register(spotify)

		if err := reg.SetDefault("spotify"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		svc, _ := reg.Default()
		if svc.Name() != "spotify" {
			t.Errorf("expected spotify to be default, got %s", svc.Name())
		}

		if err := reg.SetDefault("tidal"); !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable for unknown service, got %v", err)
		}
	})

	t.Run("Empty Registry", func(t *testing.T) {
		reg := NewRegistry()

		if _, err := reg.Default(); !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
		if _, _, err := reg.Route("yt:abc"); !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})

	t.Run("Names Preserve Registration Order", func(t *testing.T) {
		reg := NewRegistry()
		reg.Register(proxy)
		reg.Register(spotify)
		reg.Register(proxy)

		names := reg.Names()
		if len(names) != 2 {
			t.Fatalf("expected 2 names, got %d", len(names))
		}
		if names[0] != "proxy" || names[1] != "spotify" {
			t.Errorf("expected [proxy spotify], got %v", names)
		}
	})

	t.Run("Route", func(t *testing.T) {
		reg := NewRegistry()
		reg.Register(proxy)
		reg.Register(spotify)

		tc := []struct {
			name    string
			id      string
			wantSvc string
			wantID  string
		}{
			{"qualified spotify ID", "spotify:4uLU6hMCjMI", "spotify", "4uLU6hMCjMI"},
			{"canonical prefixed ID falls through", "yt:dQw4w9WgXcQ", "proxy", "yt:dQw4w9WgXcQ"},
			{"bare ID goes to default", "dQw4w9WgXcQ", "proxy", "dQw4w9WgXcQ"},
			{"trailing colon goes to default", "spotify:", "proxy", "spotify:"},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				svc, local, err := reg.Route(tt.id)
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				if svc.Name() != tt.wantSvc {
					t.Errorf("expected service %s, got %s", tt.wantSvc, svc.Name())
				}
				if local != tt.wantID {
					t.Errorf("expected local ID %s, got %s", tt.wantID, local)
				}
			})
		}

		t.Run("empty ID", func(t *testing.T) {
			if _, _, err := reg.Route(""); !errors.Is(err, shared.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	})

	t.Run("Fetch", func(t *testing.T) {
		track := &models.Track{
			TrackID:  "yt:abc123",
			Metadata: models.TrackMeta{Title: "Test Song", Artists: []string{"Tester"}, Duration: 180},
		}

		reg := NewRegistry()
		reg.Register(&tu.MockService{ServiceName: "proxy", Track: track})

		got, err := reg.Fetch(context.Background(), "yt:abc123")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got.TrackID != "yt:abc123" {
			t.Errorf("expected track yt:abc123, got %s", got.TrackID)
		}

		t.Run("propagates service errors", func(t *testing.T) {
			reg := NewRegistry()
			reg.Register(&tu.MockService{ServiceName: "proxy", Err: shared.ErrTrackNotFound})

			if _, err := reg.Fetch(context.Background(), "yt:missing"); !errors.Is(err, shared.ErrTrackNotFound) {
				t.Errorf("expected ErrTrackNotFound, got %v", err)
			}
		})
	})
}
