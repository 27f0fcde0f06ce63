package lyrics

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/Lualttt/Pipe-Bomb-Server/internal/models"
	"github.com/Lualttt/Pipe-Bomb-Server/internal/shared"
)

type stubSource struct {
	name  string
	lyr   *models.Lyrics
	err   error
	calls int
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Get(ctx context.Context, track *models.Track) (*models.Lyrics, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.lyr, nil
}

// sizedSource adds a cache-size report on top of stubSource.
type sizedSource struct {
	stubSource
	size int
}

func (s *sizedSource) CacheSize() int { return s.size }

func testTrack() *models.Track {
	return &models.Track{
		TrackID: "yt:dQw4w9WgXcQ",
		Metadata: models.TrackMeta{
			Title:    "Never Gonna Give You Up",
			Artists:  []string{"Rick Astley"},
			Duration: 213,
		},
	}
}

func TestRegistry(t *testing.T) {
	ctx := context.Background()

	t.Run("Register and Get", func(t *testing.T) {
		reg := NewRegistry()
		reg.Register(&stubSource{name: "spotify"})
		reg.Register(&stubSource{name: "musixmatch"})

		src, err := reg.Get("musixmatch")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if src.Name() != "musixmatch" {
			t.Errorf("expected musixmatch, got %s", src.Name())
		}

		if _, err := reg.Get("genius"); !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})

	t.Run("Names Preserve Registration Order", func(t *testing.T) {
		reg := NewRegistry()
		reg.Register(&stubSource{name: "spotify"})
		reg.Register(&stubSource{name: "musixmatch"})
		reg.Register(&stubSource{name: "spotify"})

		names := reg.Names()
		if len(names) != 2 || names[0] != "spotify" || names[1] != "musixmatch" {
			t.Errorf("expected [spotify musixmatch], got %v", names)
		}
	})

	t.Run("CacheSize sums reporting sources", func(t *testing.T) {
		reg := NewRegistry()
		reg.Register(&sizedSource{stubSource: stubSource{name: "spotify"}, size: 2})
		reg.Register(&sizedSource{stubSource: stubSource{name: "musixmatch"}, size: 1})
		reg.Register(&stubSource{name: "plain"})

		if got := reg.CacheSize(); got != 3 {
			t.Errorf("expected cache size 3, got %d", got)
		}
	})

	t.Run("Lookup", func(t *testing.T) {
		hit := &models.Lyrics{Provider: "spotify", Lines: []models.LyricLine{{Text: "hello"}}}

		t.Run("first source wins", func(t *testing.T) {
			first := &stubSource{name: "spotify", lyr: hit}
			second := &stubSource{name: "musixmatch"}

			reg := NewRegistry()
			reg.Register(first)
			reg.Register(second)

			got, err := reg.Lookup(ctx, testTrack())
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if got.Provider != "spotify" {
				t.Errorf("expected spotify result, got %s", got.Provider)
			}
			if second.calls != 0 {
				t.Errorf("expected fallback to stay untouched, got %d calls", second.calls)
			}
		})

		t.Run("falls through on not found", func(t *testing.T) {
			fallback := &models.Lyrics{Provider: "musixmatch", Lines: []models.LyricLine{{Text: "hello"}}}
			reg := NewRegistry()
			reg.Register(&stubSource{name: "spotify", err: fmt.Errorf("%w: nothing", shared.ErrLyricsNotFound)})
			reg.Register(&stubSource{name: "musixmatch", lyr: fallback})

			got, err := reg.Lookup(ctx, testTrack())
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if got.Provider != "musixmatch" {
				t.Errorf("expected musixmatch result, got %s", got.Provider)
			}
		})

		t.Run("falls through on disabled source", func(t *testing.T) {
			fallback := &models.Lyrics{Provider: "musixmatch", Lines: []models.LyricLine{{Text: "hello"}}}
			reg := NewRegistry()
			reg.Register(&stubSource{name: "spotify", err: fmt.Errorf("%w: spotify credentials not configured", shared.ErrServiceUnavailable)})
			reg.Register(&stubSource{name: "musixmatch", lyr: fallback})

			if _, err := reg.Lookup(ctx, testTrack()); err != nil {
				t.Fatalf("expected fallback to serve, got %v", err)
			}
		})

		t.Run("every source empty means not found", func(t *testing.T) {
			reg := NewRegistry()
			reg.Register(&stubSource{name: "spotify", err: fmt.Errorf("%w: nothing", shared.ErrLyricsNotFound)})
			reg.Register(&stubSource{name: "musixmatch", err: fmt.Errorf("%w: nothing", shared.ErrLyricsNotFound)})

			if _, err := reg.Lookup(ctx, testTrack()); !errors.Is(err, shared.ErrLyricsNotFound) {
				t.Errorf("expected ErrLyricsNotFound, got %v", err)
			}
		})

		t.Run("hard failure beats a fallback miss", func(t *testing.T) {
			anomaly := fmt.Errorf("failed to get lyrics: %w", shared.ErrInvalidResponse)
			reg := NewRegistry()
			reg.Register(&stubSource{name: "spotify", err: anomaly})
			reg.Register(&stubSource{name: "musixmatch", err: fmt.Errorf("%w: nothing", shared.ErrLyricsNotFound)})

			_, err := reg.Lookup(ctx, testTrack())
			if !errors.Is(err, shared.ErrInvalidResponse) {
				t.Errorf("expected the anomaly to surface, got %v", err)
			}
		})

		t.Run("empty registry", func(t *testing.T) {
			reg := NewRegistry()
			if _, err := reg.Lookup(ctx, testTrack()); !errors.Is(err, shared.ErrServiceUnavailable) {
				t.Errorf("expected ErrServiceUnavailable, got %v", err)
			}
		})
	})
}
