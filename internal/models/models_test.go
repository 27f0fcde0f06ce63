package models

import (
	"testing"
	"time"
)

func TestTrack(t *testing.T) {
	track := Track{
		TrackID: "proxy:abc123",
		Metadata: TrackMeta{
			Title:    "Paranoid",
			Artists:  []string{"Black Sabbath", "Ozzy Osbourne"},
			Duration: 170,
		},
	}

	t.Run("DisplayArtists joins in order", func(t *testing.T) {
		if got := track.DisplayArtists(); got != "Black Sabbath, Ozzy Osbourne" {
			t.Errorf("DisplayArtists() = %q", got)
		}
	})

	t.Run("SearchQuery combines title and artists", func(t *testing.T) {
		want := "Paranoid - Black Sabbath, Ozzy Osbourne"
		if got := track.SearchQuery(); got != want {
			t.Errorf("SearchQuery() = %q, want %q", got, want)
		}
	})
}

func TestLyricsEmpty(t *testing.T) {
	tc := []struct {
		name   string
		lyrics *Lyrics
		want   bool
	}{
		{name: "nil", lyrics: nil, want: true},
		{name: "no lines", lyrics: &Lyrics{Provider: "spotify"}, want: true},
		{name: "with lines", lyrics: &Lyrics{Lines: []LyricLine{{Text: "hello"}}}, want: false},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.lyrics.Empty(); got != tt.want {
				t.Errorf("Empty() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolution(t *testing.T) {
	t.Run("NewResolution sets timestamps", func(t *testing.T) {
		res := NewResolution("proxy:abc", "Paranoid - Black Sabbath")
		if res.CreatedAt().IsZero() || res.UpdatedAt().IsZero() {
			t.Error("expected timestamps to be set")
		}
		if res.Matched() {
			t.Error("new resolution should be unmatched")
		}
	})

	t.Run("RecordMatch flips state", func(t *testing.T) {
		res := NewResolution("proxy:abc", "Paranoid - Black Sabbath")
		before := res.UpdatedAt()
		time.Sleep(time.Millisecond)
		res.RecordMatch("sp123", "Paranoid", 0.4)

		if !res.Matched() {
			t.Error("expected resolution to be matched")
		}
		if res.SpotifyID() != "sp123" || res.SpotifyTitle() != "Paranoid" {
			t.Errorf("match fields not stored: %q %q", res.SpotifyID(), res.SpotifyTitle())
		}
		if res.DurationDelta() != 0.4 {
			t.Errorf("expected duration delta 0.4, got %v", res.DurationDelta())
		}
		if !res.UpdatedAt().After(before) {
			t.Error("expected UpdatedAt to advance")
		}
	})

	t.Run("Validate", func(t *testing.T) {
		tc := []struct {
			name    string
			build   func() *Resolution
			wantErr bool
		}{
			{
				name:  "unmatched is valid",
				build: func() *Resolution { return NewResolution("proxy:abc", "some query") },
			},
			{
				name: "matched is valid",
				build: func() *Resolution {
					r := NewResolution("proxy:abc", "some query")
					r.RecordMatch("sp1", "Title", 1.2)
					return r
				},
			},
			{
				name:    "empty query rejected",
				build:   func() *Resolution { return NewResolution("proxy:abc", "") },
				wantErr: true,
			},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				err := tt.build().Validate()
				if tt.wantErr && err == nil {
					t.Error("expected validation error")
				}
				if !tt.wantErr && err != nil {
					t.Errorf("unexpected validation error: %v", err)
				}
			})
		}
	})
}
