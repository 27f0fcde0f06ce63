package formatter

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Lualttt/Pipe-Bomb-Server/internal/models"
	th "github.com/Lualttt/Pipe-Bomb-Server/internal/testing"
)

func exportTrack() *models.Track {
	return &models.Track{
		TrackID: "proxy:abc123",
		Metadata: models.TrackMeta{
			Title:    "Bohemian Rhapsody",
			Artists:  []string{"Queen"},
			Duration: 354,
		},
	}
}

func syncedLyrics() *models.Lyrics {
	return &models.Lyrics{
		Provider: "spotify",
		Synced:   true,
		Lines: []models.LyricLine{
			{Time: 0.5, Text: "Is this the real life"},
			{Time: 83.45, Text: "Is this just fantasy"},
		},
	}
}

func plainLyrics() *models.Lyrics {
	return &models.Lyrics{
		Provider: "musixmatch",
		Synced:   false,
		Lines: []models.LyricLine{
			{Text: "Is this the real life"},
			{Text: "Is this just fantasy"},
		},
	}
}

func TestExporters(t *testing.T) {
	t.Run("ExportToLRC", func(t *testing.T) {
		t.Run("synced lyrics", func(t *testing.T) {
			data, err := ExportToLRC(exportTrack(), syncedLyrics())
			if err != nil {
				t.Fatalf("ExportToLRC failed: %v", err)
			}

			output := string(data)

			if !strings.Contains(output, "[ti:Bohemian Rhapsody]") {
				t.Errorf("LRC missing title tag, got: %s", output)
			}
			if !strings.Contains(output, "[ar:Queen]") {
				t.Errorf("LRC missing artist tag")
			}
			if !strings.Contains(output, "[length:5:54]") {
				t.Errorf("LRC missing length tag")
			}
			if !strings.Contains(output, "[00:00.50]Is this the real life") {
				t.Errorf("LRC missing first line, got: %s", output)
			}
			if !strings.Contains(output, "[01:23.45]Is this just fantasy") {
				t.Errorf("LRC missing second line, got: %s", output)
			}
		})

		t.Run("zero duration omits length tag", func(t *testing.T) {
			track := exportTrack()
			track.Metadata.Duration = 0

			data, err := ExportToLRC(track, syncedLyrics())
			if err != nil {
				t.Fatalf("ExportToLRC failed: %v", err)
			}

			if strings.Contains(string(data), "[length:") {
				t.Errorf("LRC should omit length tag for unknown duration")
			}
		})

		t.Run("plain lyrics rejected", func(t *testing.T) {
			_, err := ExportToLRC(exportTrack(), plainLyrics())
			if err == nil {
				t.Error("ExportToLRC should reject plain lyrics")
			}
		})

		t.Run("empty lyrics rejected", func(t *testing.T) {
			_, err := ExportToLRC(exportTrack(), &models.Lyrics{Synced: true})
			if err == nil {
				t.Error("ExportToLRC should reject empty lyrics")
			}
		})
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText(exportTrack(), plainLyrics())
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}

		output := string(data)

		if !strings.Contains(output, "Track: Bohemian Rhapsody") {
			t.Errorf("text missing track header")
		}
		if !strings.Contains(output, "Artists: Queen") {
			t.Errorf("text missing artists header")
		}
		if !strings.Contains(output, "Provider: musixmatch") {
			t.Errorf("text missing provider header")
		}
		if !strings.Contains(output, "Lines: 2") {
			t.Errorf("text missing line count")
		}
		if !strings.Contains(output, "Is this the real life\nIs this just fantasy\n") {
			t.Errorf("text missing lyrics body, got: %s", output)
		}

		if _, err := ExportToText(exportTrack(), &models.Lyrics{}); err == nil {
			t.Error("ExportToText should reject empty lyrics")
		}
	})

	t.Run("ExportToJSON", func(t *testing.T) {
		data, err := ExportToJSON(exportTrack(), syncedLyrics())
		if err != nil {
			t.Fatalf("ExportToJSON failed: %v", err)
		}

		var doc struct {
			Track  *models.Track  `json:"track"`
			Lyrics *models.Lyrics `json:"lyrics"`
		}
		if err := json.Unmarshal(data, &doc); err != nil {
			t.Fatalf("JSON export does not parse: %v", err)
		}

		if doc.Track.TrackID != "proxy:abc123" {
			t.Errorf("JSON track ID = %s, want proxy:abc123", doc.Track.TrackID)
		}
		if !doc.Lyrics.Synced || len(doc.Lyrics.Lines) != 2 {
			t.Errorf("JSON lyrics not round-tripped: %+v", doc.Lyrics)
		}

		// Pretty output for manual inspection
		if !strings.Contains(string(data), "\n  ") {
			t.Errorf("JSON export should be indented")
		}
	})
}

func TestDownloadImage(t *testing.T) {
	t.Run("EmptyURL", func(t *testing.T) {
		_, err := DownloadImage("")
		if err == nil {
			t.Error("DownloadImage with empty URL should return error")
		}
	})

	t.Run("Success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("fake image bytes"))
		}))
		defer server.Close()

		data, err := DownloadImage(server.URL)
		if err != nil {
			t.Fatalf("DownloadImage failed: %v", err)
		}
		if string(data) != "fake image bytes" {
			t.Errorf("DownloadImage returned %q", string(data))
		}
	})

	t.Run("Non200Status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		if _, err := DownloadImage(server.URL); err == nil {
			t.Error("DownloadImage should fail on non-200 status")
		}
	})
}

func TestWriters(t *testing.T) {
	t.Run("WriteLRCExport", func(t *testing.T) {
		t.Run("WithDefaultPath", func(t *testing.T) {
			tempDir := t.TempDir()
			originalDir := th.MustGetwd(t)
			th.MustChdir(t, tempDir)
			defer th.MustChdir(t, originalDir)

			path, err := WriteLRCExport(exportTrack(), syncedLyrics(), "")
			if err != nil {
				t.Fatalf("WriteLRCExport failed: %v", err)
			}

			if path != "proxy:abc123.lrc" {
				t.Errorf("Expected file 'proxy:abc123.lrc', got '%s'", path)
			}

			th.AssertFileExists(t, path)

			content := th.MustReadFile(t, path)
			if !strings.Contains(content, "[00:00.50]Is this the real life") {
				t.Errorf("LRC file missing lyrics line")
			}
		})

		t.Run("WithCustomPath", func(t *testing.T) {
			tempDir := t.TempDir()
			originalDir := th.MustGetwd(t)
			th.MustChdir(t, tempDir)
			defer th.MustChdir(t, originalDir)

			path, err := WriteLRCExport(exportTrack(), syncedLyrics(), "custom.lrc")
			if err != nil {
				t.Fatalf("WriteLRCExport failed: %v", err)
			}

			if path != "custom.lrc" {
				t.Errorf("Expected file 'custom.lrc', got '%s'", path)
			}
			th.AssertFileExists(t, path)
		})

		t.Run("PlainLyricsFail", func(t *testing.T) {
			tempDir := t.TempDir()
			originalDir := th.MustGetwd(t)
			th.MustChdir(t, tempDir)
			defer th.MustChdir(t, originalDir)

			if _, err := WriteLRCExport(exportTrack(), plainLyrics(), ""); err == nil {
				t.Error("WriteLRCExport should fail for plain lyrics")
			}
		})
	})

	t.Run("WriteTextExport", func(t *testing.T) {
		tempDir := t.TempDir()
		originalDir := th.MustGetwd(t)
		th.MustChdir(t, tempDir)
		defer th.MustChdir(t, originalDir)

		path, err := WriteTextExport(exportTrack(), plainLyrics(), "")
		if err != nil {
			t.Fatalf("WriteTextExport failed: %v", err)
		}

		if path != "proxy:abc123_lyrics.txt" {
			t.Errorf("Expected file 'proxy:abc123_lyrics.txt', got '%s'", path)
		}

		th.AssertFileExists(t, path)

		content := th.MustReadFile(t, path)
		if !strings.Contains(content, "Track: Bohemian Rhapsody") {
			t.Errorf("text file missing header")
		}
	})

	t.Run("WriteJSONExport", func(t *testing.T) {
		tempDir := t.TempDir()
		originalDir := th.MustGetwd(t)
		th.MustChdir(t, tempDir)
		defer th.MustChdir(t, originalDir)

		path, err := WriteJSONExport(exportTrack(), syncedLyrics(), "")
		if err != nil {
			t.Fatalf("WriteJSONExport failed: %v", err)
		}

		if path != "proxy:abc123.json" {
			t.Errorf("Expected file 'proxy:abc123.json', got '%s'", path)
		}

		th.AssertFileExists(t, path)

		content := th.MustReadFile(t, path)
		if !strings.Contains(content, "Bohemian Rhapsody") || !strings.Contains(content, "spotify") {
			t.Errorf("JSON file missing expected fields")
		}
	})

	t.Run("WriteArtwork", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("fake image bytes"))
		}))
		defer server.Close()

		t.Run("WithDefaultPath", func(t *testing.T) {
			tempDir := t.TempDir()
			originalDir := th.MustGetwd(t)
			th.MustChdir(t, tempDir)
			defer th.MustChdir(t, originalDir)

			path, err := WriteArtwork(server.URL, "")
			if err != nil {
				t.Fatalf("WriteArtwork failed: %v", err)
			}

			if path != "cover.jpg" {
				t.Errorf("Expected file 'cover.jpg', got '%s'", path)
			}
			th.AssertFileExists(t, path)
		})

		t.Run("DownloadFailure", func(t *testing.T) {
			if _, err := WriteArtwork("", "out.jpg"); err == nil {
				t.Error("WriteArtwork should fail on empty URL")
			}
		})
	})
}
