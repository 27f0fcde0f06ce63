// package formatter provides functions to export lyrics to various formats (LRC, plain text, JSON)
package formatter

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/Lualttt/Pipe-Bomb-Server/internal/models"
	"github.com/Lualttt/Pipe-Bomb-Server/internal/shared"
)

// ExportToLRC converts lyrics to LRC format with [mm:ss.xx] line timestamps.
//
// Requires synced lyrics; plain lyrics carry no offsets to tag lines with.
func ExportToLRC(track *models.Track, lyrics *models.Lyrics) ([]byte, error) {
	if lyrics.Empty() {
		return nil, fmt.Errorf("%w: no lyrics lines to export", shared.ErrInvalidInput)
	}
	if !lyrics.Synced {
		return nil, fmt.Errorf("%w: plain lyrics cannot be exported as LRC", shared.ErrInvalidInput)
	}

	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("[ti:%s]\n", track.Metadata.Title))
	buf.WriteString(fmt.Sprintf("[ar:%s]\n", track.DisplayArtists()))
	if track.Metadata.Duration > 0 {
		buf.WriteString(fmt.Sprintf("[length:%s]\n", shared.FormatDuration(track.Metadata.Duration)))
	}
	buf.WriteString("[re:pipebomb]\n\n")

	for _, line := range lyrics.Lines {
		buf.WriteString(fmt.Sprintf("[%s]%s\n", shared.FormatTimestamp(line.Time), line.Text))
	}

	return buf.Bytes(), nil
}

// ExportToText converts lyrics to plain text format
func ExportToText(track *models.Track, lyrics *models.Lyrics) ([]byte, error) {
	if lyrics.Empty() {
		return nil, fmt.Errorf("%w: no lyrics lines to export", shared.ErrInvalidInput)
	}

	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Track: %s\n", track.Metadata.Title))
	buf.WriteString(fmt.Sprintf("Artists: %s\n", track.DisplayArtists()))
	buf.WriteString(fmt.Sprintf("Provider: %s\n", lyrics.Provider))
	buf.WriteString(fmt.Sprintf("Lines: %d\n\n", len(lyrics.Lines)))

	for _, line := range lyrics.Lines {
		buf.WriteString(line.Text)
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

// ExportToJSON generates a JSON document bundling the canonical track with its lyrics
func ExportToJSON(track *models.Track, lyrics *models.Lyrics) ([]byte, error) {
	doc := struct {
		Track  *models.Track  `json:"track"`
		Lyrics *models.Lyrics `json:"lyrics"`
	}{Track: track, Lyrics: lyrics}

	return shared.MarshalJSON(doc, true)
}

// DownloadImage downloads an image from the given URL and returns the raw bytes
func DownloadImage(url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("empty URL provided")
	}

	client := &http.Client{
		Timeout: 30 * time.Second,
	}

	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	return imageData, nil
}

// WriteLRCExport exports lyrics to an LRC file.
//
// Defaults to {track.TrackID}.lrc as the filename.
func WriteLRCExport(track *models.Track, lyrics *models.Lyrics, filepath string) (string, error) {
	if filepath == "" {
		filepath = fmt.Sprintf("%s.lrc", track.TrackID)
	}

	lrcData, err := ExportToLRC(track, lyrics)
	if err != nil {
		return "", fmt.Errorf("failed to generate LRC: %w", err)
	}

	if err := os.WriteFile(filepath, lrcData, 0644); err != nil {
		return "", fmt.Errorf("failed to write LRC file: %w", err)
	}

	return filepath, nil
}

// WriteTextExport exports lyrics to a plain text file.
//
// Defaults to {track.TrackID}_lyrics.txt as the filename.
func WriteTextExport(track *models.Track, lyrics *models.Lyrics, filepath string) (string, error) {
	if filepath == "" {
		filepath = fmt.Sprintf("%s_lyrics.txt", track.TrackID)
	}

	textData, err := ExportToText(track, lyrics)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if err := os.WriteFile(filepath, textData, 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}

	return filepath, nil
}

// WriteJSONExport exports the track and lyrics bundle to a JSON file.
//
// Defaults to {track.TrackID}.json as the filename.
func WriteJSONExport(track *models.Track, lyrics *models.Lyrics, filepath string) (string, error) {
	if filepath == "" {
		filepath = fmt.Sprintf("%s.json", track.TrackID)
	}

	jsonData, err := ExportToJSON(track, lyrics)
	if err != nil {
		return "", fmt.Errorf("failed to generate JSON: %w", err)
	}

	if err := os.WriteFile(filepath, jsonData, 0644); err != nil {
		return "", fmt.Errorf("failed to write JSON file: %w", err)
	}

	return filepath, nil
}

// WriteArtwork downloads cover art and writes it next to other exports.
//
// Defaults to cover.jpg as the filename.
func WriteArtwork(imageURL string, filepath string) (string, error) {
	if filepath == "" {
		filepath = "cover.jpg"
	}

	imageData, err := DownloadImage(imageURL)
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(filepath, imageData, 0644); err != nil {
		return "", fmt.Errorf("failed to save cover image: %w", err)
	}

	return filepath, nil
}
