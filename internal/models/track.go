package models

import "strings"

// Track is the canonical entity served by the aggregator. Provider-specific
// identifiers are hidden behind TrackID, which carries a "service:" prefix
// when it was produced by the service registry.
//
// Tracks are immutable after construction; the resolver never mutates one.
type Track struct {
	TrackID  string    `json:"trackID"`
	Metadata TrackMeta `json:"metadata"`
}

// TrackMeta carries the display metadata shared by every provider.
type TrackMeta struct {
	Title    string   `json:"title"`
	Artists  []string `json:"artists"`
	Duration float64  `json:"duration"` // seconds
	Image    string   `json:"image,omitempty"`
}

// DisplayArtists joins the ordered artist list for display and search queries.
func (t Track) DisplayArtists() string {
	return strings.Join(t.Metadata.Artists, ", ")
}

// SearchQuery builds the text query used to look the track up on another
// provider: "{title} - {artists joined by comma}".
func (t Track) SearchQuery() string {
	return t.Metadata.Title + " - " + t.DisplayArtists()
}

// Lyrics is the normalized lyrics representation shared by all sources.
//
// An empty Lines slice means "known absent": the source looked the track up
// and confirmed there are no usable lyrics. Callers distinguish that from
// "never looked up" by whether a Lyrics value exists at all.
type Lyrics struct {
	Provider string      `json:"provider"`
	Synced   bool        `json:"synced"`
	Lines    []LyricLine `json:"lines"`
}

// Empty reports whether the lyrics carry no usable lines.
func (l *Lyrics) Empty() bool {
	return l == nil || len(l.Lines) == 0
}

// LyricLine is a single normalized lyrics line. Time is the offset from the
// start of the track in seconds and is only meaningful when the parent
// [Lyrics.Synced] flag is set.
type LyricLine struct {
	Time float64 `json:"time"`
	Text string  `json:"text"`
}
