package models

import (
	"fmt"
	"time"
)

// Resolution records one resolver outcome in the journal: which canonical
// track (or raw query) was searched and whether a Spotify counterpart was
// accepted. Rows are audit data; the in-memory caches never read them back.
type Resolution struct {
	id            string
	sequence      int
	canonicalID   string
	query         string
	matched       bool
	spotifyID     string
	spotifyTitle  string
	durationDelta float64
	createdAt     time.Time
	updatedAt     time.Time
	deletedAt     *time.Time
}

// NewResolution creates an unmatched resolution for the given canonical id
// and search query. canonicalID is empty for raw-query resolutions.
func NewResolution(canonicalID, query string) *Resolution {
	now := time.Now()
	return &Resolution{
		canonicalID: canonicalID,
		query:       query,
		createdAt:   now,
		updatedAt:   now,
	}
}

// RecordMatch marks the resolution as matched to a Spotify track.
// durationDelta is the absolute duration difference in seconds that the
// match was accepted at.
func (r *Resolution) RecordMatch(spotifyID, spotifyTitle string, durationDelta float64) {
	r.matched = true
	r.spotifyID = spotifyID
	r.spotifyTitle = spotifyTitle
	r.durationDelta = durationDelta
	r.updatedAt = time.Now()
}

// ID returns the unique identifier for this resolution.
func (r *Resolution) ID() string { return r.id }

// SetID assigns the unique identifier; called by the repository on create.
func (r *Resolution) SetID(id string) { r.id = id }

// Sequence returns the human-readable ordering number.
func (r *Resolution) Sequence() int { return r.sequence }

// SetSequence assigns the ordering number; called by the repository.
func (r *Resolution) SetSequence(seq int) { r.sequence = seq }

// CanonicalID returns the canonical track id that was resolved, or "" for a raw query.
func (r *Resolution) CanonicalID() string { return r.canonicalID }

// Query returns the search text sent to the provider.
func (r *Resolution) Query() string { return r.query }

// Matched reports whether a counterpart was accepted.
func (r *Resolution) Matched() bool { return r.matched }

// SpotifyID returns the matched provider-native id, or "" when unmatched.
func (r *Resolution) SpotifyID() string { return r.spotifyID }

// SpotifyTitle returns the matched track title, or "" when unmatched.
func (r *Resolution) SpotifyTitle() string { return r.spotifyTitle }

// DurationDelta returns the absolute duration difference in seconds for a match.
func (r *Resolution) DurationDelta() float64 { return r.durationDelta }

// CreatedAt returns when this resolution was recorded.
func (r *Resolution) CreatedAt() time.Time { return r.createdAt }

// UpdatedAt returns when this resolution was last updated.
func (r *Resolution) UpdatedAt() time.Time { return r.updatedAt }

// SetCreatedAt assigns the creation timestamp; called by the repository when scanning.
func (r *Resolution) SetCreatedAt(ts time.Time) { r.createdAt = ts }

// SetUpdatedAt assigns the update timestamp.
func (r *Resolution) SetUpdatedAt(ts time.Time) { r.updatedAt = ts }

// DeletedAt returns the soft-delete timestamp, or nil.
func (r *Resolution) DeletedAt() *time.Time { return r.deletedAt }

// SetDeletedAt assigns the soft-delete timestamp.
func (r *Resolution) SetDeletedAt(ts *time.Time) { r.deletedAt = ts }

// Validate checks the resolution's invariants before persistence.
func (r *Resolution) Validate() error {
	if r.query == "" {
		return fmt.Errorf("resolution query must not be empty")
	}
	if r.matched && r.spotifyID == "" {
		return fmt.Errorf("matched resolution must carry a spotify id")
	}
	if !r.matched && r.spotifyID != "" {
		return fmt.Errorf("unmatched resolution must not carry a spotify id")
	}
	return nil
}
