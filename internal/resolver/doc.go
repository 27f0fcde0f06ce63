// Package resolver maps canonical tracks to their Spotify counterparts.
//
// # Matching
//
// Spotify search results come back in relevance order, but relevance alone
// confuses remasters, live cuts, and covers. [MatchDuration] disambiguates by
// track length: the first candidate within two seconds of the canonical
// duration is taken as the same recording.
//
// # Caching
//
// [Resolver] caches every outcome under the canonical track ID (or the raw
// query string for free-text lookups), including failures. A track with no
// acceptable candidate is remembered as a miss for the full TTL so repeat
// requests don't hammer the search API.
//
// # Readiness
//
// Resolution waits on the credential session's readiness gate before any
// network call. When Spotify credentials are absent from the configuration
// the gate fails immediately with [shared.ErrServiceUnavailable] and nothing
// is cached.
//
// # Journal
//
// When a journal is attached, every fresh outcome is appended as a
// [models.Resolution] row. Journal writes are best-effort: a failure is
// logged at debug level and the resolution still succeeds.
package resolver
