// Package lyrics fetches and normalizes song lyrics from multiple upstream sources.
//
// # Sources
//
// Every source implements [Source] and produces the same normalized shape,
// [models.Lyrics]: a provider name, a synced flag, and ordered lines whose
// timestamps are seconds from track start.
//
//   - [SpotifySource] resolves the canonical track to its Spotify counterpart
//     first, then normalizes the lyrics API payload. It is the only source
//     that can produce line-synced output.
//   - [MusixmatchSource] matches by title and artist directly and serves
//     plain text.
//
// # Registry
//
// [Registry.Lookup] tries sources in registration order and returns the first
// hit, skipping sources that are disabled or have nothing for the track.
//
// # Caching
//
// Each source keeps its own TTL cache, including negative entries: a track
// confirmed to have no lyrics, or whose fetch failed, is remembered for the
// full window. The Spotify source stores one quirk worth knowing about: a
// payload that parses to zero usable lines is returned successfully to the
// caller that fetched it, then serves as a negative marker for everyone
// after.
package lyrics
