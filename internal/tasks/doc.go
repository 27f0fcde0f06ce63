// Package tasks orchestrates track aggregation pipelines with real-time progress reporting.
//
// # Core Operations
//
// The [LyricsEngine] interface defines three operations:
//
//  1. [LyricsEngine.Lyrics] : Canonical track → lyrics pipeline
//     - Fetches the canonical track from the service registry
//     - Walks the lyrics sources in registration order
//     - Returns normalized lyrics with per-line timestamps when synced
//
//  2. [LyricsEngine.Resolve] : Canonical track → Spotify counterpart
//     - Fetches the canonical track from the service registry
//     - Searches Spotify and picks the first duration-compatible candidate
//     - Returns the match together with the observed duration delta
//
//  3. [LyricsEngine.Warm] : Bulk cache warming
//     - Resolves many track IDs concurrently through a worker pool
//     - Confirmed absences still warm the negative cache
//     - Optionally writes a JSON manifest of per-track outcomes
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates.
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data for advanced UI rendering.
// Updates use select with default to prevent blocking.
//
// # Implementation
//
// [TrackEngine] implements [LyricsEngine] with dependencies on:
//   - [TrackDirectory] : Canonical track lookups (services.Registry)
//   - [Resolver] : Cached cross-service resolution (resolver.CrossServiceResolver)
//   - [LyricsLookup] : Ordered lyrics sources (lyrics.Registry)
package tasks
