// Package models defines domain entities and persistence interfaces for the aggregation server.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): Lightweight structs carried between services
//   - [Track] : Canonical track identity plus display metadata from a streaming source
//   - [Lyrics] : Normalized lyrics with a synced flag and provider name
//   - [LyricLine] : One lyrics line with an optional time offset in seconds
//
// 2. Persistent Entities: Database-backed models with full lifecycle management
//   - [Resolution] : One resolver outcome (match or confirmed absence) in the journal
//
// Persistent entities implement the [Model] interface providing ID generation, timestamps,
// validation, and soft delete support. The [Repository] interface defines standard CRUD
// operations for database access.
//
// An empty [Lyrics.Lines] slice is meaningful: it marks a confirmed absence
// ("looked it up, nothing there") and doubles as the negative marker in the
// lyrics cache.
package models
