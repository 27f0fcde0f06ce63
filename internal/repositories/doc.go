// Package repositories implements SQLite persistence for journaled entities.
//
// Repositories handle CRUD operations with atomic sequence generation for human-readable ordering.
// All queries support soft deletes via deleted_at timestamps and exclude deleted records by default.
//
// Key Implementations:
//   - [ResolutionRepository] : Append-mostly journal of resolver outcomes with match statistics
//
// Sequence numbers provide stable, human-readable ordering (e.g., resolution #42) independent
// of UUIDs and creation timestamps. The [NextSequence] function atomically increments per-table
// sequence counters in dedicated sequence tables.
//
// The resolve path only ever appends: [ResolutionRepository.Create] runs after a cache miss
// regardless of hit or miss outcome, and journal failures are logged without failing the
// resolution. Reads ([ResolutionRepository.List], [ResolutionRepository.Stats]) serve the
// journal CLI commands.
package repositories
