// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for lyrics lookups:
//  1. [SearchView] : Free-text query against the default catalog service
//  2. [ResultsView] : Pick a track from the ranked search results
//  3. [LyricsView] : Read lyrics in a scrollable viewport, timestamped when synced
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Progress updates flow through a channel from the TrackEngine, providing non-blocking status reporting during lookups.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, /, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
