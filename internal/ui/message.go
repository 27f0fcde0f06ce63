package ui

import (
	"github.com/Lualttt/Pipe-Bomb-Server/internal/models"
	"github.com/Lualttt/Pipe-Bomb-Server/internal/tasks"
)

// searchResultsMsg carries catalog search results into the update loop.
type searchResultsMsg struct {
	query   string
	results []models.Track
	err     error
}

// lyricsFetchedMsg signals completion of the lyrics pipeline.
type lyricsFetchedMsg struct {
	result *tasks.LyricsRunResult
	err    error
}

// progressUpdateMsg forwards engine progress into the update loop.
type progressUpdateMsg tasks.ProgressUpdate
