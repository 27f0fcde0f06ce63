package ui

import (
	"fmt"

	"github.com/Lualttt/Pipe-Bomb-Server/internal/models"
	"github.com/Lualttt/Pipe-Bomb-Server/internal/shared"
	"github.com/charmbracelet/bubbles/list"
)

var _ list.Item = trackItem{}

// trackItem wraps [models.Track] to implement [list.Item].
type trackItem struct {
	track models.Track
}

func (i trackItem) FilterValue() string { return i.track.Metadata.Title }
func (i trackItem) Title() string       { return i.track.Metadata.Title }
func (i trackItem) Description() string {
	desc := i.track.DisplayArtists()
	if i.track.Metadata.Duration > 0 {
		desc = fmt.Sprintf("%s • %s", desc, shared.FormatDuration(i.track.Metadata.Duration))
	}
	return desc
}
