package ui

import (
	"fmt"

	"github.com/nicholasnucifora/spotify-filterer/internal/models"
)

// targetItem wraps [models.Playlist] to implement list.Item for the
// single-select target list.
type targetItem struct {
	playlist models.Playlist
}

func (i targetItem) FilterValue() string { return i.playlist.Name }
func (i targetItem) Title() string       { return i.playlist.Name }
func (i targetItem) Description() string {
	desc := fmt.Sprintf("%d tracks", i.playlist.TrackCount)
	if i.playlist.Description != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.playlist.Description)
	}
	return desc
}

// filterItem wraps [models.Playlist] for the multi-select filter-source list.
// The selected map is shared with the model so toggles render immediately.
type filterItem struct {
	playlist models.Playlist
	selected map[string]bool
}

func (i filterItem) FilterValue() string { return i.playlist.Name }

func (i filterItem) Title() string {
	mark := "[ ]"
	if i.selected[i.playlist.ID] {
		mark = "[x]"
	}
	return fmt.Sprintf("%s %s", mark, i.playlist.Name)
}

func (i filterItem) Description() string {
	return fmt.Sprintf("%d tracks", i.playlist.TrackCount)
}
