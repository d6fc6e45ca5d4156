// Package ui implements the interactive terminal picker for filter runs,
// built on bubbletea.
//
// The picker walks the user through choosing a target playlist, toggling
// filter sources (other playlists and liked songs), and confirming before
// the run executes with live progress. It is launched by `filter --pick`.
package ui
