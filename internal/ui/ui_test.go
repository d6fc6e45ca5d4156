package ui

import (
	"context"
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/nicholasnucifora/spotify-filterer/internal/dedupe"
	"github.com/nicholasnucifora/spotify-filterer/internal/models"
	"github.com/nicholasnucifora/spotify-filterer/internal/shared"
	"github.com/nicholasnucifora/spotify-filterer/internal/tasks"
)

type mockLibrary struct {
	playlists []models.Playlist
	tracks    map[string][]models.Track
}

func (m *mockLibrary) Name() string { return "Mock" }

func (m *mockLibrary) Authenticate(ctx context.Context, credentials map[string]string) error {
	return nil
}

func (m *mockLibrary) GetPlaylists(ctx context.Context) ([]models.Playlist, error) {
	return m.playlists, nil
}

func (m *mockLibrary) GetPlaylist(ctx context.Context, playlistID string) (*models.Playlist, error) {
	for i := range m.playlists {
		if m.playlists[i].ID == playlistID {
			return &m.playlists[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, playlistID)
}

func (m *mockLibrary) GetPlaylistTracks(ctx context.Context, playlistID string) ([]models.Track, error) {
	return m.tracks[playlistID], nil
}

func (m *mockLibrary) GetSavedTracks(ctx context.Context) ([]models.Track, error) {
	return nil, nil
}

func (m *mockLibrary) RemoveAllOccurrences(ctx context.Context, playlistID string, trackIDs []string) error {
	remove := make(map[string]bool, len(trackIDs))
	for _, id := range trackIDs {
		remove[id] = true
	}
	var kept []models.Track
	for _, track := range m.tracks[playlistID] {
		if !remove[track.ID] {
			kept = append(kept, track)
		}
	}
	m.tracks[playlistID] = kept
	return nil
}

func testModel() (*Model, *mockLibrary) {
	library := &mockLibrary{
		playlists: []models.Playlist{
			{ID: "target", Name: "My Mix", TrackCount: 2},
			{ID: "filter", Name: "Favorites", TrackCount: 1},
		},
		tracks: map[string][]models.Track{
			"target": {
				{ID: "t1", Title: "Song A", Playable: true},
				{ID: "t2", Title: "Song B", Playable: true},
			},
			"filter": {
				{ID: "t1", Title: "Song A", Playable: true},
			},
		},
	}

	engine := tasks.NewFilterEngine(library, dedupe.DefaultConfig(), nil)
	model := NewModel(context.Background(), library, engine, tasks.FilterOptions{
		RemoveUnavailable: true,
		RemoveDuplicates:  true,
	})
	return model, library
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

// pump runs commands until one yields a runCompleteMsg, feeding every message
// back into the model the way the bubbletea runtime would.
func pump(t *testing.T, model *Model, cmd tea.Cmd) {
	t.Helper()

	for i := 0; i < 100; i++ {
		if cmd == nil {
			t.Fatal("command chain ended before the run completed")
		}
		msg := cmd()
		_, cmd = model.Update(msg)
		if _, ok := msg.(runCompleteMsg); ok {
			return
		}
	}
	t.Fatal("run did not complete")
}

func TestPickerFlow(t *testing.T) {
	model, library := testModel()

	// Playlists arrive, target list is built.
	model.Update(playlistsFetchedMsg{playlists: library.playlists})
	if model.targetList.SelectedItem() == nil {
		t.Fatal("target list is empty")
	}

	// Select the first playlist as target.
	model.Update(keyMsg("enter"))
	if model.view != FilterListView {
		t.Fatalf("view = %d, want filter list", model.view)
	}
	if model.target == nil || model.target.ID != "target" {
		t.Fatalf("target = %+v, want playlist target", model.target)
	}

	// The target is not offered as its own filter source.
	for _, item := range model.filterList.Items() {
		if fi, ok := item.(filterItem); ok && fi.playlist.ID == "target" {
			t.Error("target playlist offered as filter source")
		}
	}

	// Toggle the remaining playlist on and continue.
	model.Update(keyMsg(" "))
	if !model.selected["filter"] {
		t.Error("space should toggle the selected filter source")
	}
	model.Update(keyMsg("enter"))
	if model.view != ConfirmView {
		t.Fatalf("view = %d, want confirm", model.view)
	}

	// Confirm and run to completion.
	_, cmd := model.Update(keyMsg("y"))
	pump(t, model, cmd)

	if model.view != ResultView {
		t.Fatalf("view = %d, want result", model.view)
	}
	result, err := model.Result()
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if result.Removal.Removed != 1 {
		t.Errorf("removed = %d, want the one shared track", result.Removal.Removed)
	}
	if len(library.tracks["target"]) != 1 || library.tracks["target"][0].ID != "t2" {
		t.Errorf("remaining = %+v, want only t2", library.tracks["target"])
	}

	view := model.View()
	if !strings.Contains(view, "Filter Complete") {
		t.Errorf("result view missing completion banner:\n%s", view)
	}
}

func TestPickerLikedToggle(t *testing.T) {
	model, library := testModel()

	model.Update(playlistsFetchedMsg{playlists: library.playlists})
	model.Update(keyMsg("enter"))

	model.Update(keyMsg("l"))
	if !model.opts.UseLikedSongs {
		t.Error("l should enable liked songs as a filter source")
	}
	model.Update(keyMsg("l"))
	if model.opts.UseLikedSongs {
		t.Error("l should toggle liked songs off again")
	}
}

func TestPickerDryRunToggle(t *testing.T) {
	model, library := testModel()

	model.Update(playlistsFetchedMsg{playlists: library.playlists})
	model.Update(keyMsg("enter"))
	model.Update(keyMsg(" "))
	model.Update(keyMsg("enter"))

	model.Update(keyMsg("d"))
	if !model.opts.DryRun {
		t.Error("d should enable dry run on the confirm view")
	}

	_, cmd := model.Update(keyMsg("y"))
	pump(t, model, cmd)

	if len(library.tracks["target"]) != 2 {
		t.Error("dry run must not remove anything")
	}
	if !strings.Contains(model.View(), "Dry Run Complete") {
		t.Errorf("result view missing dry-run banner:\n%s", model.View())
	}
}
