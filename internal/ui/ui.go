package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/nicholasnucifora/spotify-filterer/internal/models"
	"github.com/nicholasnucifora/spotify-filterer/internal/services"
	"github.com/nicholasnucifora/spotify-filterer/internal/tasks"
)

// ViewState represents the current view in the picker.
type ViewState int

const (
	TargetListView ViewState = iota
	FilterListView
	ConfirmView
	RunView
	ResultView
)

// Model represents the picker application state.
//
// The flow is: choose a target playlist, toggle filter sources (playlists
// plus liked songs), confirm, watch the run, read the result.
type Model struct {
	ctx     context.Context
	view    ViewState
	library services.Library
	engine  *tasks.FilterEngine
	opts    tasks.FilterOptions

	width  int
	height int

	playlists  []models.Playlist
	targetList list.Model
	filterList list.Model
	target     *models.Playlist
	selected   map[string]bool

	progressChan chan tasks.ProgressUpdate
	progress     tasks.ProgressUpdate
	result       *tasks.FilterRunResult
	err          error

	help help.Model
	keys keyMap
}

type playlistsFetchedMsg struct {
	playlists []models.Playlist
	err       error
}

type progressUpdateMsg tasks.ProgressUpdate

type runCompleteMsg struct {
	result *tasks.FilterRunResult
	err    error
}

// NewModel creates a new picker model with the provided dependencies.
//
// The opts carry the non-interactive settings (remove flags, verify, dry
// run); the picker fills in the target and filter sources.
func NewModel(ctx context.Context, library services.Library, engine *tasks.FilterEngine, opts tasks.FilterOptions) *Model {
	return &Model{
		ctx:      ctx,
		view:     TargetListView,
		library:  library,
		engine:   engine,
		opts:     opts,
		selected: make(map[string]bool),
		help:     help.New(),
		keys:     newKeyMap(),
	}
}

// Result returns the completed run result, if any.
func (m *Model) Result() (*tasks.FilterRunResult, error) {
	return m.result, m.err
}

// Init fetches the user's playlists.
func (m *Model) Init() tea.Cmd {
	return m.fetchPlaylists()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.targetList.Width() == 0 {
			m.targetList.SetSize(msg.Width-4, msg.Height-8)
		}
		if m.filterList.Width() == 0 {
			m.filterList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case TargetListView:
			return m.handleTargetListKeys(msg)
		case FilterListView:
			return m.handleFilterListKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case playlistsFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.playlists = msg.playlists
		m.buildTargetList()
		return m, nil

	case progressUpdateMsg:
		m.progress = tasks.ProgressUpdate(msg)
		return m, m.waitForProgress()

	case runCompleteMsg:
		m.result = msg.result
		m.err = msg.err
		m.view = ResultView
		m.progressChan = nil
		return m, nil
	}

	return m.updateLists(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil && m.view != ResultView {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case TargetListView:
		return m.renderTargetList()
	case FilterListView:
		return m.renderFilterList()
	case ConfirmView:
		return m.renderConfirm()
	case RunView:
		return m.renderRun()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) buildTargetList() {
	items := make([]list.Item, len(m.playlists))
	for i, pl := range m.playlists {
		items[i] = targetItem{playlist: pl}
	}
	m.targetList = list.New(items, list.NewDefaultDelegate(), 0, 0)
	m.targetList.Title = "Choose the playlist to clean up"
	m.targetList.SetSize(m.width-4, m.height-8)
}

// buildFilterList offers every playlist except the target as a filter source.
func (m *Model) buildFilterList() {
	var items []list.Item
	for _, pl := range m.playlists {
		if m.target != nil && pl.ID == m.target.ID {
			continue
		}
		items = append(items, filterItem{playlist: pl, selected: m.selected})
	}
	m.filterList = list.New(items, list.NewDefaultDelegate(), 0, 0)
	m.filterList.Title = "Toggle filter sources"
	m.filterList.SetSize(m.width-4, m.height-8)
}

func (m *Model) handleTargetListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "enter":
		if selected, ok := m.targetList.SelectedItem().(targetItem); ok {
			target := selected.playlist
			m.target = &target
			m.opts.TargetLink = target.ID
			m.buildFilterList()
			m.view = FilterListView
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.targetList, cmd = m.targetList.Update(msg)
	return m, cmd
}

func (m *Model) handleFilterListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = TargetListView
		return m, nil
	case " ":
		if item, ok := m.filterList.SelectedItem().(filterItem); ok {
			m.selected[item.playlist.ID] = !m.selected[item.playlist.ID]
		}
		return m, nil
	case "l":
		m.opts.UseLikedSongs = !m.opts.UseLikedSongs
		return m, nil
	case "enter":
		m.view = ConfirmView
		return m, nil
	}

	var cmd tea.Cmd
	m.filterList, cmd = m.filterList.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "n", "esc":
		m.view = FilterListView
		return m, nil
	case "d":
		m.opts.DryRun = !m.opts.DryRun
		return m, nil
	case "y":
		m.view = RunView
		return m, m.startRun()
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "enter":
		return m, tea.Quit
	case "r":
		m.view = TargetListView
		m.target = nil
		m.selected = make(map[string]bool)
		m.result = nil
		m.err = nil
		m.buildTargetList()
		return m, nil
	}
	return m, nil
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case TargetListView:
		m.targetList, cmd = m.targetList.Update(msg)
	case FilterListView:
		m.filterList, cmd = m.filterList.Update(msg)
	}
	return m, cmd
}

func (m *Model) fetchPlaylists() tea.Cmd {
	return func() tea.Msg {
		playlists, err := m.library.GetPlaylists(m.ctx)
		return playlistsFetchedMsg{playlists: playlists, err: err}
	}
}

func (m *Model) startRun() tea.Cmd {
	m.opts.FilterLinks = nil
	for id, on := range m.selected {
		if on {
			m.opts.FilterLinks = append(m.opts.FilterLinks, id)
		}
	}

	m.progressChan = make(chan tasks.ProgressUpdate, 50)

	go func() {
		result, err := m.engine.Run(m.ctx, m.progressChan, m.opts)
		m.result = result
		m.err = err
		close(m.progressChan)
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	return func() tea.Msg {
		if m.progressChan == nil {
			return runCompleteMsg{result: m.result, err: m.err}
		}

		update, ok := <-m.progressChan
		if !ok {
			return runCompleteMsg{result: m.result, err: m.err}
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) renderTargetList() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.targetList.View(), helpView)
}

func (m *Model) renderFilterList() string {
	liked := "off"
	if m.opts.UseLikedSongs {
		liked = "on"
	}
	status := styles.help.Render(fmt.Sprintf("Liked Songs as filter source: %s", liked))

	confirmKey := key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "continue"))
	helpKeys := []key.Binding{m.keys.toggle, m.keys.liked, confirmKey, m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n%s\n\n%s", m.filterList.View(), status, helpView)
}

func (m *Model) renderConfirm() string {
	title := styles.title.Render(fmt.Sprintf("Filter '%s'?", m.target.Name))

	sources := 0
	for _, on := range m.selected {
		if on {
			sources++
		}
	}
	if m.opts.UseLikedSongs {
		sources++
	}

	mode := "remove"
	if m.opts.DryRun {
		mode = "dry run (report only)"
	}

	info := fmt.Sprintf("\nTarget: %s (%d tracks)\nFilter sources: %d\nMode: %s\n",
		m.target.Name, m.target.TrackCount, sources, mode)

	helpKeys := []key.Binding{m.keys.yes, m.keys.no, m.keys.dryRun, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n%s", title, info, helpView)
}

func (m *Model) renderRun() string {
	title := styles.title.Render("Filtering Playlist")

	var phase string
	switch m.progress.Phase {
	case tasks.FetchTarget:
		phase = "Fetching target playlist..."
	case tasks.CheckAvailability:
		phase = "Checking track availability..."
	case tasks.FetchFilters:
		phase = fmt.Sprintf("Fetching filter sources (%d/%d)", m.progress.Step, m.progress.Total)
	case tasks.MatchTracks:
		phase = "Matching tracks..."
	case tasks.BuildPlan:
		phase = "Building removal plan..."
	case tasks.RemoveTracks:
		phase = fmt.Sprintf("Removing tracks (batch %d/%d)", m.progress.Step, m.progress.Total)
	case tasks.Verify:
		phase = "Verifying removal..."
	default:
		phase = "Processing..."
	}

	return fmt.Sprintf("%s\n\n%s\n%s", title, phase, m.progress.Message)
}

func (m *Model) renderResult() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Filter run failed: %v\n\nPress r to retry, q to quit", m.err))
	}

	if m.result == nil {
		return styles.err.Render("No result available\n\nPress r to retry, q to quit")
	}

	counts := m.result.Plan.Counts()
	header := "✓ Filter Complete!"
	if m.result.DryRun {
		header = "✓ Dry Run Complete (nothing removed)"
	}
	title := styles.ok.Render(header)

	info := fmt.Sprintf(
		"\nPlaylist: %s (%d entries)\nUnavailable: %d  Exact: %d  Fuzzy: %d  Internal: %d\nRemoved: %d entries (%d unique tracks)",
		m.result.Playlist.Name, m.result.TotalEntries,
		counts.Unavailable, counts.Exact, counts.Fuzzy, counts.Internal,
		m.result.Removal.Removed, m.result.Removal.UniqueTracks,
	)

	var extra string
	if len(m.result.Removal.FailedIDs) > 0 {
		extra += "\n" + styles.err.Render(fmt.Sprintf("Failed to remove %d tracks", len(m.result.Removal.FailedIDs)))
	}
	if len(m.result.Warnings) > 0 {
		extra += "\n" + styles.warn.Render(fmt.Sprintf("%d possible duplicates left in place", len(m.result.Warnings)))
	}
	if len(m.result.StillPresent) > 0 {
		extra += "\n" + styles.warn.Render(fmt.Sprintf("%d tracks still present after verification", len(m.result.StillPresent)))
	}

	helpKeys := []key.Binding{m.keys.restart, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s%s\n\n%s", title, info, extra, helpView)
}
