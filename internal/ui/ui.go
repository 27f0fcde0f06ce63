package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/Lualttt/Pipe-Bomb-Server/internal/services"
	"github.com/Lualttt/Pipe-Bomb-Server/internal/shared"
	"github.com/Lualttt/Pipe-Bomb-Server/internal/tasks"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	SearchView ViewState = iota
	ResultsView
	LyricsView
)

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	registry     *services.Registry
	engine       tasks.LyricsEngine
	width        int
	height       int
	searchInput  textinput.Model
	resultList   list.Model
	viewport     viewport.Model
	spin         spinner.Model
	loading      bool
	query        string
	lyricsResult *tasks.LyricsRunResult
	progressChan chan tasks.ProgressUpdate
	progress     tasks.ProgressUpdate
	err          error
	help         help.Model
	keys         keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, registry *services.Registry, engine tasks.LyricsEngine) *Model {
	input := textinput.New()
	input.Placeholder = "song title and artist"
	input.CharLimit = 200
	input.Width = 48
	input.Focus()

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = NewStyle("#7D56F4")

	return &Model{
		ctx:         ctx,
		view:        SearchView,
		registry:    registry,
		engine:      engine,
		searchInput: input,
		spin:        spin,
		help:        help.New(),
		keys:        newKeyMap(),
	}
}

// Init focuses the search prompt.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.resultList.Width() == 0 {
			m.resultList.SetSize(msg.Width-4, msg.Height-8)
		}
		m.viewport.Width = msg.Width - 4
		m.viewport.Height = msg.Height - 10
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case SearchView:
			return m.handleSearchKeys(msg)
		case ResultsView:
			return m.handleResultsKeys(msg)
		case LyricsView:
			return m.handleLyricsKeys(msg)
		}

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
		return m, nil

	case searchResultsMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		if len(msg.results) == 0 {
			m.err = fmt.Errorf("no results for %q", msg.query)
			return m, nil
		}
		m.err = nil
		m.query = msg.query
		items := make([]list.Item, len(msg.results))
		for i, track := range msg.results {
			items[i] = trackItem{track: track}
		}
		m.resultList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.resultList.Title = fmt.Sprintf("Results for '%s'", msg.query)
		m.resultList.SetSize(m.width-4, m.height-8)
		m.view = ResultsView
		return m, nil

	case progressUpdateMsg:
		m.progress = tasks.ProgressUpdate(msg)
		return m, m.waitForProgress()

	case lyricsFetchedMsg:
		m.loading = false
		m.lyricsResult = msg.result
		m.err = msg.err
		m.progressChan = nil
		if msg.err == nil && msg.result != nil {
			m.viewport = viewport.New(m.width-4, m.height-10)
			m.viewport.SetContent(m.renderLyricsBody())
		}
		return m, nil
	}

	return m.updateFocused(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case SearchView:
		return m.renderSearch()
	case ResultsView:
		return m.renderResults()
	case LyricsView:
		return m.renderLyrics()
	default:
		return ""
	}
}

func (m *Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "enter":
		query := strings.TrimSpace(m.searchInput.Value())
		if query == "" {
			return m, nil
		}
		m.loading = true
		m.err = nil
		return m, tea.Batch(m.spin.Tick, m.search(query))
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

func (m *Model) handleResultsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = SearchView
		m.searchInput.Focus()
		return m, textinput.Blink
	case "enter":
		selected := m.resultList.SelectedItem()
		if selected != nil {
			if item, ok := selected.(trackItem); ok {
				m.view = LyricsView
				m.loading = true
				m.err = nil
				return m, tea.Batch(m.spin.Tick, m.startLyrics(item.track.TrackID))
			}
		}
	}

	var cmd tea.Cmd
	m.resultList, cmd = m.resultList.Update(msg)
	return m, cmd
}

func (m *Model) handleLyricsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = ResultsView
		m.err = nil
		return m, nil
	case "/":
		m.view = SearchView
		m.searchInput.SetValue("")
		m.searchInput.Focus()
		return m, textinput.Blink
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *Model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case SearchView:
		m.searchInput, cmd = m.searchInput.Update(msg)
	case ResultsView:
		m.resultList, cmd = m.resultList.Update(msg)
	case LyricsView:
		m.viewport, cmd = m.viewport.Update(msg)
	}
	return m, cmd
}

func (m *Model) search(query string) tea.Cmd {
	return func() tea.Msg {
		svc, err := m.registry.Default()
		if err != nil {
			return searchResultsMsg{query: query, err: err}
		}
		results, err := svc.Search(m.ctx, query)
		return searchResultsMsg{query: query, results: results, err: err}
	}
}

func (m *Model) startLyrics(trackID string) tea.Cmd {
	m.progressChan = make(chan tasks.ProgressUpdate, 50)

	go func() {
		result, err := m.engine.Lyrics(m.ctx, m.progressChan, trackID)
		m.lyricsResult = result
		m.err = err
		close(m.progressChan)
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	return func() tea.Msg {
		if m.progressChan == nil {
			return lyricsFetchedMsg{result: m.lyricsResult, err: m.err}
		}

		update, ok := <-m.progressChan
		if !ok {
			return lyricsFetchedMsg{result: m.lyricsResult, err: m.err}
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) renderSearch() string {
	title := styles.title.Render("Pipe Bomb")
	prompt := "Search for a track:"

	var status string
	if m.loading {
		status = fmt.Sprintf("%s Searching...", m.spin.View())
	} else if m.err != nil {
		status = styles.err.Render(fmt.Sprintf("Error: %v", m.err))
	}

	searchKey := key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "search"),
	)
	helpKeys := []key.Binding{searchKey, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n\n%s\n\n%s\n\n%s", title, prompt, m.searchInput.View(), status, helpView)
}

func (m *Model) renderResults() string {
	lyricsKey := key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "lyrics"),
	)
	helpKeys := []key.Binding{lyricsKey, m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.resultList.View(), helpView)
}

func (m *Model) renderLyrics() string {
	if m.loading {
		title := styles.title.Render("Fetching Lyrics")
		return fmt.Sprintf("%s\n%s %s", title, m.spin.View(), m.progress.Message)
	}

	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Lyrics lookup failed: %v\n\nPress esc to go back, q to quit", m.err))
	}

	if m.lyricsResult == nil {
		return styles.err.Render("No lyrics available\n\nPress esc to go back, q to quit")
	}

	track := m.lyricsResult.Track
	lyr := m.lyricsResult.Lyrics

	header := styles.title.Render(fmt.Sprintf("%s - %s", track.Metadata.Title, track.DisplayArtists()))
	kind := styles.warn.Render("plain")
	if lyr.Synced {
		kind = styles.ok.Render("synced")
	}
	source := fmt.Sprintf("%s %s %s", styles.help.Render(fmt.Sprintf("%d", len(lyr.Lines))), kind, styles.help.Render("lines via "+lyr.Provider))

	helpKeys := []key.Binding{m.keys.up, m.keys.down, m.keys.back, m.keys.search, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n\n%s\n\n%s", header, source, m.viewport.View(), helpView)
}

func (m *Model) renderLyricsBody() string {
	if m.lyricsResult == nil || m.lyricsResult.Lyrics.Empty() {
		return "No lyrics lines."
	}

	var b strings.Builder
	for _, line := range m.lyricsResult.Lyrics.Lines {
		if m.lyricsResult.Lyrics.Synced {
			b.WriteString(styles.help.Render(fmt.Sprintf("[%s] ", shared.FormatTimestamp(line.Time))))
		}
		b.WriteString(line.Text)
		b.WriteString("\n")
	}
	return b.String()
}
