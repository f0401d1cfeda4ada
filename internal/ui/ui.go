package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/player/internal/player"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	LoadingView ViewState = iota
	LibraryView
	SearchView
	ResultView
)

// Loader builds the session the browser displays.
type Loader func(ctx context.Context) (*player.Session, error)

// Model represents the TUI application state.
type Model struct {
	ctx     context.Context
	load    Loader
	view    ViewState
	session *player.Session
	songs   list.Model
	input   textinput.Model
	query   string
	status  string
	err     error
	width   int
	height  int
	help    help.Model
	keys    keyMap
}

// NewModel creates a new TUI model that shows the session produced by load.
func NewModel(ctx context.Context, load Loader) *Model {
	input := textinput.New()
	input.Placeholder = "title, artist, album or genre"
	input.Prompt = styles.prompt.Render("/ ")
	input.CharLimit = 128

	songs := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	songs.SetFilteringEnabled(false)
	songs.SetShowHelp(false)

	return &Model{
		ctx:   ctx,
		load:  load,
		view:  LoadingView,
		songs: songs,
		input: input,
		help:  help.New(),
		keys:  newKeyMap(),
	}
}

// Init starts loading the session.
func (m *Model) Init() tea.Cmd {
	return m.loadSession()
}

// Session returns the loaded session, or nil while loading.
func (m *Model) Session() *player.Session {
	return m.session
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.songs.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case LoadingView:
			if key.Matches(msg, m.keys.quit) {
				return m, tea.Quit
			}
			return m, nil
		case SearchView:
			return m.handleSearchKeys(msg)
		default:
			return m.handleListKeys(msg)
		}

	case Msg:
		switch msg.kind {
		case MsgSessionLoaded:
			res := msg.data.(sessionResult)
			if res.err != nil {
				m.err = res.err
				return m, nil
			}
			m.session = res.session
			m.showLibrary()
			return m, nil

		case MsgSearchDone:
			res := msg.data.(searchResult)
			if res.err != nil {
				m.status = styles.err.Render(fmt.Sprintf("Search failed: %v", res.err))
				m.view = LibraryView
				return m, nil
			}
			m.query = res.query
			m.songs.SetItems(hitItems(res.hits))
			m.songs.Select(0)
			m.songs.Title = fmt.Sprintf("Results for %q", res.query)
			m.status = styles.ok.Render(fmt.Sprintf("%d of %d songs match", len(res.hits), m.session.Len()))
			m.view = ResultView
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.songs, cmd = m.songs.Update(msg)
	return m, cmd
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case LoadingView:
		return styles.title.Render("Loading library...")
	case SearchView:
		helpView := m.help.ShortHelpView([]key.Binding{m.keys.submit, m.keys.clear})
		return fmt.Sprintf("%s\n\n%s\n%s", m.songs.View(), m.input.View(), helpView)
	case ResultView:
		helpView := m.help.ShortHelpView([]key.Binding{m.keys.search, m.keys.clear, m.keys.quit})
		return fmt.Sprintf("%s\n\n%s\n%s", m.songs.View(), m.status, helpView)
	default:
		helpView := m.help.ShortHelpView(m.keys.ShortHelp())
		if m.status != "" {
			return fmt.Sprintf("%s\n\n%s\n%s", m.songs.View(), m.status, helpView)
		}
		return fmt.Sprintf("%s\n\n%s", m.songs.View(), helpView)
	}
}

func (m *Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.search):
		m.view = SearchView
		m.input.SetValue(m.query)
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.clear):
		if m.view == ResultView {
			m.showLibrary()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.songs, cmd = m.songs.Update(msg)
	return m, cmd
}

func (m *Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc:
		m.input.Blur()
		m.showLibrary()
		return m, nil
	case tea.KeyEnter:
		m.input.Blur()
		query := m.input.Value()
		if query == "" {
			m.showLibrary()
			return m, nil
		}
		return m, m.search(query)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// showLibrary lists every song and clears any search.
func (m *Model) showLibrary() {
	m.view = LibraryView
	m.query = ""
	m.status = ""
	m.songs.SetItems(libraryItems(m.session))
	m.songs.Title = fmt.Sprintf("Library (%d songs)", m.session.Len())
}

func (m *Model) loadSession() tea.Cmd {
	return func() tea.Msg {
		s, err := m.load(m.ctx)
		return sessionLoadedMsg(s, err)
	}
}

func (m *Model) search(query string) tea.Cmd {
	s := m.session
	return func() tea.Msg {
		hits, err := s.Search(query, 0)
		return searchDoneMsg(query, hits, err)
	}
}
