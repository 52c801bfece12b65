package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-match3/internal/storage"
)

// Journal browser layout constants
const (
	minWidthForSidebar = 80  // Minimum width to show the session sidebar
	sidebarWidth       = 24  // Width of the session sidebar
	maxSessions        = 100 // Max sessions to list
)

// JournalKeyMap defines the key bindings for the journal browser.
type JournalKeyMap struct {
	Up          key.Binding
	Down        key.Binding
	NextSession key.Binding
	PrevSession key.Binding
	Delete      key.Binding
	Back        key.Binding
	Quit        key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k JournalKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextSession, k.PrevSession, k.Delete, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k JournalKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextSession, k.PrevSession},
		{k.Delete, k.Back, k.Quit},
	}
}

// DefaultJournalKeyMap returns default key bindings.
func DefaultJournalKeyMap() JournalKeyMap {
	return JournalKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		NextSession: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "next session"),
		),
		PrevSession: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab", "prev session"),
		),
		Delete: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "delete session"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// JournalModel is the Bubble Tea model for browsing recorded sessions.
type JournalModel struct {
	journal     *storage.Journal
	sessions    []storage.Session
	cursor      int
	events      []storage.EventRecord
	stats       *storage.SessionStats
	table       table.Model
	help        help.Model
	keys        JournalKeyMap
	err         error
	width       int
	height      int
	quitting    bool
	goingBack   bool
	showSidebar bool
}

// NewJournalModel creates a journal browser. A nil journal shows an empty list.
func NewJournalModel(journal *storage.Journal, width, height int) JournalModel {
	h := help.New()
	h.ShowAll = false

	m := JournalModel{
		journal:     journal,
		keys:        DefaultJournalKeyMap(),
		help:        h,
		width:       width,
		height:      height,
		showSidebar: width >= minWidthForSidebar,
	}
	m.table = m.createTable()
	m.loadSessions()
	return m
}

// createTable creates a new event table sized to the window.
func (m *JournalModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "Time", Width: 10},
		{Title: "Event", Width: 14},
		{Title: "State", Width: 10},
		{Title: "Pass", Width: 5},
		{Title: "Count", Width: 6},
		{Title: "Detail", Width: 20},
	}

	tableWidth := m.width - 4 // Margins
	if m.showSidebar {
		tableWidth -= sidebarWidth + 3 // Sidebar + border + gap
	}
	if rest := tableWidth - 45 - 12; rest > columns[5].Width {
		columns[5].Width = rest
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(3, m.height-10)), // Leave room for header, stats and help
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// loadSessions reloads the session list and the selected session.
func (m *JournalModel) loadSessions() {
	m.sessions = nil
	if m.journal != nil {
		sessions, err := m.journal.Sessions(maxSessions)
		if err != nil {
			m.err = err
		}
		m.sessions = sessions
	}
	if m.cursor >= len(m.sessions) {
		m.cursor = max(0, len(m.sessions)-1)
	}
	m.loadEvents()
}

// loadEvents loads the events and stats of the selected session.
func (m *JournalModel) loadEvents() {
	m.events, m.stats = nil, nil
	if m.journal != nil && len(m.sessions) > 0 {
		id := m.sessions[m.cursor].ID
		events, err := m.journal.Events(id)
		if err != nil {
			m.err = err
		}
		m.events = events
		if stats, err := m.journal.Stats(id); err == nil {
			m.stats = stats
		}
	}
	m.updateTableRows()
}

// updateTableRows updates the table with current events.
func (m *JournalModel) updateTableRows() {
	rows := make([]table.Row, len(m.events))
	for i, e := range m.events {
		rows[i] = table.Row{
			e.CreatedAt.Format("15:04:05"),
			e.Kind,
			e.State,
			fmt.Sprintf("%d", e.Pass),
			fmt.Sprintf("%d", e.Count),
			e.Detail,
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// Init initializes the journal model.
func (m JournalModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the journal browser.
func (m JournalModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextSession):
			if len(m.sessions) > 0 {
				m.cursor = (m.cursor + 1) % len(m.sessions)
				m.loadEvents()
			}
			return m, nil

		case key.Matches(msg, m.keys.PrevSession):
			if len(m.sessions) > 0 {
				m.cursor = (m.cursor - 1 + len(m.sessions)) % len(m.sessions)
				m.loadEvents()
			}
			return m, nil

		case key.Matches(msg, m.keys.Delete):
			if m.journal != nil && len(m.sessions) > 0 {
				if err := m.journal.DeleteSession(m.sessions[m.cursor].ID); err != nil {
					m.err = err
				}
				m.loadSessions()
			}
			return m, nil

		case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.showSidebar = m.width >= minWidthForSidebar
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the journal browser.
func (m JournalModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229"))

	title := "TRACE JOURNAL"
	if len(m.sessions) > 0 {
		s := m.sessions[m.cursor]
		title = fmt.Sprintf("TRACE JOURNAL - #%d %s (%dx%d, %d colors)", s.ID, s.Variant, s.BoardSize, s.BoardSize, s.Colors)
	}
	b.WriteString(titleStyle.Render(centerText(title, m.width)))
	b.WriteString("\n")
	b.WriteString(centerText(m.statsLine(), m.width))
	b.WriteString("\n\n")

	if m.showSidebar {
		b.WriteString(m.renderWideLayout())
	} else {
		b.WriteString(m.renderNarrowLayout())
	}

	b.WriteString("\n")
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	if m.err != nil {
		b.WriteString(helpStyle.Render(fmt.Sprintf("error: %v", m.err)))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// statsLine summarizes the selected session.
func (m JournalModel) statsLine() string {
	if m.stats == nil {
		return ""
	}
	s := m.stats
	return fmt.Sprintf("swaps %d/%d  cascades %d  destroyed %d  refilled %d  longest %d passes  warnings %d",
		s.SwapsAccepted, s.SwapsAccepted+s.SwapsRejected, s.Cascades, s.Destroyed, s.Replenished, s.MaxPass, s.Warnings)
}

// renderWideLayout renders the journal with a session sidebar.
func (m JournalModel) renderWideLayout() string {
	sidebarStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(sidebarWidth).
		Padding(0, 1)

	var sidebar strings.Builder
	sidebar.WriteString("Sessions\n")
	sidebar.WriteString(strings.Repeat("-", sidebarWidth-4))
	sidebar.WriteString("\n")

	for i, s := range m.sessions {
		cursor := "  "
		style := lipgloss.NewStyle()
		if i == m.cursor {
			cursor = "> "
			style = style.Bold(true).Foreground(lipgloss.Color("229"))
		}
		line := fmt.Sprintf("#%d %s", s.ID, s.StartedAt.Format("Jan 02 15:04"))
		sidebar.WriteString(style.Render(cursor + line))
		sidebar.WriteString("\n")
	}

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	return lipgloss.JoinHorizontal(lipgloss.Top,
		sidebarStyle.Render(sidebar.String()), "  ", tableStyle.Render(m.renderTableContent()))
}

// renderNarrowLayout renders the journal with the session shown above the table.
func (m JournalModel) renderNarrowLayout() string {
	var b strings.Builder

	if len(m.sessions) > 0 {
		s := m.sessions[m.cursor]
		b.WriteString(centerText(fmt.Sprintf("< #%d %s >", s.ID, s.StartedAt.Format("Jan 02 15:04")), m.width))
		b.WriteString("\n\n")
	}

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	b.WriteString(tableStyle.Render(m.renderTableContent()))

	return b.String()
}

// renderTableContent renders the table or an empty message.
func (m JournalModel) renderTableContent() string {
	if len(m.events) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4)
		return emptyStyle.Render("No trace events recorded yet.\nPlay a board with the journal enabled.")
	}
	return m.table.View()
}

// IsGoingBack returns true if user wants to go back to menu.
func (m JournalModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m JournalModel) IsQuitting() bool {
	return m.quitting
}

// RunJournal runs the journal browser.
// Returns true if user wants to go back to menu, false if quitting.
func RunJournal(journal *storage.Journal, width, height int) (goBack bool, err error) {
	p := tea.NewProgram(
		NewJournalModel(journal, width, height),
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}

	m, ok := finalModel.(JournalModel)
	if !ok {
		return false, nil
	}
	return m.IsGoingBack(), nil
}
