package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-match3/internal/core"
	"github.com/vovakirdan/tui-match3/internal/registry"
	"github.com/vovakirdan/tui-match3/internal/storage"
	"github.com/vovakirdan/tui-match3/internal/trace"
)

// footerHeight is the number of rows below the game screen.
const footerHeight = 1

// Options configures the platform services around a game.
type Options struct {
	Journal  *storage.Journal   // Nil disables the trace journal
	LogSink  trace.Sink         // Nil disables trace logging
	Trace    bool               // False attaches no sink at all
	User     string             // Recorded with journal sessions
	Renderer *lipgloss.Renderer // Nil uses the default renderer
}

// Model is the Bubble Tea model for running a game.
type Model struct {
	game       registry.Game
	screen     *core.Screen
	opts       Options
	config     core.RuntimeConfig
	inputFrame core.InputFrame
	gameState  core.GameState
	keyMapper  *KeyMapper
	help       help.Model
	palette    *Palette
	footer     lipgloss.Style
	journal    *trace.JournalSink
	status     string
	exitOnBack bool
	quitting   bool
	backToMenu bool
}

// NewModel creates a model for game and starts a new session.
func NewModel(game registry.Game, cfg core.RuntimeConfig, opts Options) Model {
	cfg = cfg.WithDefaults(time.Now())

	renderer := opts.Renderer
	if renderer == nil {
		renderer = lipgloss.DefaultRenderer()
	}

	h := help.New()
	h.Width = cfg.ScreenW

	m := Model{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, max(0, cfg.ScreenH-footerHeight)),
		opts:       opts,
		config:     cfg,
		inputFrame: core.NewInputFrame(),
		keyMapper:  NewKeyMapper(),
		help:       h,
		palette:    NewPalette(renderer),
		footer:     renderer.NewStyle().Foreground(lipgloss.Color("241")),
	}

	game.Reset(cfg)
	m.gameState = game.State()
	m.journal = m.attachTrace()
	return m
}

// attachTrace connects the game's trace events to the log and the journal.
// Returns the journal sink, or nil when nothing is journaled.
func (m *Model) attachTrace() *trace.JournalSink {
	tg, ok := m.game.(registry.Traceable)
	if !ok || !m.opts.Trace {
		return nil
	}

	var sinks []trace.Sink
	if m.opts.LogSink != nil {
		sinks = append(sinks, m.opts.LogSink)
	}

	var js *trace.JournalSink
	if m.opts.Journal != nil {
		size, colors := tg.Board()
		id, err := m.opts.Journal.BeginSession(storage.Session{
			Variant:   m.game.ID(),
			User:      m.opts.User,
			BoardSize: size,
			Colors:    colors,
			Seed:      m.config.Seed,
			StartedAt: time.Now(),
		})
		if err != nil {
			m.status = fmt.Sprintf("journal disabled: %v", err)
		} else {
			js = trace.NewJournalSink(m.opts.Journal, id)
			sinks = append(sinks, js)
		}
	}

	tg.SetTraceSink(trace.Multi(sinks...))
	return js
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.config.TickInterval())
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		if ev, ok := m.keyMapper.MapMouse(msg); ok {
			m.inputFrame.AddPointer(ev)
		}
		return m, nil

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := m.keyMapper.Keys()
	switch {
	case key.Matches(msg, keys.Screenshot):
		if path, err := m.saveScreenshot(); err != nil {
			m.status = fmt.Sprintf("screenshot failed: %v", err)
		} else {
			m.status = "saved " + path
		}
		return m, nil
	case key.Matches(msg, keys.Back) && m.gameState.Paused:
		m.backToMenu = true
		if m.exitOnBack {
			return m, tea.Quit
		}
		return m, nil
	}

	if m.keyMapper.MapKeyToFrame(msg, &m.inputFrame) {
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

// handleResize follows the terminal size. The game keeps its board and
// re-lays it out on the next render.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, max(0, msg.Height-footerHeight))
	m.help.Width = msg.Width
	return m, nil
}

// handleTick processes simulation ticks.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	result := m.game.Step(m.inputFrame)
	m.gameState = result.State
	m.inputFrame.Clear()

	if m.journal != nil && m.status == "" {
		if err := m.journal.Err(); err != nil {
			m.status = fmt.Sprintf("journal: %v", err)
		}
	}

	return m, tickCmd(m.config.TickInterval())
}

// saveScreenshot saves the current screen to a text file.
func (m *Model) saveScreenshot() (string, error) {
	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, ".match3", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp))
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		return "", err
	}
	return path, nil
}

// View renders the game screen and the help footer.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)

	footer := m.help.View(m.keyMapper.Keys())
	if m.status != "" {
		footer = m.status
	}
	return m.palette.Render(m.screen) + "\n" + m.footer.Render(footer)
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// Run starts the Bubble Tea program with the given game.
func Run(game registry.Game, cfg core.RuntimeConfig, opts Options) error {
	model := NewModel(game, cfg, opts)
	model.exitOnBack = true

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	_, err := p.Run()
	return err
}
