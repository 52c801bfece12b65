package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/tui-match3/internal/core"
	"github.com/vovakirdan/tui-match3/internal/registry"
	"github.com/vovakirdan/tui-match3/internal/storage"
	"github.com/vovakirdan/tui-match3/internal/trace"
)

// SSHServerConfig configures the match-3 SSH server.
type SSHServerConfig struct {
	// Address is host:port, e.g. ":23234".
	Address string

	// HostKeyPath is created on first start when missing.
	// If empty, a key will be auto-generated at ~/.match3/host_key.
	HostKeyPath string

	// JournalPath is the path to the trace journal. Empty disables it.
	JournalPath string

	// IdleTimeout closes sessions without traffic.
	IdleTimeout time.Duration

	// TickRate is the simulation rate of every session.
	TickRate int

	// Trace enables trace events; Logger receives them at debug level.
	Trace bool

	// Logger is the server logger. Nil logs to stderr.
	Logger *log.Logger
}

// DefaultSSHServerConfig listens on :23234 and journals to ~/.match3/journal.db.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		JournalPath: "~/.match3/journal.db",
		IdleTimeout: 30 * time.Minute,
		TickRate:    core.DefaultTickRate,
		Trace:       true,
	}
}

// SSHServer wraps a Wish SSH server that runs one board per connection.
type SSHServer struct {
	config  SSHServerConfig
	server  *ssh.Server
	journal *storage.Journal
	logger  *log.Logger
}

// NewSSHServer builds the wish server. A journal that fails to open is
// logged and tracing continues to the logger only.
func NewSSHServer(cfg SSHServerConfig) (*SSHServer, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "match3-ssh",
		})
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = core.DefaultTickRate
	}

	srv := &SSHServer{
		config: cfg,
		logger: logger,
	}

	if cfg.JournalPath != "" {
		journal, err := storage.Open(cfg.JournalPath)
		if err != nil {
			logger.Warn("could not open trace journal", "error", err)
			// Continue without the journal
		} else {
			srv.journal = journal
		}
	}

	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			srv.closeJournal()
			return nil, fmt.Errorf("cannot get home directory: %w", err)
		}
		hostKeyPath = filepath.Join(home, ".match3", "host_key")
	}
	if err := os.MkdirAll(filepath.Dir(hostKeyPath), 0o700); err != nil {
		srv.closeJournal()
		return nil, fmt.Errorf("cannot create host key directory: %w", err)
	}

	server, err := wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	)
	if err != nil {
		srv.closeJournal()
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler sizes a session to its PTY and gives it its own renderer and
// tagged trace logger.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	cfg := core.RuntimeConfig{
		ScreenW:  pty.Window.Width,
		ScreenH:  pty.Window.Height,
		TickRate: s.config.TickRate,
	}

	opts := Options{
		Journal:  s.journal,
		Trace:    s.config.Trace,
		User:     sshSession.User(),
		Renderer: bubbletea.MakeRenderer(sshSession),
	}
	if s.config.Trace {
		opts.LogSink = trace.NewLogSink(s.logger.With("user", sshSession.User()))
	}

	return NewSessionModel(cfg, opts), []tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	}
}

// loggingMiddleware logs session start and end with the session duration.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		start := time.Now()
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
			"duration", time.Since(start).Round(time.Second),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until ctx is done or the
// process receives SIGINT or SIGTERM.
func (s *SSHServer) ListenAndServe(ctx context.Context) error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			s.logger.Error("server error", "error", err)
			s.closeJournal()
			return err
		}
	case <-ctx.Done():
	}

	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown waits up to ten seconds for sessions to end, then closes the journal.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := s.server.Shutdown(ctx)
	s.closeJournal()
	return err
}

func (s *SSHServer) closeJournal() {
	if s.journal != nil {
		if err := s.journal.Close(); err != nil {
			s.logger.Warn("closing trace journal", "error", err)
		}
		s.journal = nil
	}
}

// Addr is the configured listen address.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

// sessionView is the screen a SessionModel shows.
type sessionView int

const (
	viewMenu sessionView = iota
	viewGame
	viewJournal
)

// SessionModel manages the full session flow: menu -> game or journal -> menu.
type SessionModel struct {
	config   core.RuntimeConfig
	opts     Options
	view     sessionView
	menu     MenuModel
	game     Model
	journal  JournalModel
	quitting bool
}

// NewSessionModel starts a remote player on the menu.
func NewSessionModel(cfg core.RuntimeConfig, opts Options) SessionModel {
	return SessionModel{
		config: cfg,
		opts:   opts,
		menu:   NewMenuModel(cfg, opts.Renderer),
	}
}

// Init starts on the board menu.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update routes msg to the active view.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	switch m.view {
	case viewGame:
		return m.updateGame(msg)
	case viewJournal:
		return m.updateJournal(msg)
	}
	return m.updateMenu(msg)
}

func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	switch {
	case m.menu.IsQuitting():
		m.quitting = true
		return m, tea.Quit

	case m.menu.WantsJournal():
		m.journal = NewJournalModel(m.opts.Journal, m.config.ScreenW, m.config.ScreenH)
		m.view = viewJournal
		return m, m.journal.Init()

	case m.menu.Selected() != nil:
		game, err := registry.Create(m.menu.Selected().GameID)
		if err != nil {
			// Shouldn't happen since menu only shows registered variants
			m.menu = NewMenuModel(m.config, m.opts.Renderer)
			return m, nil
		}
		cfg := m.config
		cfg.Seed = time.Now().UnixNano()
		m.game = NewModel(game, cfg, m.opts)
		m.view = viewGame
		return m, m.game.Init()
	}

	return m, cmd
}

func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.game.Update(msg)
	if gameModel, ok := newModel.(Model); ok {
		m.game = gameModel
	}

	if m.game.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.game.BackToMenu() {
		return m.backToMenu()
	}
	return m, cmd
}

// updateJournal handles updates when browsing the journal.
func (m SessionModel) updateJournal(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.journal.Update(msg)
	if journalModel, ok := newModel.(JournalModel); ok {
		m.journal = journalModel
	}

	if m.journal.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.journal.IsGoingBack() {
		return m.backToMenu()
	}
	return m, cmd
}

func (m SessionModel) backToMenu() (tea.Model, tea.Cmd) {
	m.view = viewMenu
	m.menu = NewMenuModel(m.config, m.opts.Renderer)
	return m, m.menu.Init()
}

// View draws the active view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.view {
	case viewGame:
		return m.game.View()
	case viewJournal:
		return m.journal.View()
	}
	return m.menu.View()
}
