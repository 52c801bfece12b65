// match3 is a terminal match-3 game with a diagnostic trace journal.
//
// Usage:
//
//	match3 list                 - List available boards
//	match3 play <board>         - Play a board
//	match3 menu                 - Start menu to pick boards interactively
//	match3 serve                - Start SSH server for remote play
//	match3 sim                  - Run headless cascade simulations
//	match3 journal <command>    - Inspect recorded trace sessions
//
// Global flags:
//
//	--fps <rate>         - Set tick rate (default: 60)
//	--seed <value>       - Set RNG seed for reproducible gameplay
//	--config <path>      - Custom match3.yaml
//	--journal <path>     - Trace journal path (default: ~/.match3/journal.db, empty disables)
//	--log-level <level>  - Trace log level (default: from config)
//	--log-file <path>    - Trace log file for interactive play
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-match3/internal/config"
	"github.com/vovakirdan/tui-match3/internal/core"
	"github.com/vovakirdan/tui-match3/internal/games/match3"
	"github.com/vovakirdan/tui-match3/internal/platform/tui"
	"github.com/vovakirdan/tui-match3/internal/storage"
	"github.com/vovakirdan/tui-match3/internal/trace"
)

var (
	// Global flags
	flagFPS         int
	flagSeed        int64
	flagConfig      string
	flagJournalPath string
	flagLogLevel    string
	flagLogFile     string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "match3",
	Short: "Match-3 - swap, match and cascade in your terminal",
	Long: `Match-3 is a terminal tile-matching game. Swap two adjacent tokens to
line up three or more of one color; matched tokens vanish, the board falls
and refills, and chain reactions resolve on their own.

Available commands:
  list     - Show all available boards
  play     - Play a specific board directly
  menu     - Interactive board picker menu
  serve    - Start SSH server for remote play
  sim      - Run headless cascade simulations
  journal  - Inspect recorded trace sessions

Examples:
  match3 list
  match3 play match3_compact
  match3 menu --log-file /tmp/match3.log --log-level debug
  match3 serve --ssh :2222
  match3 sim --rounds 10000 --progress
  match3 journal sessions`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		match3.SetConfigPath(flagConfig)
	},
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom match3.yaml")
	rootCmd.PersistentFlags().StringVar(&flagJournalPath, "journal", "~/.match3/journal.db", "Path to trace journal (empty disables)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Trace log level: debug, info, warn, error (default from config)")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write trace logs of interactive play to this file")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(simCmd)
	rootCmd.AddCommand(journalCmd)
}

// loadConfig loads match3.yaml, falling back to defaults with a warning.
func loadConfig() config.Match3Config {
	cfg, err := config.LoadMatch3(flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v, using defaults\n", err)
		return config.DefaultMatch3Config()
	}
	return cfg
}

// newLogger builds a logger on w with the level from --log-level or the config.
func newLogger(w io.Writer, prefix string, cfg config.Match3Config) (*log.Logger, error) {
	levelName := flagLogLevel
	if levelName == "" {
		levelName = cfg.Trace.Level
	}
	level, err := log.ParseLevel(levelName)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", levelName, err)
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           level,
	}), nil
}

// openJournal opens the trace journal, or returns nil when it is disabled
// or cannot be opened.
func openJournal() *storage.Journal {
	if flagJournalPath == "" {
		return nil
	}
	journal, err := storage.Open(flagJournalPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open trace journal: %v\n", err)
		return nil
	}
	return journal
}

// playOptions wires the journal and the --log-file trace log for local play.
// The returned closer releases both.
func playOptions() (tui.Options, func(), error) {
	cfg := loadConfig()
	opts := tui.Options{
		Trace: cfg.Trace.Enabled,
		User:  os.Getenv("USER"),
	}
	var closers []func()

	if flagLogFile != "" && cfg.Trace.Enabled {
		f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return opts, func() {}, fmt.Errorf("cannot open log file: %w", err)
		}
		closers = append(closers, func() { f.Close() })

		logger, err := newLogger(f, "match3", cfg)
		if err != nil {
			f.Close()
			return opts, func() {}, err
		}
		opts.LogSink = trace.NewLogSink(logger)
	}

	if cfg.Trace.Enabled {
		if journal := openJournal(); journal != nil {
			opts.Journal = journal
			closers = append(closers, func() { journal.Close() })
		}
	}

	return opts, func() {
		for _, c := range closers {
			c()
		}
	}, nil
}

// terminalConfig builds the runtime config from the terminal size and flags.
func terminalConfig() core.RuntimeConfig {
	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width, height = w, h
	}
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
}
