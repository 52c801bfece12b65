package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-match3/internal/storage"
)

var (
	flagJournalLimit int
	flagExportOut    string
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Inspect recorded trace sessions",
	Long: `Inspect the trace journal written during play.

Examples:
  match3 journal sessions
  match3 journal show 12
  match3 journal export 12 --out session12.jsonl.zst`,
}

var journalSessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List recorded sessions, newest first",
	Args:  cobra.NoArgs,
	RunE:  runJournalSessions,
}

var journalShowCmd = &cobra.Command{
	Use:   "show <session>",
	Short: "Show a session's summary and events",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalShow,
}

var journalExportCmd = &cobra.Command{
	Use:   "export <session>",
	Short: "Export a session as zstd-compressed JSON lines",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalExport,
}

func init() {
	journalSessionsCmd.Flags().IntVar(&flagJournalLimit, "limit", 20, "Maximum sessions to list")
	journalExportCmd.Flags().StringVar(&flagExportOut, "out", "", "Output file (default session-<id>.jsonl.zst)")

	journalCmd.AddCommand(journalSessionsCmd)
	journalCmd.AddCommand(journalShowCmd)
	journalCmd.AddCommand(journalExportCmd)
}

// openJournalStrict opens the journal for the journal commands, which
// cannot run without one.
func openJournalStrict() (*storage.Journal, error) {
	if flagJournalPath == "" {
		return nil, errors.New("no journal configured (--journal is empty)")
	}
	journal, err := storage.Open(flagJournalPath)
	if err != nil {
		return nil, fmt.Errorf("opening trace journal: %w", err)
	}
	return journal, nil
}

func parseSessionID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid session id %q", arg)
	}
	return id, nil
}

func runJournalSessions(_ *cobra.Command, _ []string) error {
	journal, err := openJournalStrict()
	if err != nil {
		return err
	}
	defer journal.Close()

	sessions, err := journal.Sessions(flagJournalLimit)
	if err != nil {
		return err
	}

	if len(sessions) == 0 {
		fmt.Println("No sessions recorded yet.")
		return nil
	}

	fmt.Printf("  %-6s  %-16s  %-7s  %-6s  %-8s  %-16s  %s\n", "ID", "Variant", "Board", "Colors", "Events", "Started", "User")
	fmt.Printf("  %-6s  %-16s  %-7s  %-6s  %-8s  %-16s  %s\n", "--", "-------", "-----", "------", "------", "-------", "----")
	for _, s := range sessions {
		board := fmt.Sprintf("%dx%d", s.BoardSize, s.BoardSize)
		fmt.Printf("  %-6d  %-16s  %-7s  %-6d  %-8d  %-16s  %s\n",
			s.ID, s.Variant, board, s.Colors, s.Events, s.StartedAt.Format("2006-01-02 15:04"), s.User)
	}
	return nil
}

func runJournalShow(_ *cobra.Command, args []string) error {
	id, err := parseSessionID(args[0])
	if err != nil {
		return err
	}
	journal, err := openJournalStrict()
	if err != nil {
		return err
	}
	defer journal.Close()

	s, err := journal.Session(id)
	if err != nil {
		return err
	}
	if s == nil {
		return fmt.Errorf("session %d not found", id)
	}
	stats, err := journal.Stats(id)
	if err != nil {
		return err
	}
	events, err := journal.Events(id)
	if err != nil {
		return err
	}

	fmt.Printf("Session %d - %s, %dx%d, %d colors, seed %d\n", s.ID, s.Variant, s.BoardSize, s.BoardSize, s.Colors, s.Seed)
	fmt.Printf("Started %s by %q\n", s.StartedAt.Format("2006-01-02 15:04:05"), s.User)
	fmt.Println()
	fmt.Printf("  swaps accepted %d, rejected %d\n", stats.SwapsAccepted, stats.SwapsRejected)
	fmt.Printf("  cascades %d, longest %d passes\n", stats.Cascades, stats.MaxPass)
	fmt.Printf("  destroyed %d, refilled %d, warnings %d\n", stats.Destroyed, stats.Replenished, stats.Warnings)
	fmt.Println()

	for _, e := range events {
		fmt.Printf("  %s  %s\n", e.CreatedAt.Format("15:04:05"), e.Event())
	}
	return nil
}

func runJournalExport(_ *cobra.Command, args []string) error {
	id, err := parseSessionID(args[0])
	if err != nil {
		return err
	}
	out := flagExportOut
	if out == "" {
		out = fmt.Sprintf("session-%d.jsonl.zst", id)
	}

	journal, err := openJournalStrict()
	if err != nil {
		return err
	}
	defer journal.Close()

	f, err := os.Create(out)
	if err != nil {
		return err
	}

	n, err := journal.Export(f, id)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(out)
		return fmt.Errorf("exporting session: %w", err)
	}

	fmt.Printf("Exported %d events to %s\n", n, out)
	return nil
}
