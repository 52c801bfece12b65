package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-match3/internal/sim"
	"github.com/vovakirdan/tui-match3/internal/trace"
)

var (
	flagSimRounds   int
	flagSimSize     int
	flagSimColors   int
	flagSimWorkers  int
	flagSimAttempts int
	flagSimProgress bool
	flagSimTrace    bool
)

var simCmd = &cobra.Command{
	Use:   "sim",
	Short: "Run headless cascade simulations",
	Long: `Play many rounds without a terminal UI and report cascade statistics.

Each round deals a fresh settled board, tries random adjacent swaps until one
is accepted, resolves the full cascade and checks that the board settled
full and match-free.

Examples:
  match3 sim
  match3 sim --rounds 100000 --workers 8 --progress
  match3 sim --size 10 --colors 4 --seed 7
  match3 sim --rounds 50 --trace --log-level debug`,
	Run: runSim,
}

func init() {
	simCmd.Flags().IntVar(&flagSimRounds, "rounds", 1000, "Number of rounds")
	simCmd.Flags().IntVar(&flagSimSize, "size", 0, "Board size (default from config)")
	simCmd.Flags().IntVar(&flagSimColors, "colors", 0, "Token colors (default from config)")
	simCmd.Flags().IntVar(&flagSimWorkers, "workers", 1, "Parallel workers")
	simCmd.Flags().IntVar(&flagSimAttempts, "max-attempts", 0, "Swap attempts per round (default 4*size*size)")
	simCmd.Flags().BoolVar(&flagSimProgress, "progress", false, "Show a progress bar")
	simCmd.Flags().BoolVar(&flagSimTrace, "trace", false, "Log trace events to stderr")
}

func runSim(_ *cobra.Command, _ []string) {
	gameCfg := loadConfig()

	cfg := sim.Config{
		Size:        gameCfg.Board.Size,
		Colors:      gameCfg.Board.Colors,
		Rounds:      flagSimRounds,
		Workers:     flagSimWorkers,
		MaxAttempts: flagSimAttempts,
		MaxPasses:   gameCfg.Cascade.MaxPasses,
		Seed:        flagSeed,
		Progress:    flagSimProgress,
	}
	if flagSimSize > 0 {
		cfg.Size = flagSimSize
	}
	if flagSimColors > 0 {
		cfg.Colors = flagSimColors
	}
	if flagSimTrace {
		logger, err := newLogger(os.Stderr, "match3-sim", gameCfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		cfg.Sink = trace.NewLogSink(logger)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	report, err := sim.Run(ctx, cfg)
	if report == nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Interrupted: %v\n", err)
	}

	printReport(os.Stdout, cfg, report)
	if len(report.Violations) > 0 {
		os.Exit(2)
	}
}

func printReport(w io.Writer, cfg sim.Config, r *sim.Report) {
	fmt.Fprintf(w, "Board %dx%d, %d colors, seed %d\n", cfg.Size, cfg.Size, cfg.Colors, r.Seed)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %-22s %d\n", "Rounds", r.Rounds)
	fmt.Fprintf(w, "  %-22s %d / %d (%.1f%%)\n", "Accepted / attempted", r.Accepted, r.Attempts, 100*r.AcceptRate())
	fmt.Fprintf(w, "  %-22s mean %.2f  std %.2f  p50 %.0f  p95 %.0f  max %d\n",
		"Passes per move", r.PassesMean, r.PassesStd, r.PassesP50, r.PassesP95, r.PassesMax)
	fmt.Fprintf(w, "  %-22s %.2f\n", "Destroyed per move", r.DestroyedMean)
	fmt.Fprintf(w, "  %-22s %d\n", "Guarded refills", r.GuardedRefills)
	fmt.Fprintf(w, "  %-22s %d\n", "Warnings", r.Warnings)
	fmt.Fprintf(w, "  %-22s %s\n", "Elapsed", r.Elapsed.Round(time.Millisecond))
	fmt.Fprintln(w)

	if len(r.Violations) == 0 {
		fmt.Fprintln(w, "No invariant violations.")
		return
	}
	fmt.Fprintf(w, "%d invariant violations:\n", len(r.Violations))
	for i, v := range r.Violations {
		if i == 10 {
			fmt.Fprintf(w, "  ... and %d more\n", len(r.Violations)-10)
			break
		}
		fmt.Fprintf(w, "  - %s\n", v)
	}
}
