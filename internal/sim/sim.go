// Package sim plays match-3 rounds headless and reports cascade statistics.
// Each round deals a fresh settled board, tries random adjacent swaps until
// one is accepted and resolves the cascade with the immediate animator.
package sim

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/cheggaaa/pb/v3"
	"gonum.org/v1/gonum/stat"

	"github.com/vovakirdan/tui-match3/internal/games/match3/core"
	"github.com/vovakirdan/tui-match3/internal/games/match3/engine"
	"github.com/vovakirdan/tui-match3/internal/trace"
)

// Config describes a simulation run.
type Config struct {
	Size        int
	Colors      int
	Rounds      int
	Workers     int   // Defaults to 1
	MaxAttempts int   // Swap attempts per round, defaults to 4*size*size
	MaxPasses   int   // Cascade bound, 0 means size*size
	Seed        int64 // 0 picks a time-based seed
	Progress    bool
	Output      io.Writer // Progress bar destination, defaults to stderr

	// Sink receives the engine's trace events. It must be safe for
	// concurrent use when Workers > 1.
	Sink trace.Sink
}

// Report summarizes a run.
type Report struct {
	Seed     int64
	Rounds   int
	Accepted int
	Attempts int

	PassesMean float64
	PassesStd  float64
	PassesP50  float64
	PassesP95  float64
	PassesMax  int

	DestroyedMean  float64
	GuardedRefills int
	Warnings       int

	Violations []string
	Elapsed    time.Duration
}

// AcceptRate is accepted swaps over attempted swaps.
func (r *Report) AcceptRate() float64 {
	if r.Attempts == 0 {
		return 0
	}
	return float64(r.Accepted) / float64(r.Attempts)
}

// roundResult is what one round contributes to the report.
type roundResult struct {
	accepted  bool
	attempts  int
	passes    int
	destroyed int
	guarded   int
	warnings  int
	violation string
}

func (c Config) validate() error {
	if c.Size < 3 {
		return fmt.Errorf("sim: board size %d is below 3", c.Size)
	}
	if c.Colors < 1 {
		return fmt.Errorf("sim: colors %d is below 1", c.Colors)
	}
	if c.Rounds < 1 {
		return errors.New("sim: rounds must be > 0")
	}
	if c.Workers < 0 || c.MaxAttempts < 0 || c.MaxPasses < 0 {
		return errors.New("sim: workers, attempts and passes must not be negative")
	}
	return nil
}

// Run plays cfg.Rounds rounds and returns the report. When ctx is
// cancelled Run stops early and returns the partial report with ctx's error.
func Run(ctx context.Context, cfg Config) (*Report, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.Workers == 0 {
		cfg.Workers = 1
	}
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = 4 * cfg.Size * cfg.Size
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if cfg.Sink == nil {
		cfg.Sink = trace.Nop{}
	}

	bar := newBar(cfg)

	results := make([][]roundResult, cfg.Workers)
	var wg sync.WaitGroup
	wg.Add(cfg.Workers)
	for w := 0; w < cfg.Workers; w++ {
		go func(w int) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(workerSeed(cfg.Seed, w)))
			for i := w; i < cfg.Rounds; i += cfg.Workers {
				if ctx.Err() != nil {
					return
				}
				results[w] = append(results[w], playRound(cfg, rng))
				bar.Increment()
			}
		}(w)
	}
	wg.Wait()
	used := time.Since(bar.StartTime())
	bar.Finish()

	report := summarize(results)
	report.Seed = cfg.Seed
	report.Elapsed = used
	return report, ctx.Err()
}

// newBar points the bar at its writer before starting it, so a disabled
// bar never touches the terminal.
func newBar(cfg Config) *pb.ProgressBar {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	if !cfg.Progress {
		out = io.Discard
	}
	return pb.New(cfg.Rounds).SetWriter(out).Start()
}

// workerSeed spreads worker seeds apart so parallel runs stay reproducible.
func workerSeed(seed int64, worker int) int64 {
	return seed + int64(worker)*0x9E3779B9
}

// playRound deals a board, searches for an accepted swap and checks the
// settled board.
func playRound(cfg Config, rng *rand.Rand) roundResult {
	grid := core.Generate(cfg.Size, cfg.Colors, rng)
	r, err := engine.New(grid, engine.Options{
		Colors:    cfg.Colors,
		Rand:      rng,
		MaxPasses: cfg.MaxPasses,
		Sink:      cfg.Sink,
	})
	if err != nil {
		return roundResult{violation: err.Error()}
	}

	var res roundResult
	for res.attempts < cfg.MaxAttempts {
		res.attempts++
		a := core.C(rng.Intn(cfg.Size), rng.Intn(cfg.Size))
		b := a.Step(core.Dir(rng.Intn(4)))
		if err := r.RequestSwap(a, b); err != nil {
			continue
		}
		if r.Stats().SwapsAccepted > 0 {
			res.accepted = true
			break
		}
	}

	st := r.Stats()
	res.passes = st.LastPasses
	res.destroyed = st.Destroyed
	res.guarded = st.GuardedRefills
	res.warnings = st.Warnings
	res.violation = checkSettled(r)
	return res
}

// checkSettled reports the first broken settled-board property, or "".
func checkSettled(r *engine.Resolver) string {
	g := r.Grid()
	switch {
	case !r.Idle():
		return fmt.Sprintf("resolver left in state %s", r.State())
	case g.HoleCount() != 0:
		return fmt.Sprintf("%d holes after settle", g.HoleCount())
	case g.HasAnyMatch() && r.Stats().Warnings == 0:
		return "match left on a settled board"
	}
	for row := 0; row < g.Size; row++ {
		for col := 0; col < g.Size; col++ {
			if _, ok := r.HandleAt(core.C(row, col)); !ok {
				return fmt.Sprintf("no visual bound at (%d,%d)", row, col)
			}
		}
	}
	return ""
}

func summarize(results [][]roundResult) *Report {
	report := &Report{}
	var passes, destroyed []float64
	for _, rs := range results {
		for _, res := range rs {
			report.Rounds++
			report.Attempts += res.attempts
			report.GuardedRefills += res.guarded
			report.Warnings += res.warnings
			if res.violation != "" {
				report.Violations = append(report.Violations, res.violation)
			}
			if !res.accepted {
				continue
			}
			report.Accepted++
			passes = append(passes, float64(res.passes))
			destroyed = append(destroyed, float64(res.destroyed))
			if res.passes > report.PassesMax {
				report.PassesMax = res.passes
			}
		}
	}
	if len(passes) == 0 {
		return report
	}

	report.PassesMean, report.PassesStd = stat.MeanStdDev(passes, nil)
	report.DestroyedMean = stat.Mean(destroyed, nil)
	sort.Float64s(passes)
	report.PassesP50 = stat.Quantile(0.5, stat.Empirical, passes, nil)
	report.PassesP95 = stat.Quantile(0.95, stat.Empirical, passes, nil)
	return report
}
