package sim

import (
	"bytes"
	"context"
	"testing"

	"github.com/vovakirdan/tui-match3/internal/trace"
)

func TestRunReportsSettledRounds(t *testing.T) {
	rec := &trace.Recorder{}
	report, err := Run(context.Background(), Config{Size: 8, Colors: 6, Rounds: 40, Seed: 99, Sink: rec})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if report.Rounds != 40 {
		t.Errorf("rounds = %d, want 40", report.Rounds)
	}
	if len(report.Violations) != 0 {
		t.Errorf("violations: %v", report.Violations)
	}
	if report.Accepted == 0 || report.Attempts < report.Accepted {
		t.Errorf("accepted %d of %d attempts", report.Accepted, report.Attempts)
	}
	if report.PassesMean < 1 || float64(report.PassesMax) < report.PassesP95 || report.PassesP95 < report.PassesP50 {
		t.Errorf("inconsistent pass stats %+v", report)
	}
	if report.DestroyedMean < 3 {
		t.Errorf("an accepted move destroys at least 3 tokens, mean %v", report.DestroyedMean)
	}
	if got := rec.Count(trace.KindSettled); got != report.Accepted {
		t.Errorf("settled events = %d, want %d", got, report.Accepted)
	}
}

func TestRunIsReproducible(t *testing.T) {
	cfg := Config{Size: 6, Colors: 5, Rounds: 25, Workers: 3, Seed: 7}
	a, err := Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	b, err := Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if a.Accepted != b.Accepted || a.Attempts != b.Attempts || a.PassesMean != b.PassesMean || a.PassesMax != b.PassesMax {
		t.Errorf("same seed gave different reports:\n%+v\n%+v", a, b)
	}
}

func TestRunFewColorsTerminates(t *testing.T) {
	report, err := Run(context.Background(), Config{Size: 5, Colors: 2, Rounds: 5, Seed: 3, MaxPasses: 2})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Rounds != 5 {
		t.Errorf("rounds = %d", report.Rounds)
	}
	if report.PassesMax > 2+25 {
		t.Errorf("cascade ran %d passes past the hard stop", report.PassesMax)
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := Run(ctx, Config{Size: 8, Colors: 6, Rounds: 1000, Seed: 1})
	if err != context.Canceled {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if report == nil || report.Rounds != 0 {
		t.Errorf("cancelled run should return an empty report, got %+v", report)
	}
}

func TestRunValidatesConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"small board", Config{Size: 2, Colors: 4, Rounds: 1}},
		{"no colors", Config{Size: 5, Colors: 0, Rounds: 1}},
		{"no rounds", Config{Size: 5, Colors: 4}},
		{"negative workers", Config{Size: 5, Colors: 4, Rounds: 1, Workers: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Run(context.Background(), tt.cfg); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestAcceptRate(t *testing.T) {
	if (&Report{}).AcceptRate() != 0 {
		t.Error("empty report should have zero rate")
	}
	if got := (&Report{Accepted: 1, Attempts: 4}).AcceptRate(); got != 0.25 {
		t.Errorf("rate = %v", got)
	}
}

func TestRunWithoutProgressStaysQuiet(t *testing.T) {
	var out bytes.Buffer
	_, err := Run(context.Background(), Config{Size: 6, Colors: 5, Rounds: 10, Seed: 3, Output: &out})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("disabled progress bar wrote %q", out.String())
	}
}
