// Package config provides YAML-based configuration loading for the match-3
// game: board shape, animation timing, pointer input and tracing.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid")

const (
	// MinBoardSize is the smallest board on which a run of three fits.
	MinBoardSize = 3
	// MaxBoardSize keeps the board renderable in a terminal.
	MaxBoardSize = 16
	// MinColors is the fewest colors a settled board can be generated with.
	MinColors = 3
	// MaxColors is the size of the token palette.
	MaxColors = 8
)

// Match3Config contains all configuration for the match-3 game.
type Match3Config struct {
	Board   BoardConfig   `yaml:"board"`
	Timing  TimingConfig  `yaml:"timing"`
	Input   InputConfig   `yaml:"input"`
	Cascade CascadeConfig `yaml:"cascade"`
	Trace   TraceConfig   `yaml:"trace"`
}

// BoardConfig defines the board shape. It is fixed for a session.
type BoardConfig struct {
	Size   int `yaml:"size"`
	Colors int `yaml:"colors"`
}

// TimingConfig defines animation durations in milliseconds.
type TimingConfig struct {
	SwapMs       int `yaml:"swap_ms"`
	FallMsPerRow int `yaml:"fall_ms_per_row"`
	DestroyMs    int `yaml:"destroy_ms"`
}

// Swap returns the swap tween duration.
func (t TimingConfig) Swap() time.Duration {
	return time.Duration(t.SwapMs) * time.Millisecond
}

// FallPerRow returns the fall tween duration per row fallen.
func (t TimingConfig) FallPerRow() time.Duration {
	return time.Duration(t.FallMsPerRow) * time.Millisecond
}

// Destroy returns the destroy fade duration.
func (t TimingConfig) Destroy() time.Duration {
	return time.Duration(t.DestroyMs) * time.Millisecond
}

// InputConfig defines tile size in terminal cells and drag thresholds in tiles.
type InputConfig struct {
	TileWidth      int     `yaml:"tile_width"`
	TileHeight     int     `yaml:"tile_height"`
	DragThreshold  float64 `yaml:"drag_threshold"`
	CrossThreshold float64 `yaml:"cross_threshold"`
}

// CascadeConfig bounds cascades. MaxPasses 0 means size*size.
type CascadeConfig struct {
	MaxPasses int `yaml:"max_passes"`
}

// TraceConfig controls the diagnostic trace.
type TraceConfig struct {
	Enabled bool   `yaml:"enabled"`
	Level   string `yaml:"level"`
}

// Validate checks every field and returns an error wrapping ErrInvalid.
func (c Match3Config) Validate() error {
	b := c.Board
	if b.Size < MinBoardSize || b.Size > MaxBoardSize {
		return fmt.Errorf("%w: board size %d not in [%d, %d]", ErrInvalid, b.Size, MinBoardSize, MaxBoardSize)
	}
	if b.Colors < MinColors || b.Colors > MaxColors {
		return fmt.Errorf("%w: colors %d not in [%d, %d]", ErrInvalid, b.Colors, MinColors, MaxColors)
	}

	t := c.Timing
	if t.SwapMs <= 0 || t.FallMsPerRow <= 0 || t.DestroyMs <= 0 {
		return fmt.Errorf("%w: durations must be positive", ErrInvalid)
	}

	in := c.Input
	if in.TileWidth <= 0 || in.TileHeight <= 0 {
		return fmt.Errorf("%w: tile size %dx%d must be positive", ErrInvalid, in.TileWidth, in.TileHeight)
	}
	if in.DragThreshold < 0 || in.CrossThreshold < 0 {
		return fmt.Errorf("%w: drag thresholds must not be negative", ErrInvalid)
	}

	if c.Cascade.MaxPasses < 0 {
		return fmt.Errorf("%w: max_passes %d is negative", ErrInvalid, c.Cascade.MaxPasses)
	}
	if _, err := log.ParseLevel(c.Trace.Level); err != nil {
		return fmt.Errorf("%w: trace level: %v", ErrInvalid, err)
	}
	return nil
}

// WithBoard returns a copy with the board shape replaced.
func (c Match3Config) WithBoard(size, colors int) Match3Config {
	c.Board = BoardConfig{Size: size, Colors: colors}
	return c
}

// MaxPasses resolves the cascade bound for the configured board.
func (c Match3Config) MaxPasses() int {
	if c.Cascade.MaxPasses > 0 {
		return c.Cascade.MaxPasses
	}
	return c.Board.Size * c.Board.Size
}
