package config

import (
	_ "embed"
)

//go:embed defaults/match3.yaml
var defaultMatch3YAML []byte

// DefaultMatch3Config returns the default match-3 configuration.
func DefaultMatch3Config() Match3Config {
	return Match3Config{
		Board: BoardConfig{
			Size:   8,
			Colors: 6,
		},
		Timing: TimingConfig{
			SwapMs:       200,
			FallMsPerRow: 100,
			DestroyMs:    200,
		},
		Input: InputConfig{
			TileWidth:      4,
			TileHeight:     2,
			DragThreshold:  0.5,
			CrossThreshold: 0.5,
		},
		Cascade: CascadeConfig{
			MaxPasses: 0,
		},
		Trace: TraceConfig{
			Enabled: true,
			Level:   "debug",
		},
	}
}
