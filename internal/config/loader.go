package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up in the search directories.
const FileName = "match3.yaml"

// SearchPaths lists the optional config files in priority order:
// ~/.match3/configs/match3.yaml, then ./configs/match3.yaml.
func SearchPaths() []string {
	var paths []string
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".match3", "configs", FileName))
	}
	return append(paths, filepath.Join("configs", FileName))
}

// LoadMatch3 returns the effective configuration. An explicit path must
// exist and validate. Otherwise the first search path that parses and
// validates wins, and the embedded defaults are used when none does. Keys
// missing from a file keep their default values.
func LoadMatch3(customPath string) (Match3Config, error) {
	if customPath != "" {
		cfg, err := loadFile(customPath)
		if err != nil {
			return Match3Config{}, fmt.Errorf("config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	for _, path := range SearchPaths() {
		if cfg, err := loadFile(path); err == nil {
			return cfg, nil
		}
	}

	if cfg, err := parseMatch3(defaultMatch3YAML); err == nil {
		return cfg, nil
	}
	return DefaultMatch3Config(), nil
}

func loadFile(path string) (Match3Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Match3Config{}, err
	}
	return parseMatch3(data)
}

// parseMatch3 decodes YAML over the defaults and validates the result.
func parseMatch3(data []byte) (Match3Config, error) {
	cfg := DefaultMatch3Config()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse: %w", err)
	}
	return cfg, cfg.Validate()
}
