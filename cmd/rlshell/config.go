package main

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/wippyai/rlbridge/editor"
)

// loadConfig reads an editor configuration from a TOML file. Keys left out
// keep their defaults; unknown keys are an error.
//
//	edit_mode = "vi"
//	completion_type = "list"
//	max_history_size = 500
func loadConfig(path string) (editor.Config, error) {
	cfg := editor.DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return cfg, err
	}
	defer f.Close()

	dec := toml.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}
