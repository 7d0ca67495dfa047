// SPDX-License-Identifier: Unlicense OR MIT

// Package config loads an optional raybun.toml supplying defaults for
// settings a CLI flag can still override, using
// github.com/BurntSushi/toml and tolerant of a missing file (defaults
// apply, no error).
package config

import (
	"os"

	"github.com/BurntSushi/toml"
)

// Defaults holds the settings a raybun.toml may override. Zero values mean
// "let the CLI flag's own default win".
type Defaults struct {
	Port          int    `toml:"port"`
	TileSize      int    `toml:"tile_size"`
	ThreadCount   int    `toml:"thread_count"`
	ScenePath     string `toml:"scene_path"`
	BaseSeed      int64  `toml:"base_seed"`
}

// Load reads path if it exists; a missing file is not an error, and
// returns a zero Defaults so every CLI flag default applies unchanged.
func Load(path string) (Defaults, error) {
	var d Defaults
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return d, nil
	}
	if _, err := toml.DecodeFile(path, &d); err != nil {
		return Defaults{}, err
	}
	return d, nil
}
