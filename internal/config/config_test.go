// SPDX-License-Identifier: Unlicense OR MIT

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsZeroDefaults(t *testing.T) {
	d, err := Load(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if d != (Defaults{}) {
		t.Errorf("expected zero Defaults for missing file, got %+v", d)
	}
}

func TestLoadParsesTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "raybun.toml")
	const body = `port = 9191
tile_size = 32
thread_count = 4
scene_path = "data/benchmark.json"
base_seed = 7
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	d, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if d.Port != 9191 || d.TileSize != 32 || d.ThreadCount != 4 || d.ScenePath != "data/benchmark.json" || d.BaseSeed != 7 {
		t.Errorf("unexpected Defaults: %+v", d)
	}
}
