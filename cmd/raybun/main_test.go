// SPDX-License-Identifier: Unlicense OR MIT

package main

import (
	"strings"
	"testing"

	"github.com/rayforge/raybun/internal/config"
)

func TestUsageListsEverySubcommand(t *testing.T) {
	for _, sub := range []string{"master", "worker", "standalone", "benchmark", "-h"} {
		if !strings.Contains(usage, sub) {
			t.Errorf("usage text missing %q", sub)
		}
	}
}

func TestThreadCountPrefersConfigOverride(t *testing.T) {
	if got := threadCount(config.Defaults{ThreadCount: 7}); got != 7 {
		t.Errorf("threadCount = %d, want 7", got)
	}
	if got := threadCount(config.Defaults{}); got < 1 {
		t.Errorf("threadCount fallback = %d, want >= 1", got)
	}
}

func TestTileSizePrefersConfigOverride(t *testing.T) {
	if got := tileSize(config.Defaults{TileSize: 64}); got != 64 {
		t.Errorf("tileSize = %d, want 64", got)
	}
	if got := tileSize(config.Defaults{}); got != defaultTileSize {
		t.Errorf("tileSize fallback = %d, want %d", got, defaultTileSize)
	}
}

func TestResolveSeedPrecedence(t *testing.T) {
	if got := resolveSeed(7, config.Defaults{BaseSeed: 99}); got != 7 {
		t.Errorf("explicit flag seed = %d, want 7 (flag beats config)", got)
	}
	if got := resolveSeed(0, config.Defaults{BaseSeed: 99}); got != 99 {
		t.Errorf("resolveSeed = %d, want 99 (config wins over time fallback)", got)
	}
	if got := resolveSeed(0, config.Defaults{}); got == 0 {
		t.Errorf("resolveSeed fallback should not be zero")
	}
}

func TestResolveSeedEnvOverride(t *testing.T) {
	t.Setenv("RAYBUN_SEED", "123")
	if got := resolveSeed(0, config.Defaults{BaseSeed: 99}); got != 123 {
		t.Errorf("resolveSeed = %d, want 123 ($RAYBUN_SEED beats config)", got)
	}
}
