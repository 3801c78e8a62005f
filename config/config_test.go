package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") failed: %v", err)
	}

	if cfg.World.Width != 1024 || cfg.World.Height != 1024 {
		t.Errorf("expected 1024x1024 world, got %gx%g", cfg.World.Width, cfg.World.Height)
	}
	if cfg.Terrain.NX != 64 || cfg.Terrain.NY != 64 {
		t.Errorf("expected 64x64 lattice, got %dx%d", cfg.Terrain.NX, cfg.Terrain.NY)
	}
	if cfg.Params.CooldownTicks != 12 {
		t.Errorf("expected cooldown_ticks 12, got %d", cfg.Params.CooldownTicks)
	}
	if cfg.Derived.CellW != 16 || cfg.Derived.CellH != 16 {
		t.Errorf("expected 16 world units per cell, got %gx%g", cfg.Derived.CellW, cfg.Derived.CellH)
	}
	if cfg.Derived.BucketCols != 13 || cfg.Derived.BucketRows != 13 {
		t.Errorf("expected 13x13 buckets, got %dx%d", cfg.Derived.BucketCols, cfg.Derived.BucketRows)
	}
}

func TestLoadOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "override.yaml")
	data := "population:\n  herbivores: 3\nparams:\n  birth_cost: 2.5\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Population.Herbivores != 3 {
		t.Errorf("expected herbivores override 3, got %d", cfg.Population.Herbivores)
	}
	if cfg.Params.BirthCost != 2.5 {
		t.Errorf("expected birth_cost override 2.5, got %g", cfg.Params.BirthCost)
	}
	// Untouched fields keep defaults
	if cfg.Population.Carnivores != 40 {
		t.Errorf("expected default carnivores 40, got %d", cfg.Population.Carnivores)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"zero width", "world:\n  width: 0\n", "world size"},
		{"zero cell size", "spatial:\n  cell_size: 0\n", "cell_size"},
		{"bad source", "terrain:\n  source: fractal\n", "terrain source"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.yaml")
			if err := os.WriteFile(path, []byte(tc.yaml), 0644); err != nil {
				t.Fatal(err)
			}
			_, err := Load(path)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("expected error mentioning %q, got %v", tc.want, err)
			}
		})
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg := Defaults()
	cfg.Population.Seed = 99

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Population.Seed != 99 {
		t.Errorf("expected seed 99 after round trip, got %d", loaded.Population.Seed)
	}
}
