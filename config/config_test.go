package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_EmbeddedDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("loading defaults failed: %v", err)
	}

	if cfg.Energy.Max <= 0 {
		t.Errorf("energy max = %f, want positive", cfg.Energy.Max)
	}
	if cfg.Cost.MinBase <= 0 {
		t.Errorf("min base cost = %f, want positive", cfg.Cost.MinBase)
	}
	if cfg.Cost.FloorFraction <= 0 || cfg.Cost.FloorFraction >= 1 {
		t.Errorf("floor fraction = %f, want in (0, 1)", cfg.Cost.FloorFraction)
	}
	if cfg.Warp.DurationSec <= 0 {
		t.Errorf("warp duration = %f, want positive", cfg.Warp.DurationSec)
	}
	if cfg.Learning.ConsolidateEvery == 0 {
		t.Error("consolidate_every must be non-zero")
	}
}

func TestLoad_UserFileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	override := []byte("energy:\n  max: 2500\n")
	if err := os.WriteFile(path, override, 0644); err != nil {
		t.Fatalf("writing override: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("loading override failed: %v", err)
	}

	if cfg.Energy.Max != 2500 {
		t.Errorf("energy max = %f, want 2500 from override", cfg.Energy.Max)
	}
	// Untouched sections keep their defaults.
	if cfg.Cost.MinBase != 50 {
		t.Errorf("min base cost = %f, want default 50", cfg.Cost.MinBase)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected an error for a missing config file")
	}
}

func TestWriteYAML_RoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("loading defaults failed: %v", err)
	}
	cfg.Energy.Max = 1234

	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("writing config failed: %v", err)
	}

	reloaded, err := Load(path)
	if err != nil {
		t.Fatalf("reloading written config failed: %v", err)
	}
	if reloaded.Energy.Max != 1234 {
		t.Errorf("energy max = %f after round trip, want 1234", reloaded.Energy.Max)
	}
}
