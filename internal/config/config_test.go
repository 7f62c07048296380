package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Addr != ":8080" {
		t.Errorf("Addr = %q", cfg.Addr)
	}
	if cfg.WindowHours != 24 || cfg.StepMinutes != 5 {
		t.Errorf("window defaults = %d/%d, want 24/5", cfg.WindowHours, cfg.StepMinutes)
	}
	if len(cfg.CelestrakGroups) != 2 {
		t.Errorf("CelestrakGroups = %v", cfg.CelestrakGroups)
	}
	if cfg.AllowSimulated {
		t.Error("AllowSimulated defaults to true")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SENTINEL_ADDR", ":9999")
	t.Setenv("SENTINEL_WINDOW_HOURS", "48")
	t.Setenv("SENTINEL_ALLOW_SIMULATED", "true")

	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":9999" {
		t.Errorf("Addr = %q, want env override", cfg.Addr)
	}
	if cfg.WindowHours != 48 {
		t.Errorf("WindowHours = %d, want 48", cfg.WindowHours)
	}
	if !cfg.AllowSimulated {
		t.Error("AllowSimulated override not applied")
	}
	// Untouched keys keep defaults.
	if cfg.StepMinutes != 5 {
		t.Errorf("StepMinutes = %d, want default 5", cfg.StepMinutes)
	}
}

func TestLoadYAMLFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sentinel.yaml")
	if err := os.WriteFile(path, []byte("addr: \":7000\"\nstep_minutes: 10\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SENTINEL_CONFIG", path)
	t.Setenv("SENTINEL_ADDR", ":7001") // env wins over file

	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":7001" {
		t.Errorf("Addr = %q, want env to override file", cfg.Addr)
	}
	if cfg.StepMinutes != 10 {
		t.Errorf("StepMinutes = %d, want 10 from file", cfg.StepMinutes)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("SENTINEL_WINDOW_HOURS", "0")

	if _, err := Load(context.Background()); err == nil {
		t.Fatal("expected error for zero window_hours")
	}
}
