package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("missing file should not fail: %v", err)
	}
	if cfg.Timer.Focus != nil || cfg.Sound.Enabled != nil {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
}

func TestLoadConfigEmptyPath(t *testing.T) {
	if _, err := LoadConfig(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

func TestLoadConfigSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[timer]
focus = 50
long = 20
category = "Kodlama"
catch-up = false

[sound]
enabled = true
volume = -1.5
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Timer.Focus == nil || *cfg.Timer.Focus != 50 {
		t.Fatalf("unexpected focus: %v", cfg.Timer.Focus)
	}
	if cfg.Timer.Short != nil {
		t.Fatalf("unset short must stay nil")
	}
	if cfg.Timer.Long == nil || *cfg.Timer.Long != 20 {
		t.Fatalf("unexpected long: %v", cfg.Timer.Long)
	}
	if cfg.Timer.Category == nil || *cfg.Timer.Category != "Kodlama" {
		t.Fatalf("unexpected category: %v", cfg.Timer.Category)
	}
	if cfg.Timer.CatchUp == nil || *cfg.Timer.CatchUp {
		t.Fatalf("expected catch-up disabled")
	}
	if cfg.Sound.Enabled == nil || !*cfg.Sound.Enabled {
		t.Fatalf("expected sound enabled")
	}
	if cfg.Sound.Volume == nil || *cfg.Sound.Volume != -1.5 {
		t.Fatalf("unexpected volume: %v", cfg.Sound.Volume)
	}
}

func TestLoadConfigMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[timer\nfocus = "), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestDefaultPathsFollowXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/cfg")
	t.Setenv("XDG_DATA_HOME", "/tmp/data")
	if got := DefaultConfigPath(); got != "/tmp/cfg/odak/config.toml" {
		t.Fatalf("unexpected config path %q", got)
	}
	if got := DefaultDBPath(); got != "/tmp/data/odak/odak.db" {
		t.Fatalf("unexpected db path %q", got)
	}
	if got := DefaultLogPath(); got != "/tmp/data/odak/log.jsonl" {
		t.Fatalf("unexpected log path %q", got)
	}
}
