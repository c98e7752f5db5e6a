package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/odak/internal/category"
	"github.com/verte-zerg/odak/internal/config"
	"github.com/verte-zerg/odak/internal/model"
	"github.com/verte-zerg/odak/internal/stats"
	"github.com/verte-zerg/odak/internal/store"
)

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func boolPtr(v bool) *bool { return &v }

func floatPtr(v float64) *float64 { return &v }

func TestResolveSettingsDefaults(t *testing.T) {
	cmd := newRootCmd()
	got := resolveSettings(cmd, config.FileConfig{}, model.DefaultDurations(), model.DefaultCategory)
	want := timerSettings{
		Durations: model.DefaultDurations(),
		Category:  model.DefaultCategory,
		Sound:     true,
		Volume:    defaultVolume,
		CatchUp:   true,
	}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestResolveSettingsPrecedence(t *testing.T) {
	cmd := newRootCmd()
	if err := cmd.Flags().Set("focus", "45"); err != nil {
		t.Fatalf("set flag: %v", err)
	}
	fileCfg := config.FileConfig{
		Timer: config.TimerConfig{
			Focus:    intPtr(50),
			Short:    intPtr(10),
			Category: strPtr("Ders"),
			CatchUp:  boolPtr(false),
		},
		Sound: config.SoundConfig{Enabled: boolPtr(false), Volume: floatPtr(-2)},
	}
	stored := model.Durations{Focus: 30, Short: 7, Long: 20}

	got := resolveSettings(cmd, fileCfg, stored, "Okuma")
	// flag > config > stored
	if got.Durations != (model.Durations{Focus: 45, Short: 10, Long: 20}) {
		t.Fatalf("unexpected durations %v", got.Durations)
	}
	if got.Category != "Ders" {
		t.Fatalf("config category should win over stored, got %q", got.Category)
	}
	if got.Sound || got.CatchUp || got.Volume != -2 {
		t.Fatalf("unexpected sound/catch-up settings %+v", got)
	}
}

func TestResolveSettingsFlagsBeatConfigBooleans(t *testing.T) {
	cmd := newRootCmd()
	if err := cmd.Flags().Set("mute", "false"); err != nil {
		t.Fatalf("set flag: %v", err)
	}
	if err := cmd.Flags().Set("category", "Kodlama"); err != nil {
		t.Fatalf("set flag: %v", err)
	}
	fileCfg := config.FileConfig{
		Timer: config.TimerConfig{Category: strPtr("Ders")},
		Sound: config.SoundConfig{Enabled: boolPtr(false)},
	}
	got := resolveSettings(cmd, fileCfg, model.DefaultDurations(), "Okuma")
	if !got.Sound {
		t.Fatalf("explicit --mute=false must override config")
	}
	if got.Category != "Kodlama" {
		t.Fatalf("flag category should win, got %q", got.Category)
	}
}

func TestResolveSettingsClampsDurations(t *testing.T) {
	cmd := newRootCmd()
	fileCfg := config.FileConfig{Timer: config.TimerConfig{Focus: intPtr(0), Long: intPtr(500)}}
	got := resolveSettings(cmd, fileCfg, model.DefaultDurations(), model.DefaultCategory)
	if got.Durations != (model.Durations{Focus: 1, Short: 5, Long: 180}) {
		t.Fatalf("expected clamped durations, got %v", got.Durations)
	}
}

func TestDefaultConfigTemplateDecodes(t *testing.T) {
	var uncommented []string
	for _, line := range strings.Split(defaultConfigTemplate(), "\n") {
		if strings.HasPrefix(line, "# ") && strings.Contains(line, " = ") {
			line = strings.TrimPrefix(line, "# ")
		}
		uncommented = append(uncommented, line)
	}
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(strings.Join(uncommented, "\n")), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("template should decode: %v", err)
	}
	if cfg.Timer.Focus == nil || *cfg.Timer.Focus != 25 {
		t.Fatalf("unexpected focus %v", cfg.Timer.Focus)
	}
	if cfg.Timer.Category == nil || *cfg.Timer.Category != model.DefaultCategory {
		t.Fatalf("unexpected category %v", cfg.Timer.Category)
	}
	if cfg.Sound.Volume == nil || *cfg.Sound.Volume != defaultVolume {
		t.Fatalf("unexpected volume %v", cfg.Sound.Volume)
	}
}

func TestDescribeEntries(t *testing.T) {
	if lines := describeEntries(nil); len(lines) != 1 || lines[0] != "no stored keys" {
		t.Fatalf("unexpected output for empty store: %v", lines)
	}
	entries := []store.Entry{
		{Key: store.KeyFocusEvents, Size: 120, UpdatedAt: time.Now()},
		{Key: "legacy", Size: 3, UpdatedAt: time.Now()},
	}
	lines := describeEntries(entries)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %v", lines)
	}
	if strings.Contains(lines[0], "unknown") || !strings.Contains(lines[1], "(unknown)") {
		t.Fatalf("unknown keys should be flagged: %v", lines)
	}
}

func TestCheckCounters(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	st := stats.Load(ctx, mem)
	st.RecordCompletion(ctx, "Ders", 25)
	lines := checkCounters(st)
	if last := lines[len(lines)-1]; !strings.HasPrefix(last, "counters ok") {
		t.Fatalf("expected healthy counters, got %v", lines)
	}

	// Minutes whose events were evicted show up as history, not as errors.
	if err := store.SaveJSON(ctx, mem, store.KeyCategoryMinutes, map[string]int{"Ders": 100}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := store.SaveInt(ctx, mem, store.KeyTotalMinutes, 100); err != nil {
		t.Fatalf("seed: %v", err)
	}
	lines = checkCounters(stats.Load(ctx, mem))
	joined := strings.Join(lines, "\n")
	if !strings.Contains(joined, "75 minutes predate the kept log") || !strings.Contains(joined, "counters ok") {
		t.Fatalf("unexpected doctor output:\n%s", joined)
	}
}

func TestWriteCategories(t *testing.T) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	set := category.New(category.Defaults...)
	set.Add("Çizim")
	if err := writeCategories(cmd, set, "ders", map[string]int{"Ders": 90}); err != nil {
		t.Fatalf("write: %v", err)
	}
	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	want := []string{"  Çizim  0m", "* Ders  1h 30m", "  Genel  0m", "  Okuma  0m"}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %q", len(want), lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("line %d: expected %q, got %q", i, want[i], lines[i])
		}
	}
}
