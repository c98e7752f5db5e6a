package prefs

import (
	"context"
	"errors"
	"testing"

	"github.com/verte-zerg/odak/internal/model"
	"github.com/verte-zerg/odak/internal/store"
)

func TestLoadDefaults(t *testing.T) {
	p := Load(context.Background(), store.NewMemory(), nil)
	if p.Durations() != model.DefaultDurations() {
		t.Fatalf("expected default durations, got %v", p.Durations())
	}
	if p.Category() != model.DefaultCategory {
		t.Fatalf("expected default category, got %q", p.Category())
	}
	if !p.Categories().Contains("Genel") {
		t.Fatalf("expected default categories")
	}
}

func TestDurationsMergedOverDefaultsAndClamped(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	_ = mem.Set(ctx, store.KeyDurations, `{"focus":500,"long":0}`)

	p := Load(ctx, mem, nil)
	want := model.Durations{Focus: 180, Short: 5, Long: 1}
	if p.Durations() != want {
		t.Fatalf("expected %v, got %v", want, p.Durations())
	}
}

func TestMalformedValuesFallBack(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	_ = mem.Set(ctx, store.KeyDurations, `[1,2,3]`)
	_ = mem.Set(ctx, store.KeyCategories, `"not a list"`)
	_ = mem.Set(ctx, store.KeyCategory, "   ")

	p := Load(ctx, mem, nil)
	if p.Durations() != model.DefaultDurations() {
		t.Fatalf("expected defaults for malformed durations, got %v", p.Durations())
	}
	if p.Category() != model.DefaultCategory {
		t.Fatalf("expected default category, got %q", p.Category())
	}
}

func TestSelectNewCategoryInsertsOnceAndSurvivesReload(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	_ = mem.Set(ctx, store.KeyCategories, `["Genel"]`)

	p := Load(ctx, mem, nil)
	before := p.Categories().Len()
	p.SelectCategory(ctx, "Kodlama")
	p.SelectCategory(ctx, "Kodlama")
	p.SelectCategory(ctx, "kodlama")
	if got := p.Categories().Len(); got != before+1 {
		t.Fatalf("expected exactly one insert, got %d labels (was %d)", got, before)
	}
	if p.Category() != "Kodlama" {
		t.Fatalf("expected canonical spelling, got %q", p.Category())
	}

	reloaded := Load(ctx, mem, nil)
	if reloaded.Category() != "Kodlama" {
		t.Fatalf("expected selection to survive reload, got %q", reloaded.Category())
	}
	count := 0
	for _, label := range reloaded.Categories().Labels() {
		if label == "Kodlama" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected Kodlama once after reload, got %d", count)
	}
}

func TestStoredSelectionIsInsertedIntoSet(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	_ = mem.Set(ctx, store.KeyCategory, "Yoga")

	p := Load(ctx, mem, nil)
	if !p.Categories().Contains("Yoga") {
		t.Fatalf("selected category must be a member of the set")
	}
}

func TestWriteFailuresAreSwallowed(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	mem.FailWrites(errors.New("quota exceeded"))

	p := Load(ctx, mem, nil)
	got := p.SetDurations(ctx, model.Durations{Focus: 50, Short: 10, Long: 999})
	if got != (model.Durations{Focus: 50, Short: 10, Long: 180}) {
		t.Fatalf("unexpected durations %v", got)
	}
	if p.SelectCategory(ctx, "Kodlama") != "Kodlama" {
		t.Fatalf("in-memory selection should win despite write failure")
	}
}
