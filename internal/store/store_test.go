package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func TestStoreGetSet(t *testing.T) {
	dir := t.TempDir()
	st, err := Open(filepath.Join(dir, "odak.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})

	ctx := context.Background()
	if _, ok, err := st.Get(ctx, KeyCategory); err != nil || ok {
		t.Fatalf("expected missing key, got ok=%v err=%v", ok, err)
	}
	if err := st.Set(ctx, KeyCategory, "Genel"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := st.Set(ctx, KeyCategory, "Kodlama"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, ok, err := st.Get(ctx, KeyCategory)
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if got != "Kodlama" {
		t.Fatalf("expected Kodlama, got %q", got)
	}

	entries, err := st.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 1 || entries[0].Key != KeyCategory || entries[0].Size != len("Kodlama") {
		t.Fatalf("unexpected entries: %+v", entries)
	}
}

func TestStorePersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "odak.db")
	ctx := context.Background()

	st, err := Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if err := SaveInt(ctx, st, KeyTotalMinutes, 125); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	st, err = Open(path)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	defer func() {
		_ = st.Close()
	}()
	n, ok, err := LoadInt(ctx, st, KeyTotalMinutes)
	if err != nil || !ok || n != 125 {
		t.Fatalf("expected 125, got n=%d ok=%v err=%v", n, ok, err)
	}
}

func TestLoadMalformedValuesReportAbsent(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	_ = mem.Set(ctx, KeyTotalMinutes, "abc")
	_ = mem.Set(ctx, KeyFocusStreak, "-4")
	_ = mem.Set(ctx, KeyCategoryMinutes, "{not json")

	if _, ok, err := LoadInt(ctx, mem, KeyTotalMinutes); ok || err != nil {
		t.Fatalf("expected non-numeric value to be absent, ok=%v err=%v", ok, err)
	}
	if _, ok, err := LoadInt(ctx, mem, KeyFocusStreak); ok || err != nil {
		t.Fatalf("expected negative value to be absent, ok=%v err=%v", ok, err)
	}
	dst := map[string]int{"keep": 1}
	if ok, err := LoadJSON(ctx, mem, KeyCategoryMinutes, &dst); ok || err != nil {
		t.Fatalf("expected corrupt json to be absent, ok=%v err=%v", ok, err)
	}
	if dst["keep"] != 1 {
		t.Fatalf("destination should be untouched on malformed data")
	}
}

func TestLoadJSONWrongShapeLeavesDestinationUntouched(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	_ = mem.Set(ctx, KeyFocusEvents, `[{"ts":1760000000000,"category":"Kodlama","minutes":25},{"ts":"bad","category":"Okuma","minutes":5}]`)
	_ = mem.Set(ctx, KeyCategoryMinutes, `{"Kodlama":400,"Okuma":"x"}`)

	type event struct {
		Timestamp int64  `json:"ts"`
		Category  string `json:"category"`
		Minutes   int    `json:"minutes"`
	}
	var events []event
	if ok, err := LoadJSON(ctx, mem, KeyFocusEvents, &events); ok || err != nil {
		t.Fatalf("expected mistyped element to make the value absent, ok=%v err=%v", ok, err)
	}
	if events != nil {
		t.Fatalf("expected no partially decoded events, got %v", events)
	}

	counts := map[string]int{"keep": 1}
	if ok, err := LoadJSON(ctx, mem, KeyCategoryMinutes, &counts); ok || err != nil {
		t.Fatalf("expected mistyped value to make the map absent, ok=%v err=%v", ok, err)
	}
	if len(counts) != 1 || counts["keep"] != 1 {
		t.Fatalf("expected map untouched, got %v", counts)
	}
}

func TestLoadJSONRejectsNonPointer(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	_ = mem.Set(ctx, KeyCategories, `["Ders"]`)
	var labels []string
	if _, err := LoadJSON(ctx, mem, KeyCategories, labels); err == nil {
		t.Fatalf("expected error for non-pointer destination")
	}
}

func TestMemoryFailWrites(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	quota := errors.New("quota exceeded")
	mem.FailWrites(quota)
	err := SaveString(ctx, mem, KeyCategory, "Genel")
	if !errors.Is(err, quota) {
		t.Fatalf("expected wrapped quota error, got %v", err)
	}
	if _, ok := mem.Raw(KeyCategory); ok {
		t.Fatalf("failed write must not store a value")
	}
	mem.FailWrites(nil)
	if err := SaveString(ctx, mem, KeyCategory, "Genel"); err != nil {
		t.Fatalf("write after recovery: %v", err)
	}
	if mem.Writes() != 1 {
		t.Fatalf("expected 1 write, got %d", mem.Writes())
	}
}
