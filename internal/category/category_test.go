package category

import (
	"reflect"
	"testing"
)

func TestSetDeduplicatesFoldEqualLabels(t *testing.T) {
	s := New("Genel", "genel", " GENEL ", "", "Kodlama")
	got := s.Labels()
	want := []string{"Genel", "Kodlama"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestTurkishFolding(t *testing.T) {
	s := New("İngilizce")
	if !s.Contains("ingilizce") {
		t.Fatalf("expected dotted capital I to fold to i")
	}
	if s.Contains("ıngilizce") {
		t.Fatalf("dotless ı must stay distinct from i")
	}
	if !Equal("ISIK", "ısık") {
		t.Fatalf("expected ISIK to fold to ısık")
	}
	if Equal("ISIK", "isik") {
		t.Fatalf("Turkish folding must not map I to i")
	}
}

func TestAddIsIdempotent(t *testing.T) {
	s := New("Genel")
	if !s.Add("Kodlama") {
		t.Fatalf("expected first add to change the set")
	}
	if s.Add("kodlama") || s.Add("Kodlama") {
		t.Fatalf("expected repeated add to be a no-op")
	}
	if s.Len() != 2 {
		t.Fatalf("expected 2 labels, got %d", s.Len())
	}
	canonical, ok := s.Canonical("KODLAMA")
	if !ok || canonical != "Kodlama" {
		t.Fatalf("expected canonical Kodlama, got %q ok=%v", canonical, ok)
	}
}

func TestSortedUsesTurkishCollation(t *testing.T) {
	s := New("Okuma", "çizim", "Ders", "Cebir")
	got := s.Sorted()
	want := []string{"Cebir", "çizim", "Ders", "Okuma"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if labels := s.Labels(); labels[0] != "Okuma" {
		t.Fatalf("Sorted must not reorder the set, got %v", labels)
	}
}

func TestNextWraps(t *testing.T) {
	s := New("Genel", "Ders", "Okuma")
	if got := s.Next("Genel"); got != "Ders" {
		t.Fatalf("expected Ders, got %q", got)
	}
	if got := s.Next("okuma"); got != "Genel" {
		t.Fatalf("expected wrap to Genel, got %q", got)
	}
	if got := s.Next("missing"); got != "Genel" {
		t.Fatalf("expected first label for unknown current, got %q", got)
	}
}
