package stats

import (
	"strings"
	"testing"
)

func TestMinutesTableAlignsColumnsAndBars(t *testing.T) {
	table := minutesTable{
		headers:    []string{"Category", "Focus", "Share"},
		rightAlign: map[int]bool{1: true, 2: true},
	}
	table.add(100, "Kodlama", "Kodlama", "1h 40m", "80.0%")
	table.add(25, "Şiir", "Şiir", "25m", "20.0%")
	table.add(0, "Yoga", "Yoga", "0m", "0.0%")

	var colored []string
	lines := table.lines(RenderOptions{
		Width: 32,
		Color: true,
		ColorFor: func(label string) string {
			colored = append(colored, label)
			return Palette[0]
		},
	})
	want := []string{
		"Category  Focus Share",
		"Kodlama  1h 40m 80.0% " + strings.Repeat(barChar, 10),
		"Şiir        25m 20.0% " + strings.Repeat(barChar, 2),
		"Yoga         0m  0.0%",
	}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %q", len(want), lines)
	}
	for i := range want {
		// Bars may carry color escapes; compare the text with them removed.
		if got := stripANSI(lines[i]); got != want[i] {
			t.Fatalf("line %d: expected %q, got %q", i, want[i], got)
		}
	}
	if strings.Join(colored, ",") != "Kodlama,Şiir" {
		t.Fatalf("expected bars colored per category, got %v", colored)
	}
}

func TestMinutesTableEmpty(t *testing.T) {
	var table minutesTable
	if lines := table.lines(RenderOptions{Width: 80}); lines != nil {
		t.Fatalf("expected no lines, got %q", lines)
	}
}

func TestBarWidthForBounds(t *testing.T) {
	if got := barWidthFor(20, []string{strings.Repeat("x", 18)}); got != minBarWidth {
		t.Fatalf("expected minimum bar width, got %d", got)
	}
	if got := barWidthFor(200, []string{"x"}); got != maxBarWidth {
		t.Fatalf("expected maximum bar width, got %d", got)
	}
}

func stripANSI(s string) string {
	var b strings.Builder
	inEscape := false
	for _, r := range s {
		switch {
		case r == '\x1b':
			inEscape = true
		case inEscape:
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
				inEscape = false
			}
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
