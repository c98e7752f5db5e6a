package stats

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/odak/internal/model"
)

// Report contains precomputed data for stats rendering and export.
type Report struct {
	GeneratedAt     time.Time        `json:"generated_at" yaml:"generated_at"`
	DayOffset       int              `json:"day_offset" yaml:"day_offset"`
	Day             model.DayTotals  `json:"day" yaml:"day"`
	Week            model.WeekTotals `json:"week" yaml:"week"`
	TotalMinutes    int              `json:"total_minutes" yaml:"total_minutes"`
	FocusCount      int              `json:"focus_count" yaml:"focus_count"`
	CategoryMinutes []CategoryTotal  `json:"category_minutes" yaml:"category_minutes"`
}

// BuildReport gathers day, week and lifetime figures from st. Positive
// offsets are clamped to today.
func BuildReport(st *Store, offset int) Report {
	if offset > 0 {
		offset = 0
	}
	return Report{
		GeneratedAt:     st.Now(),
		DayOffset:       offset,
		Day:             st.Day(offset),
		Week:            st.WeeklyTotals(),
		TotalMinutes:    st.TotalMinutes(),
		FocusCount:      st.FocusCount(),
		CategoryMinutes: TopCategories(st.CategoryMinutes(), 0),
	}
}

// Render prints the whole report as text.
func Render(w io.Writer, r Report, opts RenderOptions) error {
	if err := RenderDay(w, r.Day, opts); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	if err := RenderWeek(w, r.Week, opts); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	byCategory := make(map[string]int, len(r.CategoryMinutes))
	for _, item := range r.CategoryMinutes {
		byCategory[item.Category] = item.Minutes
	}
	return RenderLifetime(w, r.TotalMinutes, r.FocusCount, byCategory, opts)
}

// Encode writes r as "json" or "yaml".
func Encode(w io.Writer, r Report, format string) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q (want json or yaml)", format)
	}
}
