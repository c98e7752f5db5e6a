package stats

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/verte-zerg/odak/internal/model"
)

const (
	barChar             = "█"
	sparkChars          = " .:-=+*#%@"
	minBarWidth         = 10
	maxBarWidth         = 40
	terminalWidthBackup = 80
)

var weekdayNames = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// RenderOptions controls text rendering.
type RenderOptions struct {
	// Width is the total line width; 0 uses the terminal width.
	Width int
	// Color enables colored bars.
	Color bool
	// ColorFor maps a category to a hex color. Nil disables per-category color.
	ColorFor func(string) string
}

// DefaultRenderOptions sizes output to w and enables color on terminals.
func DefaultRenderOptions(w io.Writer, colorFor func(string) string) RenderOptions {
	return RenderOptions{
		Width:    terminalWidth(),
		Color:    shouldUseColor(w),
		ColorFor: colorFor,
	}
}

// FormatMinutes renders minutes as "1h 05m" or "25m".
func FormatMinutes(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dh %02dm", minutes/60, minutes%60)
}

// Bar renders a horizontal bar of value relative to max.
func Bar(value, max, width int) string {
	if value <= 0 || max <= 0 || width <= 0 {
		return ""
	}
	n := value * width / max
	if n == 0 {
		n = 1
	}
	if n > width {
		n = width
	}
	return strings.Repeat(barChar, n)
}

// Sparkline renders a single-line ASCII sparkline scaled from zero.
func Sparkline(values []int) string {
	if len(values) == 0 {
		return ""
	}
	maxVal := 0
	for _, v := range values {
		if v > maxVal {
			maxVal = v
		}
	}
	var b strings.Builder
	for _, v := range values {
		idx := 0
		if maxVal > 0 && v > 0 {
			idx = 1 + v*(len(sparkChars)-2)/maxVal
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderDay prints per-category minutes for one day.
func RenderDay(w io.Writer, day model.DayTotals, opts RenderOptions) error {
	if _, err := fmt.Fprintf(w, "%s  %s\n", day.Date.Format("Monday, 02 Jan 2006"), FormatMinutes(day.Total)); err != nil {
		return err
	}
	if day.Total == 0 {
		_, err := fmt.Fprintln(w, "No focus sessions recorded.")
		return err
	}
	return renderCategoryTable(w, day.ByCategory, day.Total, opts)
}

// RenderWeek prints one row per weekday followed by week-wide category totals.
func RenderWeek(w io.Writer, week model.WeekTotals, opts RenderOptions) error {
	end := week.Start.AddDate(0, 0, 6)
	if _, err := fmt.Fprintf(w, "Week %s - %s  %s\n", week.Start.Format("02 Jan"), end.Format("02 Jan 2006"), FormatMinutes(week.Total)); err != nil {
		return err
	}
	perDay := make([]int, len(week.Days))
	for i, day := range week.Days {
		perDay[i] = day.Total
	}
	if _, err := fmt.Fprintf(w, "Trend [%s]\n", Sparkline(perDay)); err != nil {
		return err
	}

	table := minutesTable{
		headers:    []string{"Day", "Date", "Focus", "Top category"},
		rightAlign: map[int]bool{2: true},
	}
	for i, day := range week.Days {
		top := ""
		if best := TopCategories(day.ByCategory, 1); len(best) > 0 {
			top = best[0].Category
		}
		table.add(day.Total, top, weekdayNames[i], day.Date.Format("02 Jan"), FormatMinutes(day.Total), top)
	}
	if err := writeLines(w, table.lines(opts)); err != nil {
		return err
	}
	if week.Total == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return renderCategoryTable(w, week.ByCategory, week.Total, opts)
}

// RenderLifetime prints lifetime counters and per-category totals.
func RenderLifetime(w io.Writer, totalMinutes, focusCount int, byCategory map[string]int, opts RenderOptions) error {
	if _, err := fmt.Fprintf(w, "Lifetime  %s in %d focus sessions\n", FormatMinutes(totalMinutes), focusCount); err != nil {
		return err
	}
	if totalMinutes == 0 {
		return nil
	}
	return renderCategoryTable(w, byCategory, totalMinutes, opts)
}

func renderCategoryTable(w io.Writer, totals map[string]int, total int, opts RenderOptions) error {
	table := minutesTable{
		headers:    []string{"Category", "Focus", "Share"},
		rightAlign: map[int]bool{1: true, 2: true},
	}
	for _, item := range TopCategories(totals, 0) {
		share := 0.0
		if total > 0 {
			share = float64(item.Minutes) / float64(total) * 100
		}
		table.add(item.Minutes, item.Category, item.Category, FormatMinutes(item.Minutes), fmt.Sprintf("%.1f%%", share))
	}
	return writeLines(w, table.lines(opts))
}

func writeLines(w io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func shouldUseColor(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}
