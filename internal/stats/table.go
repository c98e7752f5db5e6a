package stats

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// minutesTable lays out text columns followed by a bar scaled to each row's
// minutes. Bars take the category color when rendering in color.
type minutesTable struct {
	headers    []string
	rightAlign map[int]bool
	rows       []minutesRow
}

type minutesRow struct {
	cells []string
	// minutes sizes the bar relative to the largest row.
	minutes int
	// category picks the bar color; empty leaves it plain.
	category string
}

func (t *minutesTable) add(minutes int, category string, cells ...string) {
	t.rows = append(t.rows, minutesRow{cells: cells, minutes: minutes, category: category})
}

// lines renders the header and one line per row, fitting bars into
// opts.Width after the widest text line.
func (t *minutesTable) lines(opts RenderOptions) []string {
	widths := t.columnWidths()
	if len(widths) == 0 {
		return nil
	}
	text := make([]string, 0, len(t.rows)+1)
	text = append(text, t.joinCells(t.headers, widths))
	maxMinutes := 0
	for _, row := range t.rows {
		text = append(text, t.joinCells(row.cells, widths))
		if row.minutes > maxMinutes {
			maxMinutes = row.minutes
		}
	}

	// Padded rows keep bars aligned; trailing space is trimmed where no
	// bar follows.
	barWidth := barWidthFor(opts.Width, text)
	for i, row := range t.rows {
		bar := Bar(row.minutes, maxMinutes, barWidth)
		if bar == "" {
			text[i+1] = strings.TrimRight(text[i+1], " ")
			continue
		}
		if opts.Color && opts.ColorFor != nil && row.category != "" {
			bar = lipgloss.NewStyle().Foreground(lipgloss.Color(opts.ColorFor(row.category))).Render(bar)
		}
		text[i+1] += " " + bar
	}
	text[0] = strings.TrimRight(text[0], " ")
	return text
}

func (t *minutesTable) columnWidths() []int {
	count := len(t.headers)
	for _, row := range t.rows {
		if len(row.cells) > count {
			count = len(row.cells)
		}
	}
	widths := make([]int, count)
	measure := func(cells []string) {
		for i, cell := range cells {
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}
	measure(t.headers)
	for _, row := range t.rows {
		measure(row.cells)
	}
	return widths
}

func (t *minutesTable) joinCells(cells []string, widths []int) string {
	parts := make([]string, len(widths))
	for i, width := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		if t.rightAlign[i] {
			parts[i] = runewidth.FillLeft(cell, width)
		} else {
			parts[i] = runewidth.FillRight(cell, width)
		}
	}
	return strings.Join(parts, " ")
}

// barWidthFor leaves the bar whatever width the text does not use, within
// [minBarWidth, maxBarWidth].
func barWidthFor(totalWidth int, lines []string) int {
	if totalWidth <= 0 {
		totalWidth = terminalWidthBackup
	}
	used := 0
	for _, line := range lines {
		if lw := runewidth.StringWidth(line); lw > used {
			used = lw
		}
	}
	width := totalWidth - used - 1
	if width < minBarWidth {
		width = minBarWidth
	}
	if width > maxBarWidth {
		width = maxBarWidth
	}
	return width
}
