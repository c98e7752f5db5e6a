// Package statsui provides the Bubble Tea stats interface.
package statsui

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/odak/internal/stats"
)

const (
	tabDay = iota
	tabWeek
	tabLifetime
)

var (
	accent = lipgloss.Color("#C89A3A")
	dim    = lipgloss.Color("#4A4A4A")

	tabStyle       = lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.RoundedBorder(), true).BorderForeground(dim).Foreground(lipgloss.Color("#B0B0B0"))
	activeTabStyle = tabStyle.BorderForeground(accent).Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	headerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	cardStyle      = lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.RoundedBorder(), true).BorderForeground(dim)
	cardTitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
)

// Model implements the Bubble Tea stats UI.
type Model struct {
	stats *stats.Store

	report    stats.Report
	tabs      []string
	activeTab int
	viewports []viewport.Model
	dayOffset int

	width  int
	height int
}

// NewModel constructs a stats UI model showing the day at offset (0 is
// today, negative values are past days).
func NewModel(st *stats.Store, dayOffset int) *Model {
	m := &Model{
		stats: st,
		tabs:  []string{"Day", "Week", "Lifetime"},
	}
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
	m.setDayOffset(dayOffset)
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderTabContents()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.String() == "q" {
			return m, tea.Quit
		}
		switch msg.String() {
		case "tab":
			m.activeTab = (m.activeTab + 1) % len(m.tabs)
			return m, nil
		case "shift+tab":
			m.activeTab = (m.activeTab + len(m.tabs) - 1) % len(m.tabs)
			return m, nil
		case "1", "2", "3":
			m.activeTab = int(msg.String()[0] - '1')
			return m, nil
		case "left", "h":
			if m.activeTab == tabDay {
				m.setDayOffset(m.dayOffset - 1)
			}
			return m, nil
		case "right", "l":
			if m.activeTab == tabDay {
				m.setDayOffset(m.dayOffset + 1)
			}
			return m, nil
		case "t":
			m.setDayOffset(0)
			return m, nil
		case "g", "home":
			m.viewports[m.activeTab].GotoTop()
			return m, nil
		case "G", "end":
			m.viewports[m.activeTab].GotoBottom()
			return m, nil
		default:
			var cmd tea.Cmd
			m.viewports[m.activeTab], cmd = m.viewports[m.activeTab].Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	header := m.renderHeader()
	header = frame(header, m.width, lipgloss.Height(header))
	body := frame(m.viewports[m.activeTab].View(), m.width, m.bodyHeight())
	return strings.Join([]string{header, body, frame(m.renderHelp(), m.width, 1)}, "\n")
}

// DayOffset returns the day shown on the Day tab.
func (m *Model) DayOffset() int {
	return m.dayOffset
}

// setDayOffset never moves past today.
func (m *Model) setDayOffset(offset int) {
	if offset > 0 {
		offset = 0
	}
	m.dayOffset = offset
	m.report = stats.BuildReport(m.stats, offset)
	m.renderTabContents()
}

// bodyHeight is what remains after the tab row, the summary line and the
// help line.
func (m *Model) bodyHeight() int {
	h := m.height - lipgloss.Height(m.renderHeader()) - 1
	if h < 1 {
		h = 1
	}
	return h
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	h := m.bodyHeight()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = h
	}
}

// renderTabs labels each tab with the focus time it covers.
func (m *Model) renderTabs() string {
	totals := []int{m.report.Day.Total, m.report.Week.Total, m.report.TotalMinutes}
	parts := make([]string, len(m.tabs))
	for i, tab := range m.tabs {
		label := tab + " " + stats.FormatMinutes(totals[i])
		if i == m.activeTab {
			parts[i] = activeTabStyle.Render(label)
		} else {
			parts[i] = tabStyle.Render(label)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	summary := fmt.Sprintf("Showing: %s  generated %s", dayLabel(m.dayOffset), m.report.GeneratedAt.Format("15:04"))
	if m.width > 0 {
		summary = runewidth.Truncate(summary, m.width, "...")
	}
	return m.renderTabs() + "\n" + headerStyle.Render(summary)
}

func dayLabel(offset int) string {
	switch offset {
	case 0:
		return "today"
	case -1:
		return "yesterday"
	default:
		return fmt.Sprintf("%d days ago", -offset)
	}
}

func (m *Model) renderHelp() string {
	help := "Tabs: tab/1-3  Scroll: up/down/pgup/pgdn  Quit: q"
	if m.activeTab == tabDay {
		help = "Tabs: tab/1-3  Day: left/right  Today: t  Scroll: up/down  Quit: q"
	}
	return headerStyle.Render(help)
}

func (m *Model) renderTabContents() {
	width := m.width
	if width <= 0 {
		width = 80
	}
	opts := stats.RenderOptions{Width: width, Color: true, ColorFor: m.stats.CategoryColor}

	var day bytes.Buffer
	if err := stats.RenderDay(&day, m.report.Day, opts); err != nil {
		day.Reset()
		fmt.Fprintf(&day, "Failed to render day: %v", err)
	}
	m.viewports[tabDay].SetContent(strings.TrimRight(day.String(), "\n"))

	var week bytes.Buffer
	if err := stats.RenderWeek(&week, m.report.Week, opts); err != nil {
		week.Reset()
		fmt.Fprintf(&week, "Failed to render week: %v", err)
	}
	m.viewports[tabWeek].SetContent(strings.TrimRight(week.String(), "\n"))

	m.viewports[tabLifetime].SetContent(renderLifetime(m.report, opts))
}

func renderLifetime(r stats.Report, opts stats.RenderOptions) string {
	cards := []string{
		metricCard("Focus time", stats.FormatMinutes(r.TotalMinutes)),
		metricCard("Sessions", fmt.Sprintf("%d", r.FocusCount)),
		metricCard("Categories", fmt.Sprintf("%d", len(r.CategoryMinutes))),
	}
	summary := lipgloss.JoinHorizontal(lipgloss.Top, cards...)
	if opts.Width < 60 {
		summary = strings.Join(cards, "\n")
	}
	byCategory := make(map[string]int, len(r.CategoryMinutes))
	for _, item := range r.CategoryMinutes {
		byCategory[item.Category] = item.Minutes
	}
	var buf bytes.Buffer
	if err := stats.RenderLifetime(&buf, r.TotalMinutes, r.FocusCount, byCategory, opts); err != nil {
		return fmt.Sprintf("Failed to render lifetime stats: %v", err)
	}
	return strings.TrimRight(summary+"\n\n"+buf.String(), "\n")
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

// frame pads or cuts s to exactly width columns and height lines.
func frame(s string, width, height int) string {
	return lipgloss.NewStyle().
		Width(width).MaxWidth(width).
		Height(height).MaxHeight(height).
		Render(s)
}
