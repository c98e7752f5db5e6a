// Package tui provides the Bubble Tea timer interface.
package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/odak/internal/model"
	"github.com/verte-zerg/odak/internal/prefs"
	"github.com/verte-zerg/odak/internal/session"
	"github.com/verte-zerg/odak/internal/stats"
	"github.com/verte-zerg/odak/internal/ticker"
)

type inputMode int

const (
	inputNone inputMode = iota
	inputCategory
	inputDurations
)

type tickMsg ticker.Tick

// Model implements the Bubble Tea timer UI.
type Model struct {
	engine *session.Engine
	prefs  *prefs.Prefs
	stats  *stats.Store
	ticker *ticker.Ticker

	width  int
	height int

	input          inputMode
	categoryInput  textinput.Model
	durationInputs []textinput.Model
	durationIndex  int

	notice string
}

var (
	clockStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	focusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	breakStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#4DA3FF")).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	noticeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8")).Italic(true)
	footerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	formStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder(), true).BorderForeground(lipgloss.Color("#C89A3A")).Padding(0, 1)
	dotDoneStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
)

// NewModel constructs a timer TUI model.
func NewModel(engine *session.Engine, p *prefs.Prefs, st *stats.Store, tk *ticker.Ticker) *Model {
	m := &Model{
		engine: engine,
		prefs:  p,
		stats:  st,
		ticker: tk,
	}
	m.categoryInput = newInput("Category: ")
	m.categoryInput.Placeholder = "Kodlama"
	m.categoryInput.CharLimit = 40
	m.durationInputs = []textinput.Model{
		newInput("Focus (min): "),
		newInput("Short break (min): "),
		newInput("Long break (min): "),
	}
	for i := range m.durationInputs {
		m.durationInputs[i].CharLimit = 3
	}
	return m
}

func newInput(prompt string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return waitForTick(m.ticker.C())
}

// waitForTick blocks on the ticker channel. Only one is outstanding at a
// time: it is issued once in Init and again after every tick.
func waitForTick(c <-chan ticker.Tick) tea.Cmd {
	return func() tea.Msg {
		return tickMsg(<-c)
	}
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		if done := m.engine.Advance(context.Background(), msg.Seconds); done != nil {
			m.notice = completionNotice(done)
		}
		m.syncTicker()
		return m, waitForTick(m.ticker.C())
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m.quit()
		}
		switch m.input {
		case inputCategory:
			return m.updateCategoryInput(msg)
		case inputDurations:
			return m.updateDurationInputs(msg)
		}
		switch msg.String() {
		case "q":
			return m.quit()
		case " ":
			m.engine.Toggle()
			m.notice = ""
		case "r":
			m.engine.Reset()
			m.notice = ""
		case "s":
			s := m.engine.Skip()
			m.notice = "Skipped to " + strings.ToLower(s.Mode.Label())
		case "c":
			next := m.prefs.Categories().Next(m.engine.Category())
			m.engine.SetCategory(m.prefs.SelectCategory(context.Background(), next))
		case "n":
			m.input = inputCategory
			m.categoryInput.SetValue("")
			return m, m.categoryInput.Focus()
		case "e":
			return m.startDurations()
		default:
			return m, nil
		}
		m.syncTicker()
		return m, nil
	}
	return m, nil
}

func (m *Model) quit() (tea.Model, tea.Cmd) {
	m.ticker.Stop()
	return m, tea.Quit
}

// syncTicker runs the ticker exactly while the countdown runs.
func (m *Model) syncTicker() {
	if m.engine.Snapshot().Running {
		m.ticker.Start()
		return
	}
	m.ticker.Stop()
}

func (m *Model) updateCategoryInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.input = inputNone
		m.categoryInput.Blur()
		return m, nil
	case tea.KeyEnter:
		m.input = inputNone
		m.categoryInput.Blur()
		label := strings.TrimSpace(m.categoryInput.Value())
		if label == "" {
			return m, nil
		}
		m.engine.SetCategory(m.prefs.SelectCategory(context.Background(), label))
		m.notice = "Category " + m.engine.Category()
		return m, nil
	}
	var cmd tea.Cmd
	m.categoryInput, cmd = m.categoryInput.Update(msg)
	return m, cmd
}

func (m *Model) startDurations() (tea.Model, tea.Cmd) {
	d := m.engine.Snapshot().Durations
	m.durationInputs[0].SetValue(strconv.Itoa(d.Focus))
	m.durationInputs[1].SetValue(strconv.Itoa(d.Short))
	m.durationInputs[2].SetValue(strconv.Itoa(d.Long))
	m.input = inputDurations
	return m, m.setDurationIndex(0)
}

func (m *Model) updateDurationInputs(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.input = inputNone
		return m, nil
	case tea.KeyEnter:
		m.input = inputNone
		m.applyDurations()
		m.syncTicker()
		return m, nil
	case tea.KeyTab, tea.KeyDown:
		return m, m.setDurationIndex(m.durationIndex + 1)
	case tea.KeyShiftTab, tea.KeyUp:
		return m, m.setDurationIndex(m.durationIndex - 1)
	}
	var cmd tea.Cmd
	m.durationInputs[m.durationIndex], cmd = m.durationInputs[m.durationIndex].Update(msg)
	return m, cmd
}

func (m *Model) setDurationIndex(idx int) tea.Cmd {
	count := len(m.durationInputs)
	if idx < 0 {
		idx = count - 1
	}
	if idx >= count {
		idx = 0
	}
	m.durationIndex = idx
	var cmd tea.Cmd
	for i := range m.durationInputs {
		if i == idx {
			cmd = m.durationInputs[i].Focus()
			continue
		}
		m.durationInputs[i].Blur()
	}
	return cmd
}

// applyDurations reads the form. Non-numeric fields keep their current
// value; numbers are clamped by the preferences layer.
func (m *Model) applyDurations() {
	current := m.engine.Snapshot().Durations
	d := model.Durations{
		Focus: parseMinutes(m.durationInputs[0].Value(), current.Focus),
		Short: parseMinutes(m.durationInputs[1].Value(), current.Short),
		Long:  parseMinutes(m.durationInputs[2].Value(), current.Long),
	}
	d = m.prefs.SetDurations(context.Background(), d)
	m.engine.SetDurations(d)
	m.notice = "Durations " + d.String()
}

func parseMinutes(value string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}

func completionNotice(done *session.Completion) string {
	if done.Focus() {
		return fmt.Sprintf("Focus complete (%s). Time for a %s.", stats.FormatMinutes(done.Minutes), strings.ToLower(done.Next.Label()))
	}
	return "Break over. Ready to focus."
}

// View implements tea.Model.
func (m *Model) View() string {
	content := m.renderTimer()
	switch m.input {
	case inputCategory:
		content += "\n\n" + formStyle.Render(m.categoryInput.View()+"\n"+mutedStyle.Render("enter: select  esc: cancel"))
	case inputDurations:
		lines := make([]string, 0, len(m.durationInputs)+1)
		for _, input := range m.durationInputs {
			lines = append(lines, input.View())
		}
		lines = append(lines, mutedStyle.Render("tab: next field  enter: apply  esc: cancel"))
		content += "\n\n" + formStyle.Render(strings.Join(lines, "\n"))
	}
	if m.notice != "" {
		content += "\n\n" + noticeStyle.Render(m.notice)
	}
	if m.width == 0 || m.height == 0 {
		return content + "\n" + m.renderFooter()
	}
	if m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	bodyHeight := m.height - 2
	body := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, content)
	footer := lipgloss.Place(m.width, 2, lipgloss.Center, lipgloss.Bottom, m.renderFooter())
	return body + "\n" + footer
}

func (m *Model) renderTimer() string {
	s := m.engine.Snapshot()
	modeStyle := breakStyle
	if s.Mode == model.ModeFocus {
		modeStyle = focusStyle
	}
	label := m.engine.Category()
	categoryStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.stats.CategoryColor(label)))
	header := modeStyle.Render(strings.ToUpper(s.Mode.Label())) + mutedStyle.Render("  ·  ") + categoryStyle.Render(label)

	status := "paused"
	if s.Running {
		status = "running"
	}
	lines := []string{
		header,
		"",
		clockStyle.Render(FormatClock(s.Remaining)),
		"",
		mutedStyle.Render(status) + "  " + cycleDots(s),
	}
	return lipgloss.JoinVertical(lipgloss.Center, lines...)
}

// FormatClock renders seconds as mm:ss.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// cycleDots shows progress toward the next long break.
func cycleDots(s session.State) string {
	done := s.CompletedFocus % session.LongBreakEvery
	if done == 0 && s.CompletedFocus > 0 && s.Mode == model.ModeLong {
		done = session.LongBreakEvery
	}
	dots := make([]string, session.LongBreakEvery)
	for i := range dots {
		if i < done {
			dots[i] = dotDoneStyle.Render("●")
		} else {
			dots[i] = mutedStyle.Render("○")
		}
	}
	return strings.Join(dots, " ")
}

func (m *Model) renderFooter() string {
	s := m.engine.Snapshot()
	segments := []string{
		"Today " + stats.FormatMinutes(m.stats.Day(0).Total),
		fmt.Sprintf("Sessions %d", s.CompletedFocus),
		"Total " + stats.FormatMinutes(s.TotalMinutes),
		"Durations " + s.Durations.String(),
	}
	help := "space: start/pause  r: reset  s: skip  c: category  n: new category  e: durations  q: quit"
	return footerStyle.Render(strings.Join(segments, "  ")) + "\n" + footerStyle.Render(help)
}
