package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/webperf-tools/vitaltop/engine"
	"github.com/webperf-tools/vitaltop/model"
	"github.com/webperf-tools/vitaltop/style"
)

// Page identifies the current overlay screen.
type Page int

const (
	PageVitals Page = iota
	PageShifts
	PageIntervals
	pageCount
)

var pageNames = []string{"Vitals", "Shifts", "Intervals"}

type tickMsg time.Time

type snapshotMsg model.Overlay

// Model is the bubbletea model for the live overlay.
type Model struct {
	eng      *engine.Engine
	interval time.Duration
	width    int
	height   int

	snap     *model.Overlay
	page     Page
	paused   bool
	showHelp bool
}

// NewModel creates the overlay model.
func NewModel(eng *engine.Engine, interval time.Duration) Model {
	return Model{eng: eng, interval: interval}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(snapshot(m.eng), tick(m.interval))
}

func tick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func snapshot(eng *engine.Engine) tea.Cmd {
	return func() tea.Msg { return snapshotMsg(eng.Tick()) }
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tickMsg:
		if m.paused {
			return m, tick(m.interval)
		}
		return m, tea.Batch(snapshot(m.eng), tick(m.interval))

	case snapshotMsg:
		snap := model.Overlay(msg)
		m.snap = &snap

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "tab", "right", "l":
			m.page = (m.page + 1) % pageCount
		case "shift+tab", "left", "h":
			m.page = (m.page - 1 + pageCount) % pageCount
		case " ":
			m.paused = !m.paused
		case "c":
			m.eng.Reporter.ClearAll()
			return m, snapshot(m.eng)
		case "?":
			m.showHelp = !m.showHelp
		}
	}
	return m, nil
}

func (m Model) View() string {
	if m.snap == nil {
		return style.Dim.Render("collecting…")
	}
	if m.showHelp {
		return m.renderHelp()
	}

	var body string
	switch m.page {
	case PageVitals:
		body = m.renderVitals()
	case PageShifts:
		body = m.renderShifts()
	case PageIntervals:
		body = m.renderIntervals()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderTabs(),
		style.Panel.Width(maxInt(m.width-4, 40)).Render(body),
		m.renderStatusBar(),
	)
}

func (m Model) renderTabs() string {
	var tabs []string
	for i, name := range pageNames {
		if Page(i) == m.page {
			tabs = append(tabs, style.Title.Render("["+name+"]"))
		} else {
			tabs = append(tabs, style.Dim.Render(" "+name+" "))
		}
	}
	return strings.Join(tabs, " ")
}

func (m Model) renderVitals() string {
	var sb strings.Builder
	sb.WriteString(style.Title.Render("Core Web Vitals") + "\n")
	if len(m.snap.Vitals) == 0 {
		sb.WriteString(style.Dim.Render("no vitals recorded yet"))
		return sb.String()
	}
	for _, v := range m.snap.Vitals {
		sb.WriteString(fmt.Sprintf("%-5s %-14s %s\n",
			v.Name, style.MetricValue(v), style.Label.Render(string(v.Rating))))
	}
	return sb.String()
}

func (m Model) renderShifts() string {
	var sb strings.Builder
	sb.WriteString(style.Title.Render("Layout Stability") + "\n")
	sb.WriteString(fmt.Sprintf("windowed score: %s   shifts recorded: %d\n",
		style.Rating(m.snap.ShiftRating).Render(fmt.Sprintf("%.4f", m.snap.ShiftScore)),
		m.snap.ShiftCount))
	if len(m.snap.TopElements) == 0 {
		sb.WriteString(style.Dim.Render("no shifted elements"))
		return sb.String()
	}
	sb.WriteString(style.Label.Render("top shifted elements:") + "\n")
	for _, e := range m.snap.TopElements {
		sev := model.ShiftSeverity(e.Stats.AvgScore)
		sb.WriteString(fmt.Sprintf("  %-44s x%-3d %s\n",
			truncate(e.Selector, 44), e.Stats.Count,
			style.Severity(sev).Render(fmt.Sprintf("%.4f", e.Stats.TotalScore))))
	}
	return sb.String()
}

func (m Model) renderIntervals() string {
	var sb strings.Builder
	sb.WriteString(style.Title.Render("Slowest Intervals") + "\n")
	if len(m.snap.SlowIntervals) == 0 {
		sb.WriteString(style.Dim.Render("no completed intervals"))
		return sb.String()
	}
	for _, r := range m.snap.SlowIntervals {
		sb.WriteString(fmt.Sprintf("  %-36s %s\n", truncate(r.Name, 36), style.Duration(r.Duration)))
	}
	return sb.String()
}

func (m Model) renderStatusBar() string {
	state := "live"
	if m.paused {
		state = "paused"
	}
	return style.Dim.Render(fmt.Sprintf(
		" %s · %s · tab: page  space: pause  c: clear  ?: help  q: quit",
		m.snap.Timestamp.Format("15:04:05"), state))
}

func (m Model) renderHelp() string {
	return style.Panel.Render(strings.Join([]string{
		style.Title.Render("vitaltop overlay"),
		"",
		"tab / shift+tab   switch page",
		"space             pause auto-refresh",
		"c                 clear all collector state",
		"?                 toggle this help",
		"q                 quit",
	}, "\n"))
}

// truncate shortens s to n runes, never splitting a multibyte character.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
