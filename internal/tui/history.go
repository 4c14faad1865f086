package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/taime/internal/analyze"
	"github.com/sadopc/taime/internal/config"
	"github.com/sadopc/taime/internal/gamify"
	"github.com/sadopc/taime/internal/store"
)

type historyModel struct {
	store  *store.Store
	cfg    config.Config
	width  int
	height int

	history  store.History
	progress store.UserProgress
	goal     store.Goal
	hasGoal  bool
	offset   int // weeks back from the current week (0 = current)
	cursor   int // selected day within the week, 0 = Monday

	dayResult *analyze.Result
	dayDate   string
	analyzing bool
	errText   string

	chart barchart.Model
}

func newHistoryModel(s *store.Store, cfg config.Config) historyModel {
	return historyModel{
		store: s,
		cfg:   cfg,
		chart: barchart.New(60, 12),
	}
}

func (m *historyModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

type historyDataMsg struct {
	history  store.History
	progress store.UserProgress
	goal     store.Goal
	hasGoal  bool
}

func (m historyModel) refresh() tea.Cmd {
	return func() tea.Msg {
		goal, hasGoal := m.store.GoalConfig()
		return historyDataMsg{
			history:  m.store.History(),
			progress: m.store.Progress(),
			goal:     goal,
			hasGoal:  hasGoal,
		}
	}
}

// weekRange returns the Monday starting the displayed week and the
// Monday after it.
func (m historyModel) weekRange() (time.Time, time.Time) {
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	weekday := today.Weekday()
	if weekday == time.Sunday {
		weekday = 7
	}
	start := today.AddDate(0, 0, -int(weekday-time.Monday))
	start = start.AddDate(0, 0, -7*m.offset)
	return start, start.AddDate(0, 0, 7)
}

func (m historyModel) update(msg tea.Msg) (historyModel, tea.Cmd) {
	switch msg := msg.(type) {
	case historyDataMsg:
		m.history = msg.history
		m.progress = msg.progress
		m.goal = msg.goal
		m.hasGoal = msg.hasGoal
		m.buildChart()
		return m, nil

	case historyAnalysisMsg:
		m.analyzing = false
		if msg.err != nil {
			m.errText = msg.err.Error()
			return m, nil
		}
		m.errText = ""
		m.dayResult = msg.result
		m.dayDate = msg.date
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			m.offset++
			m.clearDayAnalysis()
			m.buildChart()
			return m, nil
		case key.Matches(msg, keys.Right):
			if m.offset > 0 {
				m.offset--
			}
			m.clearDayAnalysis()
			m.buildChart()
			return m, nil
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		case key.Matches(msg, keys.Down):
			if m.cursor < 6 {
				m.cursor++
			}
			return m, nil
		case key.Matches(msg, keys.Analyze):
			if !m.analyzing {
				return m.analyzeDay()
			}
		}
	}
	return m, nil
}

type historyAnalysisMsg struct {
	date   string
	result *analyze.Result
	err    error
}

func (m *historyModel) clearDayAnalysis() {
	m.dayResult = nil
	m.dayDate = ""
	m.errText = ""
}

// selectedDate is the date key under the day cursor.
func (m historyModel) selectedDate() string {
	from, _ := m.weekRange()
	return from.AddDate(0, 0, m.cursor).Format("2006-01-02")
}

// analyzeDay categorizes the selected day's archived tasks with Gemini.
func (m historyModel) analyzeDay() (historyModel, tea.Cmd) {
	if m.cfg.GeminiAPIKey == "" {
		m.errText = "No Gemini API key configured"
		return m, nil
	}
	date := m.selectedDate()
	rec, ok := m.history[date]
	if !ok || len(rec.Tasks) == 0 {
		m.errText = "Nothing archived on " + date
		return m, nil
	}

	m.analyzing = true
	m.errText = ""

	client := analyze.NewClient(m.cfg.GeminiAPIKey)
	tasks := analyze.Aggregate(rec.Tasks)
	lang := m.cfg.Language
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
		defer cancel()
		result, err := client.Analyze(ctx, tasks, lang)
		return historyAnalysisMsg{date: date, result: result, err: err}
	}
}

func (m *historyModel) buildChart() {
	chartWidth := m.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 12
	if m.height > 30 {
		chartHeight = 16
	}

	m.chart = barchart.New(chartWidth, chartHeight)

	from, to := m.weekRange()

	var bars []barchart.BarData
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		label := d.Format("Mon 02")
		hours := 0.0
		if rec, ok := m.history[d.Format("2006-01-02")]; ok {
			hours = float64(rec.TotalTime) / 3600.0
		}

		style := lipgloss.NewStyle().Foreground(colorPrimary)
		if hours == 0 {
			style = lipgloss.NewStyle().Foreground(colorSubtle)
		}
		bars = append(bars, barchart.BarData{
			Label:  label,
			Values: []barchart.BarValue{{Name: label, Value: hours, Style: style}},
		})
	}

	m.chart.PushAll(bars)
	m.chart.Draw()
}

// weekTotal sums archived seconds in the displayed week.
func (m historyModel) weekTotal() int64 {
	from, to := m.weekRange()
	var total int64
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		if rec, ok := m.history[d.Format("2006-01-02")]; ok {
			total += rec.TotalTime
		}
	}
	return total
}

func (m historyModel) view() string {
	w := m.width - 4

	from, to := m.weekRange()
	dateLabel := mutedStyle.Render(fmt.Sprintf("%s — %s",
		from.Format("Jan 02"), to.Add(-24*time.Hour).Format("Jan 02, 2006")))

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("History"), "  ", dateLabel,
	)
	switch {
	case m.analyzing:
		header += "  " + warningStyle.Render("thinking…")
	case m.errText != "":
		header += "  " + errorStyle.Render(m.errText)
	}

	levelLine := m.renderLevelLine()
	goalLine := m.renderGoalLine()
	chartView := m.chart.View()
	tableView := m.renderWeekTable(w)
	nav := mutedStyle.Render("  ←/→: weeks  ↑/↓: day  a: analyze day")

	rows := []string{header, "", levelLine}
	if goalLine != "" {
		rows = append(rows, goalLine)
	}
	rows = append(rows, "", chartView, "", tableView)
	if m.dayResult != nil {
		rows = append(rows, "")
		rows = append(rows, m.renderDayAnalysis()...)
	}
	rows = append(rows, "", nav)

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m historyModel) renderDayAnalysis() []string {
	var rows []string
	rows = append(rows, titleStyle.Render("Analysis")+"  "+mutedStyle.Render(m.dayDate))
	for _, cat := range m.dayResult.Categories {
		rows = append(rows, fmt.Sprintf("  %s %s",
			highlightStyle.Render(cat.CategoryName),
			mutedStyle.Render(formatHours(cat.TotalTime)),
		))
		for _, name := range cat.Tasks {
			rows = append(rows, normalItemStyle.Render("    · "+name))
		}
	}
	for _, ins := range m.dayResult.Insights {
		rows = append(rows, lipgloss.NewStyle().Foreground(colorFg).Render("  · "+ins))
	}
	return rows
}

func (m historyModel) renderLevelLine() string {
	info := gamify.LevelForPoints(m.progress.Points)
	filled := int(info.Progress / 10)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", 10-filled)
	return fmt.Sprintf("  %s %s %s",
		highlightStyle.Render(fmt.Sprintf("Level %d", info.Level)),
		successStyle.Render(bar),
		mutedStyle.Render(fmt.Sprintf("%d pts (%d to next)", m.progress.Points, info.PointsForNextLevel-m.progress.Points)),
	)
}

func (m historyModel) renderGoalLine() string {
	if !m.hasGoal || m.goal.WeeklyHours <= 0 {
		return ""
	}
	tracked := float64(m.weekTotal()) / 3600.0
	pct := tracked / m.goal.WeeklyHours * 100
	style := warningStyle
	if pct >= 100 {
		style = successStyle
	}
	return fmt.Sprintf("  %s %s",
		mutedStyle.Render("Weekly goal"),
		style.Render(fmt.Sprintf("%.1f / %.1f hours (%.0f%%)", tracked, m.goal.WeeklyHours, pct)),
	)
}

func (m historyModel) renderWeekTable(w int) string {
	from, to := m.weekRange()

	var rows []string
	headerRow := mutedStyle.Render(fmt.Sprintf("    %-12s %8s %7s", "Date", "Time", "Tasks"))
	rows = append(rows, headerRow)
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 32))))

	any := false
	i := 0
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		cursor := "  "
		style := normalItemStyle
		if i == m.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		i++

		date := d.Format("2006-01-02")
		rec, ok := m.history[date]
		if !ok || len(rec.Tasks) == 0 {
			rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %s%-12s %8s %7s", cursor, date, "-", "-")))
			continue
		}
		any = true
		rows = append(rows, style.Render(fmt.Sprintf("  %s%-12s %8s %7d",
			cursor, rec.Date, formatSeconds(rec.TotalTime), len(rec.Tasks))))
	}
	if !any {
		rows = append(rows, mutedStyle.Render("  No archived days this week"))
	}
	return strings.Join(rows, "\n")
}
