package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/taime/internal/analyze"
	"github.com/sadopc/taime/internal/config"
	"github.com/sadopc/taime/internal/store"
	"github.com/sadopc/taime/internal/tracker"
)

type analysisModel struct {
	tracker *tracker.Tracker
	cfg     config.Config
	width   int
	height  int

	tasks   []store.Task
	result  *analyze.Result
	loading bool
	errText string
}

func newAnalysisModel(tr *tracker.Tracker, cfg config.Config) analysisModel {
	return analysisModel{tracker: tr, cfg: cfg}
}

func (m *analysisModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

type analysisTasksMsg struct {
	tasks []store.Task
}

type analysisResultMsg struct {
	result *analyze.Result
	err    error
}

func (m analysisModel) refresh() tea.Cmd {
	return func() tea.Msg {
		return analysisTasksMsg{tasks: analyze.Aggregate(m.tracker.TasksForAnalysis())}
	}
}

func (m analysisModel) update(msg tea.Msg) (analysisModel, tea.Cmd) {
	switch msg := msg.(type) {
	case analysisTasksMsg:
		m.tasks = msg.tasks
		return m, nil

	case analysisResultMsg:
		m.loading = false
		if msg.err != nil {
			m.errText = msg.err.Error()
			return m, nil
		}
		m.errText = ""
		m.result = msg.result
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.Analyze) && !m.loading {
			return m.runAnalysis()
		}
	}
	return m, nil
}

func (m analysisModel) runAnalysis() (analysisModel, tea.Cmd) {
	if m.cfg.GeminiAPIKey == "" {
		m.errText = "No Gemini API key configured"
		return m, nil
	}
	if len(m.tasks) == 0 {
		m.errText = "No tracked tasks to analyze"
		return m, nil
	}

	m.loading = true
	m.errText = ""

	client := analyze.NewClient(m.cfg.GeminiAPIKey)
	tasks := m.tasks
	lang := m.cfg.Language
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
		defer cancel()
		result, err := client.Analyze(ctx, tasks, lang)
		return analysisResultMsg{result: result, err: err}
	}
}

func (m analysisModel) view() string {
	w := m.width - 4

	header := titleStyle.Render("Analysis")
	switch {
	case m.loading:
		header += "  " + warningStyle.Render("thinking…")
	case m.errText != "":
		header += "  " + errorStyle.Render(m.errText)
	}

	var rows []string
	rows = append(rows, header)
	rows = append(rows, "")
	rows = append(rows, m.renderTaskSummary()...)

	if m.result != nil {
		rows = append(rows, "")
		rows = append(rows, m.renderResult()...)
	} else if !m.loading {
		rows = append(rows, "")
		rows = append(rows, mutedStyle.Render("  Press a to categorize today's work with Gemini"))
	}

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (m analysisModel) renderTaskSummary() []string {
	if len(m.tasks) == 0 {
		return []string{mutedStyle.Render("  Nothing tracked today")}
	}

	rows := []string{mutedStyle.Render(fmt.Sprintf("  %-44s %s", "Task", "Time"))}
	for _, t := range m.tasks {
		name := t.Name
		if t.JiraIssueKey != "" {
			name = t.JiraIssueKey + " " + name
		}
		rows = append(rows, fmt.Sprintf("  %-44s %s", name, formatSeconds(t.ElapsedSeconds)))
	}
	return rows
}

func (m analysisModel) renderResult() []string {
	var rows []string
	rows = append(rows, titleStyle.Render("Categories"))
	for _, cat := range m.result.Categories {
		header := fmt.Sprintf("  %s %s",
			highlightStyle.Render(cat.CategoryName),
			mutedStyle.Render(formatHours(cat.TotalTime)),
		)
		rows = append(rows, header)
		for _, name := range cat.Tasks {
			rows = append(rows, normalItemStyle.Render("    · "+name))
		}
	}

	if len(m.result.Insights) > 0 {
		rows = append(rows, "")
		rows = append(rows, titleStyle.Render("Insights"))
		for _, ins := range m.result.Insights {
			rows = append(rows, lipgloss.NewStyle().Foreground(colorFg).Render("  · "+ins))
		}
	}
	return rows
}
