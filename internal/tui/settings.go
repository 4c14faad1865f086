package tui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/taime/internal/config"
	"github.com/sadopc/taime/internal/store"
)

type settingsModel struct {
	store  *store.Store
	cfg    config.Config
	width  int
	height int

	goal    store.Goal
	hasGoal bool

	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	weeklyHours *string
	insights    *bool
}

func newSettingsModel(s *store.Store, cfg config.Config) settingsModel {
	wh := ""
	ins := false
	return settingsModel{
		store:       s,
		cfg:         cfg,
		weeklyHours: &wh,
		insights:    &ins,
	}
}

func (m *settingsModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

type settingsDataMsg struct {
	goal    store.Goal
	hasGoal bool
}

func (m settingsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		goal, ok := m.store.GoalConfig()
		return settingsDataMsg{goal: goal, hasGoal: ok}
	}
}

func (m settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsDataMsg:
		m.goal = msg.goal
		m.hasGoal = msg.hasGoal
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.New):
			return m.showForm()
		}
	}
	return m, nil
}

func (m settingsModel) showForm() (settingsModel, tea.Cmd) {
	*m.weeklyHours = ""
	if m.hasGoal && m.goal.WeeklyHours > 0 {
		*m.weeklyHours = strconv.FormatFloat(m.goal.WeeklyHours, 'f', -1, 64)
	}
	*m.insights = m.goal.RealtimeInsightsEnabled

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Weekly goal (hours)").
				Description("Leave empty for no goal").
				Value(m.weeklyHours).
				Validate(func(s string) error {
					if s == "" {
						return nil
					}
					v, err := strconv.ParseFloat(s, 64)
					if err != nil || v < 0 {
						return fmt.Errorf("enter a non-negative number")
					}
					return nil
				}),
			huh.NewConfirm().
				Title("Realtime insights").
				Description("A coaching message every 25 tracked minutes").
				Value(m.insights),
		).Title("Goal"),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			m.formActive = false
			m.form = nil
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.formActive = false
		m.saveGoal()
		return m, m.refresh()
	}

	return m, cmd
}

func (m settingsModel) saveGoal() {
	hours := 0.0
	if *m.weeklyHours != "" {
		hours, _ = strconv.ParseFloat(*m.weeklyHours, 64)
	}
	m.store.SetGoal(store.Goal{
		WeeklyHours:             hours,
		RealtimeInsightsEnabled: *m.insights,
	})
}

func (m settingsModel) view() string {
	w := m.width - 4

	if m.formActive && m.form != nil {
		title := titleStyle.Render("Settings")
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", m.form.View()),
		)
	}

	var rows []string
	rows = append(rows, titleStyle.Render("Settings"))
	rows = append(rows, "")

	goalValue := mutedStyle.Render("not set")
	if m.hasGoal && m.goal.WeeklyHours > 0 {
		goalValue = highlightStyle.Render(fmt.Sprintf("%.1f hours/week", m.goal.WeeklyHours))
	}
	rows = append(rows, settingRow("Weekly goal", goalValue))
	rows = append(rows, settingRow("Realtime insights", onOff(m.goal.RealtimeInsightsEnabled)))
	rows = append(rows, "")

	rows = append(rows, titleStyle.Render("Integrations"))
	rows = append(rows, "")
	rows = append(rows, settingRow("Language", highlightStyle.Render(m.cfg.Language)))
	rows = append(rows, settingRow("Gemini", configured(m.cfg.GeminiAPIKey != "")))
	rows = append(rows, settingRow("Jira", configured(m.cfg.JiraConfigured())))
	rows = append(rows, settingRow("Google Calendar", configured(m.cfg.CalendarToken != "")))
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("Credentials live in ~/.config/taime/config.yaml"))
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("Press enter to edit the goal"))

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func settingRow(label, value string) string {
	return fmt.Sprintf("  %s %s", lipgloss.NewStyle().Width(20).Render(label), value)
}

func onOff(v bool) string {
	if v {
		return successStyle.Render("on")
	}
	return mutedStyle.Render("off")
}

func configured(v bool) string {
	if v {
		return successStyle.Render("configured")
	}
	return mutedStyle.Render("not configured")
}
