package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/taime/internal/analyze"
	"github.com/sadopc/taime/internal/config"
	"github.com/sadopc/taime/internal/gamify"
	"github.com/sadopc/taime/internal/jira"
	"github.com/sadopc/taime/internal/store"
	"github.com/sadopc/taime/internal/tracker"
)

// insightInterval is how much tracked time on one task earns a
// realtime coaching message.
const insightInterval int64 = 25 * 60

type tasksModel struct {
	store   *store.Store
	tracker *tracker.Tracker
	cfg     config.Config
	width   int
	height  int

	tasks   []store.Task
	cursor  int
	insight string

	formActive bool
	form       *huh.Form
	formMode   string // "new", "edit"
	editingID  string

	// Form field pointers (survive value copies)
	formInput *string
	formName  *string
	formDesc  *string
	formKey   *string
}

func newTasksModel(s *store.Store, tr *tracker.Tracker, cfg config.Config) tasksModel {
	input, name, desc, issueKey := "", "", "", ""
	return tasksModel{
		store:     s,
		tracker:   tr,
		cfg:       cfg,
		tasks:     tr.LiveTasks(),
		formInput: &input,
		formName:  &name,
		formDesc:  &desc,
		formKey:   &issueKey,
	}
}

func (m *tasksModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

type tasksDataMsg struct {
	tasks []store.Task
}

func (m tasksModel) refresh() tea.Cmd {
	return func() tea.Msg {
		return tasksDataMsg{tasks: m.tracker.LiveTasks()}
	}
}

func (m tasksModel) update(msg tea.Msg) (tasksModel, tea.Cmd) {
	// The clock keeps running while a form is open, so ticks are handled
	// ahead of any form delegation.
	if _, ok := msg.(tickMsg); ok {
		err := m.tracker.Tick()
		m.tasks = m.tracker.LiveTasks()
		if err != nil {
			return m, errorCmd(err)
		}
		return m, m.maybeRequestInsight()
	}

	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case tasksDataMsg:
		m.tasks = msg.tasks
		if m.cursor >= len(m.tasks) {
			m.cursor = max(0, len(m.tasks)-1)
		}
		return m, nil

	case insightMsg:
		m.insight = msg.text
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.tasks)-1 {
				m.cursor++
			}
		case key.Matches(msg, keys.Enter):
			if len(m.tasks) > 0 {
				m.tracker.Select(m.tasks[m.cursor].ID)
			}
		case key.Matches(msg, keys.New):
			return m.showNewTaskForm()
		case key.Matches(msg, keys.Edit):
			if len(m.tasks) > 0 {
				return m.showEditTaskForm()
			}
		case key.Matches(msg, keys.Delete):
			if len(m.tasks) > 0 {
				return m.deleteTask(m.tasks[m.cursor])
			}
		case key.Matches(msg, keys.Reset):
			return m.resetDay()
		case key.Matches(msg, keys.LogWork):
			if len(m.tasks) > 0 {
				return m.logWork(m.tasks[m.cursor])
			}
		}
	}
	return m, nil
}

func (m tasksModel) showNewTaskForm() (tasksModel, tea.Cmd) {
	*m.formInput = ""
	m.formMode = "new"

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Task").
				Description("A leading PROJ-123: links the task to a Jira issue").
				Value(m.formInput),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m tasksModel) showEditTaskForm() (tasksModel, tea.Cmd) {
	task := m.tasks[m.cursor]
	*m.formName = task.Name
	*m.formDesc = task.Description
	*m.formKey = task.JiraIssueKey
	m.formMode = "edit"
	m.editingID = task.ID

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Name").Value(m.formName),
			huh.NewInput().Title("Description").Value(m.formDesc),
			huh.NewInput().Title("Jira issue key").Value(m.formKey),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m tasksModel) updateForm(msg tea.Msg) (tasksModel, tea.Cmd) {
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
		switch m.formMode {
		case "new":
			if _, err := m.tracker.AddTask(*m.formInput); err != nil {
				return m, errorCmd(err)
			}
		case "edit":
			if err := m.tracker.EditTask(m.editingID, *m.formName, *m.formDesc, strings.ToUpper(strings.TrimSpace(*m.formKey))); err != nil {
				return m, errorCmd(err)
			}
		}
		return m, m.refresh()
	}

	return m, cmd
}

func (m tasksModel) deleteTask(task store.Task) (tasksModel, tea.Cmd) {
	if err := m.tracker.DeleteTask(task.ID); err != nil {
		return m, errorCmd(err)
	}
	text := "Deleted " + task.Name
	if task.ElapsedSeconds > 0 {
		text += " (tracked time archived)"
	}
	return m, tea.Batch(
		m.refresh(),
		func() tea.Msg { return statusMsg{text: text} },
	)
}

func (m tasksModel) resetDay() (tasksModel, tea.Cmd) {
	var archived int
	var points int64
	for _, t := range m.tasks {
		if t.ElapsedSeconds > 0 {
			archived++
			points += gamify.PointsForDuration(t.ElapsedSeconds)
		}
	}
	if err := m.tracker.ResetDay(); err != nil {
		return m, errorCmd(err)
	}
	m.insight = ""
	return m, tea.Batch(
		m.refresh(),
		func() tea.Msg { return dayResetMsg{archived: archived, points: points} },
	)
}

func (m tasksModel) logWork(task store.Task) (tasksModel, tea.Cmd) {
	if task.JiraIssueKey == "" {
		return m, func() tea.Msg {
			return statusMsg{text: "No Jira issue linked to this task", isError: true}
		}
	}
	pending := task.ElapsedSeconds - task.TimeLoggedToJiraSeconds
	if pending <= 0 {
		return m, func() tea.Msg {
			return statusMsg{text: "No unreported time on this task", isError: true}
		}
	}
	if !m.cfg.JiraConfigured() {
		return m, func() tea.Msg {
			return statusMsg{text: "Jira is not configured", isError: true}
		}
	}

	client := jira.NewClient(m.cfg.Jira)
	tr := m.tracker
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := client.LogWork(ctx, task.JiraIssueKey, pending); err != nil {
			return statusMsg{text: fmt.Sprintf("Jira: %v", err), isError: true}
		}
		if err := tr.MarkWorkLogged(task.ID); err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		return workLoggedMsg{issueKey: task.JiraIssueKey, duration: jira.FormatDuration(pending)}
	}
}

// maybeRequestInsight fires a coaching request each time the active task
// crosses another 25 minutes of tracked time.
func (m tasksModel) maybeRequestInsight() tea.Cmd {
	goal, ok := m.store.GoalConfig()
	if !ok || !goal.RealtimeInsightsEnabled || m.cfg.GeminiAPIKey == "" {
		return nil
	}
	task, active := m.tracker.ActiveTask()
	if !active || task.ElapsedSeconds == 0 || task.ElapsedSeconds%insightInterval != 0 {
		return nil
	}

	client := analyze.NewClient(m.cfg.GeminiAPIKey)
	lang := m.cfg.Language
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()
		text, err := client.RealtimeInsight(ctx, task.Name, task.ElapsedSeconds, lang)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Insight: %v", err), isError: true}
		}
		return insightMsg{text: text}
	}
}

func errorCmd(err error) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
	}
}

func (m tasksModel) view() string {
	if m.width < 20 {
		return "Terminal too small"
	}
	contentWidth := m.width - 4

	if m.formActive && m.form != nil {
		title := titleStyle.Render("New Task")
		if m.formMode == "edit" {
			title = titleStyle.Render("Edit Task")
		}
		return panelStyle.Width(contentWidth).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", m.form.View()),
		)
	}

	clockPanel := m.renderClockPanel(contentWidth)
	listPanel := m.renderTaskList(contentWidth)

	parts := []string{clockPanel, listPanel}
	if m.insight != "" {
		parts = append(parts, m.renderInsight(contentWidth))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m tasksModel) renderClockPanel(w int) string {
	if task, ok := m.tracker.ActiveTask(); ok {
		timeDisplay := clockTrackingStyle.Width(w - 6).Render(formatSeconds(task.ElapsedSeconds))
		indicator := successStyle.Render("●  TRACKING")
		taskLine := highlightStyle.Render(task.Name)
		if task.JiraIssueKey != "" {
			taskLine += mutedStyle.Render(" [" + task.JiraIssueKey + "]")
		}
		content := lipgloss.JoinVertical(lipgloss.Center, timeDisplay, indicator, taskLine)
		return activePanelStyle.Width(w).Render(content)
	}

	timeDisplay := clockStyle.Width(w - 6).Render("00:00:00")
	indicator := mutedStyle.Render("■  IDLE")
	hint := mutedStyle.Render("Press n to add a task, enter to start tracking")
	content := lipgloss.JoinVertical(lipgloss.Center, timeDisplay, indicator, hint)
	return panelStyle.Width(w).Render(content)
}

func (m tasksModel) renderTaskList(w int) string {
	title := titleStyle.Render("Today")
	total := highlightStyle.Render(formatSeconds(store.TotalSeconds(m.tasks)))
	header := fmt.Sprintf("%s  %s", title, total)

	if len(m.tasks) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			header,
			mutedStyle.Render("No tasks yet. Press n to add one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	activeID := m.tracker.ActiveTaskID()

	var rows []string
	rows = append(rows, header)
	rows = append(rows, "")
	for i, task := range m.tasks {
		cursor := "  "
		style := normalItemStyle
		if i == m.cursor {
			cursor = "> "
			style = selectedItemStyle
		}

		dot := mutedStyle.Render("○")
		if task.ID == activeID {
			dot = successStyle.Render("●")
		}

		name := task.Name
		if task.JiraIssueKey != "" {
			name += " " + mutedStyle.Render("["+task.JiraIssueKey+"]")
		}

		row := fmt.Sprintf("%s%s %-40s %s", cursor, dot, name, formatSeconds(task.ElapsedSeconds))
		rows = append(rows, style.Render(row))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: track/pause  e: edit  d: delete  l: log to jira  r: archive day"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (m tasksModel) renderInsight(w int) string {
	title := warningStyle.Render("✦ Insight")
	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left, title, m.insight),
	)
}
