// Package tracker owns the working day: the live task list, the single
// active-task pointer, and the archival transition into history.
package tracker

import (
	"errors"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sadopc/taime/internal/gamify"
	"github.com/sadopc/taime/internal/store"
)

// ErrEmptyName rejects tasks created without a display name.
var ErrEmptyName = errors.New("task name is empty")

// issueKeyPrefix matches a leading Jira key in new-task input,
// e.g. "PROJ-123: fix the login button".
var issueKeyPrefix = regexp.MustCompile(`^([A-Z][A-Z0-9]+-\d+):?\s*`)

// Tracker is the single mutator of live-task state. At most one task is
// active at any instant; Tick only ever advances that one. The mutex
// serializes ticks against every other operation, so no two increments can
// race on the same task.
type Tracker struct {
	mu     sync.Mutex
	store  *store.Store
	active string // active task id, "" when idle

	now func() time.Time
}

func New(s *store.Store) *Tracker {
	return &Tracker{store: s, now: time.Now}
}

// LiveTasks returns the current working-day task list.
func (tr *Tracker) LiveTasks() []store.Task {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return tr.store.LiveTasks()
}

// ActiveTaskID returns the id of the ticking task, or "" when idle.
func (tr *Tracker) ActiveTaskID() string {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return tr.active
}

// ActiveTask returns the ticking task, if any.
func (tr *Tracker) ActiveTask() (store.Task, bool) {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	if tr.active == "" {
		return store.Task{}, false
	}
	for _, t := range tr.store.LiveTasks() {
		if t.ID == tr.active {
			return t, true
		}
	}
	return store.Task{}, false
}

// AddTask creates a live task from raw input. A leading "PROJ-123:" prefix
// becomes the Jira issue key and is stripped from the name; input that is
// only a key keeps the key as the name.
func (tr *Tracker) AddTask(input string) (store.Task, error) {
	name := strings.TrimSpace(input)
	if name == "" {
		return store.Task{}, ErrEmptyName
	}

	var issueKey string
	if m := issueKeyPrefix.FindStringSubmatch(name); m != nil {
		issueKey = m[1]
		name = strings.TrimSpace(issueKeyPrefix.ReplaceAllString(name, ""))
		if name == "" {
			name = issueKey
		}
	}

	task := store.Task{
		ID:           uuid.NewString(),
		Name:         name,
		JiraIssueKey: issueKey,
	}

	tr.mu.Lock()
	defer tr.mu.Unlock()
	tasks := append(tr.store.LiveTasks(), task)
	if err := tr.store.SetLiveTasks(tasks); err != nil {
		return store.Task{}, err
	}
	return task, nil
}

// Select toggles tracking for id: selecting the active task pauses it (back
// to idle), selecting any other task makes it the one active task. There is
// no explicit pause; switching away is the pause.
func (tr *Tracker) Select(id string) {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	if tr.active == id {
		tr.active = ""
		return
	}
	tr.active = id
}

// Running reports whether a task is being timed.
func (tr *Tracker) Running() bool {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return tr.active != ""
}

// Tick advances the active task's elapsed time by one second. It is a no-op
// while idle; the caller owns the one-second cadence. A storage error is
// returned after the in-memory state has already advanced.
func (tr *Tracker) Tick() error {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	if tr.active == "" {
		return nil
	}
	tasks := tr.store.LiveTasks()
	for i := range tasks {
		if tasks[i].ID == tr.active {
			tasks[i].ElapsedSeconds++
			return tr.store.SetLiveTasks(tasks)
		}
	}
	// Active id no longer in the list; drop the dangling reference.
	tr.active = ""
	return nil
}

// EditTask replaces a task's name, description and issue key. Elapsed time
// is never touched by an edit.
func (tr *Tracker) EditTask(id, name, description, issueKey string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ErrEmptyName
	}

	tr.mu.Lock()
	defer tr.mu.Unlock()
	tasks := tr.store.LiveTasks()
	for i := range tasks {
		if tasks[i].ID == id {
			tasks[i].Name = trimmed
			tasks[i].Description = description
			tasks[i].JiraIssueKey = issueKey
			return tr.store.SetLiveTasks(tasks)
		}
	}
	return nil
}

// DeleteTask removes a task from the working day. Tracked time is not lost:
// a task with elapsed time is archived into today's record on the way out.
// Deleting the active task stops the timer.
func (tr *Tracker) DeleteTask(id string) error {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	tasks := tr.store.LiveTasks()
	remaining := tasks[:0:0]
	var removed *store.Task
	for _, t := range tasks {
		if t.ID == id {
			removed = &t
			continue
		}
		remaining = append(remaining, t)
	}
	if removed == nil {
		return nil
	}

	if removed.ElapsedSeconds > 0 {
		if err := tr.archive([]store.Task{*removed}); err != nil {
			return err
		}
	}
	if tr.active == id {
		tr.active = ""
	}
	return tr.store.SetLiveTasks(remaining)
}

// ResetDay archives every live task with tracked time into today's record,
// awards points for the archived time, and clears the working day. Tasks
// never started are dropped silently.
func (tr *Tracker) ResetDay() error {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	var eligible []store.Task
	for _, t := range tr.store.LiveTasks() {
		if t.ElapsedSeconds > 0 {
			eligible = append(eligible, t)
		}
	}

	if len(eligible) > 0 {
		if err := tr.archive(eligible); err != nil {
			return err
		}
	}

	tr.active = ""
	return tr.store.SetLiveTasks(nil)
}

// MarkSynced records a successful calendar sync. The completion date is
// stamped if the task does not have one yet (live tasks synced ahead of
// archival).
func (tr *Tracker) MarkSynced(id, completionDate string) error {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	tasks := tr.store.LiveTasks()
	for i := range tasks {
		if tasks[i].ID == id {
			tasks[i].SyncedToCalendar = true
			if tasks[i].CompletionDate == "" {
				tasks[i].CompletionDate = completionDate
			}
			return tr.store.SetLiveTasks(tasks)
		}
	}
	return nil
}

// MarkWorkLogged records that all of a task's elapsed time has been reported
// to the issue tracker. Called only after a successful submission.
func (tr *Tracker) MarkWorkLogged(id string) error {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	tasks := tr.store.LiveTasks()
	for i := range tasks {
		if tasks[i].ID == id {
			tasks[i].TimeLoggedToJiraSeconds = tasks[i].ElapsedSeconds
			return tr.store.SetLiveTasks(tasks)
		}
	}
	return nil
}

// TasksForAnalysis returns today's archived tasks plus live tasks with
// tracked time, the payload handed to categorization.
func (tr *Tracker) TasksForAnalysis() []store.Task {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	var out []store.Task
	if rec, ok := tr.store.Record(tr.today()); ok {
		out = append(out, rec.Tasks...)
	}
	for _, t := range tr.store.LiveTasks() {
		if t.ElapsedSeconds > 0 {
			out = append(out, t)
		}
	}
	return out
}

// today is the local calendar date key.
func (tr *Tracker) today() string {
	return tr.now().Format("2006-01-02")
}

// archive appends tasks to today's daily record, stamping one shared
// completion timestamp, and awards points for the archived time. Callers
// must hold the mutex and must remove the tasks from the live list in the
// same operation so nothing is archived twice.
func (tr *Tracker) archive(tasks []store.Task) error {
	completion := tr.now().Format(time.RFC3339)
	today := tr.today()

	stamped := make([]store.Task, len(tasks))
	var points int64
	for i, t := range tasks {
		t.CompletionDate = completion
		stamped[i] = t
		points += gamify.PointsForDuration(t.ElapsedSeconds)
	}

	history := tr.store.History()
	rec, ok := history[today]
	if !ok {
		rec = store.DailyRecord{Date: today}
	}
	rec.Tasks = append(rec.Tasks, stamped...)
	rec.TotalTime = store.TotalSeconds(rec.Tasks)
	history[today] = rec

	if err := tr.store.SetHistory(history); err != nil {
		return err
	}
	return tr.store.AddPoints(points)
}
