package tracker

import (
	"testing"
	"time"

	"github.com/sadopc/taime/internal/store"
)

func newTestTracker(t *testing.T) (*Tracker, *store.Store) {
	t.Helper()
	s, err := store.NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	tr := New(s)
	tr.now = func() time.Time {
		return time.Date(2026, 9, 1, 14, 30, 0, 0, time.UTC)
	}
	return tr, s
}

func addTask(t *testing.T, tr *Tracker, input string) store.Task {
	t.Helper()
	task, err := tr.AddTask(input)
	if err != nil {
		t.Fatalf("add task %q: %v", input, err)
	}
	return task
}

func tick(tr *Tracker, n int) {
	for i := 0; i < n; i++ {
		tr.Tick()
	}
}

// ============================================================
// Task creation
// ============================================================

func TestAddTaskRejectsEmptyName(t *testing.T) {
	tr, _ := newTestTracker(t)
	if _, err := tr.AddTask("   "); err != ErrEmptyName {
		t.Fatalf("expected ErrEmptyName, got %v", err)
	}
}

func TestAddTaskExtractsIssueKey(t *testing.T) {
	tr, _ := newTestTracker(t)

	cases := []struct {
		input    string
		wantName string
		wantKey  string
	}{
		{"Fix the login button", "Fix the login button", ""},
		{"PROJ-123: Fix the login button", "Fix the login button", "PROJ-123"},
		{"APP-7 daily standup", "daily standup", "APP-7"},
		{"PROJ-123:", "PROJ-123", "PROJ-123"},
		{"proj-123: lowercase is not a key", "proj-123: lowercase is not a key", ""},
	}
	for _, c := range cases {
		task := addTask(t, tr, c.input)
		if task.Name != c.wantName || task.JiraIssueKey != c.wantKey {
			t.Errorf("AddTask(%q) = name %q key %q, want name %q key %q",
				c.input, task.Name, task.JiraIssueKey, c.wantName, c.wantKey)
		}
	}
}

func TestAddTaskAssignsUniqueIDs(t *testing.T) {
	tr, _ := newTestTracker(t)
	a := addTask(t, tr, "one")
	b := addTask(t, tr, "two")
	if a.ID == "" || a.ID == b.ID {
		t.Fatalf("expected distinct non-empty ids, got %q and %q", a.ID, b.ID)
	}
}

// ============================================================
// Timer state machine
// ============================================================

func TestSelectToggles(t *testing.T) {
	tr, _ := newTestTracker(t)
	a := addTask(t, tr, "a")

	tr.Select(a.ID)
	if got := tr.ActiveTaskID(); got != a.ID {
		t.Fatalf("active = %q, want %q", got, a.ID)
	}

	tr.Select(a.ID) // same id pauses
	if tr.Running() {
		t.Fatal("expected idle after toggling the active task")
	}
}

func TestSelectSwitchesActiveTask(t *testing.T) {
	tr, _ := newTestTracker(t)
	a := addTask(t, tr, "a")
	b := addTask(t, tr, "b")

	tr.Select(a.ID)
	tr.Select(b.ID)
	if got := tr.ActiveTaskID(); got != b.ID {
		t.Fatalf("active = %q, want %q", got, b.ID)
	}
}

func TestTickOnlyAdvancesActiveTask(t *testing.T) {
	tr, _ := newTestTracker(t)
	a := addTask(t, tr, "a")
	b := addTask(t, tr, "b")

	tr.Select(a.ID)
	tick(tr, 3)
	tr.Select(b.ID)
	tick(tr, 2)

	for _, task := range tr.LiveTasks() {
		switch task.ID {
		case a.ID:
			if task.ElapsedSeconds != 3 {
				t.Fatalf("a elapsed = %d, want 3", task.ElapsedSeconds)
			}
		case b.ID:
			if task.ElapsedSeconds != 2 {
				t.Fatalf("b elapsed = %d, want 2", task.ElapsedSeconds)
			}
		}
	}
}

func TestTickIdleIsNoOp(t *testing.T) {
	tr, _ := newTestTracker(t)
	a := addTask(t, tr, "a")

	tick(tr, 5)
	for _, task := range tr.LiveTasks() {
		if task.ID == a.ID && task.ElapsedSeconds != 0 {
			t.Fatalf("elapsed = %d, want 0 while idle", task.ElapsedSeconds)
		}
	}
}

func TestTickSurfacesStorageError(t *testing.T) {
	tr, s := newTestTracker(t)
	a := addTask(t, tr, "a")
	tr.Select(a.ID)

	s.Close()

	err := tr.Tick()
	if err == nil {
		t.Fatal("expected a storage error from Tick after close")
	}
	// The in-memory state stays authoritative.
	for _, task := range tr.LiveTasks() {
		if task.ID == a.ID && task.ElapsedSeconds != 1 {
			t.Fatalf("elapsed = %d, want 1", task.ElapsedSeconds)
		}
	}
}

func TestDeleteActiveTaskStopsTimer(t *testing.T) {
	tr, _ := newTestTracker(t)
	a := addTask(t, tr, "a")
	tr.Select(a.ID)

	if err := tr.DeleteTask(a.ID); err != nil {
		t.Fatal(err)
	}
	if tr.Running() {
		t.Fatal("expected idle after deleting the active task")
	}
	if len(tr.LiveTasks()) != 0 {
		t.Fatal("expected empty live list")
	}
}

// ============================================================
// Archival
// ============================================================

func TestDeleteTrackedTaskArchives(t *testing.T) {
	tr, s := newTestTracker(t)
	a := addTask(t, tr, "a")
	tr.Select(a.ID)
	tick(tr, 90)

	if err := tr.DeleteTask(a.ID); err != nil {
		t.Fatal(err)
	}

	rec, ok := s.Record("2026-09-01")
	if !ok {
		t.Fatal("expected a record for today")
	}
	if len(rec.Tasks) != 1 || rec.Tasks[0].ID != a.ID {
		t.Fatalf("unexpected archived tasks: %+v", rec.Tasks)
	}
	if rec.TotalTime != 90 {
		t.Fatalf("TotalTime = %d, want 90", rec.TotalTime)
	}
	if rec.Tasks[0].CompletionDate == "" {
		t.Fatal("archived task missing completion date")
	}
	if got := s.Progress().Points; got != 1 {
		t.Fatalf("Points = %d, want 1", got)
	}
}

func TestDeleteUntrackedTaskIsNotArchived(t *testing.T) {
	tr, s := newTestTracker(t)
	a := addTask(t, tr, "a")

	if err := tr.DeleteTask(a.ID); err != nil {
		t.Fatal(err)
	}
	if _, ok := s.Record("2026-09-01"); ok {
		t.Fatal("zero-time task must not be archived")
	}
}

func TestResetDayEndToEnd(t *testing.T) {
	tr, s := newTestTracker(t)
	a := addTask(t, tr, "deep work")
	tr.Select(a.ID)
	tick(tr, 125)

	if err := tr.ResetDay(); err != nil {
		t.Fatal(err)
	}

	rec, ok := s.Record("2026-09-01")
	if !ok {
		t.Fatal("expected a record for today")
	}
	if rec.TotalTime != 125 {
		t.Fatalf("TotalTime = %d, want 125", rec.TotalTime)
	}
	if got := s.Progress().Points; got != 2 { // floor(125/60)
		t.Fatalf("Points = %d, want 2", got)
	}
	if len(tr.LiveTasks()) != 0 {
		t.Fatal("expected live tasks cleared")
	}
	if tr.Running() {
		t.Fatal("expected idle after reset")
	}
}

func TestResetDayDropsUnstartedTasks(t *testing.T) {
	tr, s := newTestTracker(t)
	a := addTask(t, tr, "tracked")
	addTask(t, tr, "never started")
	tr.Select(a.ID)
	tick(tr, 60)

	if err := tr.ResetDay(); err != nil {
		t.Fatal(err)
	}

	rec, _ := s.Record("2026-09-01")
	if len(rec.Tasks) != 1 || rec.Tasks[0].ID != a.ID {
		t.Fatalf("expected only the tracked task archived, got %+v", rec.Tasks)
	}
	if len(tr.LiveTasks()) != 0 {
		t.Fatal("unstarted tasks must still be cleared")
	}
}

func TestResetDayEmptyIsNoOp(t *testing.T) {
	tr, s := newTestTracker(t)
	addTask(t, tr, "never started")

	if err := tr.ResetDay(); err != nil {
		t.Fatal(err)
	}
	if len(s.History()) != 0 {
		t.Fatal("history must be untouched")
	}
	if s.Progress().Points != 0 {
		t.Fatal("points must be untouched")
	}
}

func TestResetDayAppendsToExistingRecord(t *testing.T) {
	tr, s := newTestTracker(t)

	a := addTask(t, tr, "morning")
	tr.Select(a.ID)
	tick(tr, 60)
	if err := tr.ResetDay(); err != nil {
		t.Fatal(err)
	}

	b := addTask(t, tr, "afternoon")
	tr.Select(b.ID)
	tick(tr, 120)
	if err := tr.ResetDay(); err != nil {
		t.Fatal(err)
	}

	rec, _ := s.Record("2026-09-01")
	if len(rec.Tasks) != 2 {
		t.Fatalf("expected 2 archived tasks, got %d", len(rec.Tasks))
	}
	if rec.TotalTime != 180 {
		t.Fatalf("TotalTime = %d, want 180", rec.TotalTime)
	}
	if got := s.Progress().Points; got != 3 {
		t.Fatalf("Points = %d, want 3", got)
	}
}

// ============================================================
// Edits and external-service bookkeeping
// ============================================================

func TestEditTaskPreservesElapsed(t *testing.T) {
	tr, _ := newTestTracker(t)
	a := addTask(t, tr, "a")
	tr.Select(a.ID)
	tick(tr, 42)

	if err := tr.EditTask(a.ID, "renamed", "desc", "APP-1"); err != nil {
		t.Fatal(err)
	}
	task, ok := tr.ActiveTask()
	if !ok {
		t.Fatal("expected task still active")
	}
	if task.Name != "renamed" || task.Description != "desc" || task.JiraIssueKey != "APP-1" {
		t.Fatalf("unexpected task after edit: %+v", task)
	}
	if task.ElapsedSeconds != 42 {
		t.Fatalf("elapsed = %d, want 42", task.ElapsedSeconds)
	}
}

func TestMarkWorkLogged(t *testing.T) {
	tr, _ := newTestTracker(t)
	a := addTask(t, tr, "APP-9: tracked")
	tr.Select(a.ID)
	tick(tr, 300)

	if err := tr.MarkWorkLogged(a.ID); err != nil {
		t.Fatal(err)
	}
	task, _ := tr.ActiveTask()
	if task.TimeLoggedToJiraSeconds != 300 {
		t.Fatalf("logged = %d, want 300", task.TimeLoggedToJiraSeconds)
	}
}

func TestMarkSyncedStampsCompletion(t *testing.T) {
	tr, _ := newTestTracker(t)
	a := addTask(t, tr, "a")

	if err := tr.MarkSynced(a.ID, "2026-09-01T14:30:00Z"); err != nil {
		t.Fatal(err)
	}
	for _, task := range tr.LiveTasks() {
		if task.ID != a.ID {
			continue
		}
		if !task.SyncedToCalendar || task.CompletionDate != "2026-09-01T14:30:00Z" {
			t.Fatalf("unexpected task after sync: %+v", task)
		}
	}
}

func TestTasksForAnalysisCombinesArchivedAndLive(t *testing.T) {
	tr, _ := newTestTracker(t)

	a := addTask(t, tr, "archived")
	tr.Select(a.ID)
	tick(tr, 60)
	if err := tr.ResetDay(); err != nil {
		t.Fatal(err)
	}

	b := addTask(t, tr, "live")
	tr.Select(b.ID)
	tick(tr, 30)
	addTask(t, tr, "never started")

	got := tr.TasksForAnalysis()
	if len(got) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(got))
	}
	if got[0].ID != a.ID || got[1].ID != b.ID {
		t.Fatalf("unexpected order: %+v", got)
	}
}
