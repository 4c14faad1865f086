package store

// Storage keys. One JSON document per key.
const (
	KeyTasks    = "taime-tasks"
	KeyHistory  = "taime-history"
	KeyProgress = "taime-user-progress"
	KeyGoal     = "taime-goal"
)

// LiveTasks returns the current working-day task list.
func (s *Store) LiveTasks() []Task {
	return Get(s, KeyTasks, []Task{})
}

// SetLiveTasks replaces the working-day task list.
func (s *Store) SetLiveTasks(tasks []Task) error {
	if tasks == nil {
		tasks = []Task{}
	}
	return Set(s, KeyTasks, tasks)
}
