package store

// Task is a named, timed unit of work. A task lives in the working-day list
// while it accumulates time, then moves into a DailyRecord on archival.
type Task struct {
	ID                      string `json:"id"`
	Name                    string `json:"name"`
	Description             string `json:"description,omitempty"`
	ElapsedSeconds          int64  `json:"elapsedSeconds"`
	CompletionDate          string `json:"completionDate,omitempty"` // RFC 3339, set once at archival
	SyncedToCalendar        bool   `json:"syncedToCalendar"`
	JiraIssueKey            string `json:"jiraIssueKey,omitempty"`
	TimeLoggedToJiraSeconds int64  `json:"timeLoggedToJiraSeconds"`
}

// DailyRecord is the per-date bucket of archived tasks. Once written it only
// grows: archival and import append, nothing removes or rewrites entries.
type DailyRecord struct {
	Date      string `json:"date"` // YYYY-MM-DD
	Tasks     []Task `json:"tasks"`
	TotalTime int64  `json:"totalTime"` // always recomputed from Tasks
}

// TotalSeconds sums elapsed time over a task list.
func TotalSeconds(tasks []Task) int64 {
	var sum int64
	for _, t := range tasks {
		sum += t.ElapsedSeconds
	}
	return sum
}

// History maps YYYY-MM-DD date keys to daily records.
type History map[string]DailyRecord

// UserProgress carries the points earned from archived time. The stored level
// is display state only; it is always re-derivable from Points alone.
type UserProgress struct {
	Points int64 `json:"points"`
	Level  int   `json:"level"`
}

// Goal is the user-configured weekly target.
type Goal struct {
	WeeklyHours             float64 `json:"weeklyHours"`
	RealtimeInsightsEnabled bool    `json:"realtimeInsightsEnabled"`
}
