// Package analyze prepares tracked time for AI categorization and talks to
// the Gemini API.
package analyze

import "github.com/sadopc/taime/internal/store"

// Aggregate folds tasks that share name, description and issue key into one
// entry with the summed elapsed time. Output order is first appearance.
func Aggregate(tasks []store.Task) []store.Task {
	type identity struct {
		name, description, issueKey string
	}

	index := make(map[identity]int, len(tasks))
	var out []store.Task
	for _, t := range tasks {
		id := identity{t.Name, t.Description, t.JiraIssueKey}
		if i, ok := index[id]; ok {
			out[i].ElapsedSeconds += t.ElapsedSeconds
			continue
		}
		index[id] = len(out)
		out = append(out, t)
	}
	return out
}
