package export

import (
	"encoding/json"
	"fmt"

	"github.com/sadopc/taime/internal/store"
)

// ParseImport decodes exported bytes into per-date raw records. Only the top
// level has to be an object; record validation happens in Merge so one bad
// day never sinks the rest of the file.
func ParseImport(data []byte) (map[string]json.RawMessage, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse import: %w", err)
	}
	return raw, nil
}

// Merge unions imported records into existing history and reports how many
// tasks were added. Per date: records without a date field or an array-typed
// tasks field are skipped; tasks whose id already exists for that date are
// dropped, so re-importing the same file changes nothing. Existing entries
// are never removed or mutated, and totals are recomputed from the merged
// task list. Dates absent from the import are left untouched.
func Merge(existing store.History, imported map[string]json.RawMessage) (store.History, int) {
	merged := make(store.History, len(existing))
	for date, rec := range existing {
		merged[date] = rec
	}

	added := 0
	for date, raw := range imported {
		var candidate store.DailyRecord
		if err := json.Unmarshal(raw, &candidate); err != nil {
			continue
		}
		if candidate.Date == "" || candidate.Tasks == nil {
			continue
		}

		rec, ok := merged[date]
		if !ok {
			rec = store.DailyRecord{Date: date}
		}

		seen := make(map[string]bool, len(rec.Tasks))
		for _, t := range rec.Tasks {
			seen[t.ID] = true
		}

		var newTasks []store.Task
		for _, t := range candidate.Tasks {
			if !seen[t.ID] {
				newTasks = append(newTasks, t)
			}
		}
		if len(newTasks) == 0 {
			continue
		}

		rec.Tasks = append(rec.Tasks, newTasks...)
		rec.TotalTime = store.TotalSeconds(rec.Tasks)
		merged[date] = rec
		added += len(newTasks)
	}

	return merged, added
}

// MergeJSON parses exported bytes and merges them into existing history.
func MergeJSON(existing store.History, data []byte) (store.History, int, error) {
	imported, err := ParseImport(data)
	if err != nil {
		return nil, 0, err
	}
	merged, added := Merge(existing, imported)
	return merged, added, nil
}
