package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/sadopc/taime/internal/store"
)

var csvHeader = []string{"date", "task_name", "task_description", "elapsed_seconds", "completion_date", "status"}

// MarshalCSV flattens history into one row per archived task, days in date
// order, tasks in archival order. An empty history is ErrNothingToExport.
func MarshalCSV(history store.History) ([]byte, error) {
	dates := make([]string, 0, len(history))
	for date := range history {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	var rows [][]string
	for _, date := range dates {
		for _, task := range history[date].Tasks {
			status := "Not Synced"
			if task.SyncedToCalendar {
				status = "Synced"
			}
			rows = append(rows, []string{
				date,
				task.Name,
				task.Description,
				strconv.FormatInt(task.ElapsedSeconds, 10),
				task.CompletionDate,
				status,
			})
		}
	}

	if len(rows) == 0 {
		return nil, ErrNothingToExport
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// ToCSVFile writes the CSV export to path.
func ToCSVFile(history store.History, path string) error {
	data, err := MarshalCSV(history)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write csv file: %w", err)
	}
	return nil
}
