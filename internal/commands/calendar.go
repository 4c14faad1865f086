package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sadopc/taime/internal/calendar"
	"github.com/sadopc/taime/internal/tracker"
)

var (
	calendarDate string
	calendarLive bool
)

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Google Calendar integration",
}

var calendarSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Push a day's archived tasks to Google Calendar",
	Long: `Create calendar events for a day's archived tasks.

Each event covers the span the task was tracked for, ending at the
task's completion time. Tasks already synced are skipped, so running
sync twice creates no duplicate events.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.CalendarToken == "" {
			return fmt.Errorf("no calendar token configured; set calendar_token in the config file or TAIME_CALENDAR_TOKEN")
		}

		date := calendarDate
		if date == "" {
			date = time.Now().Format("2006-01-02")
		}
		if !dateKeyPattern.MatchString(date) {
			return fmt.Errorf("bad date %q, want YYYY-MM-DD", date)
		}

		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		rec, ok := s.Record(date)
		if !ok && !calendarLive {
			return fmt.Errorf("no history for %s", date)
		}

		client := calendar.NewClient(cfg.CalendarToken)
		history := s.History()
		synced := 0
		for i, task := range rec.Tasks {
			if task.SyncedToCalendar || task.CompletionDate == "" {
				continue
			}
			if err := client.SyncTask(cmd.Context(), task); err != nil {
				return fmt.Errorf("syncing %s: %w", task.Name, err)
			}
			rec.Tasks[i].SyncedToCalendar = true
			history[date] = rec
			if err := s.SetHistory(history); err != nil {
				return err
			}
			synced++
		}

		// Live tasks with tracked time sync too, stamped as completed now.
		if calendarLive && date == time.Now().Format("2006-01-02") {
			tr := tracker.New(s)
			completion := time.Now().Format(time.RFC3339)
			for _, task := range tr.LiveTasks() {
				if task.SyncedToCalendar || task.ElapsedSeconds == 0 {
					continue
				}
				task.CompletionDate = completion
				if err := client.SyncTask(cmd.Context(), task); err != nil {
					return fmt.Errorf("syncing %s: %w", task.Name, err)
				}
				if err := tr.MarkSynced(task.ID, completion); err != nil {
					return err
				}
				synced++
			}
		}

		if synced == 0 {
			fmt.Println("Nothing to sync.")
			return nil
		}
		fmt.Printf("Synced %d task(s) to the calendar.\n", synced)
		return nil
	},
}

func init() {
	calendarCmd.AddCommand(calendarSyncCmd)
	calendarSyncCmd.Flags().StringVar(&calendarDate, "date", "", "Day to sync (YYYY-MM-DD, defaults to today)")
	calendarSyncCmd.Flags().BoolVar(&calendarLive, "live", false, "Also sync live tasks with tracked time, marking them completed now")
}
