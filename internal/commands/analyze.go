package commands

import (
	"fmt"
	"regexp"
	"time"

	"github.com/spf13/cobra"

	"github.com/sadopc/taime/internal/analyze"
	"github.com/sadopc/taime/internal/store"
	"github.com/sadopc/taime/internal/tracker"
)

var dateKeyPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [YYYY-MM-DD]",
	Short: "Categorize a day's tasks with Gemini",
	Long: `Send a day's tracked tasks to Gemini for categorization and insights.

Without a date, today's tasks are analyzed: everything archived today
plus live tasks with tracked time. With a date, only that day's
archived record is analyzed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.GeminiAPIKey == "" {
			return fmt.Errorf("no Gemini API key configured; set gemini_api_key in the config file or TAIME_GEMINI_API_KEY")
		}

		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		var tasks []store.Task
		if len(args) > 0 {
			date := args[0]
			if !dateKeyPattern.MatchString(date) {
				return fmt.Errorf("bad date %q, want YYYY-MM-DD", date)
			}
			rec, ok := s.Record(date)
			if !ok {
				return fmt.Errorf("no history for %s", date)
			}
			tasks = rec.Tasks
		} else {
			tasks = tracker.New(s).TasksForAnalysis()
		}
		if len(tasks) == 0 {
			return fmt.Errorf("no tracked tasks to analyze")
		}

		client := analyze.NewClient(cfg.GeminiAPIKey)
		result, err := client.Analyze(cmd.Context(), analyze.Aggregate(tasks), cfg.Language)
		if err != nil {
			return err
		}

		printResult(result)
		return nil
	},
}

func printResult(result *analyze.Result) {
	fmt.Println("Categories")
	for _, cat := range result.Categories {
		fmt.Printf("  %s (%s)\n", cat.CategoryName, formatDuration(cat.TotalTime))
		for _, name := range cat.Tasks {
			fmt.Printf("    - %s\n", name)
		}
	}
	if len(result.Insights) > 0 {
		fmt.Println("\nInsights")
		for _, ins := range result.Insights {
			fmt.Printf("  - %s\n", ins)
		}
	}
}

func formatDuration(secs int64) string {
	d := time.Duration(secs) * time.Second
	if d < time.Minute {
		return fmt.Sprintf("%ds", secs)
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	return fmt.Sprintf("%dh %dm", int(d.Hours()), int(d.Minutes())%60)
}
