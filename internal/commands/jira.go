package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sadopc/taime/internal/jira"
	"github.com/sadopc/taime/internal/tracker"
)

var jiraCmd = &cobra.Command{
	Use:   "jira",
	Short: "Jira integration",
}

var jiraTestCmd = &cobra.Command{
	Use:   "test",
	Short: "Verify the configured Jira credentials",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if !cfg.JiraConfigured() {
			return fmt.Errorf("jira is not configured; set jira.domain, jira.email and jira.api_token")
		}

		client := jira.NewClient(cfg.Jira)
		if err := client.TestConnection(cmd.Context()); err != nil {
			return fmt.Errorf("connection failed: %w", err)
		}
		fmt.Printf("Connected to %s as %s.\n", cfg.Jira.Domain, cfg.Jira.Email)
		return nil
	},
}

var jiraLogCmd = &cobra.Command{
	Use:   "log",
	Short: "Log tracked time to linked Jira issues",
	Long: `Submit worklogs for live tasks linked to a Jira issue.

Only time not yet reported is logged: a task tracked for 90 minutes
with 60 already logged submits a 30 minute worklog. Tasks with no
unreported time are skipped; anything shorter than a minute is
submitted as one minute.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if !cfg.JiraConfigured() {
			return fmt.Errorf("jira is not configured; set jira.domain, jira.email and jira.api_token")
		}

		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		tr := tracker.New(s)
		client := jira.NewClient(cfg.Jira)

		logged := 0
		for _, task := range tr.LiveTasks() {
			if task.JiraIssueKey == "" {
				continue
			}
			pending := task.ElapsedSeconds - task.TimeLoggedToJiraSeconds
			if pending <= 0 {
				continue
			}
			if err := client.LogWork(cmd.Context(), task.JiraIssueKey, pending); err != nil {
				return fmt.Errorf("logging %s to %s: %w", task.Name, task.JiraIssueKey, err)
			}
			if err := tr.MarkWorkLogged(task.ID); err != nil {
				return err
			}
			fmt.Printf("Logged %s to %s (%s)\n", jira.FormatDuration(pending), task.JiraIssueKey, task.Name)
			logged++
		}

		if logged == 0 {
			fmt.Println("No unreported time on Jira-linked tasks.")
		}
		return nil
	},
}

var jiraSearchCmd = &cobra.Command{
	Use:   "search <term>",
	Short: "Search issues by text or key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if !cfg.JiraConfigured() {
			return fmt.Errorf("jira is not configured; set jira.domain, jira.email and jira.api_token")
		}

		client := jira.NewClient(cfg.Jira)
		issues, err := client.SearchIssues(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if len(issues) == 0 {
			fmt.Println("No matching issues.")
			return nil
		}
		for _, issue := range issues {
			fmt.Printf("%-12s %-10s %-14s %s\n", issue.Key, issue.Type, issue.Status, issue.Summary)
		}
		return nil
	},
}

func init() {
	jiraCmd.AddCommand(jiraTestCmd)
	jiraCmd.AddCommand(jiraLogCmd)
	jiraCmd.AddCommand(jiraSearchCmd)
}
