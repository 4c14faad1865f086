// Package commands wires the CLI surface. The bare `taime` invocation
// starts the TUI; subcommands cover export, import, analysis and the
// external integrations without entering the interface.
package commands

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/sadopc/taime/internal/config"
	"github.com/sadopc/taime/internal/store"
	"github.com/sadopc/taime/internal/tui"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "taime",
	Short: "A terminal time tracker with points and AI-assisted reviews",
	Long: `taime tracks how you spend your working day from the terminal.

Add tasks, time one at a time, and archive the day when you are done.
Tracked minutes earn points and levels, days accumulate into a local
history you can export, import and analyze, and completed work can be
pushed to Jira worklogs and Google Calendar.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		app := tui.NewApp(s, cfg)
		p := tea.NewProgram(app, tea.WithAltScreen())
		_, err = p.Run()
		return err
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("taime %s (commit %s, built %s)\n", version, commit, date)
	},
}

// openStore opens the database at its default location.
func openStore() (*store.Store, error) {
	dbPath, err := store.DefaultDBPath()
	if err != nil {
		return nil, err
	}
	s, err := store.New(dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return s, nil
}

// loadConfig reads the config file from its default location.
func loadConfig() (config.Config, error) {
	path, err := config.DefaultPath()
	if err != nil {
		return config.Config{}, err
	}
	return config.Load(path)
}

// SetVersion sets the version information stamped at build time.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(levelCmd)
	rootCmd.AddCommand(jiraCmd)
	rootCmd.AddCommand(calendarCmd)
	rootCmd.AddCommand(versionCmd)
}
