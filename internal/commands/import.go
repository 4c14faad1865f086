package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sadopc/taime/internal/export"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Merge a JSON history export into local history",
	Long: `Merge an exported JSON history file into the local history.

Tasks already present are left untouched; only tasks with unseen ids
are added. Importing the same file twice changes nothing.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading %s: %w", args[0], err)
		}

		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		merged, added, err := export.MergeJSON(s.History(), data)
		if err != nil {
			return err
		}
		if added == 0 {
			fmt.Println("Nothing new to import.")
			return nil
		}
		if err := s.SetHistory(merged); err != nil {
			return err
		}
		fmt.Printf("Imported %d new task(s).\n", added)
		return nil
	},
}
