package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sadopc/taime/internal/export"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export [json|csv]",
	Short: "Export history to a file",
	Long: `Export the archived day history.

JSON exports are complete and re-importable with 'taime import'.
CSV exports flatten every archived task to one row for spreadsheets.`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"json", "csv"},
	RunE: func(cmd *cobra.Command, args []string) error {
		format := "json"
		if len(args) > 0 {
			format = args[0]
		}

		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		out := exportOut
		if out == "" {
			out = fmt.Sprintf("taime-history-%s.%s", time.Now().Format("2006-01-02"), format)
		}

		history := s.History()
		switch format {
		case "json":
			err = export.ToJSONFile(history, out)
		case "csv":
			err = export.ToCSVFile(history, out)
		default:
			return fmt.Errorf("unknown format %q, want json or csv", format)
		}
		if err != nil {
			return err
		}

		fmt.Printf("Exported %d day(s) to %s\n", len(history), out)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output file path")
}
