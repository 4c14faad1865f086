package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sadopc/taime/internal/gamify"
)

var levelCmd = &cobra.Command{
	Use:   "level",
	Short: "Show points, level and progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		progress := s.Progress()
		info := gamify.LevelForPoints(progress.Points)

		filled := int(info.Progress / 10)
		bar := strings.Repeat("█", filled) + strings.Repeat("░", 10-filled)

		fmt.Printf("Level %d\n", info.Level)
		fmt.Printf("%s %.0f%%\n", bar, info.Progress)
		fmt.Printf("%d points (%d to next level)\n", progress.Points, info.PointsForNextLevel-progress.Points)
		return nil
	},
}
