package cmd

import (
	"fmt"
	"io"

	"github.com/chriserin/specoutline/internal/db"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show index totals and files that failed to parse",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunStatus(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func RunStatus(w io.Writer) error {
	_, sqlDB, err := openProject()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	files, err := db.FileCount(sqlDB)
	if err != nil {
		return err
	}
	counts, err := db.KindCounts(sqlDB)
	if err != nil {
		return err
	}
	total := 0
	for _, kc := range counts {
		total += kc.Count
	}

	fmt.Fprintf(w, "Files: %d\n", files)
	fmt.Fprintf(w, "Blocks: %d\n", total)
	for _, kc := range counts {
		fmt.Fprintf(w, "  %s: %d\n", kc.Kind, kc.Count)
	}

	failed, err := db.FailedFiles(sqlDB)
	if err != nil {
		return err
	}
	if len(failed) > 0 {
		fmt.Fprintf(w, "Failed: %d\n", len(failed))
		for _, ff := range failed {
			fmt.Fprintf(w, "  %s: %s\n", ff.FilePath, ff.Message)
		}
	}
	return nil
}
