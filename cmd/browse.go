package cmd

import (
	"fmt"
	"os"

	"github.com/chriserin/specoutline/internal/tui"
	"github.com/spf13/cobra"
)

var browseCmd = &cobra.Command{
	Use:   "browse <file>",
	Short: "Browse the outline of a spec file interactively",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		return tui.Run(cmd.Context(), tui.Options{Path: path})
	},
}

func init() {
	rootCmd.AddCommand(browseCmd)
}
