package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/chriserin/specoutline/internal/parser"
	"github.com/chriserin/specoutline/internal/ui"
	"github.com/spf13/cobra"
)

var jsonFlag bool

var showCmd = &cobra.Command{
	Use:   "show <file>",
	Short: "Print the outline of a spec file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunShow(cmd.OutOrStdout(), args[0], jsonFlag)
	},
}

func init() {
	showCmd.Flags().BoolVar(&jsonFlag, "json", false, "Print the parse result as JSON")
	rootCmd.AddCommand(showCmd)
}

func RunShow(w io.Writer, path string, asJSON bool) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	res := parser.Parse(path, content)

	if asJSON {
		data, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding result: %w", err)
		}
		fmt.Fprintln(w, string(data))
		return nil
	}

	if !res.OK() {
		return parseFailure(res.Err)
	}
	if len(res.Nodes) == 0 {
		fmt.Fprintf(w, "no spec blocks found in %s\n", path)
		return nil
	}
	ui.Tree(w, res.Nodes)
	return nil
}
