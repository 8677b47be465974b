package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/chriserin/specoutline/internal/parser"
	"github.com/spf13/cobra"
)

var testsCmd = &cobra.Command{
	Use:   "tests <file>",
	Short: "List the examples of a spec file with their full names",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunTests(cmd.OutOrStdout(), args[0])
	},
}

func init() {
	rootCmd.AddCommand(testsCmd)
}

func RunTests(w io.Writer, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	res := parser.Parse(path, content)
	if !res.OK() {
		return parseFailure(res.Err)
	}

	var found bool
	for _, r := range parser.Flatten(res.Nodes) {
		if !r.Node.Kind.Example() {
			continue
		}
		fmt.Fprintf(w, "  %s:%d  %s\n", path, r.Node.Line, r.FullName())
		found = true
	}

	if !found {
		fmt.Fprintf(w, "no examples in %s\n", path)
	}
	return nil
}
