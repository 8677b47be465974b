package cmd

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/chriserin/specoutline/internal/db"
	"github.com/chriserin/specoutline/internal/parser"
	"github.com/chriserin/specoutline/internal/ui"
	"github.com/spf13/cobra"
)

var (
	kindFlag    string
	skippedFlag bool
	fileFlag    string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all indexed spec blocks",
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunList(cmd.OutOrStdout(), db.Filter{Kind: parser.Kind(kindFlag), SkippedOnly: skippedFlag, FilePath: fileFlag})
	},
}

func init() {
	listCmd.Flags().StringVar(&kindFlag, "kind", "", "Filter by block kind (describe, it, before, ...)")
	listCmd.Flags().BoolVar(&skippedFlag, "skipped", false, "Show only skipped blocks")
	listCmd.Flags().StringVar(&fileFlag, "file", "", "Show only blocks of one spec file")
	rootCmd.AddCommand(listCmd)
}

func RunList(w io.Writer, f db.Filter) error {
	if f.Kind != "" && !f.Kind.Valid() {
		return fmt.Errorf("unknown kind %q", f.Kind)
	}
	f.FilePath = filepath.Clean(f.FilePath)
	if f.FilePath == "." {
		f.FilePath = ""
	}

	_, sqlDB, err := openProject()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	rows, err := db.ListNodes(sqlDB, f)
	if err != nil {
		return err
	}

	if len(rows) == 0 {
		fmt.Fprintln(w, "no spec blocks found")
		return nil
	}

	width := 0
	for _, r := range rows {
		width = max(width, len(r.Kind))
	}
	for _, r := range rows {
		ui.NodeRow(w, r.FilePath, r.Line, r.Kind, r.Name, width)
	}
	return nil
}
