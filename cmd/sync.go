package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/chriserin/specoutline/internal/config"
	"github.com/chriserin/specoutline/internal/db"
	"github.com/chriserin/specoutline/internal/parser"
	"github.com/chriserin/specoutline/internal/ui"
	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Parse spec files and refresh the outline index",
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunSync(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
}

func RunSync(w io.Writer) error {
	cfg, sqlDB, err := openProject()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	matches, err := specFiles(cfg)
	if err != nil {
		return err
	}

	count := 0
	for _, path := range matches {
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}

		id, created, err := db.UpsertFile(sqlDB, path)
		if err != nil {
			return err
		}

		res := parser.Parse(path, content)
		if !res.OK() {
			slog.Debug("parse failed", "path", path, "error", res.Err.Message)
			if err := db.SetParseError(sqlDB, id, res.Err.Message); err != nil {
				return err
			}
			ui.ErrLine(w, path, res.Err.Message)
			count++
			continue
		}

		if err := db.ReplaceNodes(sqlDB, id, res.Nodes); err != nil {
			return fmt.Errorf("storing %s: %w", path, err)
		}
		slog.Debug("indexed", "path", path, "roots", len(res.Nodes))
		if created {
			ui.NewLine(w, path)
		} else {
			ui.TrkLine(w, path)
		}
		count++
	}

	removed, err := db.PruneFiles(sqlDB, matches)
	if err != nil {
		return err
	}
	for _, path := range removed {
		ui.DelLine(w, path)
	}

	ui.SummaryLine(w, count)
	return nil
}

// specFiles walks the configured spec directory and returns matching files
// in lexical order.
func specFiles(cfg config.Config) ([]string, error) {
	if _, err := os.Stat(cfg.SpecDir); errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("spec directory %s not found", cfg.SpecDir)
	}

	var matches []string
	err := filepath.WalkDir(cfg.SpecDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && cfg.IsSpecFile(path) {
			matches = append(matches, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", cfg.SpecDir, err)
	}
	sort.Strings(matches)
	return matches, nil
}
