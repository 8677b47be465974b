package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var verboseFlag bool

// version is overridden at build time with -ldflags "-X github.com/chriserin/specoutline/cmd.version=...".
var version = "dev"

var rootCmd = &cobra.Command{
	Use:     "specoutline",
	Short:   "Outline RSpec files by their describe/context/it structure",
	Version: version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verboseFlag {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable debug logging")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
