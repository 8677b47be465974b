package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/chriserin/specoutline/internal/config"
	"github.com/chriserin/specoutline/internal/lsp"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the outline language server on stdin/stdout",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return RunServe(ctx, lsp.Stdio{Reader: os.Stdin, Writer: os.Stdout})
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// RunServe serves on rwc. Config is optional here: editors start the
// server in projects that never ran init.
func RunServe(ctx context.Context, rwc io.ReadWriteCloser) error {
	cfg, err := config.Load(".")
	if err != nil {
		slog.Warn("using default config", "error", err)
		cfg = config.Default()
	}

	logger := slog.Default().With("component", "lsp")
	server := lsp.NewServer(cfg.IsSpecFile, logger)
	server.Version = version
	logger.Info("language server starting", "version", version, "suffix", cfg.Suffix)
	return server.Serve(ctx, rwc)
}
