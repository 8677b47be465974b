package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/chriserin/specoutline/internal/config"
	"github.com/chriserin/specoutline/internal/db"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize specoutline in the current directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunInit(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func RunInit(w io.Writer) error {
	// .specoutline/ directory
	_, err := os.Stat(config.Dir)
	dirExists := err == nil
	if err := os.MkdirAll(config.Dir, 0o755); err != nil {
		return fmt.Errorf("creating %s directory: %w", config.Dir, err)
	}
	if dirExists {
		fmt.Fprintf(w, "%s/ already exists\n", config.Dir)
	} else {
		fmt.Fprintf(w, "%s/ created\n", config.Dir)
	}

	// config
	cfgPath := config.Path(".")
	if _, err := os.Stat(cfgPath); err == nil {
		fmt.Fprintf(w, "%s already exists\n", cfgPath)
	} else {
		if err := config.Save(".", config.Default()); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}
		fmt.Fprintf(w, "%s created\n", cfgPath)
	}

	cfg, err := config.Load(".")
	if err != nil {
		return err
	}

	// database
	_, err = os.Stat(cfg.Database)
	dbExists := err == nil
	sqlDB, err := db.Open(cfg.Database)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	sqlDB.Close()
	if dbExists {
		fmt.Fprintf(w, "%s already exists\n", cfg.Database)
	} else {
		fmt.Fprintf(w, "%s created\n", cfg.Database)
	}

	// gitignore
	msgs, err := ensureGitignore(cfg.Database)
	if err != nil {
		return fmt.Errorf("updating .gitignore: %w", err)
	}
	for _, msg := range msgs {
		fmt.Fprintln(w, msg)
	}

	return nil
}

func ensureGitignore(entry string) ([]string, error) {
	data, err := os.ReadFile(".gitignore")
	if errors.Is(err, fs.ErrNotExist) {
		if err := os.WriteFile(".gitignore", []byte(entry+"\n"), 0o644); err != nil {
			return nil, err
		}
		return []string{".gitignore created", entry + " added to .gitignore"}, nil
	}
	if err != nil {
		return nil, err
	}

	lines := strings.Split(string(data), "\n")
	for _, line := range lines {
		if strings.TrimSpace(line) == entry {
			return []string{entry + " already in .gitignore"}, nil
		}
	}

	content := string(data)
	if len(content) > 0 && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	content += entry + "\n"

	if err := os.WriteFile(".gitignore", []byte(content), 0o644); err != nil {
		return nil, err
	}
	return []string{entry + " added to .gitignore"}, nil
}
