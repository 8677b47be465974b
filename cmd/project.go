package cmd

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/chriserin/specoutline/internal/config"
	"github.com/chriserin/specoutline/internal/db"
	"github.com/chriserin/specoutline/internal/parser"
)

var errNotInitialized = errors.New("run `specoutline init` first")

// openProject loads the config of the current directory and opens its index.
func openProject() (config.Config, *sql.DB, error) {
	if _, err := os.Stat(config.Dir); errors.Is(err, fs.ErrNotExist) {
		return config.Config{}, nil, errNotInitialized
	}

	cfg, err := config.Load(".")
	if err != nil {
		return cfg, nil, err
	}

	sqlDB, err := db.Open(cfg.Database)
	if err != nil {
		return cfg, nil, fmt.Errorf("opening database: %w", err)
	}
	return cfg, sqlDB, nil
}

func parseFailure(e *parser.ParseError) error {
	return fmt.Errorf("failed to parse RSpec file: %s", e.Message)
}
