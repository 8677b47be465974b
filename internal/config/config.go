package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// Dir holds the config file and the default index database.
	Dir = ".specoutline"

	DefaultSpecDir  = "spec"
	DefaultSuffix   = "_spec.rb"
	DefaultDatabase = Dir + "/outline.db"
)

// Config is the per-project configuration stored in .specoutline/config.yml.
type Config struct {
	SpecDir  string `yaml:"spec_dir"`
	Suffix   string `yaml:"suffix"`
	Database string `yaml:"database"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		SpecDir:  DefaultSpecDir,
		Suffix:   DefaultSuffix,
		Database: DefaultDatabase,
	}
}

// Path returns the config file location under root.
func Path(root string) string {
	return filepath.Join(root, Dir, "config.yml")
}

// Load reads the config under root. A missing file yields Default.
func Load(root string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(Path(root))
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing %s: %w", Path(root), err)
	}
	cfg.fillDefaults()
	return cfg, nil
}

// Save writes cfg under root, creating the config directory if needed.
func Save(root string, cfg Config) error {
	cfg.fillDefaults()
	if err := os.MkdirAll(filepath.Join(root, Dir), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", Dir, err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return os.WriteFile(Path(root), data, 0o644)
}

func (c *Config) fillDefaults() {
	def := Default()
	if strings.TrimSpace(c.SpecDir) == "" {
		c.SpecDir = def.SpecDir
	}
	if strings.TrimSpace(c.Suffix) == "" {
		c.Suffix = def.Suffix
	}
	if strings.TrimSpace(c.Database) == "" {
		c.Database = def.Database
	}
}

// IsSpecFile reports whether path should be offered to the parser.
func (c Config) IsSpecFile(path string) bool {
	return path != "" && strings.HasSuffix(path, c.Suffix)
}
