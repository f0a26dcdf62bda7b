package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"treemk/internal/fsops"
	"treemk/internal/tree"
)

const (
	DefaultPath      = "treemk.yaml"
	DefaultInputFile = "tree-structure.txt"
)

type Config struct {
	InputFile   string   `yaml:"input_file"`
	Dest        string   `yaml:"dest"`
	IndentWidth int      `yaml:"indent_width"`
	Mode        string   `yaml:"mode"`
	FilePolicy  string   `yaml:"file_policy"`
	LogFile     string   `yaml:"log_file"`
	LogLevel    string   `yaml:"log_level"`
	ReportFile  string   `yaml:"report_file"`
	Ignore      []string `yaml:"ignore"`
}

func DefaultConfig() *Config {
	return &Config{
		InputFile:   DefaultInputFile,
		IndentWidth: tree.DefaultIndentWidth,
		Mode:        string(tree.ModeLenient),
		FilePolicy:  string(fsops.Touch),
		LogLevel:    "info",
		Ignore: []string{
			".git/",
			".svn/",
			".hg/",
			".idea/",
			".vscode/",
			"node_modules/",
			"__pycache__/",
			".DS_Store",
			"Thumbs.db",
			"*.swp",
		},
	}
}

// LoadConfig reads the YAML file at path. A missing file yields the defaults.
// Keys absent from the file keep their default values.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	if cfg.Ignore == nil {
		cfg.Ignore = []string{}
	}

	return cfg, nil
}

// Load reads the YAML config, then a .env file from the working directory
// if there is one, then TREEMK_* environment overrides.
func Load(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from TREEMK_* variables found through lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"TREEMK_INPUT":       &c.InputFile,
		"TREEMK_DEST":        &c.Dest,
		"TREEMK_MODE":        &c.Mode,
		"TREEMK_FILE_POLICY": &c.FilePolicy,
		"TREEMK_LOG_FILE":    &c.LogFile,
		"TREEMK_LOG_LEVEL":   &c.LogLevel,
		"TREEMK_REPORT":      &c.ReportFile,
	}
	for key, field := range strs {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*field = strings.TrimSpace(v)
		}
	}

	if v, ok := lookup("TREEMK_INDENT_WIDTH"); ok && strings.TrimSpace(v) != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("TREEMK_INDENT_WIDTH: %w", err)
		}
		c.IndentWidth = n
	}
	return nil
}

// Validate checks the values that cannot be fixed up silently.
func (c *Config) Validate() error {
	if c.IndentWidth <= 0 {
		return fmt.Errorf("indent_width must be positive, got %d", c.IndentWidth)
	}
	if _, err := tree.ParseMode(c.Mode); err != nil {
		return err
	}
	if _, err := fsops.ParseFilePolicy(c.FilePolicy); err != nil {
		return err
	}
	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}
	return nil
}

func (c *Config) TreeMode() tree.Mode {
	m, _ := tree.ParseMode(c.Mode)
	return m
}

func (c *Config) Policy() fsops.FilePolicy {
	p, _ := fsops.ParseFilePolicy(c.FilePolicy)
	return p
}
