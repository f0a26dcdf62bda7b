package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"treemk/internal/fsops"
	"treemk/internal/tree"
)

func TestLoadConfig_ValidConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "treemk.yaml")

	configContent := `input_file: layout.txt
dest: /tmp/out
indent_width: 2
mode: strict
file_policy: truncate
log_file: logs/treemk.log
log_level: debug
report_file: out/report.json
ignore:
  - ".git/"
  - "*.log"
`

	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.InputFile != "layout.txt" {
		t.Errorf("Expected input_file %q, got %q", "layout.txt", cfg.InputFile)
	}
	if cfg.Dest != "/tmp/out" {
		t.Errorf("Expected dest %q, got %q", "/tmp/out", cfg.Dest)
	}
	if cfg.IndentWidth != 2 {
		t.Errorf("Expected indent_width 2, got %d", cfg.IndentWidth)
	}
	if cfg.TreeMode() != tree.ModeStrict {
		t.Errorf("Expected strict mode, got %q", cfg.Mode)
	}
	if cfg.Policy() != fsops.Truncate {
		t.Errorf("Expected truncate policy, got %q", cfg.FilePolicy)
	}
	if cfg.LogFile != "logs/treemk.log" || cfg.LogLevel != "debug" {
		t.Errorf("Unexpected logging config: %q %q", cfg.LogFile, cfg.LogLevel)
	}
	if cfg.ReportFile != "out/report.json" {
		t.Errorf("Expected report_file %q, got %q", "out/report.json", cfg.ReportFile)
	}

	expectedIgnore := []string{".git/", "*.log"}
	if len(cfg.Ignore) != len(expectedIgnore) {
		t.Fatalf("Expected %d ignore patterns, got %d", len(expectedIgnore), len(cfg.Ignore))
	}
	for i, expected := range expectedIgnore {
		if cfg.Ignore[i] != expected {
			t.Errorf("Ignore[%d]: expected %q, got %q", i, expected, cfg.Ignore[i])
		}
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate failed: %v", err)
	}
}

func TestLoadConfig_NonExistentFile(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/treemk.yaml")
	if err != nil {
		t.Fatalf("LoadConfig should return default config for nonexistent file, got error: %v", err)
	}

	if cfg.InputFile != DefaultInputFile {
		t.Errorf("Expected default input file %q, got %q", DefaultInputFile, cfg.InputFile)
	}
	if cfg.IndentWidth != tree.DefaultIndentWidth {
		t.Errorf("Expected default indent width, got %d", cfg.IndentWidth)
	}
	if len(cfg.Ignore) == 0 {
		t.Error("Default config should have some ignore patterns")
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := "ignore: [\n  \"*.tmp\"\n  invalid: syntax\n"

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	if _, err := LoadConfig(configPath); err == nil {
		t.Error("LoadConfig should return error for invalid YAML")
	}
}

func TestLoadConfig_EmptyConfigKeepsDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "empty.yaml")

	if err := os.WriteFile(configPath, []byte(""), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig failed for empty config: %v", err)
	}

	if cfg.InputFile != DefaultInputFile {
		t.Errorf("Expected default input file, got %q", cfg.InputFile)
	}
	if cfg.Ignore == nil {
		t.Error("Ignore should not be nil")
	}
}

func TestLoadConfig_PartialConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "partial.yaml")

	if err := os.WriteFile(configPath, []byte("mode: strict\n"), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.TreeMode() != tree.ModeStrict {
		t.Errorf("Expected strict mode, got %q", cfg.Mode)
	}
	if cfg.IndentWidth != tree.DefaultIndentWidth {
		t.Errorf("Unset indent_width should keep the default, got %d", cfg.IndentWidth)
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"TREEMK_INPUT":        "from-env.txt",
		"TREEMK_DEST":         "/srv/projects",
		"TREEMK_MODE":         "strict",
		"TREEMK_INDENT_WIDTH": "2",
		"TREEMK_LOG_LEVEL":    "  ",
	}
	lookup := func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}

	cfg := DefaultConfig()
	if err := cfg.ApplyEnv(lookup); err != nil {
		t.Fatalf("ApplyEnv failed: %v", err)
	}

	if cfg.InputFile != "from-env.txt" {
		t.Errorf("Expected input from env, got %q", cfg.InputFile)
	}
	if cfg.Dest != "/srv/projects" {
		t.Errorf("Expected dest from env, got %q", cfg.Dest)
	}
	if cfg.Mode != "strict" {
		t.Errorf("Expected mode from env, got %q", cfg.Mode)
	}
	if cfg.IndentWidth != 2 {
		t.Errorf("Expected indent width 2, got %d", cfg.IndentWidth)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("Blank env values should not override, got %q", cfg.LogLevel)
	}
}

func TestApplyEnv_BadIndentWidth(t *testing.T) {
	lookup := func(key string) (string, bool) {
		if key == "TREEMK_INDENT_WIDTH" {
			return "four", true
		}
		return "", false
	}

	if err := DefaultConfig().ApplyEnv(lookup); err == nil {
		t.Error("ApplyEnv should reject a non-numeric indent width")
	}
}

func TestLoad_ReadsEnvironment(t *testing.T) {
	t.Setenv("TREEMK_MODE", "strict")
	t.Chdir(t.TempDir())

	cfg, err := Load("missing.yaml")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.TreeMode() != tree.ModeStrict {
		t.Errorf("Expected strict mode from environment, got %q", cfg.Mode)
	}
}

func TestLoad_ReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("TREEMK_FILE_POLICY=truncate\n"), 0644); err != nil {
		t.Fatalf("Failed to write .env: %v", err)
	}
	t.Cleanup(func() { os.Unsetenv("TREEMK_FILE_POLICY") })

	cfg, err := Load("missing.yaml")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Policy() != fsops.Truncate {
		t.Errorf("Expected truncate policy from .env, got %q", cfg.FilePolicy)
	}
}

func TestLoad_MalformedDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("TREEMK_MODE=\"strict\n"), 0644); err != nil {
		t.Fatalf("Failed to write .env: %v", err)
	}

	_, err := Load("missing.yaml")
	if err == nil {
		t.Fatal("Expected an error for a malformed .env file")
	}
	if !strings.Contains(err.Error(), "failed to load .env") {
		t.Errorf("Expected .env load error, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"zero indent", func(c *Config) { c.IndentWidth = 0 }, false},
		{"bad mode", func(c *Config) { c.Mode = "fuzzy" }, false},
		{"bad policy", func(c *Config) { c.FilePolicy = "delete" }, false},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }, false},
		{"upper level", func(c *Config) { c.LogLevel = "DEBUG" }, true},
	}

	for _, tt := range tests {
		cfg := DefaultConfig()
		tt.mutate(cfg)
		err := cfg.Validate()
		if (err == nil) != tt.ok {
			t.Errorf("%s: expected ok=%v, got %v", tt.name, tt.ok, err)
		}
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	expectedPatterns := []string{".git/", "node_modules/", "__pycache__/"}
	for _, pattern := range expectedPatterns {
		found := false
		for _, ignore := range cfg.Ignore {
			if ignore == pattern {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Default config should include pattern %q", pattern)
		}
	}
}
