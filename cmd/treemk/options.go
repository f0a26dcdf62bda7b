package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"treemk/internal/config"
	"treemk/internal/fsops"
	"treemk/internal/logging"
	"treemk/internal/safety"
)

type options struct {
	configPath string
	input      string
	dest       string
	mode       string
	indent     int
	logFile    string
	verbose    bool
	quiet      bool

	dryRun   bool
	truncate bool
	report   string
}

func (o *options) bindCommon(fs *pflag.FlagSet) {
	fs.StringVarP(&o.configPath, "config", "c", config.DefaultPath, "Config file path")
	fs.StringVarP(&o.input, "input", "i", "", `Tree file to read, "-" for stdin (default "`+config.DefaultInputFile+`")`)
	fs.StringVarP(&o.dest, "dest", "d", "", "Destination directory, prompted for when empty")
	fs.StringVar(&o.mode, "mode", "", "Indentation policy: lenient (reparent) or strict (reject)")
	fs.IntVar(&o.indent, "indent", 0, "Indentation columns per nesting level (default 4)")
	fs.StringVar(&o.logFile, "log-file", "", "Also write logs to this rotating file")
	fs.BoolVarP(&o.verbose, "verbose", "v", false, "Debug logging")
	fs.BoolVarP(&o.quiet, "quiet", "q", false, "Only print errors")
}

func (o *options) bindBuild(fs *pflag.FlagSet) {
	fs.BoolVar(&o.dryRun, "dry-run", false, "Show what would be created without touching the disk")
	fs.BoolVar(&o.truncate, "truncate", false, "Empty files that already exist instead of refreshing their timestamp")
	fs.StringVar(&o.report, "report", "", "Write a JSON run report to this file")
}

// session is the resolved configuration of one command run.
type session struct {
	cfg    *config.Config
	log    *slog.Logger
	closer io.Closer
}

func (s *session) Close() error {
	return s.closer.Close()
}

// resolve merges flags over the environment over the config file.
func (o *options) resolve(cmd *cobra.Command) (*session, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}

	fs := cmd.Flags()
	if fs.Changed("input") {
		cfg.InputFile = o.input
	}
	if fs.Changed("dest") {
		cfg.Dest = o.dest
	}
	if fs.Changed("mode") {
		cfg.Mode = o.mode
	}
	if fs.Changed("indent") {
		cfg.IndentWidth = o.indent
	}
	if fs.Changed("log-file") {
		cfg.LogFile = o.logFile
	}
	if o.truncate {
		cfg.FilePolicy = string(fsops.Truncate)
	}
	if fs.Changed("report") {
		cfg.ReportFile = o.report
	}
	switch {
	case o.verbose:
		cfg.LogLevel = "debug"
	case o.quiet:
		cfg.LogLevel = "warn"
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger, closer, err := logging.New(logging.Options{
		Level:  cfg.LogLevel,
		File:   cfg.LogFile,
		Writer: cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, err
	}

	return &session{cfg: cfg, log: logger, closer: closer}, nil
}

// readTree loads the tree text from path, or from in when path is "-".
func readTree(path string, in io.Reader) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(in)
		if err != nil {
			return "", fmt.Errorf("failed to read tree from stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("the file %q was not found; create it next to where you run treemk and draw your project structure in it", path)
		}
		return "", fmt.Errorf("failed to read tree file: %w", err)
	}
	return string(data), nil
}

// resolveDest returns the validated absolute destination, asking for it on
// in when none was configured.
func resolveDest(dest string, canPrompt bool, in io.Reader, out io.Writer) (string, error) {
	if strings.TrimSpace(dest) == "" {
		if !canPrompt {
			return "", fmt.Errorf("%w: use --dest when the tree is read from stdin", safety.ErrDestinationInvalid)
		}
		fmt.Fprint(out, "Enter the full path where you want to create the project structure (e.g., /Users/you/Desktop): ")
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("failed to read destination: %w", err)
		}
		dest = strings.TrimSpace(line)
	}

	abs, err := safety.ValidateDestination(expandHome(dest))
	if err != nil {
		return "", fmt.Errorf("%w; run again with a valid path", err)
	}
	return abs, nil
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
