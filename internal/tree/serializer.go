package tree

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

type SerializedReport struct {
	Generator   string            `json:"generator"`
	Created     time.Time         `json:"created"`
	Dest        string            `json:"dest"`
	Root        string            `json:"root"`
	Fingerprint string            `json:"fingerprint"`
	Mode        Mode              `json:"mode"`
	Entries     []SerializedEntry `json:"entries"`
}

// SerializedEntry stores paths relative to the destination, slash separated.
type SerializedEntry struct {
	Line    int     `json:"line"`
	Path    string  `json:"path"`
	Kind    string  `json:"kind"`
	Level   int     `json:"level"`
	Outcome Outcome `json:"outcome"`
	Clamped bool    `json:"clamped,omitempty"`
	Error   string  `json:"error,omitempty"`
}

// Save writes the report as JSON, creating the parent directory if needed.
func Save(report *Report, path string) error {
	root, err := filepath.Rel(report.Dest, report.RootPath)
	if err != nil {
		root = filepath.Base(report.RootPath)
	}

	serialized := SerializedReport{
		Generator:   "treemk",
		Created:     time.Now(),
		Dest:        report.Dest,
		Root:        filepath.ToSlash(root),
		Fingerprint: report.Fingerprint,
		Mode:        report.Mode,
		Entries:     make([]SerializedEntry, 0, len(report.Entries)),
	}

	for _, e := range report.Entries {
		rel, err := filepath.Rel(report.Dest, e.Path)
		if err != nil {
			rel = e.Path
		}
		entry := SerializedEntry{
			Line:    e.Line,
			Path:    filepath.ToSlash(rel),
			Kind:    e.Kind(),
			Level:   e.Level,
			Outcome: e.Outcome,
			Clamped: e.Clamped,
		}
		if e.Err != nil {
			entry.Error = e.Err.Error()
		}
		serialized.Entries = append(serialized.Entries, entry)
	}

	data, err := json.MarshalIndent(serialized, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}

// Load reads a report written by Save. Entry errors come back as plain
// messages; they no longer match the sentinel errors.
func Load(path string) (*Report, time.Time, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to read file: %w", err)
	}

	var serialized SerializedReport
	if err := json.Unmarshal(data, &serialized); err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to unmarshal report: %w", err)
	}

	report := &Report{
		Dest:        serialized.Dest,
		RootPath:    filepath.Join(serialized.Dest, filepath.FromSlash(serialized.Root)),
		Fingerprint: serialized.Fingerprint,
		Mode:        serialized.Mode,
		Entries:     make([]EntryResult, 0, len(serialized.Entries)),
	}

	for _, e := range serialized.Entries {
		abs := filepath.Join(serialized.Dest, filepath.FromSlash(e.Path))
		entry := EntryResult{
			Line:    e.Line,
			Name:    filepath.Base(abs),
			Level:   e.Level,
			Dir:     e.Kind == "dir",
			Path:    abs,
			Parent:  filepath.Dir(abs),
			Clamped: e.Clamped,
			Outcome: e.Outcome,
		}
		if e.Error != "" {
			entry.Err = errors.New(e.Error)
		}
		report.Entries = append(report.Entries, entry)
	}

	return report, serialized.Created, nil
}
