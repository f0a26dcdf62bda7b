package fsops

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"treemk/internal/tree"
)

func TestDryRun_PlansWithoutWriting(t *testing.T) {
	tmpDir := t.TempDir()
	d := NewDryRun(Touch)

	root := filepath.Join(tmpDir, "root")
	if outcome, err := d.EnsureDir(root, true); err != nil || outcome != tree.OutcomePlanned {
		t.Errorf("Expected planned root, got %s (%v)", outcome, err)
	}
	if outcome, err := d.EnsureFile(filepath.Join(root, "a.txt")); err != nil || outcome != tree.OutcomePlanned {
		t.Errorf("Expected planned file, got %s (%v)", outcome, err)
	}

	if _, err := os.Stat(root); !os.IsNotExist(err) {
		t.Error("Dry run should not create anything")
	}
}

func TestDryRun_RemembersPlannedEntries(t *testing.T) {
	tmpDir := t.TempDir()
	d := NewDryRun(Touch)
	dir := filepath.Join(tmpDir, "a")
	file := filepath.Join(tmpDir, "b.txt")

	d.EnsureDir(dir, false)
	if outcome, _ := d.EnsureDir(dir, false); outcome != tree.OutcomeExists {
		t.Errorf("Second plan of the same dir should be %s, got %s", tree.OutcomeExists, outcome)
	}

	d.EnsureFile(file)
	if outcome, _ := d.EnsureFile(file); outcome != tree.OutcomeRefreshed {
		t.Errorf("Second plan of the same file should be %s, got %s", tree.OutcomeRefreshed, outcome)
	}

	if _, err := d.EnsureFile(dir); !errors.Is(err, tree.ErrConflict) {
		t.Errorf("File over a planned dir should conflict, got %v", err)
	}
	if _, err := d.EnsureDir(file, false); !errors.Is(err, tree.ErrConflict) {
		t.Errorf("Dir over a planned file should conflict, got %v", err)
	}
}

func TestDryRun_ExistingEntries(t *testing.T) {
	tmpDir := t.TempDir()
	file := filepath.Join(tmpDir, "f.txt")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	d := NewDryRun(Truncate)
	if outcome, _ := d.EnsureDir(tmpDir, false); outcome != tree.OutcomeExists {
		t.Errorf("Expected %s, got %s", tree.OutcomeExists, outcome)
	}
	if outcome, _ := d.EnsureFile(file); outcome != tree.OutcomeTruncated {
		t.Errorf("Expected %s, got %s", tree.OutcomeTruncated, outcome)
	}

	data, _ := os.ReadFile(file)
	if string(data) != "x" {
		t.Error("Dry run must not truncate")
	}
}
