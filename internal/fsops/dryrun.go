package fsops

import (
	"fmt"
	"os"

	"treemk/internal/tree"
)

// DryRun reports what OS would do without touching the filesystem.
// Entries it has already planned are remembered, keyed by path with
// true for directories, so later lines see them as if they existed.
type DryRun struct {
	Policy  FilePolicy
	planned map[string]bool
}

func NewDryRun(policy FilePolicy) *DryRun {
	if policy == "" {
		policy = Touch
	}
	return &DryRun{Policy: policy, planned: make(map[string]bool)}
}

func (d *DryRun) EnsureDir(path string, _ bool) (tree.Outcome, error) {
	if isDir, ok := d.planned[path]; ok {
		if !isDir {
			return tree.OutcomeFailed, fmt.Errorf("%w: a file is in the way of the directory", tree.ErrConflict)
		}
		return tree.OutcomeExists, nil
	}

	info, err := os.Stat(path)
	switch {
	case err == nil && info.IsDir():
		return tree.OutcomeExists, nil
	case err == nil:
		return tree.OutcomeFailed, fmt.Errorf("%w: a file is in the way of the directory", tree.ErrConflict)
	case os.IsNotExist(err):
		d.planned[path] = true
		return tree.OutcomePlanned, nil
	default:
		return tree.OutcomeFailed, fmt.Errorf("stat: %w", err)
	}
}

func (d *DryRun) EnsureFile(path string) (tree.Outcome, error) {
	if isDir, ok := d.planned[path]; ok {
		if isDir {
			return tree.OutcomeFailed, fmt.Errorf("%w: a directory is in the way of the file", tree.ErrConflict)
		}
		return d.existing(), nil
	}

	info, err := os.Stat(path)
	switch {
	case err == nil && info.IsDir():
		return tree.OutcomeFailed, fmt.Errorf("%w: a directory is in the way of the file", tree.ErrConflict)
	case err == nil:
		return d.existing(), nil
	case os.IsNotExist(err):
		d.planned[path] = false
		return tree.OutcomePlanned, nil
	default:
		return tree.OutcomeFailed, fmt.Errorf("stat: %w", err)
	}
}

func (d *DryRun) existing() tree.Outcome {
	if d.Policy == Truncate {
		return tree.OutcomeTruncated
	}
	return tree.OutcomeRefreshed
}
