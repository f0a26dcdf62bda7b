package fsops

import (
	"fmt"
	"os"
	"strings"
	"time"

	"treemk/internal/tree"
)

// FilePolicy decides what happens to a file line whose file already exists.
type FilePolicy string

const (
	// Touch keeps the content and refreshes the modification time.
	Touch FilePolicy = "touch"
	// Truncate resets the file to empty.
	Truncate FilePolicy = "truncate"
)

func ParseFilePolicy(s string) (FilePolicy, error) {
	switch FilePolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", Touch:
		return Touch, nil
	case Truncate:
		return Truncate, nil
	}
	return "", fmt.Errorf("unknown file policy %q (want %q or %q)", s, Touch, Truncate)
}

const (
	DirPerm  os.FileMode = 0755
	FilePerm os.FileMode = 0644
)

// OS materializes entries on the real filesystem.
type OS struct {
	Policy FilePolicy
	now    func() time.Time
}

func NewOS(policy FilePolicy) *OS {
	if policy == "" {
		policy = Touch
	}
	return &OS{Policy: policy, now: time.Now}
}

// EnsureDir creates path unless a directory is already there. Only the
// project root is created with its missing parents.
func (o *OS) EnsureDir(path string, parents bool) (tree.Outcome, error) {
	info, err := os.Stat(path)
	switch {
	case err == nil && info.IsDir():
		return tree.OutcomeExists, nil

	case err == nil:
		return tree.OutcomeFailed, fmt.Errorf("%w: a file is in the way of the directory", tree.ErrConflict)

	case os.IsNotExist(err):
		if parents {
			err = os.MkdirAll(path, DirPerm)
		} else {
			err = os.Mkdir(path, DirPerm)
		}
		if err != nil {
			if os.IsExist(err) {
				return tree.OutcomeExists, nil
			}
			return tree.OutcomeFailed, fmt.Errorf("mkdir: %w", err)
		}
		return tree.OutcomeCreated, nil

	default:
		return tree.OutcomeFailed, fmt.Errorf("stat: %w", err)
	}
}

// EnsureFile creates an empty file, or applies the file policy to an
// existing one.
func (o *OS) EnsureFile(path string) (tree.Outcome, error) {
	info, err := os.Stat(path)
	switch {
	case err == nil && info.IsDir():
		return tree.OutcomeFailed, fmt.Errorf("%w: a directory is in the way of the file", tree.ErrConflict)

	case err == nil:
		return o.refresh(path)

	case os.IsNotExist(err):
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_EXCL, FilePerm)
		if err != nil {
			return tree.OutcomeFailed, fmt.Errorf("create: %w", err)
		}
		if err := f.Close(); err != nil {
			return tree.OutcomeFailed, fmt.Errorf("close: %w", err)
		}
		return tree.OutcomeCreated, nil

	default:
		return tree.OutcomeFailed, fmt.Errorf("stat: %w", err)
	}
}

func (o *OS) refresh(path string) (tree.Outcome, error) {
	if o.Policy == Truncate {
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC, FilePerm)
		if err != nil {
			return tree.OutcomeFailed, fmt.Errorf("truncate: %w", err)
		}
		if err := f.Close(); err != nil {
			return tree.OutcomeFailed, fmt.Errorf("close: %w", err)
		}
		return tree.OutcomeTruncated, nil
	}

	now := o.now()
	if err := os.Chtimes(path, now, now); err != nil {
		return tree.OutcomeFailed, fmt.Errorf("touch: %w", err)
	}
	return tree.OutcomeRefreshed, nil
}
