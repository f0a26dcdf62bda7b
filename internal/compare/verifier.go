package compare

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"syscall"

	"treemk/internal/tree"
)

// Verifier is a read-only Materializer: it reports whether each entry is
// already on disk with the right type instead of creating it.
type Verifier struct{}

func (Verifier) EnsureDir(path string, _ bool) (tree.Outcome, error) {
	info, err := os.Stat(path)
	switch {
	case err == nil && info.IsDir():
		return tree.OutcomeVerified, nil
	case err == nil:
		return tree.OutcomeConflict, nil
	case absent(err):
		return tree.OutcomeMissing, nil
	default:
		return tree.OutcomeFailed, fmt.Errorf("stat: %w", err)
	}
}

func (Verifier) EnsureFile(path string) (tree.Outcome, error) {
	info, err := os.Stat(path)
	switch {
	case err == nil && info.IsDir():
		return tree.OutcomeConflict, nil
	case err == nil:
		return tree.OutcomeVerified, nil
	case absent(err):
		return tree.OutcomeMissing, nil
	default:
		return tree.OutcomeFailed, fmt.Errorf("stat: %w", err)
	}
}

// absent also covers paths whose parent turned out to be a file.
func absent(err error) bool {
	return errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR)
}
