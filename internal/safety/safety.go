package safety

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrInvalidName is returned for names that are not a single path segment.
	ErrInvalidName = errors.New("invalid name")
	// ErrDestinationInvalid is returned when the destination is missing or not a directory.
	ErrDestinationInvalid = errors.New("invalid destination")
)

// ValidateName checks that name is one path segment: not empty, not "." or
// "..", free of separators and not absolute.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidName)
	}
	if name == "." || name == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: %q contains a path separator", ErrInvalidName, name)
	}
	if filepath.IsAbs(name) || filepath.VolumeName(name) != "" {
		return fmt.Errorf("%w: %q is absolute", ErrInvalidName, name)
	}
	if strings.ContainsRune(name, 0) {
		return fmt.Errorf("%w: %q contains a NUL byte", ErrInvalidName, name)
	}
	return nil
}

// ValidateDestination returns the absolute form of dest when it names an
// existing directory.
func ValidateDestination(dest string) (string, error) {
	if strings.TrimSpace(dest) == "" {
		return "", fmt.Errorf("%w: no path given", ErrDestinationInvalid)
	}

	abs, err := filepath.Abs(dest)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrDestinationInvalid, dest, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s does not exist", ErrDestinationInvalid, abs)
		}
		return "", fmt.Errorf("%w: %s: %v", ErrDestinationInvalid, abs, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s is not a directory", ErrDestinationInvalid, abs)
	}

	return abs, nil
}
