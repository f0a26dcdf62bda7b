package tree

import (
	"errors"
	"fmt"
	"strings"

	"treemk/internal/safety"
)

var (
	// ErrEmptyInput means the tree text has no usable first line.
	ErrEmptyInput = errors.New("tree text is empty")
	// ErrInvalidRoot means the first line does not decode to a usable directory name.
	ErrInvalidRoot = errors.New("invalid project root")
	// ErrIndentJump marks an entry nested deeper than any open directory (strict mode).
	ErrIndentJump = errors.New("indentation skips a level")
	// ErrConflict marks an entry whose path already exists with the other kind.
	ErrConflict = errors.New("path exists with a different type")

	ErrDestinationInvalid = safety.ErrDestinationInvalid
	ErrInvalidName        = safety.ErrInvalidName
)

// Line is one decoded, non-blank line of tree text.
type Line struct {
	Number    int    // 1-based line number in the source text
	Raw       string // line as written
	Indent    int    // width of the leading indentation run, in characters
	Connector bool   // a branch glyph run (├──, └──, |--, ...) followed the indentation
	Name      string
	IsDir     bool
	Level     int
}

// Mode selects how entries nested deeper than any open directory are handled.
type Mode string

const (
	// ModeLenient reparents such entries to the deepest open directory.
	ModeLenient Mode = "lenient"
	// ModeStrict rejects them with ErrIndentJump.
	ModeStrict Mode = "strict"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeLenient:
		return ModeLenient, nil
	case ModeStrict:
		return ModeStrict, nil
	}
	return "", fmt.Errorf("unknown mode %q (want %q or %q)", s, ModeLenient, ModeStrict)
}

// Outcome is what happened to one entry.
type Outcome string

const (
	OutcomeCreated   Outcome = "created"
	OutcomeExists    Outcome = "exists"
	OutcomeRefreshed Outcome = "refreshed"
	OutcomeTruncated Outcome = "truncated"
	OutcomePlanned   Outcome = "planned"
	OutcomeVerified  Outcome = "verified"
	OutcomeMissing   Outcome = "missing"
	OutcomeConflict  Outcome = "conflict"
	OutcomeFailed    Outcome = "failed"
)

// Materializer turns resolved entries into filesystem state.
// parents is only set for the project root.
type Materializer interface {
	EnsureDir(path string, parents bool) (Outcome, error)
	EnsureFile(path string) (Outcome, error)
}

// EntryError ties a per-entry failure to the path it was resolved to.
type EntryError struct {
	Path string
	Err  error
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *EntryError) Unwrap() error {
	return e.Err
}

// EntryResult records one processed entry. The project root is always the
// first result, at level 0.
type EntryResult struct {
	Line    int
	Name    string
	Level   int
	Dir     bool
	Path    string
	Parent  string
	Clamped bool // reparented to a shallower directory than the indentation asked for
	Outcome Outcome
	Err     error
}

func (r EntryResult) Failed() bool {
	return r.Err != nil
}

// Kind returns "dir" or "file".
func (r EntryResult) Kind() string {
	if r.Dir {
		return "dir"
	}
	return "file"
}

// Report is the result of one Build run, entries in source order.
type Report struct {
	Dest        string
	RootPath    string
	Fingerprint string
	Mode        Mode
	Entries     []EntryResult
}

// Root returns the project root entry.
func (r *Report) Root() EntryResult {
	if len(r.Entries) == 0 {
		return EntryResult{}
	}
	return r.Entries[0]
}

func (r *Report) Failures() []EntryResult {
	var failed []EntryResult
	for _, e := range r.Entries {
		if e.Failed() {
			failed = append(failed, e)
		}
	}
	return failed
}

func (r *Report) HasFailures() bool {
	for _, e := range r.Entries {
		if e.Failed() {
			return true
		}
	}
	return false
}

// Counts returns the number of directory and file entries that did not fail.
func (r *Report) Counts() (dirs, files int) {
	for _, e := range r.Entries {
		if e.Failed() {
			continue
		}
		if e.Dir {
			dirs++
		} else {
			files++
		}
	}
	return dirs, files
}

// ByOutcome returns the entries with the given outcome.
func (r *Report) ByOutcome(o Outcome) []EntryResult {
	var out []EntryResult
	for _, e := range r.Entries {
		if e.Outcome == o {
			out = append(out, e)
		}
	}
	return out
}
