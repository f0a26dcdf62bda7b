package compare

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"treemk/internal/tree"
	"treemk/internal/walker"
)

type ChangeType string

const (
	Missing  ChangeType = "MISSING"
	Conflict ChangeType = "CONFLICT"
	Extra    ChangeType = "EXTRA"
	Failed   ChangeType = "FAILED"
)

// Change is one difference between the tree text and the disk. Path is
// relative to the destination directory.
type Change struct {
	Type ChangeType
	Path string
	Dir  bool
	Line int // source line, 0 for extras
	Err  error
}

type CompareResult struct {
	Verified  int
	Missing   []Change
	Conflicts []Change
	Extra     []Change
	Failed    []Change
}

func (r *CompareResult) HasDrift() bool {
	return len(r.Missing) > 0 || len(r.Conflicts) > 0 || len(r.Extra) > 0
}

func (r *CompareResult) HasErrors() bool {
	return len(r.Failed) > 0
}

// Compare sorts the entries of a Verifier run into verified, missing,
// conflicting and failed ones. Entries found on disk by walk that the tree
// does not mention are reported as extra; walk may be nil when the project
// root does not exist.
func Compare(report *tree.Report, walk *walker.WalkResult) *CompareResult {
	result := &CompareResult{
		Missing:   make([]Change, 0),
		Conflicts: make([]Change, 0),
		Extra:     make([]Change, 0),
		Failed:    make([]Change, 0),
	}

	known := make(map[string]bool, len(report.Entries))
	for _, e := range report.Entries {
		known[e.Path] = true

		change := Change{Path: relTo(report.Dest, e.Path), Dir: e.Dir, Line: e.Line, Err: e.Err}
		switch {
		case e.Failed():
			change.Type = Failed
			result.Failed = append(result.Failed, change)
		case e.Outcome == tree.OutcomeMissing:
			change.Type = Missing
			result.Missing = append(result.Missing, change)
		case e.Outcome == tree.OutcomeConflict:
			change.Type = Conflict
			result.Conflicts = append(result.Conflicts, change)
		case e.Outcome == tree.OutcomeVerified:
			result.Verified++
		}
	}

	if walk != nil {
		for _, entry := range walk.Entries {
			if known[entry.Path] {
				continue
			}
			result.Extra = append(result.Extra, Change{
				Type: Extra,
				Path: relTo(report.Dest, entry.Path),
				Dir:  entry.Dir,
			})
		}
		for _, err := range walk.Errors {
			result.Failed = append(result.Failed, Change{Type: Failed, Err: err})
		}
	}

	sort.Slice(result.Extra, func(i, j int) bool {
		return result.Extra[i].Path < result.Extra[j].Path
	})

	return result
}

func FormatReport(result *CompareResult) string {
	var b strings.Builder

	if !result.HasDrift() && !result.HasErrors() {
		fmt.Fprintf(&b, "No drift detected (%d entries verified).\n", result.Verified)
		return b.String()
	}

	if len(result.Missing) > 0 {
		fmt.Fprintf(&b, "MISSING (%d entries):\n", len(result.Missing))
		for _, c := range result.Missing {
			fmt.Fprintf(&b, "  - %s (line %d)\n", display(c), c.Line)
		}
		b.WriteString("\n")
	}

	if len(result.Conflicts) > 0 {
		fmt.Fprintf(&b, "CONFLICT (%d entries):\n", len(result.Conflicts))
		for _, c := range result.Conflicts {
			want, have := "file", "directory"
			if c.Dir {
				want, have = "directory", "file"
			}
			fmt.Fprintf(&b, "  ~ %s (line %d): tree wants a %s, disk has a %s\n", c.Path, c.Line, want, have)
		}
		b.WriteString("\n")
	}

	if len(result.Extra) > 0 {
		fmt.Fprintf(&b, "EXTRA (%d entries):\n", len(result.Extra))
		for _, c := range result.Extra {
			fmt.Fprintf(&b, "  + %s\n", display(c))
		}
		b.WriteString("\n")
	}

	if len(result.Failed) > 0 {
		fmt.Fprintf(&b, "ERRORS (%d):\n", len(result.Failed))
		for _, c := range result.Failed {
			fmt.Fprintf(&b, "  ! %v\n", c.Err)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "Summary: %d verified, %d missing, %d conflicting, %d extra\n",
		result.Verified, len(result.Missing), len(result.Conflicts), len(result.Extra))

	return b.String()
}

func display(c Change) string {
	if c.Dir {
		return filepath.ToSlash(c.Path) + "/"
	}
	return filepath.ToSlash(c.Path)
}

func relTo(base, path string) string {
	if rel, err := filepath.Rel(base, path); err == nil {
		return rel
	}
	return path
}
