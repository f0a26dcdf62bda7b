package progress

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"treemk/internal/tree"
)

// Printer writes one status line per entry and a closing summary.
type Printer struct {
	writer  io.Writer
	quiet   bool
	dryRun  bool
	base    string
	started time.Time
	mu      sync.Mutex
}

func New(w io.Writer, quiet, dryRun bool) *Printer {
	if w == nil {
		w = os.Stdout
	}
	return &Printer{
		writer:  w,
		quiet:   quiet,
		dryRun:  dryRun,
		started: time.Now(),
	}
}

// Entry prints the status line for one entry. Failures are printed even
// in quiet mode.
func (p *Printer) Entry(r tree.EntryResult) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if r.Level == 0 {
		p.base = r.Parent
		p.started = time.Now()
		if !p.quiet {
			verb := "Creating"
			if p.dryRun {
				verb = "Planning"
			}
			fmt.Fprintf(p.writer, "%s project structure in: %s\n", verb, r.Path)
		}
	}

	if r.Failed() {
		fmt.Fprintf(p.writer, "  Error creating %s: %v\n", p.rel(r.Path), unwrapEntry(r.Err))
		return
	}
	if p.quiet || r.Level == 0 {
		return
	}

	label := "file:     "
	if r.Dir {
		label = "directory:"
	}
	line := fmt.Sprintf("  %-9s %s %s", describe(r.Outcome), label, p.rel(r.Path))
	if r.Clamped {
		line += " (reparented)"
	}
	fmt.Fprintln(p.writer, line)
}

// Finish prints the run summary.
func (p *Printer) Finish(report *tree.Report) {
	p.mu.Lock()
	defer p.mu.Unlock()

	dirs, files := report.Counts()
	failures := len(report.Failures())

	if failures > 0 {
		fmt.Fprintf(p.writer, "\n⚠ Project structure finished with %d error(s): %d directories, %d files in %s\n",
			failures, dirs, files, time.Since(p.started).Round(time.Millisecond))
		return
	}
	if p.quiet {
		return
	}
	verb := "created"
	if p.dryRun {
		verb = "planned"
	}
	fmt.Fprintf(p.writer, "\n✓ Project structure %s successfully!\n", verb)
	fmt.Fprintf(p.writer, "  Root: %s\n", report.RootPath)
	fmt.Fprintf(p.writer, "  Directories: %d, files: %d\n", dirs, files)
}

func (p *Printer) rel(path string) string {
	if p.base == "" {
		return path
	}
	if rel, err := filepath.Rel(p.base, path); err == nil {
		return rel
	}
	return path
}

func describe(o tree.Outcome) string {
	switch o {
	case tree.OutcomeCreated:
		return "Created"
	case tree.OutcomeExists:
		return "Exists"
	case tree.OutcomeRefreshed:
		return "Touched"
	case tree.OutcomeTruncated:
		return "Truncated"
	case tree.OutcomePlanned:
		return "Would add"
	}
	return string(o)
}

// unwrapEntry drops the path prefix of an EntryError, the status line
// already shows it.
func unwrapEntry(err error) error {
	if e, ok := err.(*tree.EntryError); ok {
		return e.Err
	}
	return err
}
