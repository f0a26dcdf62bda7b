package tree

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"treemk/internal/hash"
	"treemk/internal/safety"
)

// Options configures a Build run.
type Options struct {
	Mode         Mode
	IndentWidth  int
	Materializer Materializer
	Logger       *slog.Logger
	// OnEntry is called after each entry, root included, in source order.
	OnEntry func(EntryResult)
}

// noColumn means no closed entry is waiting to catch over-indented lines.
const noColumn = -1

type builder struct {
	opts   Options
	log    *slog.Logger
	report *Report

	// ghost is the column of the last file or failed directory written with
	// plain indentation. A deeper line after it is nested under something
	// that cannot hold children.
	ghost int
}

// Build decodes tree text line by line and materializes each entry under
// dest as soon as it is decoded.
//
// ErrEmptyInput, ErrInvalidRoot and ErrDestinationInvalid are returned before
// anything is touched. Failures of single entries are recorded on the report
// and do not stop the run. A failure to create the project root is returned
// together with the report.
func Build(ctx context.Context, text, dest string, opts Options) (*Report, error) {
	if opts.Materializer == nil {
		return nil, errors.New("no materializer configured")
	}
	if opts.IndentWidth <= 0 {
		opts.IndentWidth = DefaultIndentWidth
	}
	if opts.Mode == "" {
		opts.Mode = ModeLenient
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, ErrEmptyInput
	}
	firstLine := strings.Count(text[:strings.Index(text, trimmed)], "\n") + 1
	lines := strings.Split(trimmed, "\n")

	rootName, err := DecodeRoot(lines[0])
	if err != nil {
		return nil, err
	}

	absDest, err := safety.ValidateDestination(dest)
	if err != nil {
		return nil, err
	}

	b := &builder{
		opts:  opts,
		log:   logger,
		ghost: noColumn,
		report: &Report{
			Dest:        absDest,
			RootPath:    filepath.Join(absDest, rootName),
			Fingerprint: hash.FingerprintString(text),
			Mode:        opts.Mode,
		},
	}

	b.log.Info("building project structure",
		slog.String("root", b.report.RootPath),
		slog.String("mode", string(opts.Mode)),
		slog.Int("lines", len(lines)))

	root := EntryResult{
		Line:   firstLine,
		Name:   rootName,
		Level:  0,
		Dir:    true,
		Path:   b.report.RootPath,
		Parent: absDest,
	}
	root.Outcome, err = opts.Materializer.EnsureDir(root.Path, true)
	if err != nil {
		root.Outcome = OutcomeFailed
		root.Err = &EntryError{Path: root.Path, Err: err}
		b.record(root)
		return b.report, fmt.Errorf("failed to create project root: %w", root.Err)
	}
	b.record(root)

	stack := NewPathStack(root.Path)
	for i, raw := range lines[1:] {
		if err := ctx.Err(); err != nil {
			return b.report, err
		}

		line, ok := DecodeLine(raw, firstLine+i+1, opts.IndentWidth)
		if !ok {
			continue
		}
		b.record(b.place(line, stack))
	}

	return b.report, nil
}

// place resolves one line against the stack, materializes it and, for
// directories, opens it for the lines that follow.
//
// Lines with a branch glyph are resolved by level. Lines with plain
// indentation are resolved by column: the parent is the deepest open
// directory written left of the line, whatever the indentation unit.
func (b *builder) place(line Line, stack *PathStack) EntryResult {
	res := EntryResult{
		Line:  line.Number,
		Name:  line.Name,
		Level: line.Level,
		Dir:   line.IsDir,
	}

	var jump bool
	if line.Connector {
		b.ghost = noColumn
		jump = line.Level > stack.Len()
		stack.Truncate(line.Level)
	} else {
		stack.CloseAt(line.Indent)
		jump = b.ghost != noColumn && line.Indent > b.ghost
		if !jump {
			b.ghost = noColumn
		}
		res.Level = stack.Len()
		if jump {
			res.Level++
		}
	}

	res.Parent = stack.Parent()
	res.Path = filepath.Join(res.Parent, line.Name)

	if jump {
		if b.opts.Mode == ModeStrict {
			return failed(res, fmt.Errorf("%w: level %d under %d open directories", ErrIndentJump, res.Level, stack.Len()))
		}
		res.Clamped = true
	}

	res = b.materialize(res)
	if res.Dir && !res.Failed() {
		stack.Push(res.Path, line.Indent)
	} else if !line.Connector && !jump {
		// nothing can be nested under this entry
		b.ghost = line.Indent
	}
	return res
}

func (b *builder) materialize(res EntryResult) EntryResult {
	if err := safety.ValidateName(res.Name); err != nil {
		return failed(res, err)
	}

	var err error
	if res.Dir {
		res.Outcome, err = b.opts.Materializer.EnsureDir(res.Path, false)
	} else {
		res.Outcome, err = b.opts.Materializer.EnsureFile(res.Path)
	}
	if err != nil {
		return failed(res, err)
	}
	return res
}

func failed(res EntryResult, err error) EntryResult {
	res.Outcome = OutcomeFailed
	res.Err = &EntryError{Path: res.Path, Err: err}
	return res
}

func (b *builder) record(res EntryResult) {
	b.report.Entries = append(b.report.Entries, res)

	attrs := []any{
		slog.Int("line", res.Line),
		slog.String("path", res.Path),
		slog.String("kind", res.Kind()),
		slog.String("outcome", string(res.Outcome)),
	}
	switch {
	case res.Failed():
		b.log.Warn("entry failed", append(attrs, slog.String("err", res.Err.Error()))...)
	case res.Clamped:
		b.log.Warn("entry nested deeper than any open directory, reparented", append(attrs, slog.Int("level", res.Level))...)
	default:
		b.log.Debug("entry", attrs...)
	}

	if b.opts.OnEntry != nil {
		b.opts.OnEntry(res)
	}
}
