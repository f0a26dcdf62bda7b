package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"treemk/internal/compare"
	"treemk/internal/tree"
	"treemk/internal/walker"
)

func newCheckCmd(o *options) *cobra.Command {
	var sinceReport string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Compare a tree diagram against the disk without changing anything",
		Long: `check decodes the tree diagram exactly like a build would, but only stats
each entry. It lists entries that are missing, entries whose type on disk
differs from the diagram, and files under the project root that the
diagram does not mention.

Exit status is 0 when the disk matches, 1 on drift and 2 on errors.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCheck(cmd, o, sinceReport)
		},
	}
	cmd.Flags().StringVar(&sinceReport, "since-report", "", "Also tell whether the tree text changed since this saved report")

	return cmd
}

func runCheck(cmd *cobra.Command, o *options, sinceReport string) error {
	s, err := o.resolve(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	text, err := readTree(s.cfg.InputFile, cmd.InOrStdin())
	if err != nil {
		return err
	}
	dest, err := resolveDest(s.cfg.Dest, s.cfg.InputFile != "-", cmd.InOrStdin(), cmd.OutOrStdout())
	if err != nil {
		return err
	}

	report, err := tree.Build(cmd.Context(), text, dest, tree.Options{
		Mode:         s.cfg.TreeMode(),
		IndentWidth:  s.cfg.IndentWidth,
		Materializer: compare.Verifier{},
		Logger:       s.log,
	})
	if err != nil {
		return &exitError{code: 2, err: err}
	}

	var walk *walker.WalkResult
	if info, err := os.Stat(report.RootPath); err == nil && info.IsDir() {
		walk, err = walker.Walk(report.RootPath, s.cfg.Ignore)
		if err != nil {
			return &exitError{code: 2, err: fmt.Errorf("failed to walk project root: %w", err)}
		}
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return &exitError{code: 2, err: fmt.Errorf("failed to stat project root: %w", err)}
	}

	out := cmd.OutOrStdout()
	if sinceReport != "" {
		saved, created, err := tree.Load(sinceReport)
		if err != nil {
			return &exitError{code: 2, err: err}
		}
		if saved.Fingerprint == report.Fingerprint {
			fmt.Fprintf(out, "Tree text unchanged since report of %s.\n", created.Format("2006-01-02 15:04:05"))
		} else {
			fmt.Fprintf(out, "Tree text changed since report of %s.\n", created.Format("2006-01-02 15:04:05"))
		}
	}

	result := compare.Compare(report, walk)
	fmt.Fprint(out, compare.FormatReport(result))

	for _, e := range walkErrors(walk) {
		s.log.Warn("walk error", slog.String("err", e.Error()))
	}

	switch {
	case result.HasErrors():
		return &exitError{code: 2}
	case result.HasDrift():
		return &exitError{code: 1}
	}
	return nil
}

func walkErrors(walk *walker.WalkResult) []error {
	if walk == nil {
		return nil
	}
	return walk.Errors
}
