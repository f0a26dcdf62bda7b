package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"treemk/internal/fsops"
	"treemk/internal/progress"
	"treemk/internal/tree"
)

func runBuild(cmd *cobra.Command, o *options) error {
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

	report, err := s.build(cmd.Context(), text, dest, o.dryRun, o.quiet, cmd.OutOrStdout())
	if err != nil {
		return &exitError{code: 1, err: err}
	}
	if report.HasFailures() {
		return &exitError{code: 2}
	}
	return nil
}

// build runs one pass over text and writes the report file when one is
// configured. Dry runs never write a report.
func (s *session) build(ctx context.Context, text, dest string, dryRun, quiet bool, out io.Writer) (*tree.Report, error) {
	var m tree.Materializer = fsops.NewOS(s.cfg.Policy())
	if dryRun {
		m = fsops.NewDryRun(s.cfg.Policy())
	}

	printer := progress.New(out, quiet, dryRun)
	report, err := tree.Build(ctx, text, dest, tree.Options{
		Mode:         s.cfg.TreeMode(),
		IndentWidth:  s.cfg.IndentWidth,
		Materializer: m,
		Logger:       s.log,
		OnEntry:      printer.Entry,
	})
	if err != nil {
		if report != nil && !errors.Is(err, context.Canceled) {
			printer.Finish(report)
		}
		return report, err
	}
	printer.Finish(report)

	if s.cfg.ReportFile != "" && !dryRun {
		if err := tree.Save(report, s.cfg.ReportFile); err != nil {
			return report, fmt.Errorf("failed to save report: %w", err)
		}
		s.log.Info("report written", slog.String("path", s.cfg.ReportFile))
	}
	return report, nil
}
