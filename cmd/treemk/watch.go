package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"treemk/internal/watch"
)

func newWatchCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Rebuild the structure every time the tree file is saved",
		Long: `watch builds once, then keeps the destination in sync with the tree file:
each save creates the entries that were added. Nothing is ever deleted.
Stop it with Ctrl+C.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWatch(cmd, o)
		},
	}
	cmd.Flags().BoolVar(&o.truncate, "truncate", false, "Empty files that already exist instead of refreshing their timestamp")
	cmd.Flags().StringVar(&o.report, "report", "", "Rewrite this JSON run report after every build")

	return cmd
}

func runWatch(cmd *cobra.Command, o *options) error {
	s, err := o.resolve(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	if s.cfg.InputFile == "-" {
		return errors.New("watch needs a tree file, not stdin")
	}
	if _, err := readTree(s.cfg.InputFile, nil); err != nil {
		return err
	}

	dest, err := resolveDest(s.cfg.Dest, true, cmd.InOrStdin(), cmd.OutOrStdout())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	w, err := watch.New(s.cfg.InputFile, func(ctx context.Context, text string) error {
		_, err := s.build(ctx, text, dest, false, o.quiet, out)
		return err
	}, s.log)
	if err != nil {
		return err
	}

	return w.Run(ctx)
}
