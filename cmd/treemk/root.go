package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	o := &options{}

	cmd := &cobra.Command{
		Use:   "treemk",
		Short: "Create a directory and file layout from a tree diagram",
		Long: `treemk reads a tree diagram such as

  my-app/
  ├── cmd/
  │   └── main.go
  └── README.md

and creates the directories and empty files it describes under a destination
directory. Names ending in "/" are directories, everything else is a file.
The first line is the project root and is always a directory.`,
		Example: `  treemk -d ~/projects
  treemk -i layout.txt -d /tmp/out --dry-run
  cat layout.txt | treemk -i - -d . --mode strict`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBuild(cmd, o)
		},
	}

	o.bindCommon(cmd.PersistentFlags())
	o.bindBuild(cmd.Flags())

	cmd.AddCommand(
		newCheckCmd(o),
		newWatchCmd(o),
		newVersionCmd(),
	)

	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the treemk version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Println(version)
		},
	}
}
