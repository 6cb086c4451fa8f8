package root

import (
	"github.com/spf13/cobra"
	"github.com/yngtodd/tok/cmd/tok/build"
	"github.com/yngtodd/tok/cmd/tok/diagnose"
	"github.com/yngtodd/tok/cmd/tok/greet"
	"github.com/yngtodd/tok/cmd/tok/show"
	"github.com/yngtodd/tok/cmd/tok/stats"
	"github.com/yngtodd/tok/cmd/tok/version"
)

// NewRootCmd creates the root command for tok.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tok",
		Short: "CLI: build token vocabularies from text corpora",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Show help when no subcommand is provided.
			return cmd.Help()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Subcommands
	cmd.AddCommand(greet.Cmd)
	cmd.AddCommand(build.Cmd)
	cmd.AddCommand(show.Cmd)
	cmd.AddCommand(stats.Cmd)
	cmd.AddCommand(version.VersionCmd)
	cmd.AddCommand(diagnose.Cmd)

	return cmd
}

// Execute runs the root command with provided args.
func Execute(args []string) error {
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	return cmd.Execute()
}
