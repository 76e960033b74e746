package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCommand builds the commandapi command tree. Running it without a
// subcommand starts the server.
func NewRootCommand() *cobra.Command {
	serve := newServeCommand()

	root := &cobra.Command{
		Use:           "commandapi",
		Short:         "REST API for storing how-to command lines per platform",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serve.RunE,
	}
	root.AddCommand(serve, newMigrateCommand())
	return root
}
