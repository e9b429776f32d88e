package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "webapi",
		Short: "A JSON web API over batch transactional record collections.",
		Long: `Serves cars, users and subscriptions over HTTP with all-or-nothing batch semantics,
and provides tooling to snapshot and restore those collections.`,
		SilenceUsage: true,
	}

	cmd.AddCommand(newServeCommand())
	cmd.AddCommand(newExportCommand())
	cmd.AddCommand(newImportCommand())
	cmd.AddCommand(newProfileCommand())
	return cmd
}

// newProfileCommand creates the parent 'profile' command
func newProfileCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage connection profiles",
		Long:  `Create, update, list, show and delete named connection profiles for easier command execution.`,
	}
	cmd.AddCommand(newProfileCreateCommand())
	cmd.AddCommand(newProfileUpdateCommand())
	cmd.AddCommand(newProfileListCommand())
	cmd.AddCommand(newProfileDeleteCommand())
	cmd.AddCommand(newProfileShowCommand())
	return cmd
}

func Execute() error {
	return newRootCommand().Execute()
}
