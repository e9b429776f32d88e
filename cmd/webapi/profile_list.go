package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hoangnguyenba/webapi/pkg/profile"
)

func newProfileListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all available connection profiles",
		Long:  `Lists the names of all saved profiles found in the profile directory, with their driver and database.`,
		Args:  cobra.NoArgs,
		RunE:  runProfileList,
	}
}

func runProfileList(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	names, err := profile.ListProfiles()
	if err != nil {
		return err
	}
	if len(names) == 0 {
		fmt.Fprintln(out, "No profiles found.")
		return nil
	}

	fmt.Fprintln(out, "Available Profiles:")
	for _, name := range names {
		cfg, err := profile.LoadProfile(name)
		if err != nil {
			fmt.Fprintf(out, "- %s (error loading details: %v)\n", name, err)
			continue
		}
		target := cfg.Database
		if target == "" {
			target = "dsn"
		}
		fmt.Fprintf(out, "- %s (%s, %s)\n", name, cfg.Driver, target)
	}

	return nil
}
