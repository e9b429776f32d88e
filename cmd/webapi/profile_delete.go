package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hoangnguyenba/webapi/pkg/profile"
)

func newProfileDeleteCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <profile-name>",
		Short: "Delete a connection profile",
		Long:  `Deletes the specified profile file. Requires the --force flag to proceed.`,
		Args:  cobra.ExactArgs(1),
		RunE:  runProfileDelete,
	}

	cmd.Flags().Bool("force", false, "Required flag to confirm deletion")
	cmd.MarkFlagRequired("force")

	return cmd
}

func runProfileDelete(cmd *cobra.Command, args []string) error {
	profileName := args[0]

	// Cobra enforces presence; --force=false still refuses
	if force, _ := cmd.Flags().GetBool("force"); !force {
		return fmt.Errorf("must use the --force flag to delete profile '%s'", profileName)
	}

	if err := profile.DeleteProfile(profileName); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Successfully deleted profile '%s'.\n", profileName)
	return nil
}
