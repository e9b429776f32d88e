package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hoangnguyenba/webapi/pkg/profile"
)

func newProfileCreateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create <profile-name>",
		Short: "Create a new connection profile",
		Long:  `Creates a new named connection profile by saving the provided flags to a file.`,
		Args:  cobra.ExactArgs(1),
		RunE:  runProfileCreate,
	}

	addProfileConfigFlags(cmd)

	return cmd
}

func runProfileCreate(cmd *cobra.Command, args []string) error {
	profileName := args[0]
	flags := cmd.Flags()

	_, err := profile.LoadProfile(profileName)
	if err == nil {
		return fmt.Errorf("profile '%s' already exists; use 'profile update' to modify it", profileName)
	}
	if !errors.Is(err, profile.ErrProfileNotFound) {
		return fmt.Errorf("error checking for existing profile '%s': %w", profileName, err)
	}

	cfg := profile.ProfileConfig{}
	cfg.Driver, _ = flags.GetString("driver")
	cfg.Host, _ = flags.GetString("host")
	cfg.Port, _ = flags.GetInt("port")
	cfg.Username, _ = flags.GetString("username")
	cfg.Password, _ = flags.GetString("password")
	cfg.Database, _ = flags.GetString("database")
	cfg.DSN, _ = flags.GetString("dsn")
	cfg.MaxOpenConns, _ = flags.GetInt("max-open-conns")

	if cfg.Database == "" && cfg.DSN == "" {
		return fmt.Errorf("flag --database (or --dsn) is required to create a profile")
	}

	if err := profile.SaveProfile(profileName, &cfg); err != nil {
		return fmt.Errorf("failed to save profile '%s': %w", profileName, err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Successfully created profile '%s'.\n", profileName)
	if cfg.Password != "" {
		fmt.Fprintln(out, "Warning: Password was saved in plain text in the profile file.")
	}

	return nil
}
