package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/hoangnguyenba/webapi/pkg/profile"
)

func newProfileUpdateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <profile-name>",
		Short: "Update an existing connection profile or create it if it doesn't exist",
		Long:  `Modifies an existing profile with the provided flags. If the profile doesn't exist, it will be created.`,
		Args:  cobra.ExactArgs(1),
		RunE:  runProfileUpdate,
	}

	addProfileConfigFlags(cmd)

	return cmd
}

func runProfileUpdate(cmd *cobra.Command, args []string) error {
	profileName := args[0]
	flags := cmd.Flags()
	out := cmd.OutOrStdout()

	cfg, err := profile.LoadProfile(profileName)
	if err != nil {
		if !errors.Is(err, profile.ErrProfileNotFound) {
			return fmt.Errorf("error loading profile '%s': %w", profileName, err)
		}
		fmt.Fprintf(out, "Profile '%s' not found, creating a new one.\n", profileName)
		cfg = &profile.ProfileConfig{}
	}

	// Only fields given on the command line are touched
	flags.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "driver":
			cfg.Driver, _ = flags.GetString("driver")
		case "host":
			cfg.Host, _ = flags.GetString("host")
		case "port":
			cfg.Port, _ = flags.GetInt("port")
		case "username":
			cfg.Username, _ = flags.GetString("username")
		case "password":
			cfg.Password, _ = flags.GetString("password")
		case "database":
			cfg.Database, _ = flags.GetString("database")
		case "dsn":
			cfg.DSN, _ = flags.GetString("dsn")
		case "max-open-conns":
			cfg.MaxOpenConns, _ = flags.GetInt("max-open-conns")
		}
	})

	if err := profile.SaveProfile(profileName, cfg); err != nil {
		return fmt.Errorf("failed to save profile '%s': %w", profileName, err)
	}

	fmt.Fprintf(out, "Successfully updated profile '%s'.\n", profileName)
	if flags.Changed("password") && cfg.Password != "" {
		fmt.Fprintln(out, "Warning: Password was saved in plain text in the profile file.")
	}

	return nil
}
