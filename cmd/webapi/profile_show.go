package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/hoangnguyenba/webapi/pkg/profile"
)

func newProfileShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <profile-name>",
		Short: "Show the settings of a specific profile",
		Long:  `Loads and displays the contents of the specified profile in YAML format. The password is masked unless --show-password is given.`,
		Args:  cobra.ExactArgs(1),
		RunE:  runProfileShow,
	}
	cmd.Flags().Bool("show-password", false, "Print the stored password")
	return cmd
}

func runProfileShow(cmd *cobra.Command, args []string) error {
	profileName := args[0]

	cfg, err := profile.LoadProfile(profileName)
	if err != nil {
		return fmt.Errorf("failed to load profile '%s': %w", profileName, err)
	}

	if show, _ := cmd.Flags().GetBool("show-password"); !show && cfg.Password != "" {
		cfg.Password = "xxxxx"
	}

	yamlData, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal profile '%s' to YAML: %w", profileName, err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "--- Profile: %s ---\n", profileName)
	fmt.Fprintln(out, string(yamlData))

	return nil
}
