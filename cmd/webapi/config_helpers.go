package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/hoangnguyenba/webapi/pkg/config"
	"github.com/hoangnguyenba/webapi/pkg/db"
	"github.com/hoangnguyenba/webapi/pkg/profile"
	"github.com/hoangnguyenba/webapi/pkg/storage"
)

// Helper function to determine the final string value based on priority
func resolveStringValue(cmd *cobra.Command, flagName string, envValue string, profileValue string, defaultValue string) string {
	if cmd.Flags().Changed(flagName) {
		val, _ := cmd.Flags().GetString(flagName)
		return val // Flag has highest priority
	}
	if envValue != "" && envValue != defaultValue {
		return envValue
	}
	if profileValue != "" {
		return profileValue
	}
	return defaultValue
}

// Helper function to determine the final int value based on priority
func resolveIntValue(cmd *cobra.Command, flagName string, envValue int, profileValue int, defaultValue int) int {
	if cmd.Flags().Changed(flagName) {
		val, _ := cmd.Flags().GetInt(flagName)
		return val // Flag has highest priority
	}
	if envValue != 0 && envValue != defaultValue {
		return envValue
	}
	// Zero means unset in a profile
	if profileValue != 0 {
		return profileValue
	}
	return defaultValue
}

// populateConnectionFromFlagsAndConfig returns a copy of cfg whose connection settings are
// resolved with the priority Flag > Env Var > Profile > Default.
func populateConnectionFromFlagsAndConfig(cmd *cobra.Command, cfg *config.Config, profileName string) (*config.Config, error) {
	var loadedProfile profile.ProfileConfig
	if profileName != "" {
		p, err := profile.LoadProfile(profileName)
		if err != nil {
			return nil, fmt.Errorf("failed to load profile '%s': %w", profileName, err)
		}
		loadedProfile = *p
	}

	out := *cfg
	out.Driver = resolveStringValue(cmd, "driver", cfg.Driver, loadedProfile.Driver, db.DriverPostgres)
	out.Host = resolveStringValue(cmd, "host", cfg.Host, loadedProfile.Host, "localhost")
	out.Port = resolveIntValue(cmd, "port", cfg.Port, loadedProfile.Port, 0)
	out.Username = resolveStringValue(cmd, "username", cfg.Username, loadedProfile.Username, "")
	out.Password = resolveStringValue(cmd, "password", cfg.Password, loadedProfile.Password, "")
	out.Database = resolveStringValue(cmd, "database", cfg.Database, loadedProfile.Database, "")
	out.DSN = resolveStringValue(cmd, "dsn", cfg.DSN, loadedProfile.DSN, "")
	out.MaxOpenConns = resolveIntValue(cmd, "max-open-conns", cfg.MaxOpenConns, loadedProfile.MaxOpenConns, 25)

	return &out, nil
}

// resolveStorageOptions reads the storage flags, falling back to the environment. Storage
// settings are not part of profiles.
func resolveStorageOptions(cmd *cobra.Command, cfg *config.Config) storage.Options {
	return storage.Options{
		Type:     resolveStringValue(cmd, "storage", cfg.Storage, "", storage.TypeLocal),
		Path:     resolveStringValue(cmd, "path", cfg.Path, "", ""),
		S3Bucket: resolveStringValue(cmd, "s3-bucket", cfg.S3Bucket, "", ""),
		S3Region: resolveStringValue(cmd, "s3-region", cfg.S3Region, "", ""),
	}
}

// loadCommandConfig loads .env and environment settings, applies flags and the selected
// profile, validates the result and builds the logger.
func loadCommandConfig(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	envCfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	profileName, _ := cmd.Flags().GetString("profile")
	cfg, err := populateConnectionFromFlagsAndConfig(cmd, envCfg, profileName)
	if err != nil {
		return nil, nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := cfg.NewLogger(os.Stderr)
	if err != nil {
		return nil, nil, err
	}
	if profileName != "" {
		logger.Info("loaded profile", "profile", profileName)
	}
	return cfg, logger, nil
}

// openProvider connects to the database and builds the collections.
func openProvider(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*db.Provider, error) {
	cc := cfg.ConnectionConfig()
	conn, err := db.NewConnection(ctx, cc, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", db.RedactedDSN(cc), err)
	}

	p, err := db.NewProvider(ctx, conn, logger)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return p, nil
}
