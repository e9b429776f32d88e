package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hoangnguyenba/webapi/pkg/storage"
)

func newImportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import cars, users and subscriptions",
		Long: `Reads a JSON snapshot and adds each collection in its own transaction. Without
--file-name the newest snapshot in storage is used.`,
		Args: cobra.NoArgs,
		RunE: runImport,
	}

	AddConnectionFlags(cmd)
	AddStorageFlags(cmd)
	cmd.Flags().String("file-name", "", "Snapshot key (default: latest snapshot)")
	cmd.Flags().Bool("replace", false, "Remove existing rows of each collection before adding")

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadCommandConfig(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Timeout)
	defer cancel()

	store, err := storage.New(ctx, resolveStorageOptions(cmd, cfg))
	if err != nil {
		return err
	}

	key, _ := cmd.Flags().GetString("file-name")
	if key == "" {
		if key, err = storage.LatestSnapshot(ctx, store); err != nil {
			return fmt.Errorf("failed to find a snapshot: %w", err)
		}
	}

	data, err := store.Download(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to read snapshot %s: %w", key, err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("failed to parse snapshot %s: %w", key, err)
	}

	p, err := openProvider(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer p.Close()

	replace, _ := cmd.Flags().GetBool("replace")
	if err := restoreSnapshot(ctx, p, &snap, replace, logger); err != nil {
		return err
	}

	logger.Info("import complete", "key", key)
	return nil
}
