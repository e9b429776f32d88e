package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hoangnguyenba/webapi/pkg/storage"
)

func newExportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export cars, users and subscriptions",
		Long:  `Writes a JSON snapshot of every collection to local disk or S3.`,
		Args:  cobra.NoArgs,
		RunE:  runExport,
	}

	AddConnectionFlags(cmd)
	AddStorageFlags(cmd)
	cmd.Flags().String("file-name", "", "Snapshot key (default: timestamped name)")

	return cmd
}

func runExport(cmd *cobra.Command, args []string) error {
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

	p, err := openProvider(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer p.Close()

	now := time.Now()
	snap, err := takeSnapshot(ctx, p, cfg.Database, now)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	key, _ := cmd.Flags().GetString("file-name")
	if key == "" {
		key = storage.SnapshotKey(now)
	}
	if err := store.Upload(ctx, data, key); err != nil {
		return fmt.Errorf("failed to store snapshot %s: %w", key, err)
	}

	logger.Info("export complete", "key", key, "counts", snap.Metadata.Counts)
	fmt.Fprintln(cmd.OutOrStdout(), key)
	return nil
}
