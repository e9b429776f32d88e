package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hoangnguyenba/webapi/pkg/db"
	"github.com/hoangnguyenba/webapi/pkg/entity"
)

// Snapshot is the JSON document written by export and read by import.
type Snapshot struct {
	Metadata struct {
		ExportedAt time.Time      `json:"exported_at"`
		Driver     string         `json:"driver"`
		Database   string         `json:"database,omitempty"`
		Counts     map[string]int `json:"counts"`
	} `json:"metadata"`
	Cars          []entity.Car          `json:"cars"`
	Users         []entity.User         `json:"users"`
	Subscriptions []entity.Subscription `json:"subscriptions"`
}

// takeSnapshot reads every car, user and subscription. Passwords are included so the
// snapshot can be restored.
func takeSnapshot(ctx context.Context, p *db.Provider, database string, now time.Time) (*Snapshot, error) {
	snap := &Snapshot{}
	snap.Metadata.ExportedAt = now.UTC()
	snap.Metadata.Driver = p.Conn.Config.Driver
	snap.Metadata.Database = database

	var err error
	if snap.Cars, err = p.Cars.Get(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", p.Cars.Name(), err)
	}
	if snap.Users, err = p.Users.Get(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", p.Users.Name(), err)
	}
	if snap.Subscriptions, err = p.Subscriptions.Get(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", p.Subscriptions.Name(), err)
	}

	snap.Metadata.Counts = map[string]int{
		p.Cars.Name():          len(snap.Cars),
		p.Users.Name():         len(snap.Users),
		p.Subscriptions.Name(): len(snap.Subscriptions),
	}
	return snap, nil
}

// restoreSnapshot adds each entity list in its own transaction. Identifiers are assigned
// by the target database. With replace, the existing rows of a type are deleted in the same
// transaction that adds the snapshot rows, so a failed import leaves that table untouched.
func restoreSnapshot(ctx context.Context, p *db.Provider, snap *Snapshot, replace bool, logger *slog.Logger) error {
	if err := restore(ctx, p.Cars, snap.Cars, replace, logger); err != nil {
		return err
	}
	if err := restore(ctx, p.Users, snap.Users, replace, logger); err != nil {
		return err
	}
	return restore(ctx, p.Subscriptions, snap.Subscriptions, replace, logger)
}

func restore[T any](ctx context.Context, c *db.Collection[T], items []T, replace bool, logger *slog.Logger) error {
	var out db.Outcome
	if replace {
		out = c.Replace(ctx, items)
	} else {
		out = c.Add(ctx, items)
	}
	if !out.OK() {
		return fmt.Errorf("failed to import %s: %s", c.Name(), out.Code)
	}
	logger.Info("imported table", "table", c.Name(), "rows", len(out.IDs), "replace", replace)
	return nil
}
