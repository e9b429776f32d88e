package storage

import (
	"context"
	"errors"
	"strings"
	"time"
)

const (
	SnapshotPrefix    = "webapi-snapshot-"
	SnapshotExtension = ".json"

	snapshotTimeLayout = "20060102T150405Z"
)

var ErrNoSnapshot = errors.New("no snapshot found")

// SnapshotKey names a snapshot taken at t. Names sort in time order.
func SnapshotKey(t time.Time) string {
	return SnapshotPrefix + t.UTC().Format(snapshotTimeLayout) + SnapshotExtension
}

// IsSnapshotKey reports whether key was produced by SnapshotKey.
func IsSnapshotKey(key string) bool {
	if !strings.HasPrefix(key, SnapshotPrefix) || !strings.HasSuffix(key, SnapshotExtension) {
		return false
	}
	stamp := strings.TrimSuffix(strings.TrimPrefix(key, SnapshotPrefix), SnapshotExtension)
	_, err := time.Parse(snapshotTimeLayout, stamp)
	return err == nil
}

// LatestSnapshot returns the newest snapshot key in s.
func LatestSnapshot(ctx context.Context, s Storage) (string, error) {
	keys, err := s.ListObjects(ctx, SnapshotPrefix)
	if err != nil {
		return "", err
	}

	var latest string
	for _, key := range keys {
		if IsSnapshotKey(key) && key > latest {
			latest = key
		}
	}
	if latest == "" {
		return "", ErrNoSnapshot
	}
	return latest, nil
}
