// Package repository defines the dataset snapshot store and errors.
package repository

import (
	"context"
	"time"

	model "github.com/hearlab/audex/internal/domain/model"
)

// Snapshot is one immutable read of the dataset file. Records must not be
// mutated by consumers; every pipeline run receives the same backing slice.
type Snapshot struct {
	Records  []model.AudiogramRecord
	Path     string
	LoadedAt time.Time
	ModTime  time.Time
	Size     int64
}

// Store provides read access to the current dataset snapshot.
type Store interface {
	// Snapshot returns the current snapshot. It never blocks on I/O once
	// the store has started.
	Snapshot(ctx context.Context) (Snapshot, error)

	// Reload re-reads the dataset file if its identity (mtime+size)
	// changed since the last load. Returns true when a new snapshot was
	// installed.
	Reload(ctx context.Context) (bool, error)

	// Count returns the number of records in the current snapshot.
	Count(ctx context.Context) int
}
