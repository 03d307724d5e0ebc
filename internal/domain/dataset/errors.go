package dataset

import (
	"errors"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	// ErrNotFound means the dataset file does not exist.
	ErrNotFound = errors.New("dataset file not found")
	// ErrSchema means the file was readable but does not match the
	// audiogram column schema.
	ErrSchema = errors.New("dataset schema mismatch")
)
