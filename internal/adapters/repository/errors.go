package repository

import "errors"

// Sentinel kinds for snapshot store errors.
var (
	ErrNotLoaded = errors.New("dataset not loaded")
	ErrClosed    = errors.New("store closed")
)
