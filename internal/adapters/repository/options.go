// Package repository defines the dataset snapshot store and errors.
package repository

import "time"

// Option applies a configuration option to the FileStore.
type Option func(*FileStore)

// WithRefreshInterval sets the interval for background file-change checks.
// Zero disables the background loop.
func WithRefreshInterval(interval time.Duration) Option {
	return func(s *FileStore) {
		if interval >= 0 {
			s.refreshInterval = interval
		}
	}
}

// WithRetryWindow bounds how long the initial load retries while the
// externally-owned dataset file is still being written.
func WithRetryWindow(window time.Duration) Option {
	return func(s *FileStore) {
		if window > 0 {
			s.retryWindow = window
		}
	}
}
