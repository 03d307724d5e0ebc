// Package site serves the embedded explorer page.
package site

import (
	"context"
	"errors"
	"net/http"
)

// Error constants
var (
	ErrServe = errors.New("explorer page serve failed")
)

// Option adjusts how the site routes are registered.
type Option func(*registration)

type registration struct {
	imageOverride string
}

// WithSampleImage overrides the embedded sample-audiogram illustration
// with a file from disk.
func WithSampleImage(path string) Option {
	return func(r *registration) {
		r.imageOverride = path
	}
}

// Register attaches the embedded explorer page routes to mux.
func Register(_ context.Context, mux *http.ServeMux, opts ...Option) {
	if mux == nil {
		panic("mux is nil")
	}

	var reg registration
	for _, opt := range opts {
		opt(&reg)
	}

	// Serve the embedded explorer page at root /
	files := http.FileServer(FS())
	mux.Handle("/", files)

	// A configured image path shadows the embedded asset; the more
	// specific pattern wins on the mux.
	if reg.imageOverride != "" {
		override := reg.imageOverride
		mux.HandleFunc("/sample_audiogram.svg", func(w http.ResponseWriter, r *http.Request) {
			http.ServeFile(w, r, override)
		})
	}
}
