// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Keep fields unexported where possible and use functional options.
// - Provide New(...Option) initializer to build a Config with defaults.
// - All future functions must accept context.Context as the first parameter.
// - External errors must be wrapped via this package's error helpers.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DatasetPath points at the externally-owned audiogram file
	// (CSV or XLSX).
	DatasetPath string `koanf:"dataset_path"`

	// DatasetImage optionally overrides the embedded sample-audiogram
	// illustration on the explorer page with a file from disk.
	DatasetImage string `koanf:"dataset_image"`

	// RadarScale selects the radial axis preset: "clinical" (0-110 dB HL)
	// or "demo" (10-60 dB HL).
	RadarScale string `koanf:"radar_scale"`

	// RefreshIntervalSec controls how often the snapshot cache re-checks
	// the dataset file for changes. 0 disables background refresh.
	RefreshIntervalSec int `koanf:"refresh_interval_sec"`

	// MaxTableRows caps the rows returned by the records endpoint.
	MaxTableRows int `koanf:"max_table_rows"`

	// LoadRetryMaxSec bounds the startup retry window while waiting for
	// the dataset file to appear.
	LoadRetryMaxSec int `koanf:"load_retry_max_sec"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		Addr:               ":9080",
		DatasetPath:        "audiogram_df.csv",
		RadarScale:         "clinical",
		RefreshIntervalSec: 30,
		MaxTableRows:       1_000,
		LoadRetryMaxSec:    30,
	}
}
