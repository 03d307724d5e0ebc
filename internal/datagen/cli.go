package datagen

import (
	"fmt"
	"os"

	"github.com/hearlab/audex/pkg/logger"
)

// SetupLogging initializes structured logging for the CLI.
func SetupLogging() error {
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

// ShowHelp prints usage information for the dataset generator.
func ShowHelp() {
	os.Stdout.WriteString(`Audex Dataset Generator
=======================

Synthesizes a structured audiogram dataset with severity-correlated
thresholds, ready for the explorer service to load.

Usage:
  go run cmd/audex-gen/main.go [options]

Options:
  -patients int
        Number of patient rows to synthesize (default 50)
  -output string
        Output file, .csv or .xlsx (default "audiogram_df.csv")
  -prefix string
        Patient ID prefix (default "P")
  -help
        Show this help message

Examples:
  # Generate the default demo dataset
  go run cmd/audex-gen/main.go

  # Generate a larger workbook
  go run cmd/audex-gen/main.go -patients 500 -output audiograms.xlsx
`)
}
