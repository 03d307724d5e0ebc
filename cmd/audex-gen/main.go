package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/hearlab/audex/internal/datagen"
)

// Default configuration constants.
const (
	defaultNumPatients = 50
	defaultOutput      = "audiogram_df.csv"
	defaultTimeout     = time.Minute
)

func main() {
	var (
		numPatients = flag.Int("patients", defaultNumPatients, "Number of patient rows to synthesize")
		output      = flag.String("output", defaultOutput, "Output file (.csv or .xlsx)")
		prefix      = flag.String("prefix", "P", "Patient ID prefix")
		help        = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		datagen.ShowHelp()
		return
	}

	if err := datagen.SetupLogging(); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	config := &datagen.Config{
		NumPatients: *numPatients,
		Output:      *output,
		Seed:        *prefix,
	}

	records, err := datagen.Generate(ctx, config)
	if err != nil {
		os.Stderr.WriteString("Generation failed: " + err.Error() + "\n")
		os.Exit(1)
	}
	if err := datagen.Write(ctx, config.Output, records); err != nil {
		os.Stderr.WriteString("Write failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
