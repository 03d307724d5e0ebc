// Package datagen synthesizes structured audiogram datasets for demos and
// load testing. Thresholds are correlated with the severity category so the
// generated rows look clinically plausible: speech thresholds track the
// pure-tone average and word recognition degrades as thresholds rise.
package datagen

import (
	"context"
	"crypto/rand"
	"fmt"
	"math"
	"math/big"
	"strings"

	"github.com/google/uuid"

	model "github.com/hearlab/audex/internal/domain/model"
	"github.com/hearlab/audex/pkg/logger"
)

// Constants for random number generation.
const (
	randomFloatDivisor = 1000000
)

// Threshold derivation constants, in dB HL unless noted.
const (
	earSpreadMax   = 10.0 // max asymmetry between ears
	srtJitter      = 6.0  // SRT tracks PTA within this window
	sdtOffset      = 8.0  // SDT sits below SRT by roughly this much
	wrsBase        = 100.0
	wrsSlope       = 0.65 // WRS percent lost per dB of PTA
	wrsJitter      = 8.0
	audiometryStep = 5.0 // clinical audiometers step in 5 dB increments
)

// getRandomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func getRandomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

// pick returns a uniformly random element of items.
func pick(items []string) string {
	n, _ := rand.Int(rand.Reader, big.NewInt(int64(len(items))))
	return items[n.Int64()]
}

// Generate synthesizes the configured number of audiogram records.
func Generate(ctx context.Context, config *Config) ([]model.AudiogramRecord, error) {
	if config.NumPatients <= 0 {
		return nil, fmt.Errorf("invalid patient count: %d", config.NumPatients)
	}
	logger.Get().Info(ctx, "synthesizing audiogram records",
		logger.Int("patients", config.NumPatients))

	records := make([]model.AudiogramRecord, config.NumPatients)
	for i := range records {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("context cancelled during synthesis: %w", ctx.Err())
		default:
		}
		records[i] = generateSingleRecord(config.Seed)
	}
	return records, nil
}

// generateSingleRecord creates one patient row. The category is drawn
// first and every threshold derives from its band.
func generateSingleRecord(prefix string) model.AudiogramRecord {
	category := pick(Categories)
	band := ptaBands[category]

	ptaRight := snap(band.min + getRandomFloat()*(band.max-band.min))
	ptaLeft := clampToBand(snap(ptaRight+(getRandomFloat()*2-1)*earSpreadMax), band)

	rec := model.AudiogramRecord{
		PatientID:   patientID(prefix),
		Category:    category,
		HLTypeRight: pick(HLTypes),
		HLTypeLeft:  pick(HLTypes),
		PTARight:    ptaRight,
		PTALeft:     ptaLeft,
		SRTRight:    snap(ptaRight + (getRandomFloat()*2-1)*srtJitter),
		SRTLeft:     snap(ptaLeft + (getRandomFloat()*2-1)*srtJitter),
	}
	rec.SDTRight = snap(math.Max(0, rec.SRTRight-sdtOffset+getRandomFloat()*4))
	rec.SDTLeft = snap(math.Max(0, rec.SRTLeft-sdtOffset+getRandomFloat()*4))
	rec.WRSRight = wrs(ptaRight)
	rec.WRSLeft = wrs(ptaLeft)
	return rec
}

// patientID builds a short unique patient identifier.
func patientID(prefix string) string {
	if prefix == "" {
		prefix = "P"
	}
	id := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))
	return prefix + "-" + id[:8]
}

// snap rounds a threshold to the nearest audiometric step and keeps it
// non-negative.
func snap(v float64) float64 {
	return math.Max(0, math.Round(v/audiometryStep)*audiometryStep)
}

func clampToBand(v float64, band ptaBand) float64 {
	return math.Min(math.Max(v, band.min), band.max)
}

// wrs derives a word recognition score from the pure-tone average:
// the higher the thresholds, the fewer words recognized.
func wrs(pta float64) float64 {
	score := wrsBase - pta*wrsSlope + (getRandomFloat()*2-1)*wrsJitter
	return math.Round(math.Min(100, math.Max(0, score)))
}
