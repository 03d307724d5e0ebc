package datagen

// Config holds configuration for dataset synthesis
type Config struct {
	NumPatients int    // Number of patient rows to synthesize
	Output      string // Output file path (.csv or .xlsx)
	Seed        string // Optional patient ID prefix
}

// Severity categories, ordered from best to worst hearing.
var Categories = []string{"Normal", "Mild", "Moderate", "Severe"}

// Hearing-loss etiologies assigned per ear.
var HLTypes = []string{"Conductive", "Sensorineural", "Mixed"}

// pTABand is the pure-tone-average band for one severity category.
type ptaBand struct {
	min, max float64
}

// Clinical severity bands in dB HL.
var ptaBands = map[string]ptaBand{
	"Normal":   {0, 20},
	"Mild":     {20, 40},
	"Moderate": {40, 70},
	"Severe":   {70, 95},
}
