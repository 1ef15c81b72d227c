package sampledata

import "time"

// Config holds configuration for sample data generation.
type Config struct {
	Races     int       // Number of races to fabricate
	Runners   int       // Runners per race
	WinRate   float64   // Fraction of tipped runners that win
	StartDate time.Time // Date of the first race day
	Days      int       // Number of race days to spread races over
	Seed      int64     // Seed for the deterministic generator
	OutDir    string    // Directory for generated CSV files
	PostURL   string    // When set, post the batch to this service instead
	Timeout   time.Duration
}

// Batch is one generated triple of linkable CSV exports.
type Batch struct {
	Tips     []byte
	RaceMeta []byte
	Prices   []byte
}

// Files returns the batch as named upload pairs.
func (b Batch) Files() map[string][]byte {
	return map[string][]byte{
		"tips.csv":             b.Tips,
		"form.csv":             b.RaceMeta,
		"dwbfpricesauswin.csv": b.Prices,
	}
}
