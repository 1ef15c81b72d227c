// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"time"
)

// SourceKind tags a classified upload with the schema family it belongs to.
type SourceKind int

// Known source kinds. KindUnknown is the zero value and never assigned by the
// classifier on success.
const (
	KindUnknown SourceKind = iota
	KindTips
	KindRaceMetadata
	KindWinPrices
	KindPlacePrices
)

// String returns a stable lower-case label, used in logs and metrics.
func (k SourceKind) String() string {
	switch k {
	case KindTips:
		return "tips"
	case KindRaceMetadata:
		return "race_metadata"
	case KindWinPrices:
		return "win_prices"
	case KindPlacePrices:
		return "place_prices"
	default:
		return "unknown"
	}
}

// IsPrices reports whether the kind is one of the exchange price families.
func (k SourceKind) IsPrices() bool {
	return k == KindWinPrices || k == KindPlacePrices
}

// RawTable holds an uploaded file's parsed tabular content. It is ephemeral:
// adapters consume it and it is discarded after adaptation.
type RawTable struct {
	Filename string
	Columns  []string
	Rows     [][]string
}

// Cell returns the value at row i under the given column index, or "" when
// the row is shorter than the header.
func (t RawTable) Cell(i, col int) string {
	if col < 0 || i < 0 || i >= len(t.Rows) {
		return ""
	}
	row := t.Rows[i]
	if col >= len(row) {
		return ""
	}
	return row[col]
}

// RaceNumberMissing is the sentinel for an unextractable race number. Rows
// carrying it are unjoinable but still retained for audit.
const RaceNumberMissing = 0

// TipRecord is one tipster's pick of one horse for one race, produced by the
// wide-to-long reshape of a tips upload. Never mutated after creation.
type TipRecord struct {
	Tipster    string
	Date       time.Time // normalized to midnight UTC
	Track      string    // raw source spelling
	Horse      string    // raw source spelling
	TrackKey   string
	HorseKey   string
	RaceNumber int // RaceNumberMissing when no digits were found
	Selection  int // 1-based selection position within the tip row
}

// Joinable reports whether the record carries every field the linkage engine
// needs for an exact-key join.
func (r TipRecord) Joinable() bool {
	return !r.Date.IsZero() && r.TrackKey != "" && r.HorseKey != "" && r.RaceNumber != RaceNumberMissing
}

// RaceFact is per-runner race metadata. FieldSize is derived after
// normalization, not supplied by the source.
type RaceFact struct {
	Track      string
	Horse      string
	TrackKey   string
	HorseKey   string
	RaceNumber int
	Jockey     string
	Barrier    *float64
	PrizeMoney *float64
	BestOdds   *float64
	FieldSize  int
}

// PriceTick is a single runner's market pricing record from one exchange file.
type PriceTick struct {
	Date       time.Time // normalized to midnight UTC
	Track      string
	Horse      string
	TrackKey   string
	HorseKey   string
	RaceNumber int
	BSP        *float64
	MorningWAP *float64
	Volume     *float64
	WinLose    int // settled flag; missing source values coerce to 0 (loss)
}

// LinkedBet is the joined output row: one tip enriched with whatever race
// metadata and price data could be matched, plus the derived profit.
type LinkedBet struct {
	Date       time.Time `json:"date"`
	Tipster    string    `json:"tipster"`
	Track      string    `json:"track"`
	Horse      string    `json:"horse"`
	TrackKey   string    `json:"-"`
	HorseKey   string    `json:"-"`
	RaceNumber int       `json:"race_number"`
	Selection  int       `json:"selection"`
	BSP        *float64  `json:"bsp"`
	MorningWAP *float64  `json:"morningwap"`
	WinLose    int       `json:"win_lose"`
	Profit     float64   `json:"profit"`
	BestOdds   *float64  `json:"best_odds"`
	FieldSize  *int      `json:"field_size"`
	UploadedAt time.Time `json:"upload_timestamp"`
}

// NaturalKey identifies a bet for history reconciliation:
// (date, tipster, track, horse, race_number). Re-uploads of the same bet
// collapse onto this key, last one winning.
func (b LinkedBet) NaturalKey() string {
	return fmt.Sprintf("%s|%s|%s|%s|%d",
		b.Date.Format("2006-01-02"), b.Tipster, b.Track, b.Horse, b.RaceNumber)
}

// Float returns a pointer to v. Convenience for optional numeric fields.
func Float(v float64) *float64 { return &v }

// IntPtr returns a pointer to v.
func IntPtr(v int) *int { return &v }
