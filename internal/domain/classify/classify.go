// Package classify assigns uploaded tables to one of the known source
// schemas by sniffing their column sets.
package classify

import (
	"fmt"
	"strings"

	"github.com/okian/formline/internal/domain/model"
	"github.com/okian/formline/pkg/metrics"
)

// Column signatures, matched case-insensitively on trimmed header names.
const (
	colFirstSelection = "first selection name"
	colTipWebsite     = "tip website"
	colRaceTrack      = "racetrack"
	colJockeyName     = "jockeyname"
	colBSP            = "bsp"
	colWinLose        = "win_lose"
)

// Classify inspects a table's columns (and filename, for the price sub-kind)
// and returns its SourceKind. The decision rules are checked in order; a
// table matching none of them fails with ErrUnrecognizedSchema carrying the
// offending filename.
func Classify(t model.RawTable) (model.SourceKind, error) {
	cols := make(map[string]struct{}, len(t.Columns))
	for _, c := range t.Columns {
		cols[strings.ToLower(strings.TrimSpace(c))] = struct{}{}
	}

	has := func(name string) bool {
		_, ok := cols[name]
		return ok
	}

	switch {
	case has(colFirstSelection) || has(colTipWebsite):
		return model.KindTips, nil
	case has(colRaceTrack) && has(colJockeyName):
		return model.KindRaceMetadata, nil
	case has(colBSP) && has(colWinLose):
		// Exchange exports name the market in the file, not the columns.
		if strings.Contains(strings.ToLower(t.Filename), "place") {
			return model.KindPlacePrices, nil
		}
		return model.KindWinPrices, nil
	default:
		return model.KindUnknown, fmt.Errorf("%q: %w", t.Filename, ErrUnrecognizedSchema)
	}
}

// Batch groups classified tables by kind, preserving upload order within each
// kind. Tables of the same kind are concatenated row-wise by the adapters.
type Batch struct {
	Tips         []model.RawTable
	RaceMetadata []model.RawTable
	Prices       []model.RawTable

	// PlaceMarket is set when any price file was classified as a place
	// market export; it flags the whole batch, mirroring how exchange
	// exports are produced per market.
	PlaceMarket bool
}

// Partition classifies every table and groups them into a Batch. Any
// unrecognized table rejects the whole upload: a partially processed batch
// would silently skew the analysis.
func Partition(tables []model.RawTable) (Batch, error) {
	var b Batch
	for _, t := range tables {
		kind, err := Classify(t)
		if err != nil {
			metrics.RecordClassifyError()
			return Batch{}, err
		}
		metrics.RecordFileClassified(kind.String())
		switch kind {
		case model.KindTips:
			b.Tips = append(b.Tips, t)
		case model.KindRaceMetadata:
			b.RaceMetadata = append(b.RaceMetadata, t)
		case model.KindWinPrices:
			b.Prices = append(b.Prices, t)
		case model.KindPlacePrices:
			b.Prices = append(b.Prices, t)
			b.PlaceMarket = true
		}
	}
	if len(b.Tips) == 0 {
		return Batch{}, ErrMissingTipsSource
	}
	return b, nil
}
