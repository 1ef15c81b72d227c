package adapt

import (
	"strings"

	"github.com/okian/formline/internal/domain/model"
	"github.com/okian/formline/internal/domain/normalize"
)

// selectionColumns enumerates the wide-format column group for each 1-based
// selection position. The explicit list keeps the reshape declarative
// instead of pattern-matching headers per row.
var selectionColumns = []struct {
	position int
	column   string
}{
	{1, "first selection name"},
	{2, "second selection name"},
	{3, "third selection name"},
	{4, "fourth selection name"},
}

// selectionGroup is a resolved column group: position plus column index
// within one table.
type selectionGroup struct {
	position int
	col      int
}

// Tips reshapes tips tables into long-format tip records: one record per
// non-empty selection slot, tagged with its selection position. Tables are
// concatenated row-wise in upload order.
func Tips(tables []model.RawTable) []model.TipRecord {
	var out []model.TipRecord
	for _, t := range tables {
		out = append(out, tipsFromTable(t)...)
	}
	return out
}

func tipsFromTable(t model.RawTable) []model.TipRecord {
	idx := headerIndex(t)

	tipsterCol := lookup(idx, "tip website", "tipster")
	dateCol := lookup(idx, "scrape date", "date")
	trackCol := lookup(idx, "track")
	raceCol := lookup(idx, "race", "race number", "racenum")

	// Build the wide-to-long column groups once from the header set.
	groups := make([]selectionGroup, 0, len(selectionColumns))
	for _, g := range selectionColumns {
		if col, ok := idx[g.column]; ok {
			groups = append(groups, selectionGroup{position: g.position, col: col})
		}
	}
	if len(groups) == 0 {
		// Long-format exports carry a single horse column already.
		if col, ok := idx["horse name"]; ok {
			groups = append(groups, selectionGroup{position: 1, col: col})
		}
	}

	records := make([]model.TipRecord, 0, len(t.Rows))
	for i := range t.Rows {
		date := toDate(t.Cell(i, dateCol), false)
		track := strings.TrimSpace(t.Cell(i, trackCol))
		race := raceNumber(t.Cell(i, raceCol))
		tipster := strings.TrimSpace(t.Cell(i, tipsterCol))

		for _, g := range groups {
			horse := strings.TrimSpace(t.Cell(i, g.col))
			if horse == "" {
				// Empty selection slots produce no record.
				continue
			}
			records = append(records, model.TipRecord{
				Tipster:    tipster,
				Date:       date,
				Track:      track,
				Horse:      horse,
				TrackKey:   normalize.TrackKey(track),
				HorseKey:   normalize.HorseKey(horse),
				RaceNumber: race,
				Selection:  g.position,
			})
		}
	}
	return records
}
