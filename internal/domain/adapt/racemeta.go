package adapt

import (
	"strings"

	"github.com/okian/formline/internal/domain/model"
	"github.com/okian/formline/internal/domain/normalize"
)

// RaceFacts adapts race metadata tables into typed per-runner facts and
// derives the field size per (track, race) group. Field size counts distinct
// normalized horses, so spelling variants of one runner are not
// double-counted; that is why it must be computed after normalization, and
// across all concatenated tables.
func RaceFacts(tables []model.RawTable) []model.RaceFact {
	var facts []model.RaceFact
	for _, t := range tables {
		facts = append(facts, factsFromTable(t)...)
	}

	type raceGroup struct {
		track string
		race  int
	}
	runners := make(map[raceGroup]map[string]struct{})
	for _, f := range facts {
		if f.TrackKey == "" || f.HorseKey == "" {
			continue
		}
		g := raceGroup{track: f.TrackKey, race: f.RaceNumber}
		if runners[g] == nil {
			runners[g] = make(map[string]struct{})
		}
		runners[g][f.HorseKey] = struct{}{}
	}
	for i := range facts {
		g := raceGroup{track: facts[i].TrackKey, race: facts[i].RaceNumber}
		facts[i].FieldSize = len(runners[g])
	}
	return facts
}

func factsFromTable(t model.RawTable) []model.RaceFact {
	idx := headerIndex(t)

	trackCol := lookup(idx, "racetrack", "track")
	horseCol := lookup(idx, "horsename", "horse name")
	raceCol := lookup(idx, "racenum", "race")
	jockeyCol := lookup(idx, "jockeyname")
	barrierCol := lookup(idx, "barrier", "barriernum")
	prizeCol := lookup(idx, "prizemoney", "prize money")
	oddsCol := lookup(idx, "bestodds", "best odds")

	facts := make([]model.RaceFact, 0, len(t.Rows))
	for i := range t.Rows {
		track := strings.TrimSpace(t.Cell(i, trackCol))
		horse := strings.TrimSpace(t.Cell(i, horseCol))
		facts = append(facts, model.RaceFact{
			Track:      track,
			Horse:      horse,
			TrackKey:   normalize.TrackKey(track),
			HorseKey:   normalize.HorseKey(horse),
			RaceNumber: raceNumber(t.Cell(i, raceCol)),
			Jockey:     strings.TrimSpace(t.Cell(i, jockeyCol)),
			Barrier:    toFloat(t.Cell(i, barrierCol), "barrier"),
			PrizeMoney: toFloat(t.Cell(i, prizeCol), "prize_money"),
			BestOdds:   toFloat(t.Cell(i, oddsCol), "best_odds"),
		})
	}
	return facts
}
