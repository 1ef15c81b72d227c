package adapt

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/okian/formline/internal/domain/model"
	"github.com/okian/formline/internal/domain/normalize"
)

// eventRaceRe matches the leading "R4"-style race tag in exchange event
// names.
var eventRaceRe = regexp.MustCompile(`^\s*[Rr](\d+)\b`)

// eventRaceNumber extracts a race number from an exchange event name. The
// leading R-tag wins; otherwise the generic first-digit-run extraction
// applies (covers "Race 4" style labels).
func eventRaceNumber(s string) int {
	if m := eventRaceRe.FindStringSubmatch(s); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			return n
		}
	}
	return raceNumber(s)
}

// trackFromMenuHint derives the track from a composite menu hint such as
// "Ballarat (AUS) 1st May" by splitting on the first parenthesis.
func trackFromMenuHint(hint string) string {
	track, _, _ := strings.Cut(hint, " (")
	return strings.TrimSpace(track)
}

// PriceTicks adapts exchange price tables into typed ticks. The win/lose
// settlement flag coerces missing values to 0 (loss): an unsettled runner is
// scored as a losing bet by design, keeping ROI denominators consistent.
func PriceTicks(tables []model.RawTable) []model.PriceTick {
	var ticks []model.PriceTick
	for _, t := range tables {
		ticks = append(ticks, ticksFromTable(t)...)
	}
	return ticks
}

func ticksFromTable(t model.RawTable) []model.PriceTick {
	idx := headerIndex(t)

	dateCol := lookup(idx, "event_dt", "date")
	hintCol := lookup(idx, "menu_hint")
	horseCol := lookup(idx, "selection_name", "horse name")
	eventCol := lookup(idx, "event_name")
	bspCol := lookup(idx, "bsp")
	wapCol := lookup(idx, "morningwap")
	volCol := lookup(idx, "totaltradedvol", "volume")
	winCol := lookup(idx, "win_lose")

	ticks := make([]model.PriceTick, 0, len(t.Rows))
	for i := range t.Rows {
		track := trackFromMenuHint(t.Cell(i, hintCol))
		horse := strings.TrimSpace(t.Cell(i, horseCol))

		winLose := 0
		if v := toFloat(t.Cell(i, winCol), "win_lose"); v != nil && *v == 1 {
			winLose = 1
		}

		ticks = append(ticks, model.PriceTick{
			Date:       toDate(t.Cell(i, dateCol), true),
			Track:      track,
			Horse:      horse,
			TrackKey:   normalize.TrackKey(track),
			HorseKey:   normalize.HorseKey(horse),
			RaceNumber: eventRaceNumber(t.Cell(i, eventCol)),
			BSP:        toFloat(t.Cell(i, bspCol), "bsp"),
			MorningWAP: toFloat(t.Cell(i, wapCol), "morningwap"),
			Volume:     toFloat(t.Cell(i, volCol), "volume"),
			WinLose:    winLose,
		})
	}
	return ticks
}
