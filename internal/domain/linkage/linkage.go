// Package linkage joins adapted tips, race facts, and price ticks into the
// row-per-bet output table. The join is pure and deterministic: exact keys
// for race facts, nearest-time within a bounded tolerance for prices.
package linkage

import (
	"sort"
	"time"

	"github.com/okian/formline/internal/domain/model"
	"github.com/okian/formline/pkg/metrics"
)

// defaultTolerance bounds the nearest-time price match to one calendar day.
const defaultTolerance = 24 * time.Hour

// joinKey identifies a runner's participation in a race. Date is excluded:
// race facts join date-free, and price ticks resolve dates via the
// nearest-time scan within a partition.
type joinKey struct {
	track string
	horse string
	race  int
}

// Linker performs the three-way join.
type Linker struct {
	tolerance time.Duration
}

// New constructs a Linker with default configuration.
func New(opts ...Option) *Linker {
	l := &Linker{tolerance: defaultTolerance}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Link produces one LinkedBet per joinable tip. Tips missing any of
// {date, track, horse, race} are excluded from the output; missing race
// facts or price ticks leave the corresponding fields missing, never an
// error. Output is ordered by tip date, then input order.
func (l *Linker) Link(tips []model.TipRecord, facts []model.RaceFact, ticks []model.PriceTick) []model.LinkedBet {
	joinable := make([]model.TipRecord, 0, len(tips))
	for _, tip := range tips {
		if tip.Joinable() {
			joinable = append(joinable, tip)
		}
	}
	sort.SliceStable(joinable, func(i, j int) bool {
		return joinable[i].Date.Before(joinable[j].Date)
	})

	factIdx := indexFacts(facts)
	tickIdx := partitionTicks(ticks)

	bets := make([]model.LinkedBet, 0, len(joinable))
	for _, tip := range joinable {
		key := joinKey{track: tip.TrackKey, horse: tip.HorseKey, race: tip.RaceNumber}

		bet := model.LinkedBet{
			Date:       tip.Date,
			Tipster:    tip.Tipster,
			Track:      tip.Track,
			Horse:      tip.Horse,
			TrackKey:   tip.TrackKey,
			HorseKey:   tip.HorseKey,
			RaceNumber: tip.RaceNumber,
			Selection:  tip.Selection,
		}

		if fact, ok := factIdx[key]; ok {
			bet.BestOdds = fact.BestOdds
			bet.FieldSize = model.IntPtr(fact.FieldSize)
		}

		if tick, ok := l.nearest(tickIdx[key], tip.Date); ok {
			bet.BSP = tick.BSP
			bet.MorningWAP = tick.MorningWAP
			bet.WinLose = tick.WinLose
			metrics.RecordPriceMatch()
		} else {
			metrics.RecordPriceMiss()
		}

		bet.Profit = profit(bet.WinLose, bet.BSP)
		bets = append(bets, bet)
	}
	return bets
}

// indexFacts builds the exact-key fact lookup. Later rows overwrite earlier
// ones, so duplicate keys from concatenated files deterministically resolve
// to the most recently loaded row.
func indexFacts(facts []model.RaceFact) map[joinKey]model.RaceFact {
	idx := make(map[joinKey]model.RaceFact, len(facts))
	for _, f := range facts {
		if f.TrackKey == "" || f.HorseKey == "" || f.RaceNumber == model.RaceNumberMissing {
			continue
		}
		idx[joinKey{track: f.TrackKey, horse: f.HorseKey, race: f.RaceNumber}] = f
	}
	return idx
}

// partitionTicks groups price ticks by join key and sorts each partition by
// date ascending, so the nearest scan is deterministic and distance ties
// break toward the earlier-dated row.
func partitionTicks(ticks []model.PriceTick) map[joinKey][]model.PriceTick {
	idx := make(map[joinKey][]model.PriceTick)
	for _, tk := range ticks {
		if tk.Date.IsZero() || tk.TrackKey == "" || tk.HorseKey == "" {
			continue
		}
		key := joinKey{track: tk.TrackKey, horse: tk.HorseKey, race: tk.RaceNumber}
		idx[key] = append(idx[key], tk)
	}
	for key := range idx {
		part := idx[key]
		sort.SliceStable(part, func(i, j int) bool {
			return part[i].Date.Before(part[j].Date)
		})
	}
	return idx
}

// nearest selects the partition row whose date is closest to the tip date,
// accepting it only within the configured tolerance. The partition must be
// date-sorted; the strict comparison keeps the earlier row on equal
// distance.
func (l *Linker) nearest(part []model.PriceTick, date time.Time) (model.PriceTick, bool) {
	var best model.PriceTick
	bestDiff := time.Duration(-1)
	for _, tk := range part {
		diff := date.Sub(tk.Date)
		if diff < 0 {
			diff = -diff
		}
		if bestDiff < 0 || diff < bestDiff {
			best = tk
			bestDiff = diff
		}
	}
	if bestDiff < 0 || bestDiff > l.tolerance {
		return model.PriceTick{}, false
	}
	return best, true
}

// profit derives the unit-stake settled outcome: price minus stake on a win
// with a known settlement price, the stake lost otherwise. A winning bet
// with no resolvable price scores as a loss rather than being dropped, so
// strike-rate and ROI denominators stay consistent.
func profit(winLose int, bsp *float64) float64 {
	if winLose == 1 && bsp != nil {
		return *bsp - 1
	}
	return -1
}
