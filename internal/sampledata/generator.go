// Package sampledata fabricates consistent tips, race metadata and exchange
// price exports for exercising the analyzer. The three files reference the
// same runners through deliberately mismatched spellings, so a generated
// batch exercises the normalization and linkage paths end to end.
package sampledata

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/google/uuid"
)

var tracks = []string{"Ballarat", "Randwick", "Eagle Farm", "Flemington", "Caulfield"}

var tipsters = []string{"punters.com", "racenet.au", "formguide.pro"}

var horseNames = []string{
	"Fast Dan", "Midnight Run", "Golden Mile", "Stormy Affair", "River King",
	"Lucky Penny", "Silent Partner", "Bold Venture", "Crème Brûlée", "Iron Duke",
	"Night Whisper", "Royal Salute", "Desert Wind", "High Tide", "Velvet Touch",
}

// bookmakerPrefix decorates about half the tipped track names, mirroring how
// scraped tips spell tracks after the promoting bookmaker.
var bookmakerPrefix = []string{"Sportsbet-", "Ladbrokes ", "TAB "}

type runner struct {
	track    string
	race     int
	horse    string
	date     time.Time
	tipster  string
	tipped   bool
	won      bool
	bsp      float64
	morning  float64
	bestOdds float64
}

// Generate fabricates one linkable batch. The same seed always produces the
// same batch.
func Generate(cfg Config) (Batch, error) {
	if cfg.Races <= 0 || cfg.Runners <= 0 {
		return Batch{}, fmt.Errorf("races and runners must be positive: %w", ErrInvalidConfig)
	}
	if cfg.Days <= 0 {
		cfg.Days = 1
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	runners := fabricateRunners(cfg, rng)

	tips, err := tipsCSV(runners, rng)
	if err != nil {
		return Batch{}, err
	}
	meta, err := raceMetaCSV(runners, rng)
	if err != nil {
		return Batch{}, err
	}
	prices, err := pricesCSV(runners)
	if err != nil {
		return Batch{}, err
	}
	return Batch{Tips: tips, RaceMeta: meta, Prices: prices}, nil
}

func fabricateRunners(cfg Config, rng *rand.Rand) []runner {
	out := make([]runner, 0, cfg.Races*cfg.Runners)
	for race := 0; race < cfg.Races; race++ {
		track := tracks[rng.Intn(len(tracks))]
		raceNum := 1 + rng.Intn(8)
		date := cfg.StartDate.AddDate(0, 0, rng.Intn(cfg.Days))
		tipster := tipsters[rng.Intn(len(tipsters))]

		tippedIdx := rng.Intn(cfg.Runners)
		winnerIdx := tippedIdx
		if rng.Float64() >= cfg.WinRate {
			winnerIdx = (tippedIdx + 1 + rng.Intn(cfg.Runners-1)) % cfg.Runners
		}

		for i := 0; i < cfg.Runners; i++ {
			morning := 2.0 + rng.Float64()*18.0
			drift := 0.7 + rng.Float64()*0.8
			out = append(out, runner{
				track:    track,
				race:     raceNum,
				horse:    horseNames[(race*cfg.Runners+i)%len(horseNames)],
				date:     date,
				tipster:  tipster,
				tipped:   i == tippedIdx,
				won:      i == winnerIdx,
				bsp:      round2(morning * drift),
				morning:  round2(morning),
				bestOdds: round2(morning * (0.85 + rng.Float64()*0.3)),
			})
		}
	}
	return out
}

func tipsCSV(runners []runner, rng *rand.Rand) ([]byte, error) {
	rows := [][]string{{"Tip Website", "Scrape Date", "Track", "Race", "First Selection Name"}}
	for _, r := range runners {
		if !r.tipped {
			continue
		}
		track := r.track
		if rng.Intn(2) == 0 {
			track = bookmakerPrefix[rng.Intn(len(bookmakerPrefix))] + track
		}
		horse := fmt.Sprintf("%d. %s", 1+rng.Intn(12), r.horse)
		if rng.Intn(3) == 0 {
			horse += " (NZ)"
		}
		rows = append(rows, []string{
			r.tipster,
			r.date.Format("2006-01-02"),
			track,
			fmt.Sprintf("Race %d", r.race),
			horse,
		})
	}
	return writeCSV(rows)
}

func raceMetaCSV(runners []runner, rng *rand.Rand) ([]byte, error) {
	rows := [][]string{{"RaceTrack", "RaceNum", "HorseName", "JockeyName", "Barrier", "BestOdds"}}
	for _, r := range runners {
		rows = append(rows, []string{
			r.track,
			strconv.Itoa(r.race),
			r.horse,
			"J " + uuid.New().String()[:8],
			strconv.Itoa(1 + rng.Intn(16)),
			formatFloat(r.bestOdds),
		})
	}
	return writeCSV(rows)
}

func pricesCSV(runners []runner) ([]byte, error) {
	rows := [][]string{{"event_dt", "menu_hint", "event_name", "selection_name", "bsp", "morningwap", "win_lose"}}
	for _, r := range runners {
		win := "0"
		if r.won {
			win = "1"
		}
		rows = append(rows, []string{
			r.date.Format("02/01/2006"),
			fmt.Sprintf("%s (AUS) %s", r.track, r.date.Format("2 Jan")),
			fmt.Sprintf("R%d 1200m Hcap", r.race),
			r.horse,
			formatFloat(r.bsp),
			formatFloat(r.morning),
			win,
		})
	}
	return writeCSV(rows)
}

func writeCSV(rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(rows); err != nil {
		return nil, fmt.Errorf("write csv: %w", err)
	}
	return buf.Bytes(), nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func round2(v float64) float64 {
	return float64(int(v*100)) / 100
}
