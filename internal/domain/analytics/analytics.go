// Package analytics derives the presentation-ready summary tables and chart
// series from a linked bet dataset. All series carry zeros where a partition
// is empty; NaN and Inf never appear in the output.
package analytics

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/okian/formline/internal/domain/model"
)

const dateLayout = "2006-01-02"

// rollingWindowDays is the trailing window of the rolling ROI series.
const rollingWindowDays = 30

// chartKeys enumerates every chart the response carries, populated or not.
var chartKeys = []string{
	"cumulative_profit",
	"rolling_roi",
	"roi_by_tipster",
	"roi_by_odds",
	"price_movement_histogram",
	"clv_trend",
	"win_rate_vs_field_size",
}

// Dataset is one named series of a chart.
type Dataset struct {
	Name string    `json:"name"`
	Data []float64 `json:"data"`
}

// Chart pairs axis labels with one or more datasets.
type Chart struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

// DaySummary is one row of the per-day performance table.
type DaySummary struct {
	Date          string  `json:"Date"`
	BetsPlaced    int     `json:"Bets Placed"`
	UnitsStaked   int     `json:"Units Staked"`
	UnitsReturned float64 `json:"Units Returned"`
	ROI           float64 `json:"ROI %"`
	WinRate       float64 `json:"Win Rate %"`
	AvgOdds       float64 `json:"Avg Odds"`
	CLV           float64 `json:"CLV %"`
	Drifters      float64 `json:"Drifters %"`
	Steamers      float64 `json:"Steamers %"`
}

// Response is the full analysis payload served to clients.
type Response struct {
	DailySummary []DaySummary     `json:"daily_summary"`
	Charts       map[string]Chart `json:"charts"`
}

// Aggregate computes the daily summary and every chart series over the given
// bets. Charts that cannot be populated keep a "No Data Available" label.
func Aggregate(bets []model.LinkedBet) Response {
	resp := Response{
		DailySummary: make([]DaySummary, 0),
		Charts:       make(map[string]Chart, len(chartKeys)),
	}
	for _, k := range chartKeys {
		resp.Charts[k] = Chart{Labels: []string{"No Data Available"}, Datasets: []Dataset{}}
	}
	if len(bets) == 0 {
		return resp
	}

	resp.DailySummary = dailySummary(bets)

	if c, ok := cumulativeProfit(bets); ok {
		resp.Charts["cumulative_profit"] = c
	}
	if c, ok := rollingROI(bets); ok {
		resp.Charts["rolling_roi"] = c
	}
	if c, ok := roiByTipster(bets); ok {
		resp.Charts["roi_by_tipster"] = c
	}
	if c, ok := roiByOdds(bets); ok {
		resp.Charts["roi_by_odds"] = c
	}
	if c, ok := priceMovementHistogram(bets); ok {
		resp.Charts["price_movement_histogram"] = c
	}
	if c, ok := clvTrend(bets); ok {
		resp.Charts["clv_trend"] = c
	}
	if c, ok := winRateVsFieldSize(bets); ok {
		resp.Charts["win_rate_vs_field_size"] = c
	}
	return resp
}

func dailySummary(bets []model.LinkedBet) []DaySummary {
	byDate := groupByDate(bets)
	out := make([]DaySummary, 0, len(byDate))
	for _, date := range sortedKeys(byDate) {
		g := byDate[date]
		n := len(g)

		var returned, winSum, oddsSum float64
		var oddsCount int
		var drifters, steamers, priced int
		for _, b := range g {
			if b.WinLose == 1 && b.BSP != nil {
				returned += *b.BSP
			}
			winSum += float64(b.WinLose)
			if b.BSP != nil {
				oddsSum += *b.BSP
				oddsCount++
			}
			if b.BSP != nil && b.MorningWAP != nil && *b.MorningWAP > 0 {
				priced++
				if *b.BSP > *b.MorningWAP {
					drifters++
				} else if *b.BSP < *b.MorningWAP {
					steamers++
				}
			}
		}

		row := DaySummary{
			Date:          date,
			BetsPlaced:    n,
			UnitsStaked:   n,
			UnitsReturned: round2(returned),
			ROI:           round2((returned - float64(n)) / float64(n) * 100),
			WinRate:       round2(winSum / float64(n) * 100),
		}
		if oddsCount > 0 {
			row.AvgOdds = round2(oddsSum / float64(oddsCount))
		}
		if priced > 0 {
			row.Drifters = round2(float64(drifters) / float64(priced) * 100)
			row.Steamers = round2(float64(steamers) / float64(priced) * 100)
		}
		out = append(out, row)
	}
	return out
}

// cumulativeProfit charts each tipster's running profit over the dates bets
// were placed. Series with fewer than three dates get a leading zero row one
// day before the first date so a line still renders.
func cumulativeProfit(bets []model.LinkedBet) (Chart, bool) {
	daily := map[string]map[string]float64{}
	for _, b := range bets {
		if b.Date.IsZero() {
			continue
		}
		d := b.Date.Format(dateLayout)
		if daily[d] == nil {
			daily[d] = map[string]float64{}
		}
		daily[d][b.Tipster] += b.Profit
	}
	if len(daily) == 0 {
		return Chart{}, false
	}

	dates := sortedKeys(daily)
	tipsters := tipsterNames(bets)
	if len(dates) < 3 {
		dates = append([]string{dayBefore(dates[0])}, dates...)
	}

	running := make(map[string]float64, len(tipsters))
	sets := make(map[string][]float64, len(tipsters))
	for _, d := range dates {
		for _, t := range tipsters {
			running[t] += daily[d][t]
			sets[t] = append(sets[t], round2(running[t]))
		}
	}

	chart := Chart{Labels: dates}
	for _, t := range tipsters {
		chart.Datasets = append(chart.Datasets, Dataset{Name: t, Data: sets[t]})
	}
	return chart, true
}

// rollingROI charts each tipster's trailing thirty-day ROI over a dense daily
// index from the first to the last bet date. Days without bets contribute
// zero profit and zero stake; a day whose window holds no bets reads zero.
func rollingROI(bets []model.LinkedBet) (Chart, bool) {
	type cell struct {
		profit float64
		count  float64
	}
	daily := map[string]map[string]cell{}
	var minDate, maxDate time.Time
	for _, b := range bets {
		if b.Date.IsZero() {
			continue
		}
		d := b.Date.Format(dateLayout)
		if daily[d] == nil {
			daily[d] = map[string]cell{}
		}
		c := daily[d][b.Tipster]
		c.profit += b.Profit
		c.count++
		daily[d][b.Tipster] = c
		day := b.Date.Truncate(24 * time.Hour)
		if minDate.IsZero() || day.Before(minDate) {
			minDate = day
		}
		if day.After(maxDate) {
			maxDate = day
		}
	}
	if len(daily) < 2 {
		return Chart{}, false
	}

	var index []string
	for day := minDate; !day.After(maxDate); day = day.AddDate(0, 0, 1) {
		index = append(index, day.Format(dateLayout))
	}

	tipsters := tipsterNames(bets)
	sets := make(map[string][]float64, len(tipsters))
	for _, t := range tipsters {
		data := make([]float64, len(index))
		for i := range index {
			var profit, count float64
			for j := max(0, i-rollingWindowDays+1); j <= i; j++ {
				c := daily[index[j]][t]
				profit += c.profit
				count += c.count
			}
			if count > 0 {
				data[i] = round2(profit / count * 100)
			}
		}
		sets[t] = data
	}

	if len(index) < 3 {
		index = append([]string{dayBefore(index[0])}, index...)
		for t := range sets {
			sets[t] = append([]float64{0}, sets[t]...)
		}
	}

	chart := Chart{Labels: index}
	for _, t := range tipsters {
		chart.Datasets = append(chart.Datasets, Dataset{Name: t, Data: sets[t]})
	}
	return chart, true
}

func roiByTipster(bets []model.LinkedBet) (Chart, bool) {
	profit := map[string]float64{}
	count := map[string]float64{}
	for _, b := range bets {
		profit[b.Tipster] += b.Profit
		count[b.Tipster]++
	}
	tipsters := sortedKeys(profit)
	data := make([]float64, 0, len(tipsters))
	for _, t := range tipsters {
		data = append(data, round2(profit[t]/count[t]*100))
	}
	return Chart{Labels: tipsters, Datasets: []Dataset{{Name: "ROI", Data: data}}}, true
}

// oddsBins partitions settlement prices into the fixed dollar ranges the
// dashboard renders. Each lower bound is inclusive, the upper exclusive.
var oddsBins = []struct {
	lo, hi float64
	label  string
}{
	{1, 3, "$1-3"},
	{3, 5, "$3-5"},
	{5, 10, "$5-10"},
	{10, 20, "$10-20"},
	{20, 50, "$20-50"},
	{50, 1000, "$50+"},
}

func roiByOdds(bets []model.LinkedBet) (Chart, bool) {
	profit := make([]float64, len(oddsBins))
	count := make([]float64, len(oddsBins))
	any := false
	for _, b := range bets {
		if b.BSP == nil {
			continue
		}
		any = true
		for i, bin := range oddsBins {
			if *b.BSP >= bin.lo && *b.BSP < bin.hi {
				profit[i] += b.Profit
				count[i]++
				break
			}
		}
	}
	if !any {
		return Chart{}, false
	}
	labels := make([]string, len(oddsBins))
	data := make([]float64, len(oddsBins))
	for i, bin := range oddsBins {
		labels[i] = bin.label
		if count[i] > 0 {
			data[i] = round2(profit[i] / count[i] * 100)
		}
	}
	return Chart{Labels: labels, Datasets: []Dataset{{Name: "ROI", Data: data}}}, true
}

// priceMovementHistogram buckets the relative move from morning price to
// settlement price into twenty equal-width bins between the observed extremes.
func priceMovementHistogram(bets []model.LinkedBet) (Chart, bool) {
	var moves []float64
	for _, b := range bets {
		if b.BSP == nil || b.MorningWAP == nil || *b.MorningWAP <= 0 {
			continue
		}
		moves = append(moves, (*b.BSP-*b.MorningWAP) / *b.MorningWAP)
	}
	if len(moves) < 2 {
		return Chart{}, false
	}

	lo, hi := moves[0], moves[0]
	for _, m := range moves {
		lo = math.Min(lo, m)
		hi = math.Max(hi, m)
	}
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}

	const bins = 20
	width := (hi - lo) / bins
	counts := make([]float64, bins)
	for _, m := range moves {
		i := int((m - lo) / width)
		if i >= bins {
			i = bins - 1
		}
		counts[i]++
	}

	labels := make([]string, bins)
	for i := range labels {
		a := lo + width*float64(i)
		b := a + width
		labels[i] = fmt.Sprintf("%.0f%% to %.0f%%", a*100, b*100)
	}
	return Chart{Labels: labels, Datasets: []Dataset{{Name: "Count", Data: counts}}}, true
}

// clvTrend charts the per-day mean closing line value, the percentage edge of
// the settlement price over the best bookmaker price. Rows where either price
// is absent or at-or-below even money are excluded.
func clvTrend(bets []model.LinkedBet) (Chart, bool) {
	sum := map[string]float64{}
	count := map[string]float64{}
	for _, b := range bets {
		if b.BSP == nil || b.BestOdds == nil || b.Date.IsZero() {
			continue
		}
		if *b.BSP <= 1 || *b.BestOdds <= 1 {
			continue
		}
		d := b.Date.Format(dateLayout)
		sum[d] += (*b.BSP / *b.BestOdds - 1) * 100
		count[d]++
	}
	if len(sum) == 0 {
		return Chart{}, false
	}
	dates := sortedKeys(sum)
	data := make([]float64, 0, len(dates))
	for _, d := range dates {
		data = append(data, round2(sum[d]/count[d]))
	}
	return Chart{Labels: dates, Datasets: []Dataset{{Name: "CLV", Data: data}}}, true
}

func winRateVsFieldSize(bets []model.LinkedBet) (Chart, bool) {
	wins := map[int]float64{}
	count := map[int]float64{}
	for _, b := range bets {
		if b.FieldSize == nil {
			continue
		}
		wins[*b.FieldSize] += float64(b.WinLose)
		count[*b.FieldSize]++
	}
	if len(count) == 0 {
		return Chart{}, false
	}
	sizes := make([]int, 0, len(count))
	for s := range count {
		sizes = append(sizes, s)
	}
	sort.Ints(sizes)
	labels := make([]string, 0, len(sizes))
	data := make([]float64, 0, len(sizes))
	for _, s := range sizes {
		labels = append(labels, fmt.Sprintf("%d", s))
		data = append(data, round2(wins[s]/count[s]*100))
	}
	return Chart{Labels: labels, Datasets: []Dataset{{Name: "Win Rate", Data: data}}}, true
}

func groupByDate(bets []model.LinkedBet) map[string][]model.LinkedBet {
	byDate := map[string][]model.LinkedBet{}
	for _, b := range bets {
		if b.Date.IsZero() {
			continue
		}
		d := b.Date.Format(dateLayout)
		byDate[d] = append(byDate[d], b)
	}
	return byDate
}

func tipsterNames(bets []model.LinkedBet) []string {
	seen := map[string]struct{}{}
	for _, b := range bets {
		seen[b.Tipster] = struct{}{}
	}
	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func dayBefore(date string) string {
	t, err := time.Parse(dateLayout, date)
	if err != nil {
		return date
	}
	return t.AddDate(0, 0, -1).Format(dateLayout)
}

// round2 rounds to two decimals and flattens any non-finite value to zero.
func round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return math.Round(v*100) / 100
}
