package analytics_test

import (
	"testing"
	"time"

	"github.com/okian/formline/internal/domain/analytics"
	"github.com/okian/formline/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func day(d int) time.Time {
	return time.Date(2024, 5, d, 0, 0, 0, 0, time.UTC)
}

func TestAggregate(t *testing.T) {
	Convey("Given the analytics aggregator", t, func() {
		Convey("When the dataset is empty", func() {
			resp := analytics.Aggregate(nil)

			Convey("Then the summary is empty and every chart is a placeholder", func() {
				So(resp.DailySummary, ShouldBeEmpty)
				So(resp.Charts, ShouldHaveLength, 7)
				for _, c := range resp.Charts {
					So(c.Labels, ShouldResemble, []string{"No Data Available"})
					So(c.Datasets, ShouldBeEmpty)
				}
			})
		})

		Convey("When a day has a win and a loss", func() {
			bets := []model.LinkedBet{
				{Date: day(1), Tipster: "alpha", BSP: model.Float(4.0), MorningWAP: model.Float(5.0), WinLose: 1, Profit: 3.0},
				{Date: day(1), Tipster: "alpha", BSP: model.Float(8.0), MorningWAP: model.Float(6.0), WinLose: 0, Profit: -1.0},
			}
			resp := analytics.Aggregate(bets)

			Convey("Then the daily summary reflects staked and returned units", func() {
				So(resp.DailySummary, ShouldHaveLength, 1)
				row := resp.DailySummary[0]
				So(row.Date, ShouldEqual, "2024-05-01")
				So(row.BetsPlaced, ShouldEqual, 2)
				So(row.UnitsStaked, ShouldEqual, 2)
				So(row.UnitsReturned, ShouldEqual, 4.0)
				So(row.ROI, ShouldEqual, 100.0)
				So(row.WinRate, ShouldEqual, 50.0)
				So(row.AvgOdds, ShouldEqual, 6.0)
			})

			Convey("And market movement splits into one steamer and one drifter", func() {
				row := resp.DailySummary[0]
				So(row.Drifters, ShouldEqual, 50.0)
				So(row.Steamers, ShouldEqual, 50.0)
			})
		})

		Convey("When bets span two dates for one tipster", func() {
			bets := []model.LinkedBet{
				{Date: day(1), Tipster: "alpha", BSP: model.Float(3.0), WinLose: 1, Profit: 2.0},
				{Date: day(2), Tipster: "alpha", WinLose: 0, Profit: -1.0},
			}
			resp := analytics.Aggregate(bets)

			Convey("Then cumulative profit gets a leading zero row for the sparse series", func() {
				c := resp.Charts["cumulative_profit"]
				So(c.Labels, ShouldResemble, []string{"2024-04-30", "2024-05-01", "2024-05-02"})
				So(c.Datasets, ShouldHaveLength, 1)
				So(c.Datasets[0].Name, ShouldEqual, "alpha")
				So(c.Datasets[0].Data, ShouldResemble, []float64{0, 2.0, 1.0})
			})

			Convey("And rolling ROI covers a dense padded index", func() {
				c := resp.Charts["rolling_roi"]
				So(c.Labels, ShouldResemble, []string{"2024-04-30", "2024-05-01", "2024-05-02"})
				So(c.Datasets[0].Data, ShouldResemble, []float64{0, 200.0, 50.0})
			})
		})

		Convey("When tipsters differ in performance", func() {
			bets := []model.LinkedBet{
				{Date: day(1), Tipster: "alpha", Profit: 2.0},
				{Date: day(1), Tipster: "alpha", Profit: -1.0},
				{Date: day(1), Tipster: "beta", Profit: -1.0},
			}
			resp := analytics.Aggregate(bets)

			Convey("Then ROI by tipster averages profit per bet", func() {
				c := resp.Charts["roi_by_tipster"]
				So(c.Labels, ShouldResemble, []string{"alpha", "beta"})
				So(c.Datasets[0].Name, ShouldEqual, "ROI")
				So(c.Datasets[0].Data, ShouldResemble, []float64{50.0, -100.0})
			})
		})

		Convey("When settlement prices fall into different odds bins", func() {
			bets := []model.LinkedBet{
				{Date: day(1), Tipster: "alpha", BSP: model.Float(2.5), Profit: 1.5},
				{Date: day(1), Tipster: "alpha", BSP: model.Float(12.0), Profit: -1.0},
				{Date: day(1), Tipster: "alpha", Profit: -1.0},
			}
			resp := analytics.Aggregate(bets)

			Convey("Then every bin appears with unpopulated bins at zero", func() {
				c := resp.Charts["roi_by_odds"]
				So(c.Labels, ShouldResemble, []string{"$1-3", "$3-5", "$5-10", "$10-20", "$20-50", "$50+"})
				So(c.Datasets[0].Data, ShouldResemble, []float64{150.0, 0, 0, -100.0, 0, 0})
			})
		})

		Convey("When morning and settlement prices both exist on several rows", func() {
			bets := []model.LinkedBet{
				{Date: day(1), Tipster: "alpha", BSP: model.Float(6.0), MorningWAP: model.Float(5.0), Profit: -1},
				{Date: day(1), Tipster: "alpha", BSP: model.Float(4.0), MorningWAP: model.Float(5.0), Profit: -1},
			}
			resp := analytics.Aggregate(bets)

			Convey("Then the movement histogram spans twenty bins over the observed range", func() {
				c := resp.Charts["price_movement_histogram"]
				So(c.Labels, ShouldHaveLength, 20)
				So(c.Labels[0], ShouldEqual, "-20% to -18%")
				So(c.Datasets[0].Name, ShouldEqual, "Count")
				var total float64
				for _, n := range c.Datasets[0].Data {
					total += n
				}
				So(total, ShouldEqual, 2)
			})
		})

		Convey("When best bookmaker odds are known", func() {
			bets := []model.LinkedBet{
				{Date: day(1), Tipster: "alpha", BSP: model.Float(5.0), BestOdds: model.Float(4.0), Profit: -1},
				{Date: day(1), Tipster: "alpha", BSP: model.Float(3.0), BestOdds: model.Float(4.0), Profit: -1},
				{Date: day(1), Tipster: "alpha", BSP: model.Float(0.5), BestOdds: model.Float(4.0), Profit: -1},
			}
			resp := analytics.Aggregate(bets)

			Convey("Then CLV averages per day over rows with both odds above even money", func() {
				c := resp.Charts["clv_trend"]
				So(c.Labels, ShouldResemble, []string{"2024-05-01"})
				So(c.Datasets[0].Name, ShouldEqual, "CLV")
				So(c.Datasets[0].Data, ShouldResemble, []float64{0})
			})
		})

		Convey("When field sizes are attached", func() {
			bets := []model.LinkedBet{
				{Date: day(1), Tipster: "alpha", FieldSize: model.IntPtr(8), WinLose: 1, Profit: 2},
				{Date: day(1), Tipster: "alpha", FieldSize: model.IntPtr(8), WinLose: 0, Profit: -1},
				{Date: day(1), Tipster: "alpha", FieldSize: model.IntPtr(12), WinLose: 0, Profit: -1},
			}
			resp := analytics.Aggregate(bets)

			Convey("Then win rate groups by field size in ascending order", func() {
				c := resp.Charts["win_rate_vs_field_size"]
				So(c.Labels, ShouldResemble, []string{"8", "12"})
				So(c.Datasets[0].Data, ShouldResemble, []float64{50.0, 0})
			})
		})
	})
}
