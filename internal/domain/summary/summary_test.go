package summary_test

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/okian/xalps/internal/domain/model"
	"github.com/okian/xalps/internal/domain/summary"
	. "github.com/smartystreets/goconvey/convey"
)

var raceNow = time.UnixMilli(1_686_751_800_000)

func fixedClock() time.Time { return raceNow }

func roster() []model.Athlete {
	return []model.Athlete{
		{AthleteID: "1", Firstname: "Max", Lastname: "A", Team: "AUT1"},
		{AthleteID: "2", Firstname: "Lea", Lastname: "B", Team: "GER1"},
	}
}

func entry(id string, distance float64, agoSeconds int64) model.StatusEntry {
	return model.StatusEntry{
		AthleteID:      id,
		Timestamp:      raceNow.UnixMilli() - agoSeconds*1000,
		Status:         model.StatusHike,
		DistanceToGoal: distance,
		Altitude:       1200,
		Speed:          5,
	}
}

func teams(rows []summary.AthleteSummary) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Team
	}
	return out
}

func TestBuild(t *testing.T) {
	Convey("Given a two-athlete roster", t, func() {
		ctx := context.Background()
		b := summary.NewBuilder(summary.WithClock(fixedClock))

		Convey("When Lea is closer to goal", func() {
			out, err := b.Build(ctx, summary.Input{
				Roster: roster(),
				Status: []model.StatusEntry{entry("1", 50, 75), entry("2", 30, 5)},
			})

			Convey("Then output order should follow rank, not roster order", func() {
				So(err, ShouldBeNil)
				So(out, ShouldHaveLength, 2)
				So(out[0].FullName, ShouldEqual, "Lea B")
				So(out[0].Rank, ShouldEqual, 0)
				So(out[1].FullName, ShouldEqual, "Max A")
				So(out[1].Rank, ShouldEqual, 1)
				So(out[1].Since, ShouldEqual, "1m 15s")
				So(out[0].Since, ShouldEqual, "0m 5s")
			})

			Convey("Then readings should come from the status feed", func() {
				alt, ok := out[0].Altitude.Value()
				So(ok, ShouldBeTrue)
				So(alt, ShouldEqual, 1200)
				So(out[0].Speed.String(), ShouldEqual, "5.00")
			})
		})

		Convey("When an athlete has no status entry", func() {
			ros := append(roster(), model.Athlete{AthleteID: "X", Firstname: "Ghost", Lastname: "Rider", Team: "SUI1"})
			out, err := b.Build(ctx, summary.Input{
				Roster: ros,
				Status: []model.StatusEntry{entry("1", 50, 0), entry("2", 30, 0)},
			})

			Convey("Then the build should fail naming the athlete", func() {
				So(out, ShouldBeNil)
				So(errors.Is(err, summary.ErrConsistency), ShouldBeTrue)
				var missing *summary.MissingStatusError
				So(errors.As(err, &missing), ShouldBeTrue)
				So(missing.AthleteID, ShouldEqual, "X")
				So(err.Error(), ShouldContainSubstring, "X")
			})
		})

		Convey("When a status timestamp is in the future", func() {
			out, err := b.Build(ctx, summary.Input{
				Roster: roster(),
				Status: []model.StatusEntry{entry("1", 50, -90), entry("2", 30, 0)},
			})

			Convey("Then the since column should clamp to zero", func() {
				So(err, ShouldBeNil)
				So(out[1].Since, ShouldEqual, "0m 0s")
			})
		})

		Convey("When the context is already cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			_, err := b.Build(cctx, summary.Input{Roster: roster()})
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
		})
	})
}

func TestBuildRankingOrder(t *testing.T) {
	Convey("Given distances with ties and a NaN", t, func() {
		ctx := context.Background()
		ros := []model.Athlete{
			{AthleteID: "a", Firstname: "A", Lastname: "A", Team: "T1"},
			{AthleteID: "b", Firstname: "B", Lastname: "B", Team: "T2"},
			{AthleteID: "c", Firstname: "C", Lastname: "C", Team: "T3"},
			{AthleteID: "d", Firstname: "D", Lastname: "D", Team: "T4"},
		}
		status := []model.StatusEntry{
			entry("a", 12, 0), entry("b", 5, 0), entry("c", 5, 0), entry("d", math.NaN(), 0),
		}
		b := summary.NewBuilder(summary.WithClock(fixedClock))

		Convey("Then ties should keep feed order and NaN should not panic", func() {
			out, err := b.Build(ctx, summary.Input{Roster: ros, Status: status})
			So(err, ShouldBeNil)
			So(teams(out), ShouldResemble, []string{"T2", "T3", "T1", "T4"})
		})

		Convey("Then repeated builds should be identical", func() {
			first, err := b.Build(ctx, summary.Input{Roster: ros, Status: status})
			So(err, ShouldBeNil)
			for i := 0; i < 20; i++ {
				again, err := b.Build(ctx, summary.Input{Roster: ros, Status: status})
				So(err, ShouldBeNil)
				So(summary.Equal(first, again), ShouldBeTrue)
			}
		})
	})

	Convey("Given a shuffled roster", t, func() {
		ctx := context.Background()
		var ros []model.Athlete
		var status []model.StatusEntry
		for i, team := range []string{"AUT1", "GER1", "SUI1", "FRA1", "ITA1", "USA1"} {
			id := string(rune('1' + i))
			ros = append(ros, model.Athlete{AthleteID: id, Firstname: team, Lastname: "X", Team: team})
			status = append(status, entry(id, float64(100-i*7), 0))
		}
		b := summary.NewBuilder(summary.WithClock(fixedClock))
		want, err := b.Build(ctx, summary.Input{Roster: ros, Status: status})
		So(err, ShouldBeNil)

		Convey("Then every permutation should produce the same ranked list", func() {
			rng := rand.New(rand.NewSource(7))
			for i := 0; i < 25; i++ {
				shuffled := append([]model.Athlete(nil), ros...)
				rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
				got, err := b.Build(ctx, summary.Input{Roster: shuffled, Status: status})
				So(err, ShouldBeNil)
				So(summary.Equal(got, want), ShouldBeTrue)
			}
			for i, row := range want {
				So(row.Rank, ShouldEqual, i)
			}
		})
	})
}

func TestBuildTrackAugmentation(t *testing.T) {
	Convey("Given a builder with track augmentation", t, func() {
		ctx := context.Background()
		b := summary.NewBuilder(summary.WithClock(fixedClock), summary.WithTrackAugmentation(true))
		So(b.TrackAugmentation(), ShouldBeTrue)

		tracks := map[string]model.Track{
			"1": {AthleteID: 1, Points: []model.TrackPoint{
				{Timestamp: 10, Altitude: 900, Speed: 3},
				{Timestamp: 20, Altitude: 0, Speed: 0},
			}},
			"2": {AthleteID: 2},
		}
		out, err := b.Build(ctx, summary.Input{
			Roster: roster(),
			Status: []model.StatusEntry{entry("1", 50, 0), entry("2", 30, 0)},
			Tracks: tracks,
		})
		So(err, ShouldBeNil)

		Convey("Then the latest point should supply readings, zero included", func() {
			alt, ok := out[1].Altitude.Value()
			So(ok, ShouldBeTrue)
			So(alt, ShouldEqual, 0)
			So(out[1].Speed.String(), ShouldEqual, "0.00")
		})

		Convey("Then an empty track should yield unknown readings", func() {
			So(out[0].Altitude.IsKnown(), ShouldBeFalse)
			So(out[0].Speed.String(), ShouldEqual, summary.UnknownMarker)
		})

		Convey("When a track is missing entirely", func() {
			out, err := b.Build(ctx, summary.Input{
				Roster: roster(),
				Status: []model.StatusEntry{entry("1", 50, 0), entry("2", 30, 0)},
			})
			So(err, ShouldBeNil)
			So(out[0].Altitude.IsKnown(), ShouldBeFalse)
			So(out[1].Altitude.IsKnown(), ShouldBeFalse)
		})
	})
}

func TestFormatSince(t *testing.T) {
	Convey("Given ages to format", t, func() {
		So(summary.FormatSince(0), ShouldEqual, "0m 0s")
		So(summary.FormatSince(59*time.Second+900*time.Millisecond), ShouldEqual, "0m 59s")
		So(summary.FormatSince(61*time.Second), ShouldEqual, "1m 1s")
		So(summary.FormatSince(2*time.Hour+3*time.Second), ShouldEqual, "120m 3s")
		So(summary.FormatSince(-time.Minute), ShouldEqual, "0m 0s")
	})
}

func TestEqualAndTop(t *testing.T) {
	Convey("Given two summary lists", t, func() {
		row := summary.AthleteSummary{
			FullName: "Max A", Team: "AUT1",
			Altitude: summary.Known(math.NaN()), Speed: summary.Unknown(),
			Distance: math.NaN(), Rank: 0, Since: "0m 1s", Updated: raceNow,
		}

		Convey("Then NaN rows should compare equal to themselves", func() {
			So(summary.Equal([]summary.AthleteSummary{row}, []summary.AthleteSummary{row}), ShouldBeTrue)
		})

		Convey("Then a known zero should differ from unknown", func() {
			other := row
			other.Speed = summary.Known(0)
			So(summary.Equal([]summary.AthleteSummary{row}, []summary.AthleteSummary{other}), ShouldBeFalse)
		})

		Convey("Then lengths should matter", func() {
			So(summary.Equal([]summary.AthleteSummary{row}, nil), ShouldBeFalse)
		})

		Convey("When truncating", func() {
			list := []summary.AthleteSummary{row, row, row}
			top := summary.Top(list, 2)
			So(top, ShouldHaveLength, 2)
			top[0].FullName = "changed"
			So(list[0].FullName, ShouldEqual, "Max A")
			So(summary.Top(list, 10), ShouldHaveLength, 3)
			So(summary.Top(list, -1), ShouldHaveLength, 0)
		})
	})
}
