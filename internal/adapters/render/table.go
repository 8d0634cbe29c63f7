package render

import (
	"math"
	"strconv"

	"github.com/dustin/go-humanize"
)

// Columns of the leaderboard table.
var Columns = []string{"Name", "Code", "Altitude", "Speed", "Distance", "Rank", "Status", "Last update"} //nolint:gochecknoglobals // fixed layout

const timeLayout = "15:04:05"

// Grid is a frame laid out as display cells.
type Grid struct {
	Title  string
	Header []string
	Rows   [][]string
}

// Table lays out a frame. Rank is shown 1-based.
func Table(f Frame) Grid {
	g := Grid{
		Title:  title(f),
		Header: Columns,
		Rows:   make([][]string, len(f.Rows)),
	}
	for i, r := range f.Rows {
		g.Rows[i] = []string{
			r.DisplayName(),
			r.Team,
			r.Altitude.String(),
			r.Speed.String(),
			distance(r.Distance),
			strconv.Itoa(r.Rank + 1),
			r.Status.String(),
			r.Since,
		}
	}
	return g
}

func title(f Frame) string {
	source := "status feed"
	if f.Tracked {
		source = "track feed"
	}
	t := "X-Alps live leaderboard"
	if !f.At.IsZero() {
		t += "  updated " + f.At.Format(timeLayout)
	}
	return t + "  (" + source + ")"
}

func distance(km float64) string {
	if math.IsNaN(km) || math.IsInf(km, 0) {
		return "n/a"
	}
	return humanize.CommafWithDigits(km, 2) + " km"
}

// staleBanner is shown under a frame that failed to refresh.
func staleBanner(cause error, since string) string {
	msg := "stale data"
	if since != "" {
		msg += " since " + since
	}
	if cause != nil {
		msg += ": " + cause.Error()
	}
	return msg
}
