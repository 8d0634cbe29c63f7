// Package delta marks leaderboard rows with their movement since the last cycle.
package delta

import "github.com/okian/xalps/internal/domain/summary"

// LeaderMode selects how the leader offset of each cycle is taken.
type LeaderMode uint8

const (
	// LeaderCurrent measures each cycle against its own leader.
	LeaderCurrent LeaderMode = iota
	// LeaderPreviousTwice measures both cycles by prev[0] - cur[0], which
	// collapses to a raw distance comparison. Kept for legacy fixtures.
	LeaderPreviousTwice
)

// Marked is a summary row with its cosmetic change marker.
type Marked struct {
	summary.AthleteSummary
	Change Change
}

// DisplayName is the full name with the marker glyph.
func (m Marked) DisplayName() string {
	return m.FullName + m.Change.Glyph()
}

// Option configures an Annotator.
type Option func(*Annotator)

// WithLeaderMode sets the leader offset mode.
func WithLeaderMode(mode LeaderMode) Option {
	return func(a *Annotator) { a.mode = mode }
}

// Annotator compares two consecutive summary lists.
type Annotator struct {
	mode LeaderMode
}

// NewAnnotator returns an Annotator in LeaderCurrent mode.
func NewAnnotator(opts ...Option) *Annotator {
	a := &Annotator{mode: LeaderCurrent}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Mode returns the configured leader mode.
func (a *Annotator) Mode() LeaderMode { return a.mode }

// Annotate marks every current row against previous, joined by team.
// A nil previous means the first cycle and yields no markers.
// Neither input is modified.
func (a *Annotator) Annotate(current, previous []summary.AthleteSummary) []Marked {
	out := make([]Marked, len(current))
	for i, row := range current {
		out[i] = Marked{AthleteSummary: row}
	}
	if previous == nil || len(current) == 0 {
		return out
	}

	byTeam := make(map[string]summary.AthleteSummary, len(previous))
	for _, p := range previous {
		byTeam[p.Team] = p
	}
	curLeader, prevLeader := a.leaders(current, previous)

	for i, cur := range current {
		prev, ok := byTeam[cur.Team]
		switch {
		case !ok:
			out[i].Change = RankUp
		case cur.Rank > prev.Rank:
			out[i].Change = RankDown
		case cur.Rank < prev.Rank:
			out[i].Change = RankUp
		default:
			out[i].Change = tendency(cur.Distance-curLeader, prev.Distance-prevLeader)
		}
	}
	return out
}

func (a *Annotator) leaders(current, previous []summary.AthleteSummary) (float64, float64) {
	var prevFirst float64
	if len(previous) > 0 {
		prevFirst = previous[0].Distance
	}
	if a.mode == LeaderPreviousTwice {
		d := prevFirst - current[0].Distance
		return d, d
	}
	return current[0].Distance, prevFirst
}

// tendency compares offsets from the leader. NaN on either side is no change.
func tendency(cur, prev float64) Change {
	switch {
	case cur > prev:
		return TendencyDown
	case cur < prev:
		return TendencyUp
	default:
		return None
	}
}
