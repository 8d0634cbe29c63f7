// Package summary builds the ranked per-athlete view of one refresh cycle.
package summary

import (
	"context"
	"sort"
	"time"

	"github.com/okian/xalps/internal/domain/model"
)

// AthleteSummary is one leaderboard row. Rank is 0-based.
type AthleteSummary struct {
	FullName string
	Team     string
	Altitude Reading
	Speed    Reading
	Distance float64
	Rank     int
	Status   model.AthleteStatus
	Since    string
	Updated  time.Time
}

// Input is everything a cycle fetched.
// Tracks is keyed by athlete id and only consulted with augmentation on.
type Input struct {
	Roster []model.Athlete
	Status []model.StatusEntry
	Tracks map[string]model.Track
}

// Option configures a Builder.
type Option func(*Builder)

// WithClock sets the time source used for the since column.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) {
		if now != nil {
			b.now = now
		}
	}
}

// WithTrackAugmentation takes altitude and speed from the latest track point.
func WithTrackAugmentation(enabled bool) Option {
	return func(b *Builder) { b.tracks = enabled }
}

// Builder turns raw feeds into a ranked summary list.
type Builder struct {
	now    func() time.Time
	tracks bool
}

// NewBuilder returns a Builder with augmentation off and the wall clock.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{now: time.Now}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// TrackAugmentation reports whether the builder reads the track feeds.
func (b *Builder) TrackAugmentation() bool { return b.tracks }

type rankKey struct {
	id       string
	distance float64
}

// Build ranks every roster athlete by ascending distance to goal.
// It fails without partial output if any athlete has no status entry.
func (b *Builder) Build(ctx context.Context, in Input) ([]AthleteSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	keys := make([]rankKey, len(in.Status))
	byID := make(map[string]model.StatusEntry, len(in.Status))
	for i, st := range in.Status {
		keys[i] = rankKey{id: st.AthleteID, distance: st.DistanceToGoal}
		if _, seen := byID[st.AthleteID]; !seen {
			byID[st.AthleteID] = st
		}
	}
	// NaN is neither less nor greater, so such rows keep their feed position.
	sort.SliceStable(keys, func(i, j int) bool {
		return keys[i].distance < keys[j].distance
	})
	rank := make(map[string]int, len(keys))
	for i, k := range keys {
		if _, seen := rank[k.id]; !seen {
			rank[k.id] = i
		}
	}

	now := b.now()
	out := make([]AthleteSummary, 0, len(in.Roster))
	for _, a := range in.Roster {
		st, ok := byID[a.AthleteID]
		if !ok {
			return nil, &MissingStatusError{AthleteID: a.AthleteID, Name: a.FullName()}
		}

		row := AthleteSummary{
			FullName: a.FullName(),
			Team:     a.Team,
			Distance: st.DistanceToGoal,
			Rank:     rank[a.AthleteID],
			Status:   st.Status,
			Since:    FormatSince(now.Sub(st.Time())),
			Updated:  st.Time(),
		}
		if b.tracks {
			row.Altitude, row.Speed = Unknown(), Unknown()
			if p, ok := in.Tracks[a.AthleteID].Latest(); ok {
				row.Altitude = Known(float64(p.Altitude))
				row.Speed = Known(float64(p.Speed))
			}
		} else {
			row.Altitude = Known(float64(st.Altitude))
			row.Speed = Known(float64(st.Speed))
		}
		out = append(out, row)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Rank < out[j].Rank })
	return out, nil
}
