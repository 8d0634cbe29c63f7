// Package feedsim serves a simulated race over the upstream feed routes.
package feedsim

import (
	"math/rand"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/xalps/internal/domain/model"
)

// Generation ranges.
const (
	startDistanceMin   = 900.0
	startDistanceRange = 300.0
	stepDistanceMax    = 4.0
	altitudeMin        = 400
	altitudeRange      = 3200
	speedRange         = 60
)

var teamCodes = []string{"AUT", "GER", "SUI", "FRA", "ITA", "SLO", "USA", "CZE", "POL", "JPN", "ESP", "BEL"} //nolint:gochecknoglobals // fixed roster seed

// Race is mutable simulated race state. It is safe for concurrent use.
type Race struct {
	mu       sync.Mutex
	rng      *rand.Rand
	now      func() time.Time
	overview model.Overview
	status   []model.StatusEntry
	tracks   map[string]model.Track
	failures map[string]int
	corrupt  map[string]bool
	hits     map[string]int
}

// Option configures a Race.
type Option func(*Race)

// WithSeed makes generated movement reproducible.
func WithSeed(seed int64) Option {
	return func(r *Race) { r.rng = rand.New(rand.NewSource(seed)) } //nolint:gosec // simulation only
}

// WithClock sets the time stamped on generated entries.
func WithClock(now func() time.Time) Option {
	return func(r *Race) {
		if now != nil {
			r.now = now
		}
	}
}

// New returns an empty race.
func New(opts ...Option) *Race {
	r := &Race{
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())), //nolint:gosec // simulation only
		now:      time.Now,
		tracks:   make(map[string]model.Track),
		failures: make(map[string]int),
		corrupt:  make(map[string]bool),
		hits:     make(map[string]int),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Generate replaces the race with n random athletes with unique ids and teams.
func (r *Race) Generate(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	athletes := make([]model.Athlete, n)
	status := make([]model.StatusEntry, n)
	now := r.now()
	for i := 0; i < n; i++ {
		code := teamCodes[i%len(teamCodes)]
		a := model.Athlete{
			AthleteID:   uuid.New().String(),
			Firstname:   "Pilot",
			Lastname:    strconv.Itoa(i + 1),
			Team:        code + strconv.Itoa(i/len(teamCodes)+1),
			CountryCode: code,
		}
		athletes[i] = a
		status[i] = model.StatusEntry{
			AthleteID:      a.AthleteID,
			Timestamp:      now.UnixMilli(),
			Status:         model.StatusHike,
			DistanceToGoal: startDistanceMin + r.rng.Float64()*startDistanceRange,
			Altitude:       uint(altitudeMin + r.rng.Intn(altitudeRange)),
			Speed:          uint(r.rng.Intn(speedRange)),
		}
	}
	r.overview = model.Overview{Athletes: athletes}
	r.status = status
	r.tracks = make(map[string]model.Track)
}

// Advance moves every athlete towards goal and appends a track point.
func (r *Race) Advance() {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	for i := range r.status {
		st := &r.status[i]
		st.DistanceToGoal -= r.rng.Float64() * stepDistanceMax
		if st.DistanceToGoal < 0 {
			st.DistanceToGoal = 0
		}
		st.Timestamp = now.UnixMilli()
		st.Status = []model.AthleteStatus{model.StatusRest, model.StatusFly, model.StatusHike}[r.rng.Intn(3)]
		st.Altitude = uint(altitudeMin + r.rng.Intn(altitudeRange))
		st.Speed = uint(r.rng.Intn(speedRange))

		tr := r.tracks[st.AthleteID]
		tr.Points = append(tr.Points, model.TrackPoint{
			Timestamp: float64(now.UnixMilli()) / 1000,
			Altitude:  float32(st.Altitude),
			Speed:     float32(st.Speed),
			Status:    st.Status.String(),
			HasStatus: true,
		})
		r.tracks[st.AthleteID] = tr
	}
}

// SetOverview replaces the roster.
func (r *Race) SetOverview(ov model.Overview) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.overview = ov
}

// SetStatus replaces the status snapshot.
func (r *Race) SetStatus(entries ...model.StatusEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.status = append([]model.StatusEntry(nil), entries...)
}

// SetTrack replaces one athlete's track.
func (r *Race) SetTrack(athleteID string, tr model.Track) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tracks[athleteID] = tr
}

// Fail makes every request to feed answer with code. Zero clears it.
func (r *Race) Fail(feed string, code int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if code == 0 {
		delete(r.failures, feed)
		return
	}
	r.failures[feed] = code
}

// Corrupt makes feed serve an undecodable body.
func (r *Race) Corrupt(feed string, on bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.corrupt[feed] = on
}

// Hits returns how often feed was requested.
func (r *Race) Hits(feed string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.hits[feed]
}

// Overview returns a copy of the roster.
func (r *Race) Overview() model.Overview {
	r.mu.Lock()
	defer r.mu.Unlock()
	ov := r.overview
	ov.Athletes = append([]model.Athlete(nil), r.overview.Athletes...)
	return ov
}

// Standings returns athlete ids ordered by distance to goal.
func (r *Race) Standings() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	st := append([]model.StatusEntry(nil), r.status...)
	sort.SliceStable(st, func(i, j int) bool { return st[i].DistanceToGoal < st[j].DistanceToGoal })
	ids := make([]string, len(st))
	for i, e := range st {
		ids[i] = e.AthleteID
	}
	return ids
}
