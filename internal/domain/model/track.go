package model

// TrackPoint is one decoded sample of an athlete's point track.
type TrackPoint struct {
	Timestamp     float64
	Lat           float32
	Lng           float32
	Altitude      float32
	AltitudeAGL   float32
	Speed         float32
	VerticalSpeed float32
	Status        string
	HasStatus     bool
}

// Track is the decoded point history of a single athlete.
type Track struct {
	AthleteID int32
	Points    []TrackPoint
}

// Latest returns the point with the greatest timestamp.
// NaN timestamps compare equal to everything and the first maximum wins.
func (t Track) Latest() (TrackPoint, bool) {
	if len(t.Points) == 0 {
		return TrackPoint{}, false
	}
	best := 0
	for i := 1; i < len(t.Points); i++ {
		if t.Points[i].Timestamp > t.Points[best].Timestamp {
			best = i
		}
	}
	return t.Points[best], true
}
