package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// AthleteStatus is the closed set of live race states.
type AthleteStatus uint8

// Race states. Automatic and Out are display states, not errors.
const (
	StatusRest AthleteStatus = iota
	StatusFly
	StatusHike
	StatusAutomatic
	StatusOut
)

// String returns the display name.
func (s AthleteStatus) String() string {
	switch s {
	case StatusRest:
		return "Rest"
	case StatusFly:
		return "Fly"
	case StatusHike:
		return "Hike"
	case StatusAutomatic:
		return "Automatic"
	case StatusOut:
		return "Out"
	default:
		return fmt.Sprintf("AthleteStatus(%d)", uint8(s))
	}
}

// Verbalize describes the state as a verb, e.g. for notifications.
func (s AthleteStatus) Verbalize() string {
	switch s {
	case StatusRest:
		return "resting"
	case StatusFly:
		return "flying"
	case StatusHike:
		return "hiking"
	case StatusAutomatic:
		return "<unknown>"
	case StatusOut:
		return "is out"
	default:
		return "<unknown>"
	}
}

// wireTag returns the upper-case tag used by the status feed.
func (s AthleteStatus) wireTag() (string, bool) {
	switch s {
	case StatusRest:
		return "REST", true
	case StatusFly:
		return "FLY", true
	case StatusHike:
		return "HIKE", true
	case StatusAutomatic:
		return "AUTOMATIC", true
	case StatusOut:
		return "OUT", true
	default:
		return "", false
	}
}

// ParseAthleteStatus maps a feed tag to a state.
func ParseAthleteStatus(tag string) (AthleteStatus, error) {
	switch tag {
	case "REST":
		return StatusRest, nil
	case "FLY":
		return StatusFly, nil
	case "HIKE":
		return StatusHike, nil
	case "AUTOMATIC":
		return StatusAutomatic, nil
	case "OUT":
		return StatusOut, nil
	}
	return 0, fmt.Errorf("unknown athlete status %q", tag)
}

// MarshalJSON encodes the feed tag.
func (s AthleteStatus) MarshalJSON() ([]byte, error) {
	tag, ok := s.wireTag()
	if !ok {
		return nil, fmt.Errorf("unknown athlete status %d", uint8(s))
	}
	return json.Marshal(tag)
}

// UnmarshalJSON decodes the feed tag.
func (s *AthleteStatus) UnmarshalJSON(data []byte) error {
	var tag string
	if err := json.Unmarshal(data, &tag); err != nil {
		return err
	}
	parsed, err := ParseAthleteStatus(tag)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// StatusEntry is one athlete's live status in a race-status snapshot.
type StatusEntry struct {
	AthleteID      string        `json:"athleteId"`
	Timestamp      int64         `json:"timestamp"` // epoch milliseconds
	Status         AthleteStatus `json:"status"`
	DistanceToGoal float64       `json:"distanceToGoal"`
	Altitude       uint          `json:"altitude"`
	Speed          uint          `json:"speed"`
}

// Time converts the event timestamp.
func (e StatusEntry) Time() time.Time {
	return time.UnixMilli(e.Timestamp)
}

// StatusReplay is the status of every athlete at one minute of a race day.
type StatusReplay struct {
	Timestamp int64         `json:"timestamp"`
	Status    []StatusEntry `json:"status"`
}
