// Package model contains domain models passed between layers.
package model

import (
	"errors"
	"fmt"
)

// ErrInvalidOverview marks a roster that breaks the identity invariants.
var ErrInvalidOverview = errors.New("invalid overview")

// Athlete is one race participant from the overview roster.
// Both AthleteID and Team are unique across the roster.
type Athlete struct {
	AthleteID   string `json:"athleteId"`
	Firstname   string `json:"firstname"`
	Lastname    string `json:"lastname"`
	Team        string `json:"team"`
	CountryCode string `json:"countryCode,omitempty"`
	Nationality string `json:"nationality,omitempty"`
	Hide        bool   `json:"hide,omitempty"`
}

// FullName returns "Firstname Lastname".
func (a Athlete) FullName() string {
	return a.Firstname + " " + a.Lastname
}

// DateRange is a start/end pair in epoch milliseconds.
type DateRange struct {
	StartTime int64 `json:"startTime"`
	EndTime   int64 `json:"endTime"`
}

// Overview is the largely static race document fetched once at startup.
type Overview struct {
	Athletes   []Athlete `json:"athletes"`
	RaceDates  DateRange `json:"raceDates"`
	ClockDates DateRange `json:"clockDates"`
}

// Validate checks that athlete ids and team codes are unique and non-empty.
func (o Overview) Validate() error {
	ids := make(map[string]struct{}, len(o.Athletes))
	teams := make(map[string]struct{}, len(o.Athletes))
	for _, a := range o.Athletes {
		if a.AthleteID == "" || a.Team == "" {
			return fmt.Errorf("%w: athlete %q has empty id or team", ErrInvalidOverview, a.FullName())
		}
		if _, dup := ids[a.AthleteID]; dup {
			return fmt.Errorf("%w: duplicate athlete id %s", ErrInvalidOverview, a.AthleteID)
		}
		if _, dup := teams[a.Team]; dup {
			return fmt.Errorf("%w: duplicate team %s", ErrInvalidOverview, a.Team)
		}
		ids[a.AthleteID] = struct{}{}
		teams[a.Team] = struct{}{}
	}
	return nil
}
