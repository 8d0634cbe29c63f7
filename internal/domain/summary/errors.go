package summary

import (
	"errors"
	"fmt"
)

// ErrConsistency marks inputs that cannot produce a trustworthy leaderboard.
var ErrConsistency = errors.New("inconsistent race data")

// MissingStatusError reports a roster athlete missing from the status feed.
type MissingStatusError struct {
	AthleteID string
	Name      string
}

func (e *MissingStatusError) Error() string {
	return fmt.Sprintf("no status for athlete %s (%s)", e.AthleteID, e.Name)
}

// Is lets errors.Is match ErrConsistency.
func (e *MissingStatusError) Is(target error) bool {
	return target == ErrConsistency
}
