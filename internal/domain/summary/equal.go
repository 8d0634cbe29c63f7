package summary

import "math"

// Equal reports whether two lists hold the same rows in the same order.
// Floats compare by bit pattern so a NaN row does not count as a change.
func Equal(a, b []AthleteSummary) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

// Equal compares two rows field by field.
func (s AthleteSummary) Equal(o AthleteSummary) bool {
	return s.FullName == o.FullName &&
		s.Team == o.Team &&
		s.Altitude.same(o.Altitude) &&
		s.Speed.same(o.Speed) &&
		math.Float64bits(s.Distance) == math.Float64bits(o.Distance) &&
		s.Rank == o.Rank &&
		s.Status == o.Status &&
		s.Since == o.Since &&
		s.Updated.Equal(o.Updated)
}

// Top returns a copy of the first n rows.
func Top(list []AthleteSummary, n int) []AthleteSummary {
	if n < 0 {
		n = 0
	}
	if n > len(list) {
		n = len(list)
	}
	out := make([]AthleteSummary, n)
	copy(out, list[:n])
	return out
}
