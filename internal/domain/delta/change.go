package delta

import "fmt"

// Change is the movement marker of one row against the previous cycle.
type Change uint8

// Markers. None is also used on the first cycle.
const (
	None Change = iota
	RankUp
	RankDown
	TendencyUp
	TendencyDown
)

// Glyph returns the suffix appended to the display name.
func (c Change) Glyph() string {
	switch c {
	case RankUp:
		return " ▲"
	case RankDown:
		return " ▼"
	case TendencyUp:
		return " ↗"
	case TendencyDown:
		return " ↘"
	default:
		return ""
	}
}

func (c Change) String() string {
	switch c {
	case None:
		return "none"
	case RankUp:
		return "rank_up"
	case RankDown:
		return "rank_down"
	case TendencyUp:
		return "tendency_up"
	case TendencyDown:
		return "tendency_down"
	default:
		return fmt.Sprintf("Change(%d)", uint8(c))
	}
}

// MarshalText encodes the marker name for JSON output.
func (c Change) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}
