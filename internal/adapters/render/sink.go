// Package render draws leaderboard frames to the terminal.
package render

import (
	"context"
	"time"

	"github.com/okian/xalps/internal/domain/delta"
)

// Frame is one annotated leaderboard ready for display.
type Frame struct {
	Rows []delta.Marked
	At   time.Time
	// Tracked is set when altitude and speed come from the track feed.
	Tracked bool
}

// Sink displays frames. Draw replaces whatever was shown before.
type Sink interface {
	Draw(ctx context.Context, f Frame) error
}

// StaleMarker is implemented by sinks that can flag the shown frame as outdated.
// The flag clears on the next Draw.
type StaleMarker interface {
	MarkStale(ctx context.Context, cause error) error
}
