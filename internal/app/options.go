package service

import (
	"time"

	"github.com/okian/xalps/internal/adapters/render"
	"github.com/okian/xalps/internal/domain/delta"
	"github.com/okian/xalps/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSource sets where race data is read from.
func WithSource(src Source) Option {
	return func(s *Service) { s.source = src }
}

// WithSink sets where frames are drawn.
func WithSink(sink render.Sink) Option {
	return func(s *Service) { s.sink = sink }
}

// WithInterval sets the refresh cadence.
func WithInterval(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithTopN sets how many rows are shown.
func WithTopN(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.topN = n
		}
	}
}

// WithTrackAugmentation fetches every athlete's track each tick.
func WithTrackAugmentation(enabled bool) Option {
	return func(s *Service) { s.tracks = enabled }
}

// WithLeaderMode sets the delta leader offset mode.
func WithLeaderMode(mode delta.LeaderMode) Option {
	return func(s *Service) { s.leaderMode = mode }
}

// WithExitOnError makes Run return on the first failed tick.
func WithExitOnError(exit bool) Option {
	return func(s *Service) { s.exitOnError = exit }
}

// WithTrackWorkers bounds concurrent track fetches.
func WithTrackWorkers(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithClock sets the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}
