// Package service drives the leaderboard refresh loop.
package service

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/okian/xalps/internal/adapters/render"
	"github.com/okian/xalps/internal/domain/delta"
	"github.com/okian/xalps/internal/domain/model"
	"github.com/okian/xalps/internal/domain/summary"
	"github.com/okian/xalps/pkg/logger"
	"github.com/okian/xalps/pkg/metrics"
)

// Defaults of the reference display.
const (
	DefaultInterval     = 5 * time.Second
	DefaultTopN         = 5
	defaultTrackWorkers = 8
)

// Source provides race data.
type Source interface {
	Overview(ctx context.Context) (model.Overview, error)
	Status(ctx context.Context) ([]model.StatusEntry, error)
	Track(ctx context.Context, athleteID string) (model.Track, error)
}

// Outcome is the result of one successful tick.
// Top is the undecorated list the next tick compares against.
type Outcome struct {
	Top      []summary.AthleteSummary
	Rendered bool
}

// Service polls the feeds, ranks the athletes and draws changed boards.
type Service struct {
	source Source
	sink   render.Sink

	// Configuration
	interval    time.Duration
	topN        int
	tracks      bool
	leaderMode  delta.LeaderMode
	exitOnError bool
	workers     int
	now         func() time.Time

	builder   *summary.Builder
	annotator *delta.Annotator

	// Last drawn frame, read by the HTTP surface.
	board atomic.Pointer[render.Frame]

	logger logger.Logger
}

// New constructs a Service with the reference cadence and board size.
func New(opts ...Option) *Service {
	s := &Service{
		interval:   DefaultInterval,
		topN:       DefaultTopN,
		leaderMode: delta.LeaderCurrent,
		workers:    defaultTrackWorkers,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Named("service")
	}

	s.builder = summary.NewBuilder(
		summary.WithClock(s.now),
		summary.WithTrackAugmentation(s.tracks),
	)
	s.annotator = delta.NewAnnotator(delta.WithLeaderMode(s.leaderMode))
	return s
}

// Run fetches the overview once and refreshes until ctx is done.
// A failing overview is returned. Failing ticks are logged and the
// previous board stays up, unless exit on error is set.
func (s *Service) Run(ctx context.Context) error {
	if s.source == nil {
		return ErrNoSource
	}
	if s.sink == nil {
		return ErrNoSink
	}

	ov, err := s.source.Overview(ctx)
	if err != nil {
		return fmt.Errorf("fetch overview: %w", err)
	}
	s.logger.Info(ctx, "overview loaded",
		logger.Int("athletes", len(ov.Athletes)),
		logger.Duration("interval", s.interval),
		logger.Int("topN", s.topN),
		logger.Bool("tracks", s.tracks),
	)

	var (
		prev  []summary.AthleteSummary
		stale bool
	)
	for {
		start := s.now()
		tick := uuid.NewString()

		out, err := s.step(ctx, ov, prev, stale)
		elapsed := s.now().Sub(start)
		metrics.RecordTickDuration(elapsed)

		switch {
		case err == nil:
			prev, stale = out.Top, false
			s.logger.Debug(ctx, "tick done",
				logger.String("tick", tick),
				logger.Bool("rendered", out.Rendered),
				logger.Duration("elapsed", elapsed),
			)
		case ctx.Err() != nil:
			return nil
		default:
			if s.exitOnError {
				return fmt.Errorf("tick %s: %w", tick, err)
			}
			stale = true
			s.failed(ctx, tick, err)
		}

		timer := time.NewTimer(NextWait(s.interval, elapsed))
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}
	}
}

// Step runs one tick against prev, which is nil on the first tick.
func (s *Service) Step(ctx context.Context, ov model.Overview, prev []summary.AthleteSummary) (Outcome, error) {
	return s.step(ctx, ov, prev, false)
}

// step draws even an unchanged board when force is set, which clears a
// stale banner once the feeds recover.
func (s *Service) step(ctx context.Context, ov model.Overview, prev []summary.AthleteSummary, force bool) (Outcome, error) {
	metrics.RecordTick()

	in, err := s.gather(ctx, ov)
	if err != nil {
		return Outcome{}, err
	}
	rows, err := s.builder.Build(ctx, in)
	if err != nil {
		return Outcome{}, err
	}
	metrics.UpdateAthletesTracked(len(rows))

	top := summary.Top(rows, s.topN)
	if !force && prev != nil && summary.Equal(top, prev) {
		metrics.RecordRenderSkipped()
		return Outcome{Top: top}, nil
	}

	frame := render.Frame{
		Rows:    s.annotator.Annotate(top, prev),
		At:      s.now(),
		Tracked: s.tracks,
	}
	if err := s.sink.Draw(ctx, frame); err != nil {
		return Outcome{}, fmt.Errorf("%w: %w", ErrDraw, err)
	}

	s.board.Store(&frame)
	metrics.RecordRender()
	metrics.UpdateLastTick(frame.At)
	if len(rows) > 0 {
		metrics.UpdateLeaderDistance(rows[0].Distance)
	}
	for _, r := range frame.Rows {
		if r.Change != delta.None {
			metrics.RecordMarker(r.Change.String())
		}
	}
	return Outcome{Top: top, Rendered: true}, nil
}

func (s *Service) failed(ctx context.Context, tick string, err error) {
	kind := errorKind(err)
	metrics.RecordStepError(kind)
	s.logger.Error(ctx, "tick failed, keeping previous board",
		logger.String("tick", tick),
		logger.String("kind", kind),
		logger.Error(err),
	)
	if sm, ok := s.sink.(render.StaleMarker); ok {
		if serr := sm.MarkStale(ctx, err); serr != nil {
			s.logger.Warn(ctx, "failed to mark board stale", logger.Error(serr))
		}
	}
}

// Board returns a copy of the last drawn frame.
func (s *Service) Board() (render.Frame, bool) {
	f := s.board.Load()
	if f == nil {
		return render.Frame{}, false
	}
	out := *f
	out.Rows = append([]delta.Marked(nil), f.Rows...)
	return out, true
}

// NextWait is the sleep before the next tick. It is never negative.
func NextWait(interval, elapsed time.Duration) time.Duration {
	if elapsed >= interval {
		return 0
	}
	return interval - elapsed
}
