package service

import (
	"errors"

	"github.com/okian/xalps/internal/adapters/feed"
	"github.com/okian/xalps/internal/domain/summary"
)

// Service errors.
var (
	ErrNoSource = errors.New("service: no feed source configured")
	ErrNoSink   = errors.New("service: no render sink configured")
	ErrDraw     = errors.New("service: render failed")
)

// errorKind labels a failed tick for metrics and logs.
func errorKind(err error) string {
	var fe *feed.Error
	switch {
	case errors.As(err, &fe):
		return fe.Kind()
	case errors.Is(err, summary.ErrConsistency):
		return "consistency"
	case errors.Is(err, ErrDraw):
		return "render"
	default:
		return "other"
	}
}
