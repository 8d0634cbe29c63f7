package feed

import (
	"errors"
	"fmt"
)

// Error kinds, matched with errors.Is.
var (
	ErrTransport = errors.New("feed transport failure")
	ErrDecode    = errors.New("feed decode failure")
)

// Error describes a failed feed operation.
type Error struct {
	Feed string
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("feed %s: %s: %v", e.Feed, e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Kind returns "transport", "decode" or "other" for metric labels.
func (e *Error) Kind() string {
	switch {
	case errors.Is(e.Err, ErrTransport):
		return "transport"
	case errors.Is(e.Err, ErrDecode):
		return "decode"
	default:
		return "other"
	}
}

func transportError(feed, op string, err error) *Error {
	return &Error{Feed: feed, Op: op, Err: fmt.Errorf("%w: %w", ErrTransport, err)}
}

func decodeError(feed string, err error) *Error {
	return &Error{Feed: feed, Op: "decode", Err: fmt.Errorf("%w: %w", ErrDecode, err)}
}
