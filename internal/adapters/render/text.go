package render

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"text/tabwriter"
	"time"
)

// ClearSequence homes the cursor and clears the screen and scrollback.
const ClearSequence = "\x1b[H\x1b[2J\x1b[3J"

// TextSink writes frames as aligned text. Each frame, clear sequence
// included, goes out in one Write so a reader never sees a half frame.
type TextSink struct {
	mu      sync.Mutex
	w       io.Writer
	last    *Frame
	stale   error
	staleAt time.Time
}

// NewTextSink returns a sink writing to w.
func NewTextSink(w io.Writer) *TextSink {
	return &TextSink{w: w}
}

// Draw renders f and clears any stale flag.
func (s *TextSink) Draw(_ context.Context, f Frame) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = &f
	s.stale = nil
	return s.flush()
}

// MarkStale redraws the last frame with a stale banner.
func (s *TextSink) MarkStale(_ context.Context, cause error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stale == nil {
		s.staleAt = time.Now()
	}
	s.stale = cause
	return s.flush()
}

func (s *TextSink) flush() error {
	var buf bytes.Buffer
	buf.WriteString(ClearSequence)
	if s.last != nil {
		writeGrid(&buf, Table(*s.last))
	}
	if s.stale != nil {
		buf.WriteString("\n! " + staleBanner(s.stale, s.staleAt.Format(timeLayout)) + "\n")
	}
	_, err := s.w.Write(buf.Bytes())
	return err
}

func writeGrid(buf *bytes.Buffer, g Grid) {
	buf.WriteString(g.Title + "\n\n")
	tw := tabwriter.NewWriter(buf, 0, 0, 2, ' ', 0)
	_, _ = io.WriteString(tw, strings.Join(g.Header, "\t")+"\n")
	for _, row := range g.Rows {
		_, _ = io.WriteString(tw, strings.Join(row, "\t")+"\n")
	}
	_ = tw.Flush()
}
