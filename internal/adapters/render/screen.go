package render

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// Cell styles.
var ( //nolint:gochecknoglobals // immutable styles
	titleStyle  = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	headerStyle = tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
	rowStyle    = tcell.StyleDefault
	staleStyle  = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	helpStyle   = tcell.StyleDefault.Foreground(tcell.ColorDarkGray).Dim(true)
)

const columnGap = 2

// ScreenOption configures a ScreenSink.
type ScreenOption func(*ScreenSink)

// WithScreen uses an existing screen, e.g. a tcell.SimulationScreen.
func WithScreen(s tcell.Screen) ScreenOption {
	return func(ss *ScreenSink) { ss.screen = s }
}

// WithQuit is called when the user presses q, Esc or Ctrl-C.
// The terminal is in raw mode, so these keys raise no signal.
func WithQuit(fn func()) ScreenOption {
	return func(ss *ScreenSink) { ss.quit = fn }
}

// ScreenSink draws frames on a full-screen terminal. Frames are composed
// in the back buffer and shown at once.
type ScreenSink struct {
	mu      sync.Mutex
	screen  tcell.Screen
	quit    func()
	last    *Frame
	stale   error
	staleAt time.Time
	done    chan struct{}
}

// NewScreenSink initializes the screen and starts reading key events.
func NewScreenSink(opts ...ScreenOption) (*ScreenSink, error) {
	s := &ScreenSink{quit: func() {}, done: make(chan struct{})}
	for _, opt := range opts {
		opt(s)
	}
	if s.screen == nil {
		screen, err := tcell.NewScreen()
		if err != nil {
			return nil, fmt.Errorf("create screen: %w", err)
		}
		s.screen = screen
	}
	if err := s.screen.Init(); err != nil {
		return nil, fmt.Errorf("init screen: %w", err)
	}
	s.screen.HideCursor()
	s.screen.Clear()
	s.screen.Show()

	go s.events()
	return s, nil
}

func (s *ScreenSink) events() {
	defer close(s.done)
	for {
		switch ev := s.screen.PollEvent().(type) {
		case nil:
			return
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyCtrlC || ev.Key() == tcell.KeyEscape || ev.Rune() == 'q' {
				s.quit()
			}
		case *tcell.EventResize:
			s.mu.Lock()
			s.screen.Sync()
			s.paint()
			s.mu.Unlock()
		}
	}
}

// Draw shows f and clears any stale flag.
func (s *ScreenSink) Draw(_ context.Context, f Frame) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = &f
	s.stale = nil
	s.paint()
	return nil
}

// MarkStale keeps the last frame and adds a red banner.
func (s *ScreenSink) MarkStale(_ context.Context, cause error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stale == nil {
		s.staleAt = time.Now()
	}
	s.stale = cause
	s.paint()
	return nil
}

// Close restores the terminal.
func (s *ScreenSink) Close() error {
	s.screen.Fini()
	<-s.done
	return nil
}

func (s *ScreenSink) paint() {
	s.screen.Clear()
	_, height := s.screen.Size()

	y := 0
	if s.last != nil {
		g := Table(*s.last)
		s.writeString(0, y, g.Title, titleStyle)
		y += 2

		widths := columnWidths(g)
		s.writeRow(y, g.Header, widths, headerStyle)
		y++
		for _, row := range g.Rows {
			s.writeRow(y, row, widths, rowStyle)
			y++
		}
	} else {
		s.writeString(0, y, "waiting for race data...", headerStyle)
	}

	if s.stale != nil {
		s.writeString(0, height-2, staleBanner(s.stale, s.staleAt.Format(timeLayout)), staleStyle)
	}
	s.writeString(0, height-1, "q quit", helpStyle)
	s.screen.Show()
}

func (s *ScreenSink) writeRow(y int, cells []string, widths []int, style tcell.Style) {
	x := 0
	for i, c := range cells {
		s.writeString(x, y, c, style)
		x += widths[i] + columnGap
	}
}

func (s *ScreenSink) writeString(x, y int, str string, style tcell.Style) {
	for _, ch := range str {
		s.screen.SetContent(x, y, ch, nil, style)
		x += runewidth.RuneWidth(ch)
	}
}

func columnWidths(g Grid) []int {
	widths := make([]int, len(g.Header))
	for i, h := range g.Header {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range g.Rows {
		for i, c := range row {
			if w := runewidth.StringWidth(c); w > widths[i] {
				widths[i] = w
			}
		}
	}
	return widths
}
