package canvas

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// Screen adapts a tcell screen to the Canvas and KeySource contracts.
type Screen struct {
	screen   tcell.Screen
	normal   tcell.Style
	inverted tcell.Style
}

// OpenScreen initialises the terminal. Callers must Close it.
func OpenScreen() (*Screen, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("create screen: %w", err)
	}
	if err := s.Init(); err != nil {
		return nil, fmt.Errorf("init screen: %w", err)
	}
	return NewScreen(s), nil
}

// NewScreen wraps an already initialised tcell screen.
func NewScreen(s tcell.Screen) *Screen {
	s.HideCursor()
	return &Screen{
		screen:   s,
		normal:   tcell.StyleDefault,
		inverted: tcell.StyleDefault.Reverse(true),
	}
}

func (s *Screen) Dimensions() (int, int) {
	w, h := s.screen.Size()
	return h, w
}

func (s *Screen) Clear() {
	s.screen.Clear()
}

func (s *Screen) WriteAt(row, col int, text string, attr Attr) {
	style := s.normal
	if attr == AttrInverted {
		style = s.inverted
	}
	w, h := s.screen.Size()
	if row < 0 || row >= h {
		return
	}
	for _, r := range text {
		rw := runewidth.RuneWidth(r)
		if rw == 0 {
			continue
		}
		if col+rw > w {
			return
		}
		s.screen.SetContent(col, row, r, nil, style)
		col += rw
	}
}

func (s *Screen) Present() {
	s.screen.Show()
}

// ReadKey blocks for the next key press. Resize and wake-up events return an
// empty KeyEvent so the caller redraws.
func (s *Screen) ReadKey() (KeyEvent, error) {
	for {
		switch ev := s.screen.PollEvent().(type) {
		case nil:
			return KeyEvent{}, ErrClosed
		case *tcell.EventKey:
			return KeyEvent{Name: keyName(ev)}, nil
		case *tcell.EventResize:
			s.screen.Sync()
			return KeyEvent{}, nil
		case *tcell.EventInterrupt:
			return KeyEvent{}, nil
		}
	}
}

// Wake unblocks a pending ReadKey from another goroutine.
func (s *Screen) Wake() {
	_ = s.screen.PostEvent(tcell.NewEventInterrupt(nil))
}

// Close restores the terminal.
func (s *Screen) Close() {
	s.screen.Fini()
}

func keyName(ev *tcell.EventKey) string {
	switch ev.Key() {
	case tcell.KeyUp:
		return "up"
	case tcell.KeyDown:
		return "down"
	case tcell.KeyLeft:
		return "left"
	case tcell.KeyRight:
		return "right"
	case tcell.KeyEnter:
		return "enter"
	case tcell.KeyEscape:
		return "esc"
	case tcell.KeyCtrlC:
		return "ctrl+c"
	case tcell.KeyTab:
		return "tab"
	case tcell.KeyPgUp:
		return "pgup"
	case tcell.KeyPgDn:
		return "pgdown"
	case tcell.KeyHome:
		return "home"
	case tcell.KeyEnd:
		return "end"
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return "backspace"
	case tcell.KeyRune:
		return string(ev.Rune())
	}
	return ev.Name()
}
