// Package canvas defines the drawing surface the navigator renders into and
// the key events it consumes. Two implementations ship with the module: Grid,
// an in-memory cell buffer the Bubble Tea driver converts to a string, and
// Screen, a tcell-backed terminal used by the synchronous console driver.
package canvas

import "errors"

// Attr is the display attribute applied to a text run.
type Attr int

const (
	AttrNormal Attr = iota
	AttrInverted
)

// ErrClosed is returned by ReadKey once the underlying terminal is gone.
var ErrClosed = errors.New("canvas closed")

// Canvas is the minimal surface used by the render pipeline.
type Canvas interface {
	// Dimensions reports the drawable size in cells.
	Dimensions() (rows, cols int)
	Clear()
	// WriteAt draws text starting at (row, col). Text running past the right
	// edge is clipped.
	WriteAt(row, col int, text string, attr Attr)
	Present()
}

// KeySource delivers key events, blocking until one is available.
type KeySource interface {
	ReadKey() (KeyEvent, error)
}

// KeyEvent names a key using Bubble Tea's key strings ("up", "enter", "q",
// "ctrl+c"). An empty name carries no key; the caller should simply redraw.
type KeyEvent struct {
	Name string
}

func (k KeyEvent) String() string {
	return k.Name
}

// Empty reports whether the event carries no key press.
func (k KeyEvent) Empty() bool {
	return k.Name == ""
}
