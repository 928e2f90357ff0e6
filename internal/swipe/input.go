package swipe

import (
	"time"

	"github.com/phinze/swipedeck/internal/geom"
)

// TouchPhase is the lifecycle phase of the tracked touch.
type TouchPhase uint8

const (
	// TouchBegan is reported on the tick a finger first lands.
	TouchBegan TouchPhase = iota + 1
	// TouchChanged is reported on every tick the finger stays down.
	TouchChanged
	// TouchEnded is reported on the tick the finger lifts.
	TouchEnded
)

// Touch is the state of touch index 0 for one tick.
type Touch struct {
	Phase    TouchPhase
	Position geom.Vector2
}

// Mouse is the state of the primary mouse button for one tick.
// ButtonDown and ButtonUp are transitions, not levels.
type Mouse struct {
	ButtonDown bool
	ButtonUp   bool
	Position   geom.Vector2
}

// TouchSource reports the first active touch, or false when there is none.
type TouchSource interface {
	Touch() (Touch, bool)
}

// MouseSource reports the primary mouse button transitions for the current tick.
type MouseSource interface {
	Mouse() Mouse
}

// Display reports the screen density. Zero means unknown.
type Display interface {
	DPI() float64
}

// Tick carries the host clock for one sampling step.
type Tick struct {
	// Now is the time elapsed since the host started ticking.
	Now time.Duration
}

// TouchFunc adapts a function to TouchSource.
type TouchFunc func() (Touch, bool)

// Touch calls f.
func (f TouchFunc) Touch() (Touch, bool) { return f() }

// MouseFunc adapts a function to MouseSource.
type MouseFunc func() Mouse

// Mouse calls f.
func (f MouseFunc) Mouse() Mouse { return f() }

// FixedDPI is a Display with a constant density.
type FixedDPI float64

// DPI returns d.
func (d FixedDPI) DPI() float64 { return float64(d) }
