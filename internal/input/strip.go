// Package input adapts device callbacks to the swipe sampler's sources.
package input

import (
	"image"
	"sync"

	"github.com/phinze/swipedeck/internal/geom"
	"github.com/phinze/swipedeck/internal/swipe"
)

// FlipY converts a screen coordinate (Y down) to a swipe coordinate (Y up)
// for an area of the given height.
func FlipY(x, y, height int) geom.Vector2 {
	return geom.V2(float64(x), float64(height-1-y))
}

// stripGesture is a completed strip interaction waiting to be replayed.
type stripGesture struct {
	origin, destination image.Point
}

// StripTouch replays touch-strip callbacks as per-tick touch phases.
//
// The device reports a swipe only once it is finished, with its origin and
// destination. StripTouch turns each one into a Began sample at the origin
// followed by an Ended sample at the destination on the next tick. Taps are
// replayed the same way with no displacement.
//
// Swipe and Tap may be called from device goroutines; Touch is called
// from the sampler loop.
type StripTouch struct {
	height int

	mu      sync.Mutex
	pending []stripGesture
	ending  *stripGesture
}

// MaxPendingStripGestures bounds the replay queue; older gestures are dropped.
const MaxPendingStripGestures = 16

// NewStripTouch creates a StripTouch for a strip of the given rectangle.
func NewStripTouch(rect image.Rectangle) *StripTouch {
	return &StripTouch{height: rect.Dy()}
}

// Swipe queues a finished strip swipe.
func (s *StripTouch) Swipe(origin, destination image.Point) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending = append(s.pending, stripGesture{origin: origin, destination: destination})
	if over := len(s.pending) - MaxPendingStripGestures; over > 0 {
		s.pending = s.pending[over:]
	}
}

// Tap queues a tap, which replays as a zero-length gesture.
func (s *StripTouch) Tap(p image.Point) {
	s.Swipe(p, p)
}

// Pending returns the number of gestures not yet replayed.
func (s *StripTouch) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Touch implements swipe.TouchSource.
func (s *StripTouch) Touch() (swipe.Touch, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ending != nil {
		g := s.ending
		s.ending = nil
		return swipe.Touch{
			Phase:    swipe.TouchEnded,
			Position: FlipY(g.destination.X, g.destination.Y, s.height),
		}, true
	}

	if len(s.pending) == 0 {
		return swipe.Touch{}, false
	}

	g := s.pending[0]
	s.pending = s.pending[1:]
	s.ending = &g
	return swipe.Touch{
		Phase:    swipe.TouchBegan,
		Position: FlipY(g.origin.X, g.origin.Y, s.height),
	}, true
}
