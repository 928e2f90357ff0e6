package input

import (
	"slices"

	"github.com/phinze/swipedeck/internal/swipe"
)

// TouchFrame is the host's touch state for one tick.
type TouchFrame struct {
	JustPressed  []int
	JustReleased []int
	// Active lists touches currently down.
	Active []int
}

// TouchTracker follows the first touch of a multi-touch host and reports
// its phase each tick. Other touches are ignored until it ends.
type TouchTracker struct {
	id       int
	tracking bool
}

// Step returns the tracked touch and its phase, or false when no touch
// is being followed.
func (t *TouchTracker) Step(f TouchFrame) (int, swipe.TouchPhase, bool) {
	if t.tracking {
		if slices.Contains(f.JustReleased, t.id) {
			t.tracking = false
			return t.id, swipe.TouchEnded, true
		}
		if !slices.Contains(f.Active, t.id) {
			// Released on a tick we were not polled.
			t.tracking = false
			return 0, 0, false
		}
		return t.id, swipe.TouchChanged, true
	}

	if len(f.JustPressed) == 0 {
		return 0, 0, false
	}
	t.id = f.JustPressed[0]
	t.tracking = true
	return t.id, swipe.TouchBegan, true
}

// Tracking reports whether a touch is being followed.
func (t *TouchTracker) Tracking() bool {
	return t.tracking
}
