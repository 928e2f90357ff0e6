package emulator

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/phinze/swipedeck/internal/input"
	"github.com/phinze/swipedeck/internal/swipe"
)

// ReferenceDPI is the density of one logical pixel on a desktop display
// at a device scale factor of 1.
const ReferenceDPI = 96.0

// EbitenTouch reports the first touch of an Ebitengine game. It must be
// polled from the game's Update.
type EbitenTouch struct {
	// Height returns the layout height used to flip the Y axis.
	Height func() int

	tracker input.TouchTracker
	pressed, released, active []ebiten.TouchID
}

// Touch implements swipe.TouchSource.
func (t *EbitenTouch) Touch() (swipe.Touch, bool) {
	t.pressed = inpututil.AppendJustPressedTouchIDs(t.pressed[:0])
	t.released = inpututil.AppendJustReleasedTouchIDs(t.released[:0])
	t.active = ebiten.AppendTouchIDs(t.active[:0])

	raw, phase, ok := t.tracker.Step(input.TouchFrame{
		JustPressed:  touchInts(t.pressed),
		JustReleased: touchInts(t.released),
		Active:       touchInts(t.active),
	})
	if !ok {
		return swipe.Touch{}, false
	}

	id := ebiten.TouchID(raw)
	var x, y int
	if phase == swipe.TouchEnded {
		x, y = inpututil.TouchPositionInPreviousTick(id)
	} else {
		x, y = ebiten.TouchPosition(id)
	}
	return swipe.Touch{Phase: phase, Position: input.FlipY(x, y, t.Height())}, true
}

func touchInts(ids []ebiten.TouchID) []int {
	out := make([]int, len(ids))
	for i, id := range ids {
		out[i] = int(id)
	}
	return out
}

// EbitenMouse reports left button transitions of an Ebitengine game.
type EbitenMouse struct {
	// Height returns the layout height used to flip the Y axis.
	Height func() int
}

// Mouse implements swipe.MouseSource.
func (m *EbitenMouse) Mouse() swipe.Mouse {
	x, y := ebiten.CursorPosition()
	return swipe.Mouse{
		ButtonDown: inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft),
		ButtonUp:   inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft),
		Position:   input.FlipY(x, y, m.Height()),
	}
}

// EbitenDisplay reports the density of device pixels on the current monitor.
// Games using it should lay out in device pixels (outside size times
// DeviceScaleFactor) so that input coordinates match.
type EbitenDisplay struct{}

// DPI implements swipe.Display. It returns 0 when no monitor is known.
func (EbitenDisplay) DPI() float64 {
	m := ebiten.Monitor()
	if m == nil {
		return 0
	}
	return ReferenceDPI * m.DeviceScaleFactor()
}
