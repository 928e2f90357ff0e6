// Package device defines the abstraction layer for Stream Deck touch strips.
package device

import (
	"image"
)

// Device is the interface that abstracts a Stream Deck with a touch strip.
// Both the real hardware adapter and the emulator implement this interface.
type Device interface {
	// Lifecycle
	Open() error
	Close() error
	IsOpen() bool

	// Device info
	GetModelName() string
	GetTouchStripSupported() bool
	GetTouchStripImageRectangle() (image.Rectangle, error)

	// Display
	SetBrightness(perc byte) error
	SetTouchStripImage(img image.Image) error

	// Event handlers
	AddTouchStripTouchHandler(fn TouchStripTouchHandler) error
	AddTouchStripSwipeHandler(fn TouchStripSwipeHandler) error

	// Event loop
	Listen(errCh chan error) error
}

// TouchStripTouchType represents the type of touch on the strip.
type TouchStripTouchType byte

// Touch strip touch types
const (
	TOUCH_STRIP_TOUCH_TYPE_SHORT TouchStripTouchType = iota + 1
	TOUCH_STRIP_TOUCH_TYPE_LONG
)

func (t TouchStripTouchType) String() string {
	switch t {
	case TOUCH_STRIP_TOUCH_TYPE_SHORT:
		return "short"
	case TOUCH_STRIP_TOUCH_TYPE_LONG:
		return "long"
	default:
		return "unknown"
	}
}

// Handler types - note these use the local Device interface
type (
	// TouchStripTouchHandler is called when the touch strip is touched.
	TouchStripTouchHandler func(d Device, t TouchStripTouchType, p image.Point) error

	// TouchStripSwipeHandler is called when the touch strip is swiped.
	TouchStripSwipeHandler func(d Device, origin, destination image.Point) error
)
