package device

import (
	"fmt"
	"image"

	"rafaelmartins.com/p/streamdeck"
)

// HardwareDevice wraps the real streamdeck.Device to implement the Device interface.
type HardwareDevice struct {
	dev *streamdeck.Device
}

// NewHardware creates a new hardware device wrapper.
func NewHardware(dev *streamdeck.Device) *HardwareDevice {
	return &HardwareDevice{dev: dev}
}

// OpenHardware finds the first attached Stream Deck with the given serial
// (empty for any) and opens it. Devices without a touch strip are rejected.
func OpenHardware(serial string) (*HardwareDevice, error) {
	dev, err := streamdeck.GetDevice(serial)
	if err != nil {
		return nil, fmt.Errorf("finding device: %w", err)
	}
	if err := dev.Open(); err != nil {
		return nil, fmt.Errorf("opening device: %w", err)
	}
	if !dev.GetTouchStripSupported() {
		dev.Close()
		return nil, fmt.Errorf("%s has no touch strip", dev.GetModelName())
	}
	return NewHardware(dev), nil
}

// Open opens the device for use.
func (h *HardwareDevice) Open() error {
	return h.dev.Open()
}

// Close closes the device.
func (h *HardwareDevice) Close() error {
	return h.dev.Close()
}

// IsOpen returns whether the device is open.
func (h *HardwareDevice) IsOpen() bool {
	return h.dev.IsOpen()
}

// GetModelName returns the device model name.
func (h *HardwareDevice) GetModelName() string {
	return h.dev.GetModelName()
}

// GetTouchStripSupported returns whether the device has a touch strip.
func (h *HardwareDevice) GetTouchStripSupported() bool {
	return h.dev.GetTouchStripSupported()
}

// GetTouchStripImageRectangle returns the dimensions for the touch strip image.
func (h *HardwareDevice) GetTouchStripImageRectangle() (image.Rectangle, error) {
	return h.dev.GetTouchStripImageRectangle()
}

// SetBrightness sets the device brightness.
func (h *HardwareDevice) SetBrightness(perc byte) error {
	return h.dev.SetBrightness(perc)
}

// SetTouchStripImage sets the touch strip image.
func (h *HardwareDevice) SetTouchStripImage(img image.Image) error {
	return h.dev.SetTouchStripImage(img)
}

// AddTouchStripTouchHandler adds a handler for touch strip touches.
func (h *HardwareDevice) AddTouchStripTouchHandler(fn TouchStripTouchHandler) error {
	return h.dev.AddTouchStripTouchHandler(func(d *streamdeck.Device, t streamdeck.TouchStripTouchType, p image.Point) error {
		return fn(h, TouchStripTouchType(t), p)
	})
}

// AddTouchStripSwipeHandler adds a handler for touch strip swipes.
func (h *HardwareDevice) AddTouchStripSwipeHandler(fn TouchStripSwipeHandler) error {
	return h.dev.AddTouchStripSwipeHandler(func(d *streamdeck.Device, origin, destination image.Point) error {
		return fn(h, origin, destination)
	})
}

// Listen starts the device event loop.
func (h *HardwareDevice) Listen(errCh chan error) error {
	return h.dev.Listen(errCh)
}
