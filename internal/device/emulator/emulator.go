// Package emulator provides a GUI-based Stream Deck touch strip emulator
// and a free-form swipe pad, both built on Ebitengine.
package emulator

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/phinze/swipedeck/internal/device"
)

// Layout constants for the Stream Deck Plus touch strip
const (
	marginX       = 20 // Left/right margin
	marginY       = 20 // Top margin
	headerHeight  = 30 // Title bar height
	bottomMarginY = 40 // Space below strip

	// Strip dimensions (native resolution)
	stripWidth  = 800
	stripHeight = 100

	windowWidth  = 2*marginX + stripWidth
	windowHeight = headerHeight + marginY + stripHeight + bottomMarginY

	// Drags shorter than this are taps.
	tapRadius = 20
	// Taps held longer than this are long taps.
	longTapAfter = 500 * time.Millisecond
)

// Emulator implements the device.Device interface using Ebitengine for GUI rendering.
type Emulator struct {
	mu sync.RWMutex

	// State
	open       bool
	brightness byte
	stripImage *image.RGBA

	// Handlers
	stripTouchHandlers []device.TouchStripTouchHandler
	stripSwipeHandlers []device.TouchStripSwipeHandler

	// Ebitengine state
	game       *emulatorGame
	stopCh     chan struct{}
	errorCh    chan error
	listenDone chan struct{}

	// Input state (managed by game loop)
	dragStart     image.Point
	dragStartTime time.Time
	dragging      bool
}

// New creates a new emulator instance.
func New() *Emulator {
	return &Emulator{
		brightness: 80,
		stopCh:     make(chan struct{}),
		stripImage: image.NewRGBA(image.Rect(0, 0, stripWidth, stripHeight)),
		listenDone: make(chan struct{}),
	}
}

// Open initializes the emulator.
func (e *Emulator) Open() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.open {
		return fmt.Errorf("emulator: device is already open")
	}

	e.open = true
	e.stopCh = make(chan struct{})
	return nil
}

// Close shuts down the emulator.
func (e *Emulator) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.open {
		return fmt.Errorf("emulator: device is not open")
	}

	e.open = false

	// Signal the game loop to stop
	close(e.stopCh)

	return nil
}

// IsOpen returns whether the emulator is open.
func (e *Emulator) IsOpen() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.open
}

// GetModelName returns the emulated model name.
func (e *Emulator) GetModelName() string {
	return "Stream Deck Plus (Emulator)"
}

// GetTouchStripSupported returns true as the emulated device supports touch strip.
func (e *Emulator) GetTouchStripSupported() bool {
	return true
}

// GetTouchStripImageRectangle returns the touch strip dimensions.
func (e *Emulator) GetTouchStripImageRectangle() (image.Rectangle, error) {
	return image.Rect(0, 0, stripWidth, stripHeight), nil
}

// SetBrightness sets the display brightness.
func (e *Emulator) SetBrightness(perc byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.brightness = perc
	return nil
}

// SetTouchStripImage sets the touch strip image.
func (e *Emulator) SetTouchStripImage(img image.Image) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	// Create new RGBA image and draw the provided image onto it
	rgba := image.NewRGBA(image.Rect(0, 0, stripWidth, stripHeight))
	draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)
	e.stripImage = rgba

	return nil
}

// AddTouchStripTouchHandler registers a touch strip touch handler.
func (e *Emulator) AddTouchStripTouchHandler(fn device.TouchStripTouchHandler) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stripTouchHandlers = append(e.stripTouchHandlers, fn)
	return nil
}

// AddTouchStripSwipeHandler registers a touch strip swipe handler.
func (e *Emulator) AddTouchStripSwipeHandler(fn device.TouchStripSwipeHandler) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stripSwipeHandlers = append(e.stripSwipeHandlers, fn)
	return nil
}

// Listen blocks until the emulator window is closed.
// For the emulator, the actual event loop runs via RunGUI() which must be called from main.
func (e *Emulator) Listen(errCh chan error) error {
	e.mu.Lock()
	if !e.open {
		e.mu.Unlock()
		return fmt.Errorf("emulator: device is not open")
	}
	e.errorCh = errCh
	done := e.listenDone
	e.mu.Unlock()

	// Block until GUI is closed
	<-done
	return nil
}

// RunGUI starts the Ebitengine GUI loop. This MUST be called from the main goroutine
// on macOS due to Cocoa threading requirements. This method blocks until the window is closed.
func (e *Emulator) RunGUI() error {
	e.mu.Lock()
	if !e.open {
		e.mu.Unlock()
		return fmt.Errorf("emulator: device is not open")
	}
	e.game = &emulatorGame{emu: e}
	e.mu.Unlock()

	ebiten.SetWindowSize(windowWidth, windowHeight)
	ebiten.SetWindowTitle("Stream Deck Strip Emulator")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeDisabled)

	// Run the game loop (this blocks until the window is closed)
	err := ebiten.RunGame(e.game)

	// Signal Listen() to unblock
	close(e.listenDone)
	return err
}

// emulatorGame implements ebiten.Game for the emulator.
type emulatorGame struct {
	emu *Emulator
}

func (g *emulatorGame) Update() error {
	// Check for stop signal
	select {
	case <-g.emu.stopCh:
		return ebiten.Termination
	default:
	}

	mx, my := ebiten.CursorPosition()
	g.handleInput(mx, my,
		inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft),
		ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
		time.Now())
	return nil
}

func (g *emulatorGame) Draw(screen *ebiten.Image) {
	// Background
	screen.Fill(color.RGBA{30, 30, 30, 255})

	g.emu.mu.RLock()
	defer g.emu.mu.RUnlock()

	stripStartX := marginX
	stripStartY := headerHeight + marginY

	// Draw title
	ebitenutil.DebugPrintAt(screen, "Stream Deck Strip Emulator", windowWidth/2-80, 8)

	// Draw touch strip background
	drawRect(screen, stripStartX-2, stripStartY-2, stripWidth+4, stripHeight+4, color.RGBA{60, 60, 60, 255})

	// Draw touch strip image at native resolution
	if g.emu.stripImage != nil {
		stripImg := ebiten.NewImageFromImage(g.emu.stripImage)
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(float64(stripStartX), float64(stripStartY))
		brightness := float64(g.emu.brightness) / 100.0
		op.ColorScale.Scale(float32(brightness), float32(brightness), float32(brightness), 1)
		screen.DrawImage(stripImg, op)
	}

	// Draw instructions
	instrY := windowHeight - 18
	ebitenutil.DebugPrintAt(screen, "Click or drag across the touch strip", 10, instrY)
}

func (g *emulatorGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return windowWidth, windowHeight
}

// handleInput turns a mouse drag on the strip into tap or swipe callbacks.
// Coordinates are window coordinates.
func (g *emulatorGame) handleInput(mx, my int, justPressed, pressed bool, now time.Time) {
	stripStartX := marginX
	stripStartY := headerHeight + marginY

	if justPressed {
		if mx >= stripStartX && mx < stripStartX+stripWidth && my >= stripStartY && my < stripStartY+stripHeight {
			g.emu.dragging = true
			// Coordinates are already in strip space (native resolution)
			g.emu.dragStart = image.Point{X: mx - stripStartX, Y: my - stripStartY}
			g.emu.dragStartTime = now
		}
	}

	if !g.emu.dragging || pressed {
		return
	}

	// Get end point in strip coordinates, clamped to strip bounds
	endPoint := image.Point{
		X: clamp(mx-stripStartX, 0, stripWidth-1),
		Y: clamp(my-stripStartY, 0, stripHeight-1),
	}
	duration := now.Sub(g.emu.dragStartTime)

	dx := endPoint.X - g.emu.dragStart.X
	dy := endPoint.Y - g.emu.dragStart.Y

	if dx*dx+dy*dy < tapRadius*tapRadius {
		touchType := device.TOUCH_STRIP_TOUCH_TYPE_SHORT
		if duration > longTapAfter {
			touchType = device.TOUCH_STRIP_TOUCH_TYPE_LONG
		}
		g.triggerStripTouch(touchType, g.emu.dragStart)
	} else {
		g.triggerStripSwipe(g.emu.dragStart, endPoint)
	}

	g.emu.dragging = false
}

func (g *emulatorGame) triggerStripTouch(touchType device.TouchStripTouchType, point image.Point) {
	g.emu.mu.RLock()
	handlers := g.emu.stripTouchHandlers
	g.emu.mu.RUnlock()

	for _, handler := range handlers {
		go g.deliver(func() error { return handler(g.emu, touchType, point) })
	}
}

func (g *emulatorGame) triggerStripSwipe(origin, destination image.Point) {
	g.emu.mu.RLock()
	handlers := g.emu.stripSwipeHandlers
	g.emu.mu.RUnlock()

	for _, handler := range handlers {
		go g.deliver(func() error { return handler(g.emu, origin, destination) })
	}
}

// deliver runs a handler and forwards its error to the Listen channel, if any.
func (g *emulatorGame) deliver(fn func() error) {
	if err := fn(); err != nil {
		g.emu.mu.RLock()
		errCh := g.emu.errorCh
		g.emu.mu.RUnlock()
		if errCh != nil {
			select {
			case errCh <- err:
			default:
			}
		}
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Helper function to draw a filled rectangle
func drawRect(screen *ebiten.Image, x, y, w, h int, c color.Color) {
	rect := ebiten.NewImage(w, h)
	rect.Fill(c)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(x), float64(y))
	screen.DrawImage(rect, op)
}
