package emulator

import (
	"fmt"
	"image"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/phinze/swipedeck/internal/geom"
	"github.com/phinze/swipedeck/internal/listener"
	"github.com/phinze/swipedeck/internal/render"
	"github.com/phinze/swipedeck/internal/swipe"
	"go.uber.org/zap"
)

// Pad window size in logical pixels.
const (
	padWidth  = 800
	padHeight = 500
	padStatus = 100 // Height of the status band at the top
)

// Pad is a window that samples swipes made anywhere inside it with the
// mouse or a touchscreen.
type Pad struct {
	sampler  *swipe.Sampler
	recorder *listener.Recorder
	logger   *zap.Logger

	ticks      int64
	configured bool

	// Layout size in device pixels.
	width, height int

	status   render.Status
	rendered *ebiten.Image
	dirty    bool
}

// NewPad creates a pad whose sampler uses cfg. The sampler is active and
// has a logging and a recording subscriber attached.
func NewPad(cfg swipe.Config, logger *zap.Logger) *Pad {
	p := &Pad{
		recorder: listener.NewRecorder(listener.DefaultCapacity),
		logger:   logger.Named("pad"),
		width:    padWidth,
		height:   padHeight,
		dirty:    true,
	}
	height := func() int { return p.height }
	p.sampler = swipe.New(cfg,
		&EbitenTouch{Height: height},
		&EbitenMouse{Height: height},
		EbitenDisplay{},
		swipe.WithLogger(logger),
	)
	listener.NewLogger(logger).Attach(p.sampler)
	p.recorder.Attach(p.sampler)
	p.sampler.Subscribe(p.onSwipe)
	p.status.Hint = "drag anywhere below"
	return p
}

// Sampler returns the pad's sampler.
func (p *Pad) Sampler() *swipe.Sampler {
	return p.sampler
}

// Recorder returns the swipes seen by the pad.
func (p *Pad) Recorder() *listener.Recorder {
	return p.recorder
}

func (p *Pad) onSwipe(dir swipe.Direction, velocity geom.Vector2) {
	p.status = render.Status{
		Last:  swipe.Result{Direction: dir, Velocity: velocity},
		Total: p.recorder.Total(),
	}
	p.dirty = true
}

// Run opens the pad window and blocks until it is closed.
func (p *Pad) Run() error {
	ebiten.SetWindowSize(padWidth, padHeight)
	ebiten.SetWindowTitle("Swipe Pad")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(p); err != nil {
		return fmt.Errorf("running pad: %w", err)
	}
	return nil
}

// Update samples input once per tick.
func (p *Pad) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	if !p.configured {
		// The monitor is known once the window exists.
		p.sampler.Configure(p.sampler.Config())
		p.configured = true
		p.logger.Debug("pad ready", zap.Float64("dpi", p.sampler.DPI()))
	}

	p.ticks++
	p.sampler.OnSample(swipe.Tick{Now: time.Duration(p.ticks) * time.Second / time.Duration(ebiten.TPS())})
	return nil
}

// Draw renders the status band and the drag area.
func (p *Pad) Draw(screen *ebiten.Image) {
	screen.Fill(render.ColorBackground)

	band := image.Rect(0, 0, p.width, min(padStatus*p.scale(), p.height))
	if p.dirty || p.rendered == nil || p.rendered.Bounds() != band {
		p.rendered = ebiten.NewImageFromImage(render.Strip(band, p.status))
		p.dirty = false
	}
	screen.DrawImage(p.rendered, nil)

	ebitenutil.DebugPrintAt(screen, "Drag to swipe, Esc to quit", 10, p.height-20)
}

// Layout lays the pad out in device pixels so cursor positions match the
// density reported by EbitenDisplay.
func (p *Pad) Layout(outsideWidth, outsideHeight int) (int, int) {
	s := 1.0
	if m := ebiten.Monitor(); m != nil {
		s = m.DeviceScaleFactor()
	}
	p.width = int(float64(outsideWidth) * s)
	p.height = int(float64(outsideHeight) * s)
	return p.width, p.height
}

func (p *Pad) scale() int {
	if m := ebiten.Monitor(); m != nil && m.DeviceScaleFactor() > 1 {
		return int(m.DeviceScaleFactor())
	}
	return 1
}
