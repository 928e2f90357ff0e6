// Package coordinator runs a swipe sampler against a Stream Deck touch strip
// and renders the result back onto the strip.
package coordinator

import (
	"context"
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/phinze/swipedeck/internal/device"
	"github.com/phinze/swipedeck/internal/geom"
	"github.com/phinze/swipedeck/internal/input"
	"github.com/phinze/swipedeck/internal/listener"
	"github.com/phinze/swipedeck/internal/render"
	"github.com/phinze/swipedeck/internal/swipe"
	"go.uber.org/zap"
)

// DefaultTickRate is the number of sampler ticks per second.
const DefaultTickRate = 60

// StripDPI is the density of the Stream Deck Plus touch strip: 800 pixels
// across roughly 107 mm.
const StripDPI = 190.0

// Coordinator owns the sampler loop for one device.
type Coordinator struct {
	device   device.Device
	logger   *zap.Logger
	tickRate int

	strip    *input.StripTouch
	sampler  *swipe.Sampler
	recorder *listener.Recorder

	// Strip rendering
	stripRect image.Rectangle
	redraw    chan struct{}

	// Lifecycle
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Option customizes a Coordinator.
type Option func(*Coordinator)

// WithLogger sets the logger for the coordinator and its sampler.
func WithLogger(l *zap.Logger) Option {
	return func(c *Coordinator) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithTickRate sets the sampler ticks per second.
func WithTickRate(hz int) Option {
	return func(c *Coordinator) {
		if hz > 0 {
			c.tickRate = hz
		}
	}
}

// New creates a Coordinator for dev. The device must already be open.
func New(dev device.Device, cfg swipe.Config, opts ...Option) *Coordinator {
	c := &Coordinator{
		device:   dev,
		logger:   zap.NewNop(),
		tickRate: DefaultTickRate,
		recorder: listener.NewRecorder(listener.DefaultCapacity),
		redraw:   make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(c)
	}

	if rect, err := dev.GetTouchStripImageRectangle(); err == nil {
		c.stripRect = rect
	} else {
		c.logger.Warn("no touch strip rectangle", zap.Error(err))
	}

	c.strip = input.NewStripTouch(c.stripRect)
	c.sampler = swipe.New(cfg, c.strip, nil, swipe.FixedDPI(StripDPI), swipe.WithLogger(c.logger))
	listener.NewLogger(c.logger).Attach(c.sampler)
	c.recorder.Attach(c.sampler)
	c.sampler.Subscribe(func(swipe.Direction, geom.Vector2) { c.requestRedraw() })
	return c
}

// Recorder returns the swipes seen so far.
func (c *Coordinator) Recorder() *listener.Recorder {
	return c.recorder
}

// Start registers the strip handlers and runs the sampler until ctx is
// cancelled or the device listener fails.
func (c *Coordinator) Start(ctx context.Context) error {
	c.ctx, c.cancel = context.WithCancel(ctx)

	c.setupEventHandlers()

	// Start device listener
	listenErr := make(chan error, 1)
	go func() {
		err := c.device.Listen(nil)
		if err != nil {
			listenErr <- err
		}
		close(listenErr)
	}()

	c.wg.Add(2)
	go c.sampleLoop()
	go c.renderLoop()

	select {
	case <-c.ctx.Done():
		return nil
	case err, ok := <-listenErr:
		if !ok {
			// Listener returned cleanly, which means the device went away.
			return nil
		}
		return err
	}
}

// Stop cancels the loops and waits for them to exit.
func (c *Coordinator) Stop() error {
	if c.cancel != nil {
		c.cancel()
	}
	c.wg.Wait()
	return nil
}

// setupEventHandlers forwards strip callbacks into the sampler's input.
func (c *Coordinator) setupEventHandlers() {
	if !c.device.GetTouchStripSupported() {
		c.logger.Warn("device has no touch strip", zap.String("model", c.device.GetModelName()))
		return
	}

	c.device.AddTouchStripSwipeHandler(func(d device.Device, origin, dest image.Point) error {
		c.logger.Debug("strip swipe",
			zap.Stringer("origin", origin),
			zap.Stringer("destination", dest))
		c.strip.Swipe(origin, dest)
		return nil
	})

	c.device.AddTouchStripTouchHandler(func(d device.Device, touchType device.TouchStripTouchType, point image.Point) error {
		c.logger.Debug("strip touch",
			zap.Stringer("type", touchType),
			zap.Stringer("point", point))
		c.strip.Tap(point)
		return nil
	})
}

// sampleLoop ticks the sampler at the configured rate. It is the only
// goroutine that touches the sampler once started.
func (c *Coordinator) sampleLoop() {
	defer c.wg.Done()

	ticker := time.NewTicker(time.Second / time.Duration(c.tickRate))
	defer ticker.Stop()

	start := time.Now()
	for {
		select {
		case <-c.ctx.Done():
			return
		case now := <-ticker.C:
			c.sampler.OnSample(swipe.Tick{Now: now.Sub(start)})
		}
	}
}

func (c *Coordinator) requestRedraw() {
	select {
	case c.redraw <- struct{}{}:
	default:
	}
}

// renderLoop draws the strip initially and after every swipe.
func (c *Coordinator) renderLoop() {
	defer c.wg.Done()

	c.renderStrip()
	for {
		select {
		case <-c.ctx.Done():
			return
		case <-c.redraw:
			c.renderStrip()
		}
	}
}

// renderStrip shows the most recent swipe on the device.
func (c *Coordinator) renderStrip() {
	if c.stripRect.Empty() {
		return
	}

	if err := c.device.SetTouchStripImage(render.Strip(c.stripRect, c.stripStatus())); err != nil {
		c.logger.Warn("failed to set strip image", zap.Error(err))
	}
}

// stripStatus describes the recorder for the strip. Strip swipes replay
// over a single tick, so their velocity only reflects displacement and
// is left off the strip.
func (c *Coordinator) stripStatus() render.Status {
	st := render.Status{Total: c.recorder.Total()}
	rec, ok := c.recorder.Last()
	if !ok {
		st.Hint = "swipe the strip"
		return st
	}
	st.Last = swipe.Result{Direction: rec.Direction, Velocity: rec.Velocity}
	st.Hint = fmt.Sprintf("%d %s so far", c.recorder.Count(rec.Direction), rec.Direction)
	return st
}
