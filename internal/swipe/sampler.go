// Package swipe turns per-tick pointer samples into directional swipe events.
//
// A Sampler polls a touch source and a mouse source once per host tick,
// anchors a gesture on press, and on release (or as soon as the threshold
// is crossed, if configured) classifies the displacement into one of four
// or eight directions. Each gesture produces at most one event.
//
// A Sampler tracks a single gesture and is not safe for concurrent use.
// Hosts with several independent input areas should use one Sampler each.
package swipe

import (
	"time"

	"github.com/phinze/swipedeck/internal/geom"
	"go.uber.org/zap"
)

// Handler receives a classified swipe and its velocity.
type Handler func(dir Direction, velocity geom.Vector2)

// Result is the outcome of the most recent classification.
type Result struct {
	Direction Direction
	Velocity  geom.Vector2
}

// gestureState is the transient state of the gesture being tracked.
type gestureState struct {
	anchor     geom.Vector2
	anchorTime time.Duration
	current    geom.Vector2
	source     pointer
	pressed    bool
	ended      bool
	direction  Direction
	velocity   geom.Vector2
}

// pointer identifies which source pressed down.
type pointer uint8

const (
	pointerTouch pointer = iota + 1
	pointerMouse
)

type subscriber struct {
	id uint64
	fn Handler
}

// Sampler is the per-tick swipe detector.
type Sampler struct {
	cfg     Config
	dpi     float64
	touch   TouchSource
	mouse   MouseSource
	display Display
	logger  *zap.Logger

	active      bool
	state       gestureState
	subscribers []subscriber
	nextID      uint64
}

// Option customizes a Sampler.
type Option func(*Sampler)

// WithLogger makes the sampler emit debug traces for gesture transitions.
func WithLogger(l *zap.Logger) Option {
	return func(s *Sampler) {
		if l != nil {
			s.logger = l.Named("swipe")
		}
	}
}

// New creates a sampler over the given sources. Any source may be nil; a
// nil input source never reports activity and a nil display reports an
// unknown density. The sampler starts inactive.
func New(cfg Config, touch TouchSource, mouse MouseSource, display Display, opts ...Option) *Sampler {
	s := &Sampler{
		touch:   touch,
		mouse:   mouse,
		display: display,
		logger:  zap.NewNop(),
		// No gesture has begun yet, so there is nothing to evaluate.
		state: gestureState{ended: true},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Configure(cfg)
	return s
}

// Configure replaces the tunables and re-resolves the screen density.
// Calling it while a gesture is in progress gives undefined results.
func (s *Sampler) Configure(cfg Config) {
	s.cfg = cfg
	s.dpi = s.resolveDPI()
}

// Config returns the active tunables.
func (s *Sampler) Config() Config {
	return s.cfg
}

// DPI returns the density used for threshold conversion.
func (s *Sampler) DPI() float64 {
	return s.dpi
}

func (s *Sampler) resolveDPI() float64 {
	if s.cfg.ScreenDPI != 0 {
		return s.cfg.ScreenDPI
	}
	if s.display != nil {
		if dpi := s.display.DPI(); dpi != 0 {
			return dpi
		}
	}
	return DefaultDPI
}

// Start enables sampling.
func (s *Sampler) Start() {
	s.active = true
}

// Stop disables sampling. It is the only way to deactivate a sampler that
// was activated by Subscribe.
func (s *Sampler) Stop() {
	s.active = false
}

// Active reports whether OnSample does any work.
func (s *Sampler) Active() bool {
	return s.active
}

// Subscription identifies a registered handler.
type Subscription struct {
	s  *Sampler
	id uint64
}

// Remove unregisters the handler. It is safe to call more than once.
func (sub Subscription) Remove() {
	if sub.s != nil {
		sub.s.Unsubscribe(sub)
	}
}

// Subscribe registers h and activates sampling. Handlers run synchronously
// inside OnSample in subscription order and must not call OnSample.
func (s *Sampler) Subscribe(h Handler) Subscription {
	s.nextID++
	s.subscribers = append(s.subscribers, subscriber{id: s.nextID, fn: h})
	s.active = true
	return Subscription{s: s, id: s.nextID}
}

// Unsubscribe removes a handler. Removing the last handler leaves the
// sampler active; call Stop to deactivate it.
func (s *Sampler) Unsubscribe(sub Subscription) {
	// IDs are per sampler.
	if sub.s != s {
		return
	}
	for i, sb := range s.subscribers {
		if sb.id == sub.id {
			s.subscribers = append(s.subscribers[:i:i], s.subscribers[i+1:]...)
			return
		}
	}
}

// Subscribers returns the number of registered handlers.
func (s *Sampler) Subscribers() int {
	return len(s.subscribers)
}

// Direction returns the last classified direction. It is None while idle.
func (s *Sampler) Direction() Direction {
	return s.state.direction
}

// Velocity returns the velocity of the last emitted swipe.
func (s *Sampler) Velocity() geom.Vector2 {
	return s.state.velocity
}

// Last returns the last classification.
func (s *Sampler) Last() Result {
	return Result{Direction: s.state.direction, Velocity: s.state.velocity}
}

// OnSample runs one detection step. Call it once per host tick; velocity
// is only meaningful at a regular cadence.
func (s *Sampler) OnSample(tick Tick) {
	if !s.active {
		return
	}

	if !s.pollTouch(tick) && !s.pollMouse(tick) {
		s.state.direction = None
		return
	}

	if s.state.ended {
		return
	}

	displacement := s.state.current.Sub(s.state.anchor)
	lengthCm := PixelsToCm(displacement.Magnitude(), s.dpi)

	if lengthCm < s.cfg.MinSwipeLengthCm {
		if !s.cfg.TriggerAtThreshold {
			s.state.direction = None
		}
		return
	}

	elapsed := (tick.Now - s.state.anchorTime).Seconds()
	velocity := s.velocity(displacement, elapsed)
	dir := Classify(displacement, s.cfg.UseEightDirections)

	s.state.ended = true
	s.state.direction = dir
	s.state.velocity = velocity

	s.logger.Debug("swipe detected",
		zap.Stringer("direction", dir),
		zap.Float64("length_cm", lengthCm),
		zap.Float64("elapsed_s", elapsed),
		zap.Stringer("velocity", velocity),
	)

	s.emit(dir, velocity)
}

func (s *Sampler) velocity(displacement geom.Vector2, elapsed float64) geom.Vector2 {
	if s.cfg.Velocity == VelocityPerSecond {
		if elapsed == 0 {
			return geom.Vector2{}
		}
		return displacement.Scale(1 / elapsed)
	}
	return displacement.Scale(elapsed)
}

func (s *Sampler) emit(dir Direction, velocity geom.Vector2) {
	// Snapshot so a handler can unsubscribe itself.
	subs := append([]subscriber(nil), s.subscribers...)
	for _, sb := range subs {
		sb.fn(dir, velocity)
	}
}

// pollTouch reports whether the touch source has something to evaluate.
func (s *Sampler) pollTouch(tick Tick) bool {
	if s.touch == nil {
		return false
	}
	t, ok := s.touch.Touch()
	if !ok {
		return false
	}

	switch t.Phase {
	case TouchBegan:
		s.press(pointerTouch, t.Position, tick.Now)
		return false
	case TouchEnded:
		s.release(t.Position)
		return true
	}

	s.hold(pointerTouch, t.Position)
	return s.cfg.TriggerAtThreshold
}

// pollMouse reports whether the mouse source has something to evaluate.
func (s *Sampler) pollMouse(tick Tick) bool {
	if s.mouse == nil {
		return false
	}
	m := s.mouse.Mouse()

	if m.ButtonDown {
		s.press(pointerMouse, m.Position, tick.Now)
		return false
	}
	if m.ButtonUp {
		s.release(m.Position)
		return true
	}

	s.hold(pointerMouse, m.Position)
	return s.cfg.TriggerAtThreshold
}

func (s *Sampler) press(src pointer, pos geom.Vector2, now time.Duration) {
	s.state.anchor = pos
	s.state.current = pos
	s.state.anchorTime = now
	s.state.source = src
	s.state.pressed = true
	s.state.ended = false
	s.logger.Debug("gesture started", zap.Stringer("position", pos))
}

func (s *Sampler) release(pos geom.Vector2) {
	s.state.current = pos
	s.state.pressed = false
}

// hold tracks the pointer that started the gesture while it stays down.
func (s *Sampler) hold(src pointer, pos geom.Vector2) {
	if s.state.pressed && s.state.source == src {
		s.state.current = pos
	}
}
