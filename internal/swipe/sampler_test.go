package swipe

import (
	"testing"
	"time"

	"github.com/phinze/swipedeck/internal/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type swipeEvent struct {
	dir      Direction
	velocity geom.Vector2
}

// fakeMouse reports the queued transition once, then plain position updates.
type fakeMouse struct {
	state Mouse
	polls int
}

func (f *fakeMouse) Mouse() Mouse {
	f.polls++
	m := f.state
	f.state.ButtonDown = false
	f.state.ButtonUp = false
	return m
}

// fakeTouch reports a touch until cleared. Began and Ended are reported once.
type fakeTouch struct {
	touch  Touch
	active bool
}

func (f *fakeTouch) Touch() (Touch, bool) {
	if !f.active {
		return Touch{}, false
	}
	t := f.touch
	switch t.Phase {
	case TouchBegan:
		f.touch.Phase = TouchChanged
	case TouchEnded:
		f.active = false
	}
	return t, true
}

// harness drives a sampler through a scripted mouse gesture.
type harness struct {
	t       *testing.T
	mouse   *fakeMouse
	touch   *fakeTouch
	sampler *Sampler
	events  []swipeEvent
}

func newHarness(t *testing.T, cfg Config, display Display) *harness {
	h := &harness{t: t, mouse: &fakeMouse{}, touch: &fakeTouch{}}
	h.sampler = New(cfg, h.touch, h.mouse, display, WithLogger(zaptest.NewLogger(t)))
	h.sampler.Subscribe(func(dir Direction, velocity geom.Vector2) {
		h.events = append(h.events, swipeEvent{dir, velocity})
	})
	return h
}

func at(seconds float64) Tick {
	return Tick{Now: time.Duration(seconds * float64(time.Second))}
}

func (h *harness) down(x, y, t float64) {
	h.mouse.state = Mouse{ButtonDown: true, Position: geom.V2(x, y)}
	h.sampler.OnSample(at(t))
}

func (h *harness) move(x, y, t float64) {
	h.mouse.state = Mouse{Position: geom.V2(x, y)}
	h.sampler.OnSample(at(t))
}

func (h *harness) up(x, y, t float64) {
	h.mouse.state = Mouse{ButtonUp: true, Position: geom.V2(x, y)}
	h.sampler.OnSample(at(t))
}

func (h *harness) swipe(from, to geom.Vector2, t0, t1 float64) {
	h.down(from.X, from.Y, t0)
	h.up(to.X, to.Y, t1)
}

func TestSwipeUpFourDirections(t *testing.T) {
	h := newHarness(t, DefaultConfig(), FixedDPI(72))

	h.swipe(geom.V2(200, 200), geom.V2(200, 300), 0, 0.25)

	require.Len(t, h.events, 1)
	assert.Equal(t, Up, h.events[0].dir)
	assert.Equal(t, Up, h.sampler.Direction())
}

func TestSwipeDiagonalEightDirections(t *testing.T) {
	cfg := DefaultConfig()
	cfg.UseEightDirections = true
	h := newHarness(t, cfg, FixedDPI(72))

	h.swipe(geom.V2(0, 0), geom.V2(100, 100), 0, 0.5)

	require.Len(t, h.events, 1)
	assert.Equal(t, UpRight, h.events[0].dir)
}

func TestShortSwipeEmitsNothing(t *testing.T) {
	h := newHarness(t, DefaultConfig(), FixedDPI(72))

	// 10px at 72 DPI is about 0.35cm.
	h.swipe(geom.V2(0, 0), geom.V2(10, 0), 0, 0.1)

	assert.Empty(t, h.events)
	assert.Equal(t, None, h.sampler.Direction())
}

func TestBelowThresholdNeverEmits(t *testing.T) {
	h := newHarness(t, DefaultConfig(), FixedDPI(72))
	limitPx := DefaultMinSwipeLengthCm * 72 / CmPerInch

	for _, d := range []geom.Vector2{
		geom.V2(limitPx*0.99, 0),
		geom.V2(0, -limitPx*0.5),
		geom.V2(limitPx*0.6, limitPx*0.6),
		{},
	} {
		h.swipe(geom.V2(50, 50), geom.V2(50, 50).Add(d), 0, 1)
	}

	assert.Empty(t, h.events)
}

func TestVelocityScalesDisplacementByElapsedTime(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinSwipeLengthCm = 0.1
	h := newHarness(t, cfg, FixedDPI(72))

	h.swipe(geom.V2(0, 0), geom.V2(0, 10), 0, 1)
	h.swipe(geom.V2(0, 0), geom.V2(0, 10), 3, 5)

	require.Len(t, h.events, 2)
	assert.Equal(t, geom.V2(0, 10), h.events[0].velocity)
	assert.Equal(t, geom.V2(0, 20), h.events[1].velocity)
	assert.Equal(t, geom.V2(0, 20), h.sampler.Velocity())
}

func TestVelocityPerSecond(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinSwipeLengthCm = 0.1
	cfg.Velocity = VelocityPerSecond
	h := newHarness(t, cfg, FixedDPI(72))

	h.swipe(geom.V2(0, 0), geom.V2(0, 10), 1, 3)
	h.swipe(geom.V2(0, 0), geom.V2(10, 0), 4, 4)

	require.Len(t, h.events, 2)
	assert.Equal(t, geom.V2(0, 5), h.events[0].velocity)
	// Zero elapsed time has no defined rate.
	assert.Equal(t, geom.Vector2{}, h.events[1].velocity)
}

func TestPressAloneNeverEmits(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinSwipeLengthCm = 0
	h := newHarness(t, cfg, FixedDPI(72))

	h.down(10, 10, 0)

	assert.Empty(t, h.events)
}

func TestZeroThreshold(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinSwipeLengthCm = 0
	h := newHarness(t, cfg, FixedDPI(72))

	h.swipe(geom.V2(0, 0), geom.V2(-1, 0), 0, 0.1)
	require.Len(t, h.events, 1)
	assert.Equal(t, Left, h.events[0].dir)

	// A zero-length release is not below a zero threshold and has no
	// direction to match.
	h.swipe(geom.V2(5, 5), geom.V2(5, 5), 1, 1.1)
	require.Len(t, h.events, 2)
	assert.Equal(t, None, h.events[1].dir)
}

func TestAtMostOneEventPerGesture(t *testing.T) {
	h := newHarness(t, DefaultConfig(), FixedDPI(72))

	h.down(0, 0, 0)
	h.up(0, 100, 0.1)
	// Duplicate release reports and idle ticks before the next press.
	h.up(0, 200, 0.2)
	h.move(0, 300, 0.3)
	h.up(300, 0, 0.4)
	require.Len(t, h.events, 1)

	// The next press starts a new gesture.
	h.swipe(geom.V2(0, 0), geom.V2(100, 0), 1, 1.1)
	require.Len(t, h.events, 2)
	assert.Equal(t, Right, h.events[1].dir)
}

func TestTriggerAtThreshold(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TriggerAtThreshold = true
	h := newHarness(t, cfg, FixedDPI(72))

	h.down(0, 0, 0)
	h.move(0, -5, 0.1)
	assert.Empty(t, h.events)

	h.move(0, -30, 0.2)
	require.Len(t, h.events, 1)
	assert.Equal(t, Down, h.events[0].dir)
	assert.Equal(t, geom.V2(0, -6), h.events[0].velocity)

	// Further motion and the release belong to the same gesture.
	h.move(80, -30, 0.3)
	h.up(200, -30, 0.4)
	assert.Len(t, h.events, 1)
}

func TestTriggerAtThresholdIgnoresHoverBeforePress(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TriggerAtThreshold = true
	h := newHarness(t, cfg, FixedDPI(72))

	h.move(500, 500, 0)
	h.move(900, 100, 0.1)

	assert.Empty(t, h.events)
}

func TestIdleTickClearsDirection(t *testing.T) {
	h := newHarness(t, DefaultConfig(), FixedDPI(72))
	h.swipe(geom.V2(0, 0), geom.V2(-100, 0), 0, 0.1)
	require.Equal(t, Left, h.sampler.Direction())

	h.move(0, 0, 0.2)

	assert.Equal(t, None, h.sampler.Direction())
	// The velocity of the last swipe is kept.
	assert.Equal(t, geom.V2(-10, 0), h.sampler.Velocity())
}

func TestZeroDPIMatchesDefault(t *testing.T) {
	zero := newHarness(t, DefaultConfig(), FixedDPI(0))
	dflt := newHarness(t, DefaultConfig(), FixedDPI(72))
	none := newHarness(t, DefaultConfig(), nil)

	assert.Equal(t, DefaultDPI, zero.sampler.DPI())
	assert.Equal(t, DefaultDPI, none.sampler.DPI())

	for i, px := range []float64{5, 13, 14, 15, 28, 100} {
		start := float64(i * 10)
		for _, h := range []*harness{zero, dflt, none} {
			h.swipe(geom.V2(0, 0), geom.V2(px, 0), start, start+1)
		}
	}
	assert.Equal(t, dflt.events, zero.events)
	assert.Equal(t, dflt.events, none.events)
}

func TestHigherDPIRaisesPixelThreshold(t *testing.T) {
	h := newHarness(t, DefaultConfig(), FixedDPI(720))

	// 100px at 720 DPI is 0.35cm.
	h.swipe(geom.V2(0, 0), geom.V2(100, 0), 0, 0.1)
	assert.Empty(t, h.events)

	h.swipe(geom.V2(0, 0), geom.V2(200, 0), 1, 1.1)
	assert.Len(t, h.events, 1)
}

func TestScreenDPIOverride(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ScreenDPI = 300
	s := New(cfg, nil, nil, FixedDPI(96))
	assert.Equal(t, 300.0, s.DPI())

	cfg.ScreenDPI = 0
	s.Configure(cfg)
	assert.Equal(t, 96.0, s.DPI())
}

func TestTouchGesture(t *testing.T) {
	h := newHarness(t, DefaultConfig(), FixedDPI(72))

	h.touch.active = true
	h.touch.touch = Touch{Phase: TouchBegan, Position: geom.V2(300, 300)}
	h.sampler.OnSample(at(0))

	h.touch.touch.Position = geom.V2(250, 300)
	h.sampler.OnSample(at(0.1))
	assert.Empty(t, h.events)

	h.touch.touch = Touch{Phase: TouchEnded, Position: geom.V2(200, 300)}
	h.sampler.OnSample(at(0.2))

	require.Len(t, h.events, 1)
	assert.Equal(t, Left, h.events[0].dir)
	assert.InDelta(t, -20, h.events[0].velocity.X, 1e-9)
}

func TestTouchReleaseSkipsMousePoll(t *testing.T) {
	h := newHarness(t, DefaultConfig(), FixedDPI(72))

	h.touch.active = true
	h.touch.touch = Touch{Phase: TouchBegan, Position: geom.V2(0, 0)}
	h.sampler.OnSample(at(0))
	polls := h.mouse.polls

	h.touch.touch = Touch{Phase: TouchEnded, Position: geom.V2(0, 100)}
	h.sampler.OnSample(at(0.1))

	assert.Equal(t, polls, h.mouse.polls)
	assert.Len(t, h.events, 1)
}

func TestInactiveUntilSubscribedOrStarted(t *testing.T) {
	mouse := &fakeMouse{}
	s := New(DefaultConfig(), nil, mouse, nil)
	assert.False(t, s.Active())

	s.OnSample(at(0))
	assert.Zero(t, mouse.polls)

	s.Start()
	s.OnSample(at(0))
	assert.Equal(t, 1, mouse.polls)

	s.Stop()
	s.OnSample(at(0))
	assert.Equal(t, 1, mouse.polls)

	sub := s.Subscribe(func(Direction, geom.Vector2) {})
	assert.True(t, s.Active())

	// Losing the last handler does not deactivate.
	sub.Remove()
	assert.Zero(t, s.Subscribers())
	assert.True(t, s.Active())
}

func TestHandlersRunInSubscriptionOrder(t *testing.T) {
	mouse := &fakeMouse{}
	s := New(DefaultConfig(), nil, mouse, nil)

	var calls []string
	var second Subscription
	s.Subscribe(func(Direction, geom.Vector2) { calls = append(calls, "first") })
	second = s.Subscribe(func(Direction, geom.Vector2) {
		calls = append(calls, "second")
		second.Remove()
	})
	s.Subscribe(func(Direction, geom.Vector2) { calls = append(calls, "third") })

	gesture := func(t0 float64) {
		mouse.state = Mouse{ButtonDown: true}
		s.OnSample(at(t0))
		mouse.state = Mouse{ButtonUp: true, Position: geom.V2(0, 100)}
		s.OnSample(at(t0 + 0.1))
	}

	gesture(0)
	assert.Equal(t, []string{"first", "second", "third"}, calls)

	calls = nil
	gesture(1)
	assert.Equal(t, []string{"first", "third"}, calls)

	// Removing twice is harmless.
	second.Remove()
	assert.Equal(t, 2, s.Subscribers())
}

func TestUnsubscribeIgnoresOtherSamplers(t *testing.T) {
	a := New(DefaultConfig(), nil, nil, nil)
	b := New(DefaultConfig(), nil, nil, nil)
	a.Subscribe(func(Direction, geom.Vector2) {})
	subB := b.Subscribe(func(Direction, geom.Vector2) {})

	// Both subscriptions carry the same per-sampler ID.
	a.Unsubscribe(subB)
	assert.Equal(t, 1, a.Subscribers())
	assert.Equal(t, 1, b.Subscribers())

	a.Unsubscribe(Subscription{})
	assert.Equal(t, 1, a.Subscribers())

	subB.Remove()
	assert.Equal(t, 1, a.Subscribers())
	assert.Zero(t, b.Subscribers())
}

func TestPixelsToCm(t *testing.T) {
	assert.InDelta(t, 2.54, PixelsToCm(72, 72), 1e-9)
	assert.InDelta(t, 2.54, PixelsToCm(72, 0), 1e-9)
	assert.InDelta(t, 1.27, PixelsToCm(150, 300), 1e-9)
}

func TestParseVelocityMode(t *testing.T) {
	m, err := ParseVelocityMode("")
	require.NoError(t, err)
	assert.Equal(t, VelocityScaled, m)

	m, err = ParseVelocityMode(VelocityPerSecond.String())
	require.NoError(t, err)
	assert.Equal(t, VelocityPerSecond, m)

	_, err = ParseVelocityMode("fast")
	assert.Error(t, err)
}
