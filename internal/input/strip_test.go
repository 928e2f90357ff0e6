package input

import (
	"image"
	"sync"
	"testing"
	"time"

	"github.com/phinze/swipedeck/internal/geom"
	"github.com/phinze/swipedeck/internal/swipe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripTouchReplaysSwipe(t *testing.T) {
	s := NewStripTouch(image.Rect(0, 0, 800, 100))

	_, ok := s.Touch()
	assert.False(t, ok)

	s.Swipe(image.Pt(100, 10), image.Pt(600, 90))

	began, ok := s.Touch()
	require.True(t, ok)
	assert.Equal(t, swipe.TouchBegan, began.Phase)
	assert.Equal(t, geom.V2(100, 89), began.Position)

	ended, ok := s.Touch()
	require.True(t, ok)
	assert.Equal(t, swipe.TouchEnded, ended.Phase)
	assert.Equal(t, geom.V2(600, 9), ended.Position)

	_, ok = s.Touch()
	assert.False(t, ok)
}

func TestStripTouchQueueBound(t *testing.T) {
	s := NewStripTouch(image.Rect(0, 0, 800, 100))
	for i := 0; i < MaxPendingStripGestures+4; i++ {
		s.Tap(image.Pt(i, 0))
	}
	assert.Equal(t, MaxPendingStripGestures, s.Pending())

	// The oldest taps were dropped.
	began, ok := s.Touch()
	require.True(t, ok)
	assert.Equal(t, 4.0, began.Position.X)
}

func TestStripTouchDrivesSampler(t *testing.T) {
	strip := NewStripTouch(image.Rect(0, 0, 800, 100))
	s := swipe.New(swipe.DefaultConfig(), strip, nil, swipe.FixedDPI(72))

	var got []swipe.Direction
	s.Subscribe(func(d swipe.Direction, _ geom.Vector2) { got = append(got, d) })

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		strip.Swipe(image.Pt(700, 50), image.Pt(100, 50))
		strip.Tap(image.Pt(400, 50))
		strip.Swipe(image.Pt(100, 50), image.Pt(700, 50))
	}()
	wg.Wait()

	tick := time.Duration(0)
	for i := 0; i < 10; i++ {
		tick += 16 * time.Millisecond
		s.OnSample(swipe.Tick{Now: tick})
	}

	assert.Equal(t, []swipe.Direction{swipe.Left, swipe.Right}, got)
	assert.Zero(t, strip.Pending())
}
