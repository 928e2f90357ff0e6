package input

import (
	"testing"

	"github.com/phinze/swipedeck/internal/swipe"
	"github.com/stretchr/testify/assert"
)

type touchStep struct {
	frame     TouchFrame
	wantID    int
	wantPhase swipe.TouchPhase
	wantOK    bool
}

func runTouchSteps(t *testing.T, steps []touchStep) {
	t.Helper()
	var tr TouchTracker
	for i, s := range steps {
		id, phase, ok := tr.Step(s.frame)
		assert.Equal(t, s.wantOK, ok, "step %d ok", i)
		if s.wantOK {
			assert.Equal(t, s.wantID, id, "step %d id", i)
			assert.Equal(t, s.wantPhase, phase, "step %d phase", i)
		}
	}
}

func TestTouchTrackerLifecycle(t *testing.T) {
	runTouchSteps(t, []touchStep{
		{frame: TouchFrame{}, wantOK: false},
		{frame: TouchFrame{JustPressed: []int{7}, Active: []int{7}}, wantID: 7, wantPhase: swipe.TouchBegan, wantOK: true},
		{frame: TouchFrame{Active: []int{7}}, wantID: 7, wantPhase: swipe.TouchChanged, wantOK: true},
		{frame: TouchFrame{JustReleased: []int{7}}, wantID: 7, wantPhase: swipe.TouchEnded, wantOK: true},
		{frame: TouchFrame{}, wantOK: false},
	})
}

func TestTouchTrackerFollowsFirstTouchOnly(t *testing.T) {
	runTouchSteps(t, []touchStep{
		{frame: TouchFrame{JustPressed: []int{3, 4}, Active: []int{3, 4}}, wantID: 3, wantPhase: swipe.TouchBegan, wantOK: true},
		// A second finger lifting does not end the gesture.
		{frame: TouchFrame{JustReleased: []int{4}, Active: []int{3}}, wantID: 3, wantPhase: swipe.TouchChanged, wantOK: true},
		{frame: TouchFrame{JustPressed: []int{5}, Active: []int{3, 5}}, wantID: 3, wantPhase: swipe.TouchChanged, wantOK: true},
		{frame: TouchFrame{JustReleased: []int{3}, Active: []int{5}}, wantID: 3, wantPhase: swipe.TouchEnded, wantOK: true},
		// Touch 5 was pressed while 3 was tracked, so it is not picked up.
		{frame: TouchFrame{Active: []int{5}}, wantOK: false},
	})
}

func TestTouchTrackerMissedRelease(t *testing.T) {
	var tr TouchTracker
	_, _, ok := tr.Step(TouchFrame{JustPressed: []int{1}, Active: []int{1}})
	assert.True(t, ok)
	assert.True(t, tr.Tracking())

	// The release happened between polls: the touch is gone with no
	// release reported.
	_, _, ok = tr.Step(TouchFrame{})
	assert.False(t, ok)
	assert.False(t, tr.Tracking())

	id, phase, ok := tr.Step(TouchFrame{JustPressed: []int{2}, Active: []int{2}})
	assert.True(t, ok)
	assert.Equal(t, 2, id)
	assert.Equal(t, swipe.TouchBegan, phase)
}
