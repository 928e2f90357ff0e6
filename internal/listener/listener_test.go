package listener

import (
	"testing"
	"time"

	"github.com/phinze/swipedeck/internal/geom"
	"github.com/phinze/swipedeck/internal/swipe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoggerLevels(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewLogger(zap.New(core))

	l.HandleSwipe(swipe.Up, geom.V2(0, 12))
	l.HandleSwipe(swipe.DownLeft, geom.V2(-3, -3))
	l.HandleSwipe(swipe.None, geom.Vector2{})

	entries := logs.All()
	require.Len(t, entries, 3)

	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "up", entries[0].ContextMap()["direction"])
	assert.Equal(t, 12.0, entries[0].ContextMap()["velocity_y"])

	assert.Equal(t, zapcore.DebugLevel, entries[1].Level)
	assert.Equal(t, zapcore.DebugLevel, entries[2].Level)
}

func TestLoggerAttach(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	s := swipe.New(swipe.DefaultConfig(), nil, nil, nil)
	sub := NewLogger(zap.New(core)).Attach(s)
	defer sub.Remove()

	assert.True(t, s.Active())
	assert.Equal(t, 1, s.Subscribers())
	assert.Zero(t, logs.Len())
}

func TestRecorderRing(t *testing.T) {
	r := NewRecorder(3)
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	r.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}

	_, ok := r.Last()
	assert.False(t, ok)
	assert.Empty(t, r.All())

	dirs := []swipe.Direction{swipe.Up, swipe.Left, swipe.Up, swipe.Right, swipe.Down}
	for i, d := range dirs {
		r.HandleSwipe(d, geom.V2(float64(i), 0))
	}

	last, ok := r.Last()
	require.True(t, ok)
	assert.Equal(t, swipe.Down, last.Direction)

	all := r.All()
	require.Len(t, all, 3)
	assert.Equal(t, swipe.Up, all[0].Direction)
	assert.Equal(t, swipe.Right, all[1].Direction)
	assert.Equal(t, swipe.Down, all[2].Direction)
	assert.True(t, all[0].At.Before(all[2].At))

	assert.Equal(t, 2, r.Count(swipe.Up))
	assert.Equal(t, 5, r.Total())
}

func TestRecorderDefaultCapacity(t *testing.T) {
	r := NewRecorder(0)
	assert.Len(t, r.records, DefaultCapacity)
}
