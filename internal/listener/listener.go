// Package listener provides swipe subscribers: a logger and a recorder.
package listener

import (
	"sync"
	"time"

	"github.com/phinze/swipedeck/internal/geom"
	"github.com/phinze/swipedeck/internal/swipe"
	"go.uber.org/zap"
)

// Subscriber is the part of swipe.Sampler a listener attaches to.
type Subscriber interface {
	Subscribe(h swipe.Handler) swipe.Subscription
}

// Logger logs every swipe. Cardinal swipes are logged at info, diagonals
// and unclassified swipes at debug.
type Logger struct {
	log *zap.Logger
}

// NewLogger creates a Logger writing to log.
func NewLogger(log *zap.Logger) *Logger {
	if log == nil {
		log = zap.NewNop()
	}
	return &Logger{log: log.Named("listener")}
}

// Attach subscribes the logger to s.
func (l *Logger) Attach(s Subscriber) swipe.Subscription {
	return s.Subscribe(l.HandleSwipe)
}

// HandleSwipe is a swipe.Handler.
func (l *Logger) HandleSwipe(dir swipe.Direction, velocity geom.Vector2) {
	fields := []zap.Field{
		zap.Stringer("direction", dir),
		zap.Float64("velocity_x", velocity.X),
		zap.Float64("velocity_y", velocity.Y),
	}
	if dir == swipe.None || dir.IsDiagonal() {
		l.log.Debug("swipe detected", fields...)
		return
	}
	l.log.Info("swipe detected", fields...)
}

// Record is one observed swipe.
type Record struct {
	Direction swipe.Direction
	Velocity  geom.Vector2
	At        time.Time
}

// Recorder keeps the most recent swipes in a ring buffer. It is safe to
// read from another goroutine while the sampler loop writes to it.
type Recorder struct {
	mu      sync.RWMutex
	records []Record
	next    int
	full    bool
	counts  map[swipe.Direction]int
	now     func() time.Time
}

// DefaultCapacity is the recorder size used when a non-positive capacity is given.
const DefaultCapacity = 32

// NewRecorder creates a Recorder that keeps the last capacity swipes.
func NewRecorder(capacity int) *Recorder {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Recorder{
		records: make([]Record, capacity),
		counts:  make(map[swipe.Direction]int),
		now:     time.Now,
	}
}

// Attach subscribes the recorder to s.
func (r *Recorder) Attach(s Subscriber) swipe.Subscription {
	return s.Subscribe(r.HandleSwipe)
}

// HandleSwipe is a swipe.Handler.
func (r *Recorder) HandleSwipe(dir swipe.Direction, velocity geom.Vector2) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.records[r.next] = Record{Direction: dir, Velocity: velocity, At: r.now()}
	r.next = (r.next + 1) % len(r.records)
	if r.next == 0 {
		r.full = true
	}
	r.counts[dir]++
}

// Last returns the most recent swipe, or false if none was recorded.
func (r *Recorder) Last() (Record, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if !r.full && r.next == 0 {
		return Record{}, false
	}
	i := (r.next - 1 + len(r.records)) % len(r.records)
	return r.records[i], true
}

// All returns the retained swipes, oldest first.
func (r *Recorder) All() []Record {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if !r.full {
		return append([]Record(nil), r.records[:r.next]...)
	}
	out := make([]Record, 0, len(r.records))
	out = append(out, r.records[r.next:]...)
	return append(out, r.records[:r.next]...)
}

// Count returns how many swipes in dir were seen, including evicted ones.
func (r *Recorder) Count(dir swipe.Direction) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.counts[dir]
}

// Total returns the number of swipes seen.
func (r *Recorder) Total() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, c := range r.counts {
		n += c
	}
	return n
}
