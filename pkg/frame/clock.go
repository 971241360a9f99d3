// Package frame provides the per-frame clock for the Affix runtime.
//
// The Clock emits one tick per call to Step, carrying the elapsed time since
// the previous tick. Tick handlers run inline on the stepping goroutine and
// must complete before the next tick; they are NOT panic-isolated, because a
// failure on the frame path is a bug that should halt the loop rather than
// be masked. Arbitrary app callbacks belong behind the dispatcher instead.
package frame

import (
	"sync"
	"time"

	"github.com/go-drift/affix/pkg/metric"
	"github.com/go-drift/affix/pkg/scene"
)

// TimeSource provides time for the frame clock. The default implementation
// uses system time. Tests can inject a fake source via SetTimeSource to
// control tick timing deterministically.
type TimeSource interface {
	Now() time.Time
}

// realTime uses system time.
type realTime struct{}

func (realTime) Now() time.Time { return time.Now() }

var (
	sourceMu sync.Mutex
	source   TimeSource = realTime{}
)

// SetTimeSource replaces the frame time source. Returns the previous source
// so callers can restore it during cleanup.
func SetTimeSource(s TimeSource) TimeSource {
	sourceMu.Lock()
	defer sourceMu.Unlock()
	prev := source
	source = s
	return prev
}

// Now returns the current time from the active source.
func Now() time.Time {
	sourceMu.Lock()
	defer sourceMu.Unlock()
	return source.Now()
}

// Clock emits a recurring tick with elapsed time, once per frame.
type Clock struct {
	mu      sync.Mutex
	last    time.Time
	tick    scene.Signal[time.Duration]
	metrics *metric.Metrics
}

// NewClock creates a clock whose first Step reports a zero elapsed time.
func NewClock() *Clock {
	return &Clock{last: Now()}
}

// SetMetrics attaches optional instrumentation.
func (c *Clock) SetMetrics(m *metric.Metrics) {
	c.mu.Lock()
	c.metrics = m
	c.mu.Unlock()
}

// OnTick connects a per-frame handler. The handler runs inline during Step.
func (c *Clock) OnTick(fn func(time.Duration)) *scene.Connection {
	return c.tick.Connect(fn)
}

// Step advances the clock and emits one tick to every connected handler.
// The engine's render loop calls this once per frame.
func (c *Clock) Step() time.Duration {
	now := Now()
	c.mu.Lock()
	elapsed := now.Sub(c.last)
	c.last = now
	metrics := c.metrics
	c.mu.Unlock()

	start := time.Now()
	c.tick.Emit(elapsed)
	if metrics != nil {
		metrics.TickDuration.Observe(time.Since(start).Seconds())
	}
	return elapsed
}
