// Package dispatch provides the callback dispatcher for the Affix runtime.
//
// The Dispatcher is the single deferral point in the system: callbacks handed
// to Dispatch run when the owning loop calls Flush, typically once per frame.
// Each callback runs with panic isolation, so a failing app callback never
// crashes the code that triggered it. Per-frame tick callbacks deliberately
// bypass the dispatcher (see pkg/frame).
package dispatch

import (
	"sync"
	"time"

	"github.com/go-drift/affix/pkg/errors"
	"github.com/go-drift/affix/pkg/metric"
)

// Dispatcher queues callbacks for deferred, failure-isolated execution.
//
// Dispatch is safe to call from any goroutine. Flush must be called by the
// loop that owns the dispatcher; callbacks run FIFO on the flushing
// goroutine.
type Dispatcher struct {
	mu      sync.Mutex
	queue   []func()
	metrics *metric.Metrics
}

// New creates an empty dispatcher.
func New() *Dispatcher {
	return &Dispatcher{}
}

// SetMetrics attaches optional instrumentation.
func (d *Dispatcher) SetMetrics(m *metric.Metrics) {
	d.mu.Lock()
	d.metrics = m
	d.mu.Unlock()
}

// Dispatch schedules a callback for the next Flush. Nil callbacks are
// ignored. The callback is not assumed to have completed when Dispatch
// returns.
func (d *Dispatcher) Dispatch(callback func()) {
	if callback == nil {
		return
	}
	d.mu.Lock()
	d.queue = append(d.queue, callback)
	if d.metrics != nil {
		d.metrics.DispatchQueueDepth.Set(float64(len(d.queue)))
	}
	d.mu.Unlock()
}

// Len returns the number of callbacks waiting to run.
func (d *Dispatcher) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.queue)
}

// Flush drains the queue and runs every callback in FIFO order.
//
// A panic inside a callback is recovered, reported through the global error
// handler, and does not stop the remaining callbacks. Callbacks enqueued
// during a flush run in the same flush, after those already queued.
func (d *Dispatcher) Flush() {
	for {
		d.mu.Lock()
		if len(d.queue) == 0 {
			if d.metrics != nil {
				d.metrics.DispatchQueueDepth.Set(0)
			}
			d.mu.Unlock()
			return
		}
		callbacks := d.queue
		d.queue = nil
		metrics := d.metrics
		d.mu.Unlock()

		for _, callback := range callbacks {
			d.run(callback, metrics)
		}
	}
}

func (d *Dispatcher) run(callback func(), metrics *metric.Metrics) {
	defer func() {
		if r := recover(); r != nil {
			if metrics != nil {
				metrics.DispatchPanics.Inc()
			}
			errors.ReportPanic(&errors.PanicError{
				Op:         "dispatch.Flush",
				Value:      r,
				StackTrace: errors.CaptureStack(),
				Timestamp:  time.Now(),
			})
		}
	}()
	callback()
}
