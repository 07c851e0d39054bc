// internal/engine/buffer.go
package engine

import (
	"sync"
	"time"
)

type flushState int

const (
	stateIdle flushState = iota
	statePendingDebounce
	statePendingImmediate
)

// debouncer schedules the flush for a single record kind. It is an explicit
// state machine {Idle, PendingDebounce, PendingImmediate}: a save restarts
// the quiet-period timer, the batch threshold triggers an immediate flush,
// and FlushAll forces a synchronous one.
//
// All methods except the timer callback must be called with the engine mutex
// held. The timer callback acquires the same mutex, so flushes for one key
// never overlap and run in the order their triggers fire.
type debouncer struct {
	mu    *sync.Mutex
	delay time.Duration
	flush func() // invoked with the engine mutex held

	state flushState
	timer *time.Timer
	gen   uint64 // incremented on every transition; stale timer fires are ignored
}

func newDebouncer(mu *sync.Mutex, delay time.Duration, flush func()) *debouncer {
	return &debouncer{mu: mu, delay: delay, flush: flush}
}

// touch restarts the quiet-period timer after a new pending write.
func (d *debouncer) touch() {
	d.gen++
	gen := d.gen
	if d.timer != nil {
		d.timer.Stop()
	}
	d.state = statePendingDebounce
	d.timer = time.AfterFunc(d.delay, func() { d.fire(gen) })
}

func (d *debouncer) fire(gen uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if gen != d.gen || d.state != statePendingDebounce {
		return // superseded by a newer save, an immediate flush, or FlushAll
	}
	d.run()
}

// trigger fires an immediate flush when the batch threshold is reached.
// The pending timer is cancelled before flushing so it cannot fire a second,
// redundant flush afterwards.
func (d *debouncer) trigger() {
	d.state = statePendingImmediate
	d.run()
}

// flushNow performs a synchronous flush regardless of state. The flush
// function is expected to no-op when nothing is pending.
func (d *debouncer) flushNow() {
	d.run()
}

// cancel drops any scheduled flush without running it.
func (d *debouncer) cancel() {
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.state = stateIdle
}

func (d *debouncer) run() {
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.flush()
	d.state = stateIdle
}
