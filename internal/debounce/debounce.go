// Package debounce provides a cancellable trailing-edge delayed task.
package debounce

import (
	"sync"
	"time"
)

// Debouncer runs fn once, delay after the most recent Trigger.
type Debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	fn    func()
	timer *time.Timer
	gen   uint64
}

func New(delay time.Duration, fn func()) *Debouncer {
	return &Debouncer{delay: delay, fn: fn}
}

// Trigger schedules fn, cancelling and replacing any pending call.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = time.AfterFunc(d.delay, func() { d.fire(gen) })
}

func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen || d.timer == nil {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	d.mu.Unlock()
	d.fn()
}

// Flush runs a pending call immediately on the caller's goroutine. It reports
// whether anything was pending.
func (d *Debouncer) Flush() bool {
	if !d.take() {
		return false
	}
	d.fn()
	return true
}

// Cancel drops a pending call without running it.
func (d *Debouncer) Cancel() bool {
	return d.take()
}

func (d *Debouncer) take() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer == nil {
		return false
	}
	d.timer.Stop()
	d.timer = nil
	d.gen++
	return true
}

// Pending reports whether a call is scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}
