// Package scheduler coalesces publishes and serializes dependency installs.
package scheduler

import (
	"sync"
	"time"

	"go.trai.ch/livepush/internal/core/domain"
)

// ClampWindow bounds a debounce window to the supported range.
// A zero window selects the default.
func ClampWindow(window time.Duration) time.Duration {
	switch {
	case window == 0:
		return domain.DefaultDebounce
	case window < domain.MinDebounce:
		return domain.MinDebounce
	case window > domain.MaxDebounce:
		return domain.MaxDebounce
	default:
		return window
	}
}

// Debouncer runs its callback once triggers stop arriving for a full window.
type Debouncer struct {
	mu       sync.Mutex
	timer    *time.Timer
	pending  bool
	stopped  bool
	window   time.Duration
	callback func()
}

// NewDebouncer creates a new debouncer with the given time window and callback.
func NewDebouncer(window time.Duration, callback func()) *Debouncer {
	return &Debouncer{
		window:   window,
		callback: callback,
	}
}

// Trigger schedules the callback, restarting the window if one is already running.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	d.pending = true
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, d.fire)
}

// fire is called when the debounce window expires.
func (d *Debouncer) fire() {
	d.mu.Lock()
	// Flush or Stop may have consumed the trigger already.
	if !d.pending || d.stopped {
		d.timer = nil
		d.mu.Unlock()
		return
	}
	d.pending = false
	d.timer = nil
	d.mu.Unlock()

	if d.callback != nil {
		d.callback()
	}
}

// Flush runs a pending callback immediately and blocks until it returns.
// It reports whether the callback ran.
func (d *Debouncer) Flush() bool {
	d.mu.Lock()
	if d.timer != nil {
		if !d.timer.Stop() {
			// Timer already fired, let it complete rather than running twice.
			d.mu.Unlock()
			return false
		}
		d.timer = nil
	}

	run := d.pending && !d.stopped
	d.pending = false
	d.mu.Unlock()

	if run && d.callback != nil {
		d.callback()
	}
	return run
}

// Pending reports whether a trigger is waiting for its window to expire.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}

// Stop cancels any pending trigger. Later triggers are ignored.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	d.pending = false
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
