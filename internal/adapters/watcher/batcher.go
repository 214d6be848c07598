package watcher

import (
	"slices"
	"sync"
	"time"
	"unique"
)

// DefaultBatchWindow is the default time window for coalescing file events.
const DefaultBatchWindow = 50 * time.Millisecond

// Batcher coalesces bursts of file events into one callback.
// An editor save often produces several events for the same file.
type Batcher struct {
	mu       sync.Mutex
	pending  map[unique.Handle[string]]struct{}
	timer    *time.Timer
	window   time.Duration
	callback func(paths []string)
}

// NewBatcher creates a batcher with the given window and callback.
func NewBatcher(window time.Duration, callback func(paths []string)) *Batcher {
	return &Batcher{
		pending:  make(map[unique.Handle[string]]struct{}),
		window:   window,
		callback: callback,
	}
}

// Add records a changed path and restarts the window.
func (b *Batcher) Add(path string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.pending[unique.Make(path)] = struct{}{}

	if b.timer != nil {
		b.timer.Stop()
	}
	b.timer = time.AfterFunc(b.window, b.fire)
}

// take empties the pending set and returns it sorted. The caller holds mu.
func (b *Batcher) take() []string {
	paths := make([]string, 0, len(b.pending))
	for handle := range b.pending {
		paths = append(paths, handle.Value())
	}
	b.pending = make(map[unique.Handle[string]]struct{})
	slices.Sort(paths)
	return paths
}

func (b *Batcher) fire() {
	b.mu.Lock()
	b.timer = nil
	paths := b.take()
	b.mu.Unlock()

	if len(paths) > 0 && b.callback != nil {
		b.callback(paths)
	}
}

// Flush runs the callback for pending paths now and blocks until it returns.
func (b *Batcher) Flush() {
	b.mu.Lock()
	if b.timer != nil {
		if !b.timer.Stop() {
			// The timer already fired and owns the pending paths.
			b.mu.Unlock()
			return
		}
		b.timer = nil
	}
	paths := b.take()
	b.mu.Unlock()

	if len(paths) > 0 && b.callback != nil {
		b.callback(paths)
	}
}
