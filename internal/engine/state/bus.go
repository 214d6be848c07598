package state

import (
	"sync"

	"go.trai.ch/livepush/internal/core/domain"
)

// Subscription is returned by every listener registration.
type Subscription interface {
	// Remove unregisters the listener. Calling it twice is a no-op.
	Remove()
}

type entry[T any] struct {
	id uint64
	fn func(T)
}

// Registry holds listeners of one event kind and calls them in registration order.
type Registry[T any] struct {
	mu      sync.Mutex
	nextID  uint64
	entries []entry[T]
}

// Add registers fn.
func (r *Registry[T]) Add(fn func(T)) Subscription {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	id := r.nextID
	r.entries = append(r.entries, entry[T]{id: id, fn: fn})
	return subscription(func() { r.remove(id) })
}

func (r *Registry[T]) remove(id uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, e := range r.entries {
		if e.id == id {
			r.entries = append(r.entries[:i:i], r.entries[i+1:]...)
			return
		}
	}
}

// Emit calls every listener with v. Listeners run on the caller's goroutine without the registry lock held.
func (r *Registry[T]) Emit(v T) {
	r.mu.Lock()
	entries := make([]entry[T], len(r.entries))
	copy(entries, r.entries)
	r.mu.Unlock()

	for _, e := range entries {
		e.fn(v)
	}
}

// Len returns the number of registered listeners.
func (r *Registry[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

type subscription func()

func (s subscription) Remove() { s() }

// Bus groups the session's listener registries.
type Bus struct {
	Errors   Registry[[]domain.DeviceError]
	Logs     Registry[domain.DeviceLog]
	Presence Registry[domain.PresenceEvent]
	State    Registry[domain.State]

	mu              sync.Mutex
	dependencyError func(string)
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// SetDependencyErrorListener replaces the single dependency error listener.
func (b *Bus) SetDependencyErrorListener(fn func(message string)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.dependencyError = fn
}

// EmitDependencyError reports a failed module install.
func (b *Bus) EmitDependencyError(message string) {
	b.mu.Lock()
	fn := b.dependencyError
	b.mu.Unlock()

	if fn != nil {
		fn(message)
	}
}
