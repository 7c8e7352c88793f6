// internal/lock/lock.go
package lock

import (
	"sync"
	"time"
)

// Registry guards named tasks against overlapping runs within one process.
// An entry records when a task last acquired the lock; a second acquisition
// inside the staleness window is refused. Entries left behind by a crashed
// run go stale after the window, so one bad tick never wedges the scheduler
// permanently. This is not a distributed lock.
type Registry struct {
	mu    sync.Mutex
	held  map[string]time.Time
	clock func() time.Time
}

func NewRegistry() *Registry {
	return &Registry{
		held:  make(map[string]time.Time),
		clock: time.Now,
	}
}

// TryAcquire claims name if it is free or its holder is stale. Returns false
// when another run still holds a fresh entry.
func (r *Registry) TryAcquire(name string, timeout time.Duration) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.clock()
	if acquired, ok := r.held[name]; ok && now.Sub(acquired) < timeout {
		return false
	}
	r.held[name] = now
	return true
}

// Release drops the entry for name.
func (r *Registry) Release(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.held, name)
}

// WithLock runs fn under the named lock. If the lock is contended it returns
// (0, false) without calling fn. The entry is released on every exit path,
// panics included, so a failed run cannot block the next one.
func (r *Registry) WithLock(name string, timeout time.Duration, fn func() int) (result int, ran bool) {
	if !r.TryAcquire(name, timeout) {
		return 0, false
	}
	defer r.Release(name)
	return fn(), true
}
