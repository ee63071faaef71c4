package clock

import "sync"

// A Referent is the owner of a weakly bound callback. The clock resolves the
// owner's liveness on every due check and retires the event once the owner is
// gone, so that the scheduler is never the sole reason an application object
// stays alive.
type Referent interface {
	Alive() bool
}

// A Ref resolves to a callback, or reports that the callback is no longer
// reachable.
type Ref interface {
	Resolve() (Callback, bool)
}

type strongRef struct {
	fn Callback
}

func (r strongRef) Resolve() (Callback, bool) {
	return r.fn, true
}

// Strong returns a Ref that owns fn outright. Use it for fire-and-forget
// closures whose lifetime the clock fully controls.
func Strong(fn Callback) Ref {
	return strongRef{fn: fn}
}

type weakRef struct {
	owner Referent
	fn    Callback
}

func (r weakRef) Resolve() (Callback, bool) {
	if !r.owner.Alive() {
		return nil, false
	}

	return r.fn, true
}

// Bound returns a Ref that resolves fn only while owner is alive.
func Bound(owner Referent, fn Callback) Ref {
	return weakRef{owner: owner, fn: fn}
}

// A Lifetime is a ready-made Referent for owners that have no liveness notion
// of their own. Release is idempotent.
type Lifetime struct {
	mu       sync.Mutex
	released bool
}

// NewLifetime creates a live Lifetime.
func NewLifetime() *Lifetime {
	return &Lifetime{}
}

// Alive reports whether Release has not been called yet.
func (l *Lifetime) Alive() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return !l.released
}

// Release marks the lifetime dead. Events bound to it retire silently on
// their next due check.
func (l *Lifetime) Release() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.released = true
}
