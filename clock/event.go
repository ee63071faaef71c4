package clock

// VTimeInSec defines time in the clock's domain in the unit of second.
type VTimeInSec float64

// Action is what a callback asks the clock to do with its event after a
// firing.
type Action int

const (
	// Continue keeps a repeating event scheduled.
	Continue Action = iota

	// StopRepeating retires a repeating event after the current firing.
	StopRepeating
)

// Callback is the function signature of all scheduled callbacks. The dt
// argument is the time elapsed since the callback's previous firing, or since
// it was scheduled for the first firing. Returning StopRepeating cancels a
// repeating event. Returning a non-nil error also cancels the event; the
// error is logged and surfaced through the FireError hook.
type Callback func(dt VTimeInSec) (Action, error)

// An Event is the clock's record for one scheduled callback. Events are
// created by the scheduling methods of Clock and by Trigger construction,
// never directly.
type Event struct {
	clock *Clock

	seq      uint64
	id       string
	ref      Ref
	cbptr    uintptr
	timeout  VTimeInSec
	loop     bool
	priority int

	// The fields below are guarded by the owning clock's mutex.
	triggered     bool
	cancelled     bool
	index         int
	lastDT        VTimeInSec
	dt            VTimeInSec
	nextEventTime VTimeInSec
	lastEventTime VTimeInSec
}

// newEvent creates an event. The caller must hold the clock mutex. When
// scheduled is true the event enters the pending queue immediately.
func (c *Clock) newEvent(
	ref Ref,
	cbptr uintptr,
	timeout VTimeInSec,
	priority int,
	loop bool,
	scheduled bool,
) *Event {
	e := &Event{
		clock:         c,
		seq:           c.nextSeq(),
		id:            GetIDGenerator().Generate(),
		ref:           ref,
		cbptr:         cbptr,
		timeout:       timeout,
		loop:          loop,
		priority:      priority,
		index:         -1,
		lastDT:        c.lastTick,
		nextEventTime: c.lastTick + timeout,
	}

	if scheduled {
		e.triggered = true
		c.pending.push(e)
		c.observeDeadline(e.nextEventTime)
	}

	return e
}

// ID returns the identifier assigned to the event at creation.
func (e *Event) ID() string {
	return e.id
}

// Priority returns the dispatch priority of the event. Among events firing at
// the same time within one tick, higher priorities fire first.
func (e *Event) Priority() int {
	return e.priority
}

// NextEventTime returns the time the event will next become due.
func (e *Event) NextEventTime() VTimeInSec {
	e.clock.mu.Lock()
	defer e.clock.mu.Unlock()
	return e.nextEventTime
}

// LastEventTime returns the time the event last fired.
func (e *Event) LastEventTime() VTimeInSec {
	e.clock.mu.Lock()
	defer e.clock.mu.Unlock()
	return e.lastEventTime
}

// IsTriggered reports whether the event is currently pending dispatch.
func (e *Event) IsTriggered() bool {
	e.clock.mu.Lock()
	defer e.clock.mu.Unlock()
	return e.triggered
}

// Release downgrades the event's callback reference to a weak binding on
// owner. Once owner is no longer alive the event retires silently on its next
// due check instead of firing.
func (e *Event) Release(owner Referent) {
	e.clock.mu.Lock()
	defer e.clock.mu.Unlock()

	if cb, ok := e.ref.Resolve(); ok {
		e.ref = Bound(owner, cb)
	}
}

// Cancel removes the event from the pending queue if it is scheduled and
// marks it cancelled. Cancelling an event that already fired, or cancelling
// twice, is a no-op. A firing already in flight in the current tick is not
// aborted.
func (e *Event) Cancel() {
	e.clock.mu.Lock()
	defer e.clock.mu.Unlock()
	e.cancelLocked()
}

func (e *Event) cancelLocked() {
	if e.triggered {
		e.triggered = false
		e.clock.pending.remove(e)
	}
	e.cancelled = true
}

// activate arms a trigger-style event. It is a no-op when the event is
// already pending, which coalesces repeated activations within one tick into
// a single firing. Returns whether the event transitioned from idle to
// pending.
func (e *Event) activate() bool {
	c := e.clock
	c.mu.Lock()
	defer c.mu.Unlock()

	if e.triggered {
		return false
	}

	e.triggered = true
	e.cancelled = false
	e.lastDT = c.lastTick
	e.nextEventTime = c.lastTick + e.timeout
	c.pending.push(e)
	c.observeDeadline(e.nextEventTime)

	return true
}

// due reports whether the event should fire at now. Events with a
// non-positive timeout are always due. Callers hold the clock mutex.
func (e *Event) due(now VTimeInSec) bool {
	if e.timeout > 0 && now < e.nextEventTime {
		return false
	}

	return true
}

// fireLocked moves a due event into the frame callback queue. It computes the
// per-firing dt, advances the next fire time, and either re-enters the
// pending queue (repeating events) or retires. The next fire time of a
// repeating event advances by exactly the timeout from the previously
// scheduled time, not from now, so the firing sequence does not drift under
// load. The caller must hold the clock mutex and must have removed the event
// from the pending queue already.
func (e *Event) fireLocked(now VTimeInSec) {
	c := e.clock

	e.dt = now - e.lastDT
	e.lastDT = now

	if e.timeout > 0 {
		e.lastEventTime = e.nextEventTime
		e.nextEventTime += e.timeout
	} else {
		e.lastEventTime = now
		e.nextEventTime = now
	}

	// A dead weak reference retires the event silently.
	if _, ok := e.ref.Resolve(); !ok {
		e.triggered = false
		return
	}

	e.cancelled = false
	c.frameCallbacks = append(c.frameCallbacks, frameEntry{
		fireTime: e.lastEventTime,
		priority: e.priority,
		seq:      e.seq,
		evt:      e,
	})

	if e.loop {
		c.pending.push(e)
		c.observeDeadline(e.nextEventTime)
	} else {
		e.triggered = false
	}
}
