// Package clock implements the tick scheduling engine of the control loop. A
// Clock owns a set of pending events, sleeps or waits on I/O readiness until
// the next deadline, and fires every due callback once per tick in a strict
// (fire time, priority, creation order) order. A VirtualClock provides the
// same contract on virtual time for hardware-free deterministic tests.
package clock

import (
	"errors"
	"log"
	"reflect"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/eapache/queue"
)

// DefaultMaxFPS is the tick rate the clock idles at when nothing is pending.
const DefaultMaxFPS = 30.0

// DefaultMaxIteration is the number of before-frame passes a single tick may
// run before deferring the remaining before-frame callbacks to the next tick.
const DefaultMaxIteration = 10

// ErrInvalidCallback is returned by the scheduling methods when the callback
// argument is nil.
var ErrInvalidCallback = errors.New("callback must not be nil")

// ErrNonPositivePeriod is returned by ScheduleInterval when the period is not
// a positive number.
var ErrNonPositivePeriod = errors.New("interval period must be positive")

// ReadyFunc is invoked synchronously during the wait phase when the
// descriptor it is registered for becomes readable.
type ReadyFunc func()

type ioWatch struct {
	fd    int
	ready ReadyFunc
}

// A waiter blocks until the sleep time elapses or one of the watched
// descriptors becomes ready, whichever comes first, and invokes the ready
// callbacks of the descriptors that woke it.
type waiter interface {
	wait(sleeptime VTimeInSec, watches []ioWatch)
}

// frameEntry annotates an event queued for dispatch within the current tick.
type frameEntry struct {
	fireTime VTimeInSec
	priority int
	seq      uint64
	evt      *Event
}

// A Clock schedules callbacks on a continuous control loop. Every instance is
// independent; a program may run one clock for the machine and another for an
// isolated test without shared state.
//
// All scheduling methods are safe to call from a goroutine other than the one
// running Tick. Racing two activations, or an activation and a cancellation,
// of the same event from two different goroutines has no ordering guarantee:
// the event may effectively fire zero, one, or two times. That limitation is
// accepted rather than defended with per-event locking.
type Clock struct {
	HookableBase

	logger       *log.Logger
	maxFPS       float64
	maxIteration int

	timeFunc         func() VTimeInSec
	waiter           waiter
	deadlineObserver func(VTimeInSec)

	seqCounter uint64

	mu             sync.Mutex
	pending        *pendingQueue
	frameCallbacks []frameEntry
	deferred       *queue.Queue
	ioWatches      map[int]ReadyFunc

	startTick       VTimeInSec
	lastTick        VTimeInSec
	dt              VTimeInSec
	frames          uint64
	framesDisplayed uint64
	fps             float64
	rfps            int
	fpsCounter      int
	rfpsCounter     int
	lastFPSTick     VTimeInSec
	hasFPSTick      bool
}

var processStart = time.Now()

func realTime() VTimeInSec {
	return VTimeInSec(time.Since(processStart).Seconds())
}

// NewClock creates a clock driven by the monotonic system clock that waits on
// the OS for deadlines and I/O readiness.
func NewClock() *Clock {
	return newClock(realTime, newOSWaiter(), nil)
}

func newClock(
	timeFunc func() VTimeInSec,
	w waiter,
	observe func(VTimeInSec),
) *Clock {
	c := &Clock{
		logger:           log.Default(),
		maxFPS:           DefaultMaxFPS,
		maxIteration:     DefaultMaxIteration,
		timeFunc:         timeFunc,
		waiter:           w,
		deadlineObserver: observe,
		pending:          newPendingQueue(),
		deferred:         queue.New(),
		ioWatches:        make(map[int]ReadyFunc),
	}

	now := c.timeFunc()
	c.startTick = now
	c.lastTick = now
	c.dt = 0.0001

	return c
}

// WithMaxFPS sets the rate the clock idles at when no event is pending.
func (c *Clock) WithMaxFPS(fps float64) *Clock {
	if fps <= 0 {
		fps = DefaultMaxFPS
	}

	c.maxFPS = fps

	return c
}

// WithMaxIteration sets the before-frame iteration ceiling.
func (c *Clock) WithMaxIteration(n int) *Clock {
	if n < 1 {
		n = 1
	}

	c.maxIteration = n

	return c
}

// WithLogger sets the logger that receives the clock's warnings.
func (c *Clock) WithLogger(logger *log.Logger) *Clock {
	c.logger = logger
	return c
}

func (c *Clock) nextSeq() uint64 {
	return atomic.AddUint64(&c.seqCounter, 1)
}

// observeDeadline reports a newly scheduled deadline to the variant driving
// this clock, if any. Callers hold the clock mutex.
func (c *Clock) observeDeadline(t VTimeInSec) {
	if c.deadlineObserver != nil {
		c.deadlineObserver(t)
	}
}

// ScheduleOnce schedules callback to fire once. A timeout of 0 fires at the
// next tick's dispatch phase; a negative timeout fires before the next tick,
// ahead of time-based callbacks and subject to the iteration ceiling; a
// positive timeout fires once the timeout elapses. Among callbacks due in the
// same tick, higher priorities fire first.
func (c *Clock) ScheduleOnce(
	callback Callback,
	timeout VTimeInSec,
	priority int,
) (*Event, error) {
	if callback == nil {
		return nil, ErrInvalidCallback
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	return c.newEvent(
		Strong(callback), callbackPointer(callback),
		timeout, priority, false, true), nil
}

// ScheduleInterval schedules callback to fire every period seconds until the
// event is cancelled or the callback returns StopRepeating. The firing
// sequence targets integer multiples of the period from the scheduling
// baseline, so a late tick does not accumulate drift.
func (c *Clock) ScheduleInterval(
	callback Callback,
	period VTimeInSec,
	priority int,
) (*Event, error) {
	if callback == nil {
		return nil, ErrInvalidCallback
	}

	if period <= 0 {
		return nil, ErrNonPositivePeriod
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	return c.newEvent(
		Strong(callback), callbackPointer(callback),
		period, priority, true, true), nil
}

// CreateTrigger returns a reusable activator around callback. Unlike
// ScheduleOnce, the trigger owns a single event for its whole lifetime and
// firing it while the event is already pending is a no-op, so the callback
// runs at most once per tick no matter how many times the trigger fires.
func (c *Clock) CreateTrigger(
	callback Callback,
	timeout VTimeInSec,
	priority int,
) (*Trigger, error) {
	if callback == nil {
		return nil, ErrInvalidCallback
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	return &Trigger{
		evt: c.newEvent(
			Strong(callback), callbackPointer(callback),
			timeout, priority, false, false),
	}, nil
}

func callbackPointer(callback Callback) uintptr {
	return reflect.ValueOf(callback).Pointer()
}

// Unschedule cancels previously scheduled work. The target may be an *Event,
// a *Trigger, or a callback; in the callback case every pending event
// registered with the same function is cancelled, or only the first match
// when allMatches is false. Unscheduling something that is not pending is a
// no-op.
func (c *Clock) Unschedule(target any, allMatches bool) {
	switch t := target.(type) {
	case *Event:
		t.Cancel()
	case *Trigger:
		t.Cancel()
	case Callback:
		c.unscheduleCallback(reflect.ValueOf(t).Pointer(), allMatches)
	default:
		v := reflect.ValueOf(target)
		if v.Kind() != reflect.Func {
			return
		}

		c.unscheduleCallback(v.Pointer(), allMatches)
	}
}

func (c *Clock) unscheduleCallback(ptr uintptr, allMatches bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, evt := range c.pending.snapshot() {
		if evt.cbptr != ptr {
			continue
		}

		evt.cancelLocked()

		if !allMatches {
			return
		}
	}
}

// RegisterIOWait arranges for ready to be invoked during the wait phase
// whenever fd becomes readable. Re-registering a descriptor replaces its
// callback.
func (c *Clock) RegisterIOWait(fd int, ready ReadyFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ioWatches[fd] = ready
}

// UnregisterIOWait removes the readiness callback registered for fd.
func (c *Clock) UnregisterIOWait(fd int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.ioWatches, fd)
}

// Tick advances the clock by one step: wait until the earliest deadline or an
// I/O readiness signal, advance the time reference, then fire every due
// callback in (fire time, priority, creation order) order. Returns the time
// elapsed since the previous tick.
func (c *Clock) Tick() VTimeInSec {
	c.sleepUntilNextEvent()

	c.mu.Lock()
	current := c.timeFunc()
	c.dt = current - c.lastTick
	c.frames++
	c.fpsCounter++
	c.lastTick = current

	if !c.hasFPSTick {
		c.hasFPSTick = true
		c.lastFPSTick = current
	} else if current-c.lastFPSTick > 1 {
		d := float64(current - c.lastFPSTick)
		c.fps = float64(c.fpsCounter) / d
		c.rfps = c.rfpsCounter
		c.lastFPSTick = current
		c.fpsCounter = 0
		c.rfpsCounter = 0
	}

	dt := c.dt
	c.mu.Unlock()

	c.InvokeHook(HookCtx{Domain: c, Pos: HookPosTickStart, Item: current})

	c.processEvents(current, false)
	c.processFrameCallbacks()
	c.runBeforeFrameIterations(current)

	return dt
}

// TickDraw counts a displayed frame for the real-FPS statistics. Call it once
// per rendered frame.
func (c *Clock) TickDraw() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rfpsCounter++
	c.framesDisplayed++
}

func (c *Clock) sleepUntilNextEvent() {
	c.mu.Lock()

	var sleeptime VTimeInSec
	switch {
	case c.deferred.Length() > 0:
		// Deferred before-frame work must run on this tick.
		sleeptime = 0
	case c.pending.len() > 0:
		sleeptime = c.pending.peek().nextEventTime - c.timeFunc()
	default:
		// Nothing pending; idle at the configured maximum rate.
		sleeptime = VTimeInSec(1.0 / c.maxFPS)
	}

	watches := make([]ioWatch, 0, len(c.ioWatches))
	for fd, ready := range c.ioWatches {
		watches = append(watches, ioWatch{fd: fd, ready: ready})
	}

	c.mu.Unlock()

	sort.Slice(watches, func(i, j int) bool {
		return watches[i].fd < watches[j].fd
	})

	c.waiter.wait(sleeptime, watches)
}

// processEvents moves every due event into the frame callback queue. When
// beforeOnly is set, only before-frame events (negative timeout) are
// considered; other due events stay pending for the next tick.
func (c *Clock) processEvents(now VTimeInSec, beforeOnly bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !beforeOnly {
		c.requeueDeferredLocked()
	}

	var due, reinsert []*Event

	for {
		evt := c.pending.peek()
		if evt == nil || evt.nextEventTime > now {
			break
		}

		c.pending.pop()

		if beforeOnly && evt.timeout >= 0 {
			reinsert = append(reinsert, evt)
			continue
		}

		due = append(due, evt)
	}

	for _, evt := range reinsert {
		c.pending.push(evt)
	}

	for _, evt := range due {
		if !evt.due(now) {
			c.pending.push(evt)
			continue
		}

		evt.fireLocked(now)
	}
}

// requeueDeferredLocked returns before-frame events deferred by the previous
// tick's iteration ceiling to the pending queue, dropping the ones cancelled
// in the meantime.
func (c *Clock) requeueDeferredLocked() {
	for c.deferred.Length() > 0 {
		evt := c.deferred.Remove().(*Event)
		if !evt.triggered {
			continue
		}

		c.pending.push(evt)
	}
}

// processFrameCallbacks dispatches the callbacks queued for the current tick.
// The queue is sorted by fire time first, then by priority (higher first),
// then by event creation order, so simultaneously due callbacks always run in
// a reproducible order. The snapshot taken here is stable: events scheduled
// or cancelled by a running callback only affect the next selection pass.
func (c *Clock) processFrameCallbacks() {
	c.mu.Lock()
	entries := c.frameCallbacks
	c.frameCallbacks = nil
	c.mu.Unlock()

	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.fireTime != b.fireTime {
			return a.fireTime < b.fireTime
		}
		if a.priority != b.priority {
			return a.priority > b.priority
		}
		return a.seq < b.seq
	})

	for _, entry := range entries {
		evt := entry.evt

		c.mu.Lock()
		cancelled := evt.cancelled
		dt := evt.dt
		ref := evt.ref
		c.mu.Unlock()

		if cancelled {
			continue
		}

		callback, ok := ref.Resolve()
		if !ok {
			continue
		}

		hookCtx := HookCtx{
			Domain: c,
			Pos:    HookPosBeforeFire,
			Item:   evt,
			Detail: dt,
		}
		c.InvokeHook(hookCtx)

		action, err := callback(dt)

		hookCtx.Pos = HookPosAfterFire
		c.InvokeHook(hookCtx)

		if err != nil {
			// The erroring callback is retired; the tick itself completes.
			c.logger.Printf("clock: callback error: %v", err)
			hookCtx.Pos = HookPosFireError
			hookCtx.Detail = err
			c.InvokeHook(hookCtx)
			evt.Cancel()
			continue
		}

		if evt.loop && action == StopRepeating {
			evt.Cancel()
		}
	}
}

// runBeforeFrameIterations re-runs selection and dispatch for before-frame
// events that were re-armed by callbacks during the current tick. The number
// of passes is bounded by the iteration ceiling; past the ceiling the
// remaining before-frame events are deferred to the next tick, where they
// compete under the normal ordering rule.
func (c *Clock) runBeforeFrameIterations(now VTimeInSec) {
	for i := 1; ; i++ {
		c.mu.Lock()
		armed := c.beforeFramePendingLocked()

		if len(armed) == 0 {
			c.mu.Unlock()
			return
		}

		if i >= c.maxIteration {
			for _, evt := range armed {
				c.pending.remove(evt)
				c.deferred.Add(evt)
			}
			c.mu.Unlock()

			c.logger.Printf(
				"clock: before-frame iteration ceiling (%d) reached, "+
					"deferring %d callback(s) to the next tick",
				c.maxIteration, len(armed),
			)
			c.InvokeHook(HookCtx{
				Domain: c,
				Pos:    HookPosIterationCeiling,
				Item:   len(armed),
			})

			return
		}

		c.mu.Unlock()

		c.processEvents(now, true)
		c.processFrameCallbacks()
	}
}

func (c *Clock) beforeFramePendingLocked() []*Event {
	var armed []*Event
	for _, evt := range c.pending.snapshot() {
		if evt.timeout < 0 {
			armed = append(armed, evt)
		}
	}

	return armed
}

// CurrentTime returns the time sampled by the most recent tick.
func (c *Clock) CurrentTime() VTimeInSec {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastTick
}

// FrameTime returns the time spent between the previous tick and the current
// one.
func (c *Clock) FrameTime() VTimeInSec {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dt
}

// FPS returns the average tick rate over the last one-second window.
func (c *Clock) FPS() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fps
}

// RFPS returns the number of displayed frames counted in the last one-second
// window.
func (c *Clock) RFPS() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rfps
}

// BootTime returns the time elapsed since the clock was created.
func (c *Clock) BootTime() VTimeInSec {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastTick - c.startTick
}

// TickCount returns the number of ticks executed since the clock started.
func (c *Clock) TickCount() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frames
}

// FramesDisplayed returns the number of displayed frames counted by TickDraw.
func (c *Clock) FramesDisplayed() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.framesDisplayed
}

// PendingCount returns the number of events awaiting dispatch.
func (c *Clock) PendingCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending.len() + c.deferred.Length()
}

// MaxFPS returns the configured idle tick rate.
func (c *Clock) MaxFPS() float64 {
	return c.maxFPS
}
