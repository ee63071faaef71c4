package clock

import "sync"

// A MockDescriptor stands in for an I/O descriptor in the deterministic
// variant. Readiness is read from predicates instead of an OS polling
// primitive.
type MockDescriptor interface {
	ReadReady() bool
	WriteReady() bool
}

type mockWatch struct {
	desc  MockDescriptor
	ready ReadyFunc
}

// A VirtualClock is a Clock with the identical scheduling contract but
// virtual time: time advances only when requested, and the wait phase checks
// mock descriptors instead of blocking. Advancing by exactly the delta to the
// next deadline reproduces real-time firing order without wall-clock waiting,
// which makes test runs both fast and replayable.
type VirtualClock struct {
	*Clock

	vmu       sync.Mutex
	now       VTimeInSec
	deadlines *deadlineSet
	mocks     []mockWatch
}

// NewVirtualClock creates a clock on virtual time starting at 0.
func NewVirtualClock() *VirtualClock {
	vc := &VirtualClock{deadlines: newDeadlineSet()}
	vc.Clock = newClock(vc.time, vc, vc.observeDeadline)
	return vc
}

func (vc *VirtualClock) time() VTimeInSec {
	vc.vmu.Lock()
	defer vc.vmu.Unlock()
	return vc.now
}

// observeDeadline records every deadline the engine schedules. The engine
// calls it while holding its own mutex; the deadline set has a separate lock
// and never calls back into the engine.
func (vc *VirtualClock) observeDeadline(when VTimeInSec) {
	vc.vmu.Lock()
	defer vc.vmu.Unlock()
	vc.deadlines.add(when)
}

// wait implements the wait phase on virtual time: no blocking, only a
// readiness sweep over the registered mock descriptors.
func (vc *VirtualClock) wait(_ VTimeInSec, _ []ioWatch) {
	vc.vmu.Lock()
	mocks := make([]mockWatch, len(vc.mocks))
	copy(mocks, vc.mocks)
	vc.vmu.Unlock()

	for _, m := range mocks {
		if m.desc.ReadReady() || m.desc.WriteReady() {
			m.ready()
		}
	}
}

// SetTime moves virtual time to t without running any tick.
func (vc *VirtualClock) SetTime(t VTimeInSec) {
	vc.vmu.Lock()
	defer vc.vmu.Unlock()
	vc.now = t
}

// AdvanceTime moves virtual time forward by delta, ticking at every recorded
// deadline on the way and once more at the target time. Callbacks scheduled
// by callbacks during the advance extend the deadline set and are honored
// within the same call.
func (vc *VirtualClock) AdvanceTime(delta VTimeInSec) {
	vc.vmu.Lock()
	target := vc.now + delta
	vc.vmu.Unlock()

	vc.runUntil(target)
}

func (vc *VirtualClock) runUntil(target VTimeInSec) {
	for {
		vc.vmu.Lock()
		when, ok := vc.deadlines.peek()
		if !ok || when > target {
			vc.vmu.Unlock()
			break
		}

		vc.deadlines.popClosest()
		if when > vc.now {
			vc.now = when
		}
		vc.vmu.Unlock()

		vc.Clock.Tick()
	}

	vc.vmu.Lock()
	if target > vc.now {
		vc.now = target
	}
	vc.vmu.Unlock()

	vc.Clock.Tick()
}

// RegisterMockIO arranges for ready to be invoked during the wait phase of
// every tick in which desc reports readiness.
func (vc *VirtualClock) RegisterMockIO(desc MockDescriptor, ready ReadyFunc) {
	vc.vmu.Lock()
	defer vc.vmu.Unlock()
	vc.mocks = append(vc.mocks, mockWatch{desc: desc, ready: ready})
}

// UnregisterMockIO removes a previously registered mock descriptor.
func (vc *VirtualClock) UnregisterMockIO(desc MockDescriptor) {
	vc.vmu.Lock()
	defer vc.vmu.Unlock()

	mocks := make([]mockWatch, 0, len(vc.mocks))
	for _, m := range vc.mocks {
		if m.desc != desc {
			mocks = append(mocks, m)
		}
	}

	vc.mocks = mocks
}

// A MockSocket is a MockDescriptor with flags the test flips explicitly.
type MockSocket struct {
	mu       sync.Mutex
	readable bool
	writable bool
}

// NewMockSocket creates a MockSocket that reports no readiness.
func NewMockSocket() *MockSocket {
	return &MockSocket{}
}

// SetReadReady sets the read-readiness flag.
func (s *MockSocket) SetReadReady(ready bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.readable = ready
}

// SetWriteReady sets the write-readiness flag.
func (s *MockSocket) SetWriteReady(ready bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writable = ready
}

// ReadReady reports the read-readiness flag.
func (s *MockSocket) ReadReady() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readable
}

// WriteReady reports the write-readiness flag.
func (s *MockSocket) WriteReady() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writable
}
