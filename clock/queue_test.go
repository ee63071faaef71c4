package clock

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("PendingQueue", func() {
	var q *pendingQueue

	newTestEvent := func(when VTimeInSec) *Event {
		return &Event{
			nextEventTime: when,
			index:         -1,
		}
	}

	BeforeEach(func() {
		q = newPendingQueue()
	})

	It("should pop events in fire-time order", func() {
		q.push(newTestEvent(2.0))
		q.push(newTestEvent(0.5))
		q.push(newTestEvent(1.0))

		Expect(q.pop().nextEventTime).To(Equal(VTimeInSec(0.5)))
		Expect(q.pop().nextEventTime).To(Equal(VTimeInSec(1.0)))
		Expect(q.pop().nextEventTime).To(Equal(VTimeInSec(2.0)))
		Expect(q.pop()).To(BeNil())
	})

	It("should peek without removing", func() {
		q.push(newTestEvent(1.0))
		q.push(newTestEvent(0.5))

		Expect(q.peek().nextEventTime).To(Equal(VTimeInSec(0.5)))
		Expect(q.len()).To(Equal(2))
	})

	It("should peek nil when empty", func() {
		Expect(q.peek()).To(BeNil())
	})

	It("should remove an event from the middle of the heap", func() {
		evts := []*Event{
			newTestEvent(0.5),
			newTestEvent(1.0),
			newTestEvent(1.5),
			newTestEvent(2.0),
		}
		for _, evt := range evts {
			q.push(evt)
		}

		q.remove(evts[1])
		q.remove(evts[1])

		Expect(q.len()).To(Equal(3))
		Expect(q.pop().nextEventTime).To(Equal(VTimeInSec(0.5)))
		Expect(q.pop().nextEventTime).To(Equal(VTimeInSec(1.5)))
		Expect(q.pop().nextEventTime).To(Equal(VTimeInSec(2.0)))
	})

	It("should keep heap indices current across swaps", func() {
		evts := make([]*Event, 0, 16)
		for i := 16; i > 0; i-- {
			evt := newTestEvent(VTimeInSec(i))
			evts = append(evts, evt)
			q.push(evt)
		}

		for _, evt := range evts {
			Expect(q.events[evt.index]).To(BeIdenticalTo(evt))
		}
	})

	It("should snapshot every queued event", func() {
		q.push(newTestEvent(1.0))
		q.push(newTestEvent(2.0))

		snap := q.snapshot()

		Expect(snap).To(HaveLen(2))
		Expect(q.len()).To(Equal(2))
	})
})

var _ = Describe("DeadlineSet", func() {
	var s *deadlineSet

	BeforeEach(func() {
		s = newDeadlineSet()
	})

	It("should replay deadlines closest first", func() {
		s.add(2.0)
		s.add(0.5)
		s.add(1.0)

		when, ok := s.popClosest()
		Expect(ok).To(BeTrue())
		Expect(when).To(Equal(VTimeInSec(0.5)))

		when, _ = s.popClosest()
		Expect(when).To(Equal(VTimeInSec(1.0)))

		when, _ = s.popClosest()
		Expect(when).To(Equal(VTimeInSec(2.0)))

		_, ok = s.popClosest()
		Expect(ok).To(BeFalse())
	})

	It("should de-duplicate identical deadlines", func() {
		s.add(1.0)
		s.add(1.0)
		s.add(1.0)

		s.popClosest()
		Expect(s.empty()).To(BeTrue())
	})

	It("should accept a deadline again after it was consumed", func() {
		s.add(1.0)
		s.popClosest()
		s.add(1.0)

		when, ok := s.peek()
		Expect(ok).To(BeTrue())
		Expect(when).To(Equal(VTimeInSec(1.0)))
	})
})
