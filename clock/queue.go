package clock

import "container/heap"

// pendingQueue holds all scheduled events ordered by their next fire time.
// Each event carries its heap index so removal and deadline updates stay
// O(log n). The queue itself is not locked; the owning clock's mutex guards
// every access.
type pendingQueue struct {
	events eventHeap
}

func newPendingQueue() *pendingQueue {
	q := &pendingQueue{}
	q.events = make([]*Event, 0)
	heap.Init(&q.events)
	return q
}

func (q *pendingQueue) push(evt *Event) {
	heap.Push(&q.events, evt)
}

func (q *pendingQueue) pop() *Event {
	if q.events.Len() == 0 {
		return nil
	}

	return heap.Pop(&q.events).(*Event)
}

// peek returns the event with the earliest next fire time without removing
// it.
func (q *pendingQueue) peek() *Event {
	if q.events.Len() == 0 {
		return nil
	}

	return q.events[0]
}

func (q *pendingQueue) remove(evt *Event) {
	if evt.index < 0 {
		return
	}

	heap.Remove(&q.events, evt.index)
}

func (q *pendingQueue) len() int {
	return q.events.Len()
}

// snapshot returns the queued events in no particular order.
func (q *pendingQueue) snapshot() []*Event {
	evts := make([]*Event, len(q.events))
	copy(evts, q.events)
	return evts
}

type eventHeap []*Event

func (h eventHeap) Len() int {
	return len(h)
}

// Less determines the order between two events. Less returns true if the i-th
// event becomes due before the j-th event.
func (h eventHeap) Less(i, j int) bool {
	return h[i].nextEventTime < h[j].nextEventTime
}

func (h eventHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *eventHeap) Push(x any) {
	evt := x.(*Event)
	evt.index = len(*h)
	*h = append(*h, evt)
}

func (h *eventHeap) Pop() any {
	old := *h
	n := len(old)
	evt := old[n-1]
	old[n-1] = nil
	evt.index = -1
	*h = old[:n-1]
	return evt
}
