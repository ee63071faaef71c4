package clock

import "container/heap"

// deadlineSet tracks the set of future fire times known to a virtual clock.
// Deadlines are de-duplicated by exact value, so advancing virtual time
// deadline by deadline reproduces the real-time firing order without visiting
// the same instant twice.
type deadlineSet struct {
	seen  map[VTimeInSec]struct{}
	times timeHeap
}

func newDeadlineSet() *deadlineSet {
	s := &deadlineSet{seen: make(map[VTimeInSec]struct{})}
	heap.Init(&s.times)
	return s
}

func (s *deadlineSet) add(when VTimeInSec) {
	if _, ok := s.seen[when]; ok {
		return
	}

	s.seen[when] = struct{}{}
	heap.Push(&s.times, when)
}

func (s *deadlineSet) empty() bool {
	return len(s.times) == 0
}

// peek returns the closest deadline without removing it.
func (s *deadlineSet) peek() (VTimeInSec, bool) {
	if len(s.times) == 0 {
		return 0, false
	}

	return s.times[0], true
}

// popClosest removes and returns the closest deadline.
func (s *deadlineSet) popClosest() (VTimeInSec, bool) {
	if len(s.times) == 0 {
		return 0, false
	}

	when := heap.Pop(&s.times).(VTimeInSec)
	delete(s.seen, when)

	return when, true
}

type timeHeap []VTimeInSec

func (h timeHeap) Len() int {
	return len(h)
}

func (h timeHeap) Less(i, j int) bool {
	return h[i] < h[j]
}

func (h timeHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
}

func (h *timeHeap) Push(x any) {
	*h = append(*h, x.(VTimeInSec))
}

func (h *timeHeap) Pop() any {
	old := *h
	n := len(old)
	when := old[n-1]
	*h = old[:n-1]
	return when
}
