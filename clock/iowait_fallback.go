//go:build !linux && !darwin

package clock

import "time"

// osWaiter on platforms without poll(2) falls back to a plain timer sleep.
// Registered descriptors do not wake the loop early here; their callbacks run
// only when the deadline expires and the next tick polls them implicitly
// through application code.
type osWaiter struct{}

func newOSWaiter() waiter {
	return osWaiter{}
}

func (osWaiter) wait(sleeptime VTimeInSec, watches []ioWatch) {
	if sleeptime > 0 {
		time.Sleep(time.Duration(float64(sleeptime) * float64(time.Second)))
	}
}
