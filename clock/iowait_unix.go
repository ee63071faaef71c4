//go:build linux || darwin

package clock

import (
	"time"

	"golang.org/x/sys/unix"
)

// osWaiter performs the wait phase against the operating system: poll(2) when
// descriptors are registered so that either the deadline or descriptor
// readiness wakes the loop, and a plain timer sleep otherwise.
type osWaiter struct{}

func newOSWaiter() waiter {
	return osWaiter{}
}

func (osWaiter) wait(sleeptime VTimeInSec, watches []ioWatch) {
	if len(watches) == 0 {
		if sleeptime > 0 {
			time.Sleep(time.Duration(float64(sleeptime) * float64(time.Second)))
		}

		return
	}

	// poll(2) granularity is one millisecond; round a positive sleep up so a
	// short deadline does not degenerate into a busy spin.
	timeout := 0
	if sleeptime > 0 {
		timeout = int(float64(sleeptime) * 1000)
		if timeout == 0 {
			timeout = 1
		}
	}

	fds := make([]unix.PollFd, len(watches))
	for i, w := range watches {
		fds[i] = unix.PollFd{Fd: int32(w.fd), Events: unix.POLLIN}
	}

	n, err := unix.Poll(fds, timeout)
	if err != nil || n == 0 {
		// EINTR and timeouts both just end the wait phase.
		return
	}

	for i, pfd := range fds {
		if pfd.Revents&(unix.POLLIN|unix.POLLHUP|unix.POLLERR) != 0 {
			watches[i].ready()
		}
	}
}
