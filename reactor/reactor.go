// File: reactor/reactor.go
// Author: momentics <momentics@gmail.com>
//
// Platform-neutral readiness-wait interface for IO multiplexing.

package reactor

import "time"

// Event describes the readiness state of one descriptor after a Wait call.
type Event struct {
	FD       int  // File descriptor the event refers to.
	Readable bool // Data (or a pending connection) can be read without blocking.
	Err      bool // Error or hangup condition on the descriptor.
}

// Waiter blocks until at least one of a set of descriptors is ready to read.
//
// The descriptor set is supplied on every call and never retained: callers
// rebuild it from their current state each iteration.
type Waiter interface {
	// Wait blocks until at least one descriptor in fds is readable, the
	// timeout elapses, or the wait is interrupted. It returns the events
	// for ready descriptors, in the order the descriptors were given.
	// An empty result with a nil error means timeout or interruption.
	Wait(fds []int, timeout time.Duration) ([]Event, error)
}

// New constructs the platform readiness Waiter.
func New() (Waiter, error) {
	return newWaiter()
}
