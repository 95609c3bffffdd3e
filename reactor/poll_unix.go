//go:build linux || darwin

// File: reactor/poll_unix.go
// Author: momentics <momentics@gmail.com>
//
// poll(2)-based Waiter for Unix-like systems. The pollfd slice is rebuilt on
// every call; nothing is registered with the kernel across calls.

package reactor

import (
	"fmt"
	"time"

	"golang.org/x/sys/unix"
)

type pollWaiter struct{}

func newWaiter() (Waiter, error) {
	return &pollWaiter{}, nil
}

// Wait polls fds for readability. timeout < 0 blocks indefinitely.
func (w *pollWaiter) Wait(fds []int, timeout time.Duration) ([]Event, error) {
	if len(fds) == 0 {
		return nil, nil
	}

	pfds := make([]unix.PollFd, len(fds))
	for i, fd := range fds {
		pfds[i] = unix.PollFd{Fd: int32(fd), Events: unix.POLLIN}
	}

	ms := -1
	if timeout >= 0 {
		ms = int(timeout.Milliseconds())
	}

	n, err := unix.Poll(pfds, ms)
	if err != nil {
		if err == unix.EINTR {
			return nil, nil // interrupted by signal — normal
		}
		return nil, fmt.Errorf("poll: %w", err)
	}
	if n == 0 {
		return nil, nil
	}

	events := make([]Event, 0, n)
	for i := range pfds {
		re := pfds[i].Revents
		if re == 0 {
			continue
		}
		events = append(events, Event{
			FD:       int(pfds[i].Fd),
			Readable: re&(unix.POLLIN|unix.POLLHUP) != 0,
			Err:      re&(unix.POLLERR|unix.POLLNVAL) != 0,
		})
	}
	return events, nil
}
