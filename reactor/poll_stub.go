//go:build !linux && !darwin

// File: reactor/poll_stub.go
// Author: momentics <momentics@gmail.com>
//
// Stub Waiter for platforms without poll(2) support.

package reactor

import (
	"time"

	"github.com/momentics/bgworker-httpd/api"
)

type stubWaiter struct{}

func newWaiter() (Waiter, error) {
	return nil, api.ErrNotSupported
}

func (w *stubWaiter) Wait(fds []int, timeout time.Duration) ([]Event, error) {
	return nil, api.ErrNotSupported
}
