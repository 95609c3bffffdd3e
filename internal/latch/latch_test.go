//go:build linux || darwin

// File: internal/latch/latch_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package latch

import (
	"testing"

	"golang.org/x/sys/unix"
)

func readable(t *testing.T, fd int) bool {
	t.Helper()
	pfds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
	n, err := unix.Poll(pfds, 0)
	if err != nil && err != unix.EINTR {
		t.Fatalf("poll: %v", err)
	}
	return n > 0 && pfds[0].Revents&unix.POLLIN != 0
}

func TestLatchSetReset(t *testing.T) {
	l, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer l.Close()

	if readable(t, l.FD()) {
		t.Fatal("fresh latch is readable")
	}

	l.Set()
	if !readable(t, l.FD()) {
		t.Fatal("set latch is not readable")
	}

	// Setting twice then resetting once must fully drain.
	l.Set()
	l.Reset()
	if readable(t, l.FD()) {
		t.Fatal("reset latch is still readable")
	}
}

func TestLatchSetFromOtherGoroutine(t *testing.T) {
	l, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer l.Close()

	done := make(chan struct{})
	go func() {
		l.Set()
		close(done)
	}()
	<-done
	if !readable(t, l.FD()) {
		t.Fatal("latch set from goroutine is not readable")
	}
}
