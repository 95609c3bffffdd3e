//go:build linux || darwin

// File: internal/latch/latch_unix.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Self-pipe latch. Set makes the read end poll-readable, waking any readiness
// wait that includes it; Reset drains it. Set is safe from any goroutine and
// is idempotent until the next Reset.

package latch

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Latch is a poll-compatible wakeup primitive.
type Latch struct {
	r, w int
}

// New creates a latch in the unset state.
func New() (*Latch, error) {
	var p [2]int
	if err := unix.Pipe(p[:]); err != nil {
		return nil, fmt.Errorf("latch pipe: %w", err)
	}
	for _, fd := range p {
		if err := unix.SetNonblock(fd, true); err != nil {
			unix.Close(p[0])
			unix.Close(p[1])
			return nil, fmt.Errorf("latch nonblock: %w", err)
		}
	}
	return &Latch{r: p[0], w: p[1]}, nil
}

// FD returns the descriptor to include in a readiness set.
func (l *Latch) FD() int {
	return l.r
}

// Set wakes any waiter polling FD(). A full pipe means the latch is already
// set, which is fine.
func (l *Latch) Set() {
	_, _ = unix.Write(l.w, []byte{0})
}

// Reset drains the pipe so FD() is no longer readable.
func (l *Latch) Reset() {
	var buf [64]byte
	for {
		n, err := unix.Read(l.r, buf[:])
		if n <= 0 || err != nil {
			return
		}
	}
}

// Close releases both pipe ends.
func (l *Latch) Close() error {
	err1 := unix.Close(l.r)
	err2 := unix.Close(l.w)
	if err1 != nil {
		return err1
	}
	return err2
}
