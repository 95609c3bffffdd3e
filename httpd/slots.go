// File: httpd/slots.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package httpd

import "github.com/momentics/bgworker-httpd/api"

// emptyFD marks a vacant slot. Valid descriptors are non-negative.
const emptyFD = -1

// SlotTable is a fixed-capacity arena of connection descriptors. It is the
// admission-control mechanism: at most Capacity connections are open at once,
// and the table never grows. The zero slot index carries no meaning beyond
// first-empty reuse.
//
// The table is not goroutine-safe; it is owned exclusively by the multiplexer.
type SlotTable struct {
	fds []int
}

// NewSlotTable creates a table with the given capacity (>= 1).
func NewSlotTable(capacity int) (*SlotTable, error) {
	if capacity < 1 {
		return nil, api.NewError(api.ErrCodeInvalidArgument, "slot capacity must be at least 1").
			WithContext("capacity", capacity)
	}
	fds := make([]int, capacity)
	for i := range fds {
		fds[i] = emptyFD
	}
	return &SlotTable{fds: fds}, nil
}

// Capacity returns the fixed table size.
func (t *SlotTable) Capacity() int {
	return len(t.fds)
}

// Occupied counts the currently held connections.
func (t *SlotTable) Occupied() int {
	n := 0
	for _, fd := range t.fds {
		if fd != emptyFD {
			n++
		}
	}
	return n
}

// Acquire stores fd in the first empty slot and returns its index.
// ok is false when the table is full; the caller owns the rejection.
func (t *SlotTable) Acquire(fd int) (idx int, ok bool) {
	for i, cur := range t.fds {
		if cur == emptyFD {
			t.fds[i] = fd
			return i, true
		}
	}
	return -1, false
}

// Release clears a slot unconditionally. Releasing an empty slot is a no-op.
func (t *SlotTable) Release(idx int) {
	if idx >= 0 && idx < len(t.fds) {
		t.fds[idx] = emptyFD
	}
}

// Get reports the descriptor held by a slot.
func (t *SlotTable) Get(idx int) (fd int, occupied bool) {
	if idx < 0 || idx >= len(t.fds) {
		return emptyFD, false
	}
	fd = t.fds[idx]
	return fd, fd != emptyFD
}
