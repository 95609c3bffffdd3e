// File: worker/lifecycle.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Lifecycle event queue. eapache/queue is a plain ring queue with no internal
// locking, so every access is guarded here.

package worker

import (
	"sync"

	"github.com/eapache/queue"
)

// EventKind enumerates the lifecycle inputs a worker consumes.
type EventKind int

const (
	// EventStart tells the driver loop to begin serving.
	EventStart EventKind = iota
	// EventReload tells the driver loop to re-read configuration without
	// restarting.
	EventReload
	// EventTerminate tells the driver loop to stop accepting and exit.
	EventTerminate
)

// Event is one lifecycle input.
type Event struct {
	Kind EventKind
}

// EventQueue is a FIFO of lifecycle events with an optional wake hook fired
// on every post (typically the driver's latch).
type EventQueue struct {
	mu     sync.Mutex
	q      *queue.Queue
	notify func()
}

// NewEventQueue creates an empty queue.
func NewEventQueue() *EventQueue {
	return &EventQueue{q: queue.New()}
}

// SetNotify installs the wake hook invoked after each Post.
func (eq *EventQueue) SetNotify(fn func()) {
	eq.mu.Lock()
	eq.notify = fn
	eq.mu.Unlock()
}

// Post appends an event and fires the wake hook.
func (eq *EventQueue) Post(kind EventKind) {
	eq.mu.Lock()
	eq.q.Add(Event{Kind: kind})
	fn := eq.notify
	eq.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// TryNext pops the oldest event, if any.
func (eq *EventQueue) TryNext() (Event, bool) {
	eq.mu.Lock()
	defer eq.mu.Unlock()
	if eq.q.Length() == 0 {
		return Event{}, false
	}
	ev := eq.q.Remove().(Event)
	return ev, true
}

// Len reports the number of pending events.
func (eq *EventQueue) Len() int {
	eq.mu.Lock()
	defer eq.mu.Unlock()
	return eq.q.Length()
}
