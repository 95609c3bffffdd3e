// File: httpd/mux.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Connection multiplexer iteration step: one readiness wait over the wake
// descriptors, the listener, and every occupied slot, then accept-first
// servicing in slot order.

package httpd

import (
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/momentics/bgworker-httpd/api"
	"github.com/momentics/bgworker-httpd/control"
	"github.com/momentics/bgworker-httpd/internal/netio"
	"github.com/momentics/bgworker-httpd/reactor"
)

// Result reports the observable effects of one Iterate call.
type Result struct {
	// Woken lists the wake descriptors that were readable. When non-empty,
	// the iteration returned promptly and performed no slot mutations.
	Woken []int

	Accepted int // connections stored into a slot
	Rejected int // busy rejections (accepted then closed, no bytes written)
	Served   int // read-respond-close cycles completed
}

// Option customizes multiplexer construction.
type Option func(*Multiplexer)

// WithWakeFDs adds descriptors whose readability interrupts Iterate. The
// driver typically passes its latch and a host-death pipe.
func WithWakeFDs(fds ...int) Option {
	return func(m *Multiplexer) {
		m.wakeFDs = append(m.wakeFDs, fds...)
	}
}

// WithMetrics attaches a counter registry.
func WithMetrics(mr *control.MetricsRegistry) Option {
	return func(m *Multiplexer) {
		m.metrics = mr
	}
}

// WithLogger overrides the default component logger.
func WithLogger(log *logrus.Entry) Option {
	return func(m *Multiplexer) {
		m.log = log
	}
}

// Multiplexer owns the listening socket and the slot table. It is
// single-threaded: the external driver calls Iterate repeatedly and nothing
// else touches the table or the listener.
type Multiplexer struct {
	listenFD int
	slots    *SlotTable
	waiter   reactor.Waiter
	wakeFDs  []int
	metrics  *control.MetricsRegistry
	log      *logrus.Entry
	readBuf  [ReadBufferSize]byte
	closed   bool
}

// New binds the listening socket and builds the multiplexer. Socket, bind, or
// listen failures are unrecoverable startup errors: nothing is left open and
// the caller is expected to terminate.
func New(port, capacity, backlog int, opts ...Option) (*Multiplexer, error) {
	slots, err := NewSlotTable(capacity)
	if err != nil {
		return nil, err
	}
	waiter, err := reactor.New()
	if err != nil {
		return nil, err
	}
	lfd, err := netio.ListenTCP(port, backlog)
	if err != nil {
		return nil, err
	}

	m := &Multiplexer{
		listenFD: lfd,
		slots:    slots,
		waiter:   waiter,
		log:      logrus.WithField("component", "httpd"),
	}
	for _, o := range opts {
		o(m)
	}
	return m, nil
}

// Port reports the bound listening port (useful when constructed with port 0).
func (m *Multiplexer) Port() (int, error) {
	return netio.LocalPort(m.listenFD)
}

// Occupied reports how many slots currently hold a connection.
func (m *Multiplexer) Occupied() int {
	return m.slots.Occupied()
}

// Capacity reports the fixed slot count.
func (m *Multiplexer) Capacity() int {
	return m.slots.Capacity()
}

// Iterate runs one demultiplexing step:
//
//  1. Wait (bounded by timeout) for readiness on the wake descriptors, the
//     listener, and every occupied slot.
//  2. Timeout with nothing ready is the idle path: empty Result, nil error.
//  3. A ready wake descriptor returns promptly with Result.Woken set and no
//     slot mutations.
//  4. A ready listener accepts exactly one connection: into the first empty
//     slot, or closed immediately with a "server too busy" warning when the
//     table is full. Would-block is swallowed; other accept errors are
//     logged and the iteration continues.
//  5. Every occupied slot that is ready gets the one-shot exchange: read up
//     to ReadBufferSize bytes, discard, write Response, close, clear slot.
//
// Operational errors never abort the loop; Iterate only returns an error for
// conditions that make further iteration pointless.
func (m *Multiplexer) Iterate(timeout time.Duration) (Result, error) {
	var res Result
	if m.closed {
		return res, api.ErrListenerClosed
	}

	fds := make([]int, 0, len(m.wakeFDs)+1+m.slots.Capacity())
	fds = append(fds, m.wakeFDs...)
	fds = append(fds, m.listenFD)
	for i := 0; i < m.slots.Capacity(); i++ {
		if fd, ok := m.slots.Get(i); ok {
			fds = append(fds, fd)
		}
	}

	events, err := m.waiter.Wait(fds, timeout)
	if err != nil {
		// Transient poll failure: warn and let the driver re-invoke us.
		m.log.WithError(err).Warn("readiness wait failed")
		return res, nil
	}
	m.count("httpd.iterations", 1)
	if len(events) == 0 {
		return res, nil
	}

	ready := make(map[int]bool, len(events))
	for _, ev := range events {
		if ev.Readable || ev.Err {
			ready[ev.FD] = true
		}
	}

	for _, wfd := range m.wakeFDs {
		if ready[wfd] {
			res.Woken = append(res.Woken, wfd)
		}
	}
	if len(res.Woken) > 0 {
		return res, nil
	}

	if ready[m.listenFD] {
		m.acceptOne(&res)
	}

	for i := 0; i < m.slots.Capacity(); i++ {
		fd, ok := m.slots.Get(i)
		if !ok || !ready[fd] {
			continue
		}
		m.service(i, fd)
		res.Served++
	}
	m.count("httpd.responses", int64(res.Served))

	return res, nil
}

// acceptOne drains a single pending connection from the listener backlog.
func (m *Multiplexer) acceptOne(res *Result) {
	fd, err := netio.Accept(m.listenFD)
	if err != nil {
		if !errors.Is(err, api.ErrWouldBlock) {
			m.log.WithError(err).Warn("accept failed")
		}
		return
	}

	if _, ok := m.slots.Acquire(fd); !ok {
		// Busy rejection: the accept is drained so the backlog is not
		// starved, then the connection closes with no bytes written.
		m.log.WithField("occupied", m.slots.Occupied()).Warn("server too busy")
		_ = netio.Close(fd)
		res.Rejected++
		m.count("httpd.busy_rejections", 1)
		return
	}
	res.Accepted++
	m.count("httpd.accepted", 1)
}

// service performs the one-shot exchange on an occupied, ready slot. The slot
// is returned to empty unconditionally: there is no retry, no partial-read
// continuation, no keep-alive.
func (m *Multiplexer) service(idx, fd int) {
	// Read outcome is deliberately ignored: a failed or zero-byte read still
	// gets the reply. That is the observed contract of this responder, and
	// the write failure that may follow is swallowed the same way.
	_, _ = netio.Read(fd, m.readBuf[:])
	_, _ = netio.Write(fd, []byte(Response))
	_ = netio.Close(fd)
	m.slots.Release(idx)
}

// Shutdown closes every held connection and then the listener. Idempotent.
func (m *Multiplexer) Shutdown() error {
	if m.closed {
		return nil
	}
	m.closed = true
	for i := 0; i < m.slots.Capacity(); i++ {
		if fd, ok := m.slots.Get(i); ok {
			_ = netio.Close(fd)
			m.slots.Release(i)
		}
	}
	return netio.Close(m.listenFD)
}

func (m *Multiplexer) count(key string, delta int64) {
	if m.metrics != nil && delta != 0 {
		m.metrics.Add(key, delta)
	}
}
