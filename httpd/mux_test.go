//go:build linux || darwin

// File: httpd/mux_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Integration tests driving the multiplexer over real loopback sockets. The
// tests call Iterate themselves, standing in for the external driver loop.

package httpd_test

import (
	"fmt"
	"io"
	"net"
	"testing"
	"time"

	"github.com/momentics/bgworker-httpd/httpd"
	"github.com/momentics/bgworker-httpd/internal/latch"
)

const iterTimeout = 100 * time.Millisecond

func newTestMux(t *testing.T, capacity int, opts ...httpd.Option) *httpd.Multiplexer {
	t.Helper()
	m, err := httpd.New(0, capacity, 32, opts...)
	if err != nil {
		t.Fatalf("httpd.New: %v", err)
	}
	t.Cleanup(func() { _ = m.Shutdown() })
	return m
}

func dialMux(t *testing.T, m *httpd.Multiplexer) *net.TCPConn {
	t.Helper()
	port, err := m.Port()
	if err != nil {
		t.Fatalf("Port: %v", err)
	}
	conn, err := net.Dial("tcp", fmt.Sprintf("127.0.0.1:%d", port))
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	tc := conn.(*net.TCPConn)
	tc.SetDeadline(time.Now().Add(5 * time.Second))
	t.Cleanup(func() { tc.Close() })
	return tc
}

// iterateUntil ticks the multiplexer until cond holds or the deadline passes,
// accumulating iteration results.
func iterateUntil(t *testing.T, m *httpd.Multiplexer, cond func(total httpd.Result) bool) httpd.Result {
	t.Helper()
	var total httpd.Result
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		res, err := m.Iterate(iterTimeout)
		if err != nil {
			t.Fatalf("Iterate: %v", err)
		}
		total.Accepted += res.Accepted
		total.Rejected += res.Rejected
		total.Served += res.Served
		if cond(total) {
			return total
		}
	}
	t.Fatalf("condition not reached; totals: %+v", total)
	return total
}

func TestFixedResponseForAnyPayload(t *testing.T) {
	m := newTestMux(t, 5)

	conn := dialMux(t, m)
	if _, err := conn.Write([]byte("GET /anything HTTP/1.1\r\nHost: x\r\n\r\n")); err != nil {
		t.Fatalf("client write: %v", err)
	}

	iterateUntil(t, m, func(tot httpd.Result) bool { return tot.Served == 1 })

	reply, err := io.ReadAll(conn)
	if err != nil {
		t.Fatalf("client read: %v", err)
	}
	if string(reply) != httpd.Response {
		t.Fatalf("reply = %q, want %q", reply, httpd.Response)
	}
	if m.Occupied() != 0 {
		t.Fatalf("slot leaked: %d occupied", m.Occupied())
	}
}

func TestFixedResponseForZeroByteClient(t *testing.T) {
	m := newTestMux(t, 5)

	conn := dialMux(t, m)
	// Half-close without sending anything: the slot becomes readable (EOF)
	// and the contract still sends the full reply.
	if err := conn.CloseWrite(); err != nil {
		t.Fatalf("CloseWrite: %v", err)
	}

	iterateUntil(t, m, func(tot httpd.Result) bool { return tot.Served == 1 })

	reply, err := io.ReadAll(conn)
	if err != nil {
		t.Fatalf("client read: %v", err)
	}
	if string(reply) != httpd.Response {
		t.Fatalf("reply = %q, want %q", reply, httpd.Response)
	}
}

func TestBusyRejectionWhenTableFull(t *testing.T) {
	m := newTestMux(t, 1)

	// Client A occupies the only slot and stays silent.
	connA := dialMux(t, m)
	iterateUntil(t, m, func(tot httpd.Result) bool { return tot.Accepted == 1 })
	if m.Occupied() != 1 {
		t.Fatalf("Occupied = %d, want 1", m.Occupied())
	}

	// Client B arrives while the table is full: accepted at the transport
	// layer, then closed with no bytes written.
	connB := dialMux(t, m)
	iterateUntil(t, m, func(tot httpd.Result) bool { return tot.Rejected == 1 })

	reply, err := io.ReadAll(connB)
	if err != nil {
		t.Fatalf("client B read: %v", err)
	}
	if len(reply) != 0 {
		t.Fatalf("busy-rejected client received %q", reply)
	}

	// A is undisturbed and still serviceable.
	if m.Occupied() != 1 {
		t.Fatalf("rejection disturbed existing slot: %d occupied", m.Occupied())
	}
	if _, err := connA.Write([]byte("hello")); err != nil {
		t.Fatalf("client A write: %v", err)
	}
	iterateUntil(t, m, func(tot httpd.Result) bool { return tot.Served == 1 })
	replyA, err := io.ReadAll(connA)
	if err != nil {
		t.Fatalf("client A read: %v", err)
	}
	if string(replyA) != httpd.Response {
		t.Fatalf("client A reply = %q, want %q", replyA, httpd.Response)
	}
	if m.Occupied() != 0 {
		t.Fatalf("slot leaked: %d occupied", m.Occupied())
	}
}

func TestFiveSimultaneousClients(t *testing.T) {
	m := newTestMux(t, 5)

	conns := make([]*net.TCPConn, 5)
	for i := range conns {
		conns[i] = dialMux(t, m)
		if _, err := conns[i].Write([]byte(fmt.Sprintf("payload-%d", i))); err != nil {
			t.Fatalf("client %d write: %v", i, err)
		}
	}

	iterateUntil(t, m, func(tot httpd.Result) bool { return tot.Served == 5 })

	for i, conn := range conns {
		reply, err := io.ReadAll(conn)
		if err != nil {
			t.Fatalf("client %d read: %v", i, err)
		}
		if string(reply) != httpd.Response {
			t.Fatalf("client %d reply = %q", i, reply)
		}
	}
	if m.Occupied() != 0 {
		t.Fatalf("slots leaked: %d occupied", m.Occupied())
	}
}

func TestCapacityNeverExceeded(t *testing.T) {
	const capacity = 2
	m := newTestMux(t, capacity)

	for i := 0; i < capacity*3; i++ {
		dialMux(t, m)
	}
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if _, err := m.Iterate(20 * time.Millisecond); err != nil {
			t.Fatalf("Iterate: %v", err)
		}
		if m.Occupied() > capacity {
			t.Fatalf("capacity exceeded: %d occupied", m.Occupied())
		}
	}
}

// Push K > N connections through a small table sequentially; everything must
// flush and no slot may leak.
func TestChurnThroughSmallTable(t *testing.T) {
	m := newTestMux(t, 3)

	for i := 0; i < 12; i++ {
		conn := dialMux(t, m)
		if _, err := conn.Write([]byte("x")); err != nil {
			t.Fatalf("client %d write: %v", i, err)
		}
		iterateUntil(t, m, func(tot httpd.Result) bool { return tot.Served == 1 })
		reply, err := io.ReadAll(conn)
		if err != nil {
			t.Fatalf("client %d read: %v", i, err)
		}
		if string(reply) != httpd.Response {
			t.Fatalf("client %d reply = %q", i, reply)
		}
		conn.Close()
	}
	if m.Occupied() != 0 {
		t.Fatalf("slots leaked: %d occupied", m.Occupied())
	}
}

func TestIdleIterationReturnsWithinTimeout(t *testing.T) {
	m := newTestMux(t, 5)

	start := time.Now()
	res, err := m.Iterate(50 * time.Millisecond)
	elapsed := time.Since(start)
	if err != nil {
		t.Fatalf("Iterate: %v", err)
	}
	if elapsed > time.Second {
		t.Fatalf("idle iteration took %v", elapsed)
	}
	if res.Accepted != 0 || res.Rejected != 0 || res.Served != 0 || len(res.Woken) != 0 {
		t.Fatalf("idle iteration had side effects: %+v", res)
	}
}

func TestWakeInterruptsIteration(t *testing.T) {
	l, err := latch.New()
	if err != nil {
		t.Fatalf("latch.New: %v", err)
	}
	defer l.Close()

	m := newTestMux(t, 5, httpd.WithWakeFDs(l.FD()))

	// A connection is pending too; the wake must still win and no slot
	// mutation may happen this iteration.
	dialMux(t, m)
	l.Set()

	start := time.Now()
	res, err := m.Iterate(5 * time.Second)
	if err != nil {
		t.Fatalf("Iterate: %v", err)
	}
	if time.Since(start) > time.Second {
		t.Fatal("wake did not interrupt the iteration promptly")
	}
	if len(res.Woken) != 1 || res.Woken[0] != l.FD() {
		t.Fatalf("Woken = %v, want [%d]", res.Woken, l.FD())
	}
	if res.Accepted != 0 || res.Served != 0 || m.Occupied() != 0 {
		t.Fatalf("wake iteration mutated slots: %+v", res)
	}
}
