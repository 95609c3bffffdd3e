//go:build linux || darwin

// File: internal/netio/socket_unix.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Raw TCP socket plumbing for Unix-like systems.

package netio

import (
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/momentics/bgworker-httpd/api"
)

// ListenTCP opens a nonblocking TCP listening socket bound to all interfaces
// on the given port. Failures here are the fatal startup class: the caller is
// expected to abort, not retry.
func ListenTCP(port, backlog int) (int, error) {
	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_STREAM, unix.IPPROTO_TCP)
	if err != nil {
		return -1, fmt.Errorf("socket create: %w", err)
	}

	_ = unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1)

	if err := unix.SetNonblock(fd, true); err != nil {
		unix.Close(fd)
		return -1, fmt.Errorf("set nonblock: %w", err)
	}

	sa := &unix.SockaddrInet4{Port: port} // zero Addr = INADDR_ANY
	if err := unix.Bind(fd, sa); err != nil {
		unix.Close(fd)
		return -1, fmt.Errorf("bind port %d: %w", port, err)
	}

	if err := unix.Listen(fd, backlog); err != nil {
		unix.Close(fd)
		return -1, fmt.Errorf("listen: %w", err)
	}

	return fd, nil
}

// Accept takes one pending connection off the listener. When the listener is
// nonblocking and no connection is pending, api.ErrWouldBlock is returned.
// The accepted descriptor stays in blocking mode.
func Accept(lfd int) (int, error) {
	fd, _, err := unix.Accept(lfd)
	if err != nil {
		if err == unix.EAGAIN || err == unix.EWOULDBLOCK {
			return -1, api.ErrWouldBlock
		}
		return -1, fmt.Errorf("accept: %w", err)
	}
	return fd, nil
}

// Read reads from a connection descriptor.
func Read(fd int, buf []byte) (int, error) {
	return unix.Read(fd, buf)
}

// Write writes to a connection descriptor.
func Write(fd int, buf []byte) (int, error) {
	return unix.Write(fd, buf)
}

// Close closes a descriptor.
func Close(fd int) error {
	return unix.Close(fd)
}

// LocalPort reports the port a listener descriptor is bound to. Useful when
// binding port 0 to get an ephemeral port.
func LocalPort(fd int) (int, error) {
	sa, err := unix.Getsockname(fd)
	if err != nil {
		return 0, fmt.Errorf("getsockname: %w", err)
	}
	switch a := sa.(type) {
	case *unix.SockaddrInet4:
		return a.Port, nil
	case *unix.SockaddrInet6:
		return a.Port, nil
	}
	return 0, api.ErrNotSupported
}
