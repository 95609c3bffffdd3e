//go:build !linux && !darwin

// File: internal/netio/socket_stub.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package netio

import "github.com/momentics/bgworker-httpd/api"

func ListenTCP(port, backlog int) (int, error) { return -1, api.ErrNotSupported }
func Accept(lfd int) (int, error)              { return -1, api.ErrNotSupported }
func Read(fd int, buf []byte) (int, error)     { return 0, api.ErrNotSupported }
func Write(fd int, buf []byte) (int, error)    { return 0, api.ErrNotSupported }
func Close(fd int) error                       { return api.ErrNotSupported }
func LocalPort(fd int) (int, error)            { return 0, api.ErrNotSupported }
