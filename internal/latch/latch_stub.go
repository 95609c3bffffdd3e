//go:build !linux && !darwin

// File: internal/latch/latch_stub.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package latch

import "github.com/momentics/bgworker-httpd/api"

type Latch struct{}

func New() (*Latch, error) { return nil, api.ErrNotSupported }

func (l *Latch) FD() int      { return -1 }
func (l *Latch) Set()         {}
func (l *Latch) Reset()       {}
func (l *Latch) Close() error { return nil }
