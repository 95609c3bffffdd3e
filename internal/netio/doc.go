// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

// Package netio wraps the raw socket calls the multiplexer is built on:
// listener setup, accept, and per-connection read/write/close on plain file
// descriptors. The listener is nonblocking; accepted connections are left
// blocking, so a slow peer stalls the iteration that services it.
package netio
