// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

// Package reactor provides the readiness-wait primitive used by the connection
// multiplexer: one Wait call observes the listener and every active connection
// descriptor, so ready ones can be serviced without blocking on the rest.
package reactor
