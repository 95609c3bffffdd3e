// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

// Package httpd implements the connection multiplexer: a single-threaded,
// readiness-driven loop that owns one TCP listening socket and a fixed-size
// table of client connections. Every serviced connection gets the same
// one-shot exchange: read whatever arrived, discard it, write the fixed
// "Hello world!" reply, close.
//
// The multiplexer exposes exactly one step, Iterate, and is driven by an
// external loop that owns lifecycle concerns (signals, reload, shutdown).
// Capacity 1 is a valid configuration: it degenerates into a one-connection-
// at-a-time responder.
package httpd
