// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

// Package server is the facade around the connection multiplexer: start-time
// configuration, the driver loop that ticks the multiplexer and consumes
// lifecycle events, signal binding, and graceful shutdown. It is what a host
// registers with the background-worker facility.
package server
