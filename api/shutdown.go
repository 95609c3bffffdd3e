// File: api/shutdown.go
// Package api defines the unified graceful shutdown contract.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package api

// GracefulShutdown unifies orderly teardown of long-lived components.
type GracefulShutdown interface {
	// Shutdown stops the component and releases its resources.
	// It must be safe to call more than once.
	Shutdown() error
}
