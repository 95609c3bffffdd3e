// File: server/types.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package server

import "time"

// Configuration variable names, as the host environment knows them.
const (
	OptionPort       = "httpd.port"        // listening port, 1-65535
	OptionMaxSockets = "httpd.max_sockets" // slot capacity, 1-65535
	OptionQueueDepth = "httpd.queue_depth" // accept backlog, 1-128
)

// Config holds all start-time parameters.
type Config struct {
	Port        int           // TCP listening port, all interfaces
	MaxSockets  int           // fixed connection-table capacity
	QueueDepth  int           // kernel accept backlog
	PollTimeout time.Duration // bound on one readiness wait
}

// DefaultConfig returns the stock configuration.
func DefaultConfig() *Config {
	return &Config{
		Port:        8888,
		MaxSockets:  5,
		QueueDepth:  32,
		PollTimeout: time.Second,
	}
}
