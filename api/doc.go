// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

// Package api defines the shared contracts of bgworker-httpd: error taxonomy,
// runtime control, and graceful shutdown. Implementations live in the sibling
// packages; api itself has no platform dependencies.
package api
