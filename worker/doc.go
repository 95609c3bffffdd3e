// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

// Package worker models the host process's background-worker facility: a
// registry that workers are declared to once at startup, supervision with a
// per-worker restart policy, and the lifecycle inputs each worker's driver
// loop consumes (start, reload, terminate, host death).
//
// Lifecycle events travel through an explicit queue consumed once per driver
// iteration rather than through ambient process-global flags; host death is a
// descriptor that becomes readable when the registry goes away, so a worker
// polling it exits immediately in an emergency.
package worker
