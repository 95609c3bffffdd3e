// File: server/signals.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Signal binding. Signals are translated into lifecycle events at the edge;
// the driver loop itself never sees a signal, only queue entries.

package server

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/momentics/bgworker-httpd/worker"
)

// BindSignals routes SIGHUP to a reload event and SIGTERM/SIGINT to a
// terminate event. The returned function unbinds.
func (s *Server) BindSignals() func() {
	ch := make(chan os.Signal, 4)
	signal.Notify(ch, syscall.SIGHUP, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		for sig := range ch {
			switch sig {
			case syscall.SIGHUP:
				s.events.Post(worker.EventReload)
			default:
				s.events.Post(worker.EventTerminate)
			}
		}
	}()
	return func() {
		signal.Stop(ch)
		close(ch)
	}
}
