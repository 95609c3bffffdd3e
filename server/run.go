// File: server/run.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Driver loop: consume lifecycle events, tick the multiplexer, react to
// wakeups. One thread of control; the multiplexer's slot table is never
// touched from anywhere else.

package server

import (
	"github.com/momentics/bgworker-httpd/api"
	"github.com/momentics/bgworker-httpd/worker"
)

// Run serves until a terminate event or host death. It is shaped to be a
// worker main: register it with a worker.Registry and pass the registry's
// context through WithWorkerContext at construction time.
func (s *Server) Run() error {
	s.running.Store(true)
	defer s.teardown()

	port, _ := s.mux.Port()
	s.log.WithField("port", port).
		WithField("max_sockets", s.mux.Capacity()).
		Info("serving")

	for {
		for {
			ev, ok := s.events.TryNext()
			if !ok {
				break
			}
			switch ev.Kind {
			case worker.EventStart:
				s.log.Info("start requested")
			case worker.EventReload:
				s.handleReload()
			case worker.EventTerminate:
				s.log.Info("terminate requested")
				return nil
			}
		}

		res, err := s.mux.Iterate(s.cfg.PollTimeout)
		if err != nil {
			return err
		}
		for _, fd := range res.Woken {
			if s.deathFD >= 0 && fd == s.deathFD {
				s.log.Warn("host died, exiting")
				return api.ErrHostDied
			}
			if fd == s.latch.FD() {
				s.latch.Reset()
			}
		}
	}
}

// handleReload re-reads the option registry. All three declared options shape
// the listener or the slot table, so new values are only recorded here; they
// take effect when the worker is next restarted.
func (s *Server) handleReload() {
	snap := s.ctrl.Snapshot()
	s.log.WithField("config", snap).Info("configuration reloaded")
}

func (s *Server) teardown() {
	_ = s.mux.Shutdown()
	_ = s.latch.Close()
	s.closeDone.Do(func() { close(s.done) })
}
