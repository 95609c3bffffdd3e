// File: server/server.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package server

import (
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/momentics/bgworker-httpd/control"
	"github.com/momentics/bgworker-httpd/httpd"
	"github.com/momentics/bgworker-httpd/internal/latch"
	"github.com/momentics/bgworker-httpd/worker"
)

// ServerOption customizes server construction.
type ServerOption func(*Server)

// WithWorkerContext runs the server under a host worker registry: lifecycle
// events arrive through the registry and the registry's death descriptor is
// watched for emergency exit.
func WithWorkerContext(ctx *worker.Context) ServerOption {
	return func(s *Server) {
		s.events = ctx.Events
		s.deathFD = ctx.DeathFD()
	}
}

// WithLogger overrides the default component logger.
func WithLogger(log *logrus.Entry) ServerOption {
	return func(s *Server) {
		s.log = log
	}
}

// Server drives one connection multiplexer for the life of the process.
type Server struct {
	cfg     *Config
	ctrl    *control.Registry
	metrics *control.MetricsRegistry
	probes  *control.DebugProbes
	mux     *httpd.Multiplexer
	latch   *latch.Latch
	events  *worker.EventQueue
	deathFD int
	log     *logrus.Entry

	running   atomic.Bool
	done      chan struct{}
	closeDone sync.Once
}

// NewServer validates the configuration against the declared option ranges,
// binds the listening socket, and wires control surfaces. A listener setup
// failure here is the unrecoverable startup class.
func NewServer(cfg *Config, opts ...ServerOption) (*Server, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	ctrl := control.NewRegistry()
	defs := []control.IntOption{
		{Name: OptionPort, Description: "HTTPD listener port.", Default: 8888, Min: 1, Max: 65535},
		{Name: OptionMaxSockets, Description: "HTTPD maximum number of connected clients.", Default: 5, Min: 1, Max: 65535},
		{Name: OptionQueueDepth, Description: "HTTPD maximum queue length.", Default: 32, Min: 1, Max: 128},
	}
	for _, d := range defs {
		if err := ctrl.DefineInt(d); err != nil {
			return nil, err
		}
	}
	values := map[string]int{
		OptionPort:       cfg.Port,
		OptionMaxSockets: cfg.MaxSockets,
		OptionQueueDepth: cfg.QueueDepth,
	}
	// Port 0 means an ephemeral bind; it bypasses the declared range, which
	// exists for host-supplied values.
	for name, v := range values {
		if name == OptionPort && v == 0 {
			continue
		}
		if err := ctrl.SetInt(name, v); err != nil {
			return nil, err
		}
	}

	s := &Server{
		cfg:     cfg,
		ctrl:    ctrl,
		metrics: control.NewMetricsRegistry(),
		probes:  control.NewDebugProbes(),
		events:  worker.NewEventQueue(),
		deathFD: -1,
		log:     logrus.WithField("component", "server"),
		done:    make(chan struct{}),
	}
	for _, o := range opts {
		o(s)
	}

	l, err := latch.New()
	if err != nil {
		return nil, err
	}
	s.latch = l

	wake := []int{l.FD()}
	if s.deathFD >= 0 {
		wake = append(wake, s.deathFD)
	}
	mux, err := httpd.New(cfg.Port, cfg.MaxSockets, cfg.QueueDepth,
		httpd.WithWakeFDs(wake...),
		httpd.WithMetrics(s.metrics),
	)
	if err != nil {
		l.Close()
		return nil, err
	}
	s.mux = mux

	if cfg.Port == 0 {
		// Record the ephemeral port the kernel picked so the registry
		// reflects reality.
		if p, perr := mux.Port(); perr == nil {
			_ = ctrl.SetInt(OptionPort, p)
		}
	}

	s.events.SetNotify(s.latch.Set)
	s.probes.RegisterProbe("httpd.slots_occupied", func() any { return s.mux.Occupied() })
	s.probes.RegisterProbe("httpd.config", func() any { return s.ctrl.Snapshot() })

	return s, nil
}

// Port reports the bound listening port.
func (s *Server) Port() (int, error) {
	return s.mux.Port()
}

// Control returns the option registry (the host's configuration surface).
func (s *Server) Control() *control.Registry {
	return s.ctrl
}

// Metrics returns the runtime counters.
func (s *Server) Metrics() *control.MetricsRegistry {
	return s.metrics
}

// Probes returns the debug probe registry.
func (s *Server) Probes() *control.DebugProbes {
	return s.probes
}

// Reload applies host-supplied option values and wakes the driver loop. The
// listener-shaping options (port, queue depth) and the slot capacity are
// start-time parameters: new values are recorded and take effect on the next
// worker restart, as in the original facility.
func (s *Server) Reload(values map[string]int) error {
	err := s.ctrl.Reload(values)
	s.events.Post(worker.EventReload)
	return err
}

// Shutdown asks the driver loop to stop accepting and exit, then waits for it.
// On a server that was never run it releases the listener directly. Safe to
// call more than once.
func (s *Server) Shutdown() error {
	if !s.running.Load() {
		s.teardown()
		return nil
	}
	s.events.Post(worker.EventTerminate)
	<-s.done
	return nil
}

// Done is closed when the driver loop has exited.
func (s *Server) Done() <-chan struct{} {
	return s.done
}
