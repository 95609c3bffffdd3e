// File: worker/worker.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package worker

import (
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/momentics/bgworker-httpd/api"
	"github.com/momentics/bgworker-httpd/internal/latch"
)

// NoRestart disables supervision restarts for a worker.
const NoRestart time.Duration = -1

// Worker declares one background worker.
type Worker struct {
	Name string
	// Main runs the worker. A nil or api.ErrTerminated return is a clean
	// exit; any other error triggers the restart policy.
	Main func(ctx *Context) error
	// RestartDelay is the pause before restarting a failed worker,
	// or NoRestart.
	RestartDelay time.Duration
}

// Context is what a running worker receives from its host.
type Context struct {
	Name    string
	Events  *EventQueue
	deathFD int
}

// DeathFD returns a descriptor that becomes readable when the host registry
// shuts down. Workers include it in their readiness set and exit immediately
// when it fires.
func (c *Context) DeathFD() int {
	return c.deathFD
}

// Registry supervises registered workers for the life of the host process.
type Registry struct {
	mu      sync.Mutex
	log     *logrus.Entry
	death   *latch.Latch
	stopCh  chan struct{}
	wg      sync.WaitGroup
	entries []*entry
	started bool
	stopped bool
}

type entry struct {
	w   Worker
	ctx *Context
}

// NewRegistry creates an empty registry.
func NewRegistry() (*Registry, error) {
	d, err := latch.New()
	if err != nil {
		return nil, err
	}
	return &Registry{
		log:    logrus.WithField("component", "worker"),
		death:  d,
		stopCh: make(chan struct{}),
	}, nil
}

// Register declares a worker. Registration happens before Start; the returned
// Context is how the host posts lifecycle events to the worker later.
func (r *Registry) Register(w Worker) (*Context, error) {
	if w.Main == nil {
		return nil, api.NewError(api.ErrCodeInvalidArgument, "worker has no main function").
			WithContext("name", w.Name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.started {
		return nil, api.NewError(api.ErrCodeInternal, "registry already started")
	}
	for _, e := range r.entries {
		if e.w.Name == w.Name {
			return nil, api.NewError(api.ErrCodeAlreadyExists, "worker already registered").
				WithContext("name", w.Name)
		}
	}
	ctx := &Context{
		Name:    w.Name,
		Events:  NewEventQueue(),
		deathFD: r.death.FD(),
	}
	r.entries = append(r.entries, &entry{w: w, ctx: ctx})
	return ctx, nil
}

// Start launches supervision for every registered worker and posts the start
// event to each.
func (r *Registry) Start() error {
	r.mu.Lock()
	if r.started {
		r.mu.Unlock()
		return api.NewError(api.ErrCodeInternal, "registry already started")
	}
	r.started = true
	entries := r.entries
	r.mu.Unlock()

	for _, e := range entries {
		e.ctx.Events.Post(EventStart)
		r.wg.Add(1)
		go r.supervise(e)
	}
	return nil
}

// supervise runs one worker to completion, applying its restart policy.
func (r *Registry) supervise(e *entry) {
	defer r.wg.Done()
	log := r.log.WithField("worker", e.w.Name)
	for {
		err := e.w.Main(e.ctx)
		switch {
		case err == nil, errors.Is(err, api.ErrTerminated):
			log.Info("worker exited")
			return
		case errors.Is(err, api.ErrHostDied):
			log.Warn("worker exited: host died")
			return
		}

		if e.w.RestartDelay < 0 {
			log.WithError(err).Error("worker failed, restart disabled")
			return
		}
		log.WithError(err).WithField("delay", e.w.RestartDelay).
			Warn("worker failed, restarting")
		select {
		case <-r.stopCh:
			return
		case <-time.After(e.w.RestartDelay):
		}
	}
}

// Reload posts a reload event to every worker.
func (r *Registry) Reload() {
	r.mu.Lock()
	entries := r.entries
	r.mu.Unlock()
	for _, e := range entries {
		e.ctx.Events.Post(EventReload)
	}
}

// Shutdown posts terminate to every worker, raises the death descriptor so
// blocked readiness waits return, stops restarts, and waits for all workers
// to exit. Idempotent.
func (r *Registry) Shutdown() error {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return nil
	}
	r.stopped = true
	entries := r.entries
	r.mu.Unlock()

	for _, e := range entries {
		e.ctx.Events.Post(EventTerminate)
	}
	close(r.stopCh)
	r.death.Set()
	r.wg.Wait()
	return r.death.Close()
}
