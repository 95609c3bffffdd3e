// control/config.go
// Author: momentics <momentics@gmail.com>
//
// Thread-safe integer option registry with range validation and hot-reload
// propagation.

package control

import (
	"sync"

	"github.com/momentics/bgworker-httpd/api"
)

// IntOption declares one integer configuration variable.
type IntOption struct {
	Name        string
	Description string
	Default     int
	Min         int
	Max         int
}

// Registry holds declared options and their current values.
type Registry struct {
	mu        sync.RWMutex
	opts      map[string]IntOption
	values    map[string]int
	listeners []func()
}

// NewRegistry initializes an empty option registry.
func NewRegistry() *Registry {
	return &Registry{
		opts:   make(map[string]IntOption),
		values: make(map[string]int),
	}
}

// DefineInt declares an option and sets it to its default. Redeclaring a name
// is an error; the first declaration wins.
func (r *Registry) DefineInt(opt IntOption) error {
	if opt.Min > opt.Max || opt.Default < opt.Min || opt.Default > opt.Max {
		return api.NewError(api.ErrCodeInvalidArgument, "option bounds are inconsistent").
			WithContext("name", opt.Name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.opts[opt.Name]; ok {
		return api.NewError(api.ErrCodeAlreadyExists, "option already defined").
			WithContext("name", opt.Name)
	}
	r.opts[opt.Name] = opt
	r.values[opt.Name] = opt.Default
	return nil
}

// GetInt returns the current value of a declared option.
func (r *Registry) GetInt(name string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.values[name]
	if !ok {
		return 0, api.NewError(api.ErrCodeNotFound, "option not defined").
			WithContext("name", name)
	}
	return v, nil
}

// SetInt updates a declared option, enforcing its range.
func (r *Registry) SetInt(name string, value int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	opt, ok := r.opts[name]
	if !ok {
		return api.NewError(api.ErrCodeNotFound, "option not defined").
			WithContext("name", name)
	}
	if value < opt.Min || value > opt.Max {
		return api.NewError(api.ErrCodeOutOfRange, "value outside option range").
			WithContext("name", name).
			WithContext("value", value).
			WithContext("min", opt.Min).
			WithContext("max", opt.Max)
	}
	r.values[name] = value
	return nil
}

// Snapshot returns a copy of all current values.
func (r *Registry) Snapshot() map[string]int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]int, len(r.values))
	for k, v := range r.values {
		out[k] = v
	}
	return out
}

// Options returns the declared option metadata.
func (r *Registry) Options() []IntOption {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]IntOption, 0, len(r.opts))
	for _, o := range r.opts {
		out = append(out, o)
	}
	return out
}

// OnReload registers a listener invoked on every reload trigger.
func (r *Registry) OnReload(fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = append(r.listeners, fn)
}

// Reload applies pending values and dispatches listeners asynchronously.
// Unknown names and out-of-range values are reported; valid entries still
// apply.
func (r *Registry) Reload(pending map[string]int) error {
	err := r.apply(pending)
	r.trigger(false)
	return err
}

// ReloadSync is Reload with synchronous listener dispatch, for deterministic
// tests.
func (r *Registry) ReloadSync(pending map[string]int) error {
	err := r.apply(pending)
	r.trigger(true)
	return err
}

func (r *Registry) apply(pending map[string]int) error {
	var firstErr error
	for name, v := range pending {
		if err := r.SetInt(name, v); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (r *Registry) trigger(sync bool) {
	r.mu.RLock()
	listeners := make([]func(), len(r.listeners))
	copy(listeners, r.listeners)
	r.mu.RUnlock()
	for _, fn := range listeners {
		if sync {
			fn()
		} else {
			go fn()
		}
	}
}
