// File: server/control.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// api.Control adapter over the option registry, metrics, and debug probes.

package server

import (
	"github.com/momentics/bgworker-httpd/api"
)

// controlAdapter exposes the server's control surfaces through api.Control.
type controlAdapter struct {
	s *Server
}

var _ api.Control = (*controlAdapter)(nil)

// GetControl exposes runtime config, metrics, and debug control.
func (s *Server) GetControl() api.Control {
	return &controlAdapter{s: s}
}

func (c *controlAdapter) GetConfig() map[string]any {
	snap := c.s.ctrl.Snapshot()
	out := make(map[string]any, len(snap))
	for k, v := range snap {
		out[k] = v
	}
	return out
}

func (c *controlAdapter) SetConfig(cfg map[string]any) error {
	values := make(map[string]int, len(cfg))
	for k, v := range cfg {
		n, ok := v.(int)
		if !ok {
			return api.NewError(api.ErrCodeInvalidArgument, "option value is not an integer").
				WithContext("name", k)
		}
		values[k] = n
	}
	return c.s.Reload(values)
}

func (c *controlAdapter) Stats() map[string]any {
	snap := c.s.metrics.GetSnapshot()
	out := make(map[string]any, len(snap))
	for k, v := range snap {
		out[k] = v
	}
	return out
}

func (c *controlAdapter) OnReload(fn func()) {
	c.s.ctrl.OnReload(fn)
}

func (c *controlAdapter) RegisterDebugProbe(name string, fn func() any) {
	c.s.probes.RegisterProbe(name, fn)
}
