// Package control
// Author: momentics <momentics@gmail.com>
//
// Configuration registry, hot-reload propagation, runtime metrics, and debug
// introspection for bgworker-httpd.
//
// The registry models the host environment's integer configuration variables:
// each option is declared once with a default and a hard [min, max] range, is
// immutable for a running instance, and changes only through an explicit
// reload trigger.
package control
