// Package modkit builds feature modules: a name, a route prefix, middlewares and
// the hooks that attach endpoints, all set through options
package modkit

import (
	"net/http"

	"oarr/internal/modkit/httpkit"
)

// Option mutates the build configuration of a module
type Option func(*Built)

// Built is what a module constructor reads back after applying options
type Built struct {
	Name   string
	Prefix string
	Mw     []func(http.Handler) http.Handler

	// Subrouter wraps the module router; Register attaches extra endpoints after the module's own
	Subrouter func(httpkit.Router) httpkit.Router
	Register  func(httpkit.Router)
}

// Build applies opts in order; later options win
func Build(opts ...Option) Built {
	var b Built
	for _, o := range opts {
		o(&b)
	}
	b.Mw = append([]func(http.Handler) http.Handler(nil), b.Mw...)
	return b
}

// WithName sets the module name used in logs and the port registry
func WithName(name string) Option {
	return func(b *Built) { b.Name = name }
}

// WithPrefix mounts the module under a path prefix
func WithPrefix(prefix string) Option {
	return func(b *Built) { b.Prefix = prefix }
}

// WithMiddlewares appends per module middleware
func WithMiddlewares(mw ...func(http.Handler) http.Handler) Option {
	return func(b *Built) { b.Mw = append(b.Mw, mw...) }
}

// WithSubrouter wraps the module router, e.g. to group routes
func WithSubrouter(fn func(httpkit.Router) httpkit.Router) Option {
	return func(b *Built) { b.Subrouter = fn }
}

// WithRegister attaches extra endpoints to the module router
func WithRegister(fn func(httpkit.Router)) Option {
	return func(b *Built) { b.Register = fn }
}
