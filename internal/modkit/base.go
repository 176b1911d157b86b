package modkit

import (
	"net/http"

	"oarr/internal/modkit/httpkit"
	str "oarr/internal/platform/strings"
)

// Base is the routing half of a feature module. Modules embed it and hand
// their own endpoints to NewBase
type Base struct {
	built Built
	own   func(httpkit.Router)
}

// NewBase pairs the built options with the module's endpoint registration
func NewBase(b Built, own func(httpkit.Router)) Base {
	return Base{built: b, own: own}
}

// MountRoutes mounts the module endpoints, then any WithRegister extras, under the prefix
func (m Base) MountRoutes(r httpkit.Router) {
	r.Route(m.Prefix(), func(rr httpkit.Router) {
		for _, mw := range m.built.Mw {
			rr.Use(mw)
		}
		if m.built.Subrouter != nil {
			rr = m.built.Subrouter(rr)
		}
		if m.own != nil {
			m.own(rr)
		}
		if m.built.Register != nil {
			m.built.Register(rr)
		}
	})
}

// Name panics when the module was built without one
func (m Base) Name() string { return str.MustString(m.built.Name, "module name") }

// Prefix returns the normalized route prefix
func (m Base) Prefix() string { return str.MustPrefix(m.built.Prefix) }

// Middlewares returns the per module middlewares
func (m Base) Middlewares() []func(http.Handler) http.Handler { return m.built.Mw }
