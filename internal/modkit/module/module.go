// Package module is the contract every feature module satisfies, kept apart from
// modkit so a module can export its own Ports type without an import cycle
package module

import phttp "oarr/internal/platform/net/http"

// Module mounts its routes and exposes its ports to sibling modules
type Module interface {
	MountRoutes(r phttp.Router)
	Ports() any
	Name() string
}
