package domain

import (
	"context"

	"oarr/internal/core/register"
	regdomain "oarr/internal/services/registers/domain"
)

// ServicePort is consumed by handlers, the CLIs and other modules
type ServicePort interface {
	// Discover profiles the repository at url: a valid oarr.json wins, heuristics otherwise
	Discover(ctx context.Context, url string, opts Options) (*register.Register, error)
	// DiscoverFromFile validates and expands a descriptor; source names it in messages
	DiscoverFromFile(ctx context.Context, content []byte, source string) (*register.Register, error)
	// DiscoverFromURL fetches a descriptor from url and expands it
	DiscoverFromURL(ctx context.Context, url string) (*register.Register, error)
}

// TelemetryPort receives the detector events of one probe
type TelemetryPort interface {
	Record(ctx context.Context, events []ProbeEvent) error
}

// Ports are the optional dependencies of the discovery module
type Ports struct {
	Registers regdomain.StorePort
	Telemetry TelemetryPort
}
