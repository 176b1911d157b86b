// Package module wires the discovery pipeline into the API and the CLIs using modkit
package module

import (
	"context"
	"time"

	"oarr/internal/adapters/probe"
	"oarr/internal/modkit"
	"oarr/internal/modkit/httpkit"
	"oarr/internal/platform/logger"
	"oarr/internal/services/discovery/domain"
	dischttp "oarr/internal/services/discovery/http"
	"oarr/internal/services/discovery/repo"
	"oarr/internal/services/discovery/service"
)

// Ports exposed by the discovery module
type Ports struct {
	Discovery domain.ServicePort
}

// Module implements modkit.Module
type Module struct {
	modkit.Base
	svc   *service.Service
	ports Ports
}

// New constructs the discovery module. Options from config are taken as is;
// ports.Registers enables saving and a clickhouse dep enables telemetry
func New(ctx context.Context, deps modkit.Deps, ports domain.Ports, cfg Options, opts ...modkit.Option) (*Module, error) {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("discovery"),
		modkit.WithPrefix("/discover"),
	}, opts...)...)

	log := logger.Named("discovery")

	if ports.Telemetry == nil && cfg.Telemetry && deps.CH != nil {
		sink := repo.NewCH(deps.CH)
		sctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if err := sink.EnsureSchema(sctx); err != nil {
			return nil, err
		}
		ports.Telemetry = sink
	}

	client := cfg.Client
	if client == nil {
		client = probe.NewClient(probe.FromEnv())
	}

	svc := service.New(client, ports, service.Config{
		Defaults:  domain.Options{RaiseRegistryFileError: cfg.RaiseRegistryFileError},
		Detectors: cfg.Detectors,
	})
	log.Debug().
		Bool("telemetry", ports.Telemetry != nil).
		Bool("store", ports.Registers != nil).
		Int("detectors", len(svc.Detectors)).
		Msg("discovery ready")

	return &Module{
		Base:  modkit.NewBase(b, func(rr httpkit.Router) { dischttp.Register(rr, svc) }),
		svc:   svc,
		ports: Ports{Discovery: svc},
	}, nil
}

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// Service exposes the concrete service for the CLIs (batch, save)
func (m *Module) Service() *service.Service { return m.svc }
