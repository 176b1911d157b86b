// Package module wires register storage into the API and the CLIs using modkit
package module

import (
	"context"
	"time"

	"oarr/internal/modkit"
	"oarr/internal/modkit/httpkit"
	"oarr/internal/modkit/repokit"
	perr "oarr/internal/platform/errors"
	"oarr/internal/platform/logger"
	"oarr/internal/services/registers/domain"
	reghttp "oarr/internal/services/registers/http"
	"oarr/internal/services/registers/repo"
	"oarr/internal/services/registers/service"
)

// Ports exposed by the registers module
type Ports struct {
	Store domain.StorePort
}

// Module implements modkit.Module
type Module struct {
	modkit.Base
	ports Ports
}

// New constructs the registers module over postgres, or in process when overrides.Memory is set.
// Without either it fails with an unavailable error
func New(ctx context.Context, deps modkit.Deps, overrides Options, opts ...modkit.Option) (*Module, error) {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("registers"),
		modkit.WithPrefix("/registers"),
	}, opts...)...)

	cfg := FromConfig(deps.Cfg)
	if overrides.DefaultLimit != 0 {
		cfg.DefaultLimit = overrides.DefaultLimit
	}
	if overrides.MaxLimit != 0 {
		cfg.MaxLimit = overrides.MaxLimit
	}

	var r repo.Repo
	switch {
	case overrides.Memory:
		r = repo.NewMemory()
	case deps.PG != nil:
		r = repokit.MustBind(repo.NewPG(), deps.PG)
		sctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if err := r.EnsureSchema(sctx); err != nil {
			return nil, err
		}
	default:
		return nil, perr.Unavailablef("no storage configured")
	}
	logger.Named("registers").Debug().Bool("memory", overrides.Memory).Msg("register store ready")

	svc := service.New(r, service.Config{DefaultLimit: cfg.DefaultLimit, MaxLimit: cfg.MaxLimit})
	return &Module{
		Base:  modkit.NewBase(b, func(rr httpkit.Router) { reghttp.Register(rr, svc) }),
		ports: Ports{Store: svc},
	}, nil
}

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }
