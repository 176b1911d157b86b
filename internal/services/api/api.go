// Package api provides the HTTP API for the application
package api

import (
	"context"

	"oarr/internal/platform/config"
	"oarr/internal/platform/logger"
	phttp "oarr/internal/platform/net/http"
	"oarr/internal/platform/store"

	"oarr/internal/modkit"
	"oarr/internal/modkit/httpkit"
	"oarr/internal/modkit/module"
	"oarr/internal/modkit/swaggerkit"

	metamod "oarr/internal/services/api/meta/module"
	discdomain "oarr/internal/services/discovery/domain"
	discmod "oarr/internal/services/discovery/module"
	regdomain "oarr/internal/services/registers/domain"
	regmod "oarr/internal/services/registers/module"
)

// Options are the API options
type Options struct {
	// Config is the root view; modules apply their own prefixes
	Config         config.Conf
	Store          *store.Store
	Logger         *logger.Logger
	Stack          httpkit.StackOptions
	EnableSwagger  bool
	EnableProfiler bool

	// Discovery overrides the CORE_DISCOVERY_ options when set
	Discovery *discmod.Options
}

// Mount builds the modules and mounts them under /api/v1.
// It fails when no register store is configured
func Mount(ctx context.Context, r phttp.Router, opt Options) error {
	deps := modkit.Deps{Cfg: opt.Config}
	if opt.Store != nil {
		deps.PG = opt.Store.PG
		deps.CH = opt.Store.CH
	}
	if opt.Logger != nil {
		deps.Log = *opt.Logger
	}

	registers, err := regmod.New(ctx, deps, regmod.Options{})
	if err != nil {
		return err
	}

	dopts := discmod.FromConfig(deps.Cfg)
	if opt.Discovery != nil {
		dopts = *opt.Discovery
	}
	discovery, err := discmod.New(ctx, deps, discdomain.Ports{Registers: module.MustPortsOf[regdomain.StorePort](registers)}, dopts)
	if err != nil {
		return err
	}

	mods := []module.Module{
		metamod.New(deps, "oarr-api"),
		registers,
		discovery,
	}

	swaggerkit.Mount(r, opt.EnableSwagger)
	phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

	httpkit.MountAPIV1(r, httpkit.CommonStack(opt.Stack), func(api httpkit.Router) {
		for _, m := range mods {
			m.MountRoutes(api)
		}
	})
	return nil
}
