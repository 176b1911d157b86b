package module

import (
	"context"

	"oarr/internal/modkit"
	kitmod "oarr/internal/modkit/module"
	"oarr/internal/platform/config"
	"oarr/internal/platform/store"
	"oarr/internal/services/discovery/domain"
	regdomain "oarr/internal/services/registers/domain"
	regmod "oarr/internal/services/registers/module"
)

// Standalone builds discovery for the CLIs. With withStore, registers go to postgres
// when st has it and stay in process otherwise
func Standalone(ctx context.Context, st *store.Store, cfg Options, withStore bool) (*Module, error) {
	deps := modkit.Deps{Cfg: config.New()}
	if st != nil {
		deps.Log, deps.PG, deps.CH = st.Log, st.PG, st.CH
	}

	var ports domain.Ports
	if withStore {
		regs, err := regmod.New(ctx, deps, regmod.Options{Memory: deps.PG == nil})
		if err != nil {
			return nil, err
		}
		ports.Registers = kitmod.MustPortsOf[regdomain.StorePort](regs)
	}
	return New(ctx, deps, ports, cfg)
}
