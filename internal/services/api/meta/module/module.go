// Package module mounts the meta endpoints
package module

import (
	"time"

	"oarr/internal/core/detector"
	"oarr/internal/modkit"
	"oarr/internal/modkit/httpkit"
	metahttp "oarr/internal/services/api/meta/http"
)

// Module implements modkit.Module; meta exposes no ports
type Module struct {
	modkit.Base
}

// New builds the meta module reporting on the backends in deps and the default detector pipeline
func New(deps modkit.Deps, service string, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("meta"),
		modkit.WithPrefix("/meta"),
	}, opts...)...)

	hd := metahttp.Deps{ServiceName: service, StartedAt: time.Now(), Detectors: detectorNames()}
	// an unset interface field must stay a plain nil so /ready reports skipped
	if deps.PG != nil {
		hd.PG = deps.PG
	}
	if deps.CH != nil {
		hd.CH = deps.CH
	}

	return &Module{Base: modkit.NewBase(b, func(r httpkit.Router) { metahttp.Register(r, hd) })}
}

func detectorNames() []string {
	ds := detector.Default()
	names := make([]string, 0, len(ds))
	for _, d := range ds {
		names = append(names, d.Name())
	}
	return names
}

// Ports implements modkit.Module
func (m *Module) Ports() any { return nil }
