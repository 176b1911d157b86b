// Package http serves the meta endpoints: liveness, backend readiness, build info
// and the detector pipeline
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"oarr/internal/core/version"
	"oarr/internal/modkit/httpkit"
)

// readyTimeout bounds all backend pings of one /ready call
const readyTimeout = 2 * time.Second

// Pinger is satisfied by the pg pool and the clickhouse client
type Pinger interface {
	Ping(context.Context) error
}

// Deps are the handler dependencies. PG and CH stay nil when the backend is not configured
type Deps struct {
	ServiceName string
	StartedAt   time.Time
	PG          any
	CH          any
	// Detectors names the probe pipeline in run order
	Detectors []string
}

// Check statuses; a backend that is set but cannot be pinged is unknown
const (
	checkOK      = "ok"
	checkFail    = "fail"
	checkSkipped = "skipped"
	checkUnknown = "unknown"
)

type backend struct {
	name string
	dep  any
}

type handlers struct {
	deps     Deps
	backends []backend
}

// Register mounts the meta routes
func Register(r httpkit.Router, d Deps) {
	h := &handlers{deps: d, backends: []backend{{"pg", d.PG}, {"ch", d.CH}}}

	httpkit.Get(r, "/health", h.health)
	httpkit.Get(r, "/ready", h.ready)
	httpkit.Get(r, "/version", h.version)
	httpkit.Get(r, "/service", h.service)
	httpkit.Get(r, "/detectors", h.detectors)
}

// HealthResponse is the liveness payload
type HealthResponse struct {
	OK      bool   `json:"ok"      example:"true"`
	Service string `json:"service" example:"oarr-api"`
	Started string `json:"started" example:"2026-10-19T08:00:00Z"`
	Now     string `json:"now"     example:"2026-10-19T08:05:00Z"`
}

// ReadyCheck is the outcome of one backend ping
type ReadyCheck struct {
	Name   string `json:"name"            example:"pg"`
	Status string `json:"status"          example:"ok"`
	Error  string `json:"error,omitempty" example:"dial tcp 127.0.0.1:5432: connect: connection refused"`
}

// ReadyResponse folds the checks into ok, degraded or fail
type ReadyResponse struct {
	Status string       `json:"status" example:"ok"`
	Checks []ReadyCheck `json:"checks"`
	Now    string       `json:"now"    example:"2026-10-19T08:05:00Z"`
}

// ServiceResponse reports the service name and uptime in seconds
type ServiceResponse struct {
	Name    string `json:"name"    example:"oarr-api"`
	Started string `json:"started" example:"2026-10-19T08:00:00Z"`
	Uptime  int64  `json:"uptime"  example:"300"`
}

// DetectorsResponse lists the probe pipeline
type DetectorsResponse struct {
	Detectors []string          `json:"detectors" example:"operational_status,country"`
	Build     version.BuildInfo `json:"build"`
}

func stamp(t time.Time) string { return t.UTC().Format(time.RFC3339) }

// @Summary Liveness
// @Tags Meta
// @Produce json
// @Success 200 {object} HealthResponse "ok"
// @Router /meta/health [get]
func (h *handlers) health(_ *http.Request) (any, error) {
	return HealthResponse{OK: true, Service: h.deps.ServiceName, Started: stamp(h.deps.StartedAt), Now: stamp(time.Now())}, nil
}

// @Summary Readiness with backend pings
// @Description Backends that are not configured report skipped; the api runs without clickhouse
// @Tags Meta
// @Produce json
// @Success 200 {object} ReadyResponse "ok"
// @Router /meta/ready [get]
func (h *handlers) ready(r *http.Request) (any, error) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	checks := make([]ReadyCheck, len(h.backends))
	var wg sync.WaitGroup
	for i, b := range h.backends {
		wg.Add(1)
		go func() {
			defer wg.Done()
			checks[i] = ping(ctx, b)
		}()
	}
	wg.Wait()

	return ReadyResponse{Status: overall(checks), Checks: checks, Now: stamp(time.Now())}, nil
}

func ping(ctx context.Context, b backend) ReadyCheck {
	c := ReadyCheck{Name: b.name}
	p, ok := b.dep.(Pinger)
	switch {
	case b.dep == nil:
		c.Status = checkSkipped
	case !ok:
		c.Status = checkUnknown
	default:
		if err := p.Ping(ctx); err != nil {
			c.Status, c.Error = checkFail, err.Error()
		} else {
			c.Status = checkOK
		}
	}
	return c
}

// overall is fail if any check failed, degraded if any is unknown, ok otherwise
func overall(checks []ReadyCheck) string {
	status := "ok"
	for _, c := range checks {
		if c.Status == checkFail {
			return "fail"
		}
		if c.Status == checkUnknown {
			status = "degraded"
		}
	}
	return status
}

// @Summary Build and version info
// @Tags Meta
// @Produce json
// @Success 200 {object} version.BuildInfo "ok"
// @Router /meta/version [get]
func (h *handlers) version(_ *http.Request) (any, error) {
	return version.Info(h.deps.ServiceName), nil
}

// @Summary Service name and uptime
// @Tags Meta
// @Produce json
// @Success 200 {object} ServiceResponse "ok"
// @Router /meta/service [get]
func (h *handlers) service(_ *http.Request) (any, error) {
	return ServiceResponse{
		Name:    h.deps.ServiceName,
		Started: stamp(h.deps.StartedAt),
		Uptime:  int64(time.Since(h.deps.StartedAt).Seconds()),
	}, nil
}

// @Summary Detectors a probe runs, in order
// @Tags Meta
// @Produce json
// @Success 200 {object} DetectorsResponse "ok"
// @Router /meta/detectors [get]
func (h *handlers) detectors(_ *http.Request) (any, error) {
	return DetectorsResponse{
		Detectors: append([]string(nil), h.deps.Detectors...),
		Build:     version.Info(h.deps.ServiceName),
	}, nil
}
