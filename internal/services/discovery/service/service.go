// Package service runs probes: registry file first, then the detector pipeline
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"oarr/internal/adapters/probe"
	"oarr/internal/core/detector"
	"oarr/internal/core/register"
	"oarr/internal/core/registryfile"
	perr "oarr/internal/platform/errors"
	"oarr/internal/platform/logger"
	ptime "oarr/internal/platform/time"
	"oarr/internal/services/discovery/domain"
	regdomain "oarr/internal/services/registers/domain"

	"github.com/google/uuid"
)

const telemetryTimeout = 5 * time.Second

// Config for the discovery service
type Config struct {
	Defaults domain.Options
	// Detectors overrides detector.Default(); tests use it
	Detectors []detector.Detector
}

// Service implements domain.ServicePort
type Service struct {
	Client    *probe.Client
	Detectors []detector.Detector
	Telemetry domain.TelemetryPort
	Registers regdomain.StorePort
	Cfg       Config
}

var _ domain.ServicePort = (*Service)(nil)

// New constructs a discovery service; ports may be zero
func New(client *probe.Client, ports domain.Ports, cfg Config) *Service {
	if client == nil {
		panic("discovery.Service requires a non nil probe client")
	}
	dets := cfg.Detectors
	if len(dets) == 0 {
		dets = detector.Default()
	}
	return &Service{
		Client:    client,
		Detectors: dets,
		Telemetry: ports.Telemetry,
		Registers: ports.Registers,
		Cfg:       cfg,
	}
}

// DefaultOptions are the configured probe options
func (s *Service) DefaultOptions() domain.Options { return s.Cfg.Defaults }

// NormalizeURL trims raw and assumes http:// when no http(s) scheme is given
func NormalizeURL(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "http") {
		s = "http://" + s
	}
	return s
}

// Discover profiles the repository at raw
func (s *Service) Discover(ctx context.Context, raw string, opts domain.Options) (*register.Register, error) {
	url := NormalizeURL(raw)
	runID := uuid.NewString()
	ctx = logger.WithProbe(ctx, runID, url)
	log := logger.C(ctx)

	rec, err := registryfile.Get(ctx, s.Client.NewInfo(), url)
	switch {
	case err != nil && opts.RaiseRegistryFileError:
		return nil, err
	case err != nil:
		log.Warn().Err(err).Strs("violations", violations(err)).Msg("registry file rejected, falling back to detection")
	case rec != nil:
		log.Info().Msg("registry file accepted")
		return rec, nil
	}

	r := register.New()
	r.SetRepoURL(url)
	info := s.Client.NewInfo()

	events := make([]domain.ProbeEvent, 0, len(s.Detectors))
	for _, d := range s.Detectors {
		events = append(events, s.run(ctx, d, r, info, runID, url))
	}
	s.emit(ctx, events)

	log.Info().Int("detectors", len(events)).Msg("probe finished")
	return r, nil
}

// violations lists the messages of a rejected descriptor, through any wrapping
func violations(err error) []string {
	var rfe *registryfile.Error
	if errors.As(err, &rfe) {
		return rfe.Errors
	}
	return nil
}

// run executes one detector; faults are logged and recorded, never returned
func (s *Service) run(ctx context.Context, d detector.Detector, r *register.Register, info detector.Info, runID, url string) domain.ProbeEvent {
	ev := domain.ProbeEvent{At: ptime.Now(), RunID: runID, URL: url, Detector: d.Name()}
	log := logger.C(ctx).With().Str("detector", d.Name()).Logger()

	var detectable bool
	if err := guard(d.Name(), func() error { detectable = d.Detectable(r); return nil }); err != nil {
		ev.Outcome, ev.Error = domain.OutcomeFailed, err.Error()
		log.Error().Err(err).Msg("detector failed")
		return ev
	}
	if !detectable {
		ev.Outcome = domain.OutcomeSkipped
		log.Debug().Msg("detector skipped")
		return ev
	}

	start := time.Now()
	err := guard(d.Name(), func() error { return d.Detect(ctx, r, info) })
	ev.Elapsed = time.Since(start)
	if err != nil {
		ev.Outcome, ev.Error = domain.OutcomeFailed, err.Error()
		log.Error().Err(err).Msg("detector failed")
		return ev
	}
	ev.Outcome = domain.OutcomeRan
	log.Info().Dur("elapsed", ev.Elapsed).Msg("detector ran")
	return ev
}

// guard turns a panic in fn into an error
func guard(name string, fn func() error) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = perr.PanicErrf("%s panicked: %v", name, p)
		}
	}()
	return fn()
}

func (s *Service) emit(ctx context.Context, events []domain.ProbeEvent) {
	if s.Telemetry == nil {
		return
	}
	tctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), telemetryTimeout)
	defer cancel()
	if err := s.Telemetry.Record(tctx, events); err != nil {
		logger.C(ctx).Warn().Err(err).Int("events", len(events)).Msg("telemetry not recorded")
	}
}

// DiscoverFromFile validates and expands a descriptor
func (s *Service) DiscoverFromFile(_ context.Context, content []byte, source string) (*register.Register, error) {
	obj, err := registryfile.Validate(content, source)
	if err != nil {
		return nil, err
	}
	return registryfile.Expand(obj)
}

// DiscoverFromURL fetches the descriptor at raw and expands it
func (s *Service) DiscoverFromURL(ctx context.Context, raw string) (*register.Register, error) {
	url := NormalizeURL(raw)
	resp := s.Client.NewInfo().URLGet(ctx, url)
	if resp == nil {
		return nil, perr.Unavailablef("registry file %s could not be fetched", url)
	}
	return s.DiscoverFromFile(ctx, resp.Body, url)
}

// DiscoverAndSave probes raw and stores the result
func (s *Service) DiscoverAndSave(ctx context.Context, raw string, opts domain.Options) (*register.Register, error) {
	if s.Registers == nil {
		return nil, perr.Unavailablef("no storage configured")
	}
	r, err := s.Discover(ctx, raw, opts)
	if err != nil {
		return nil, err
	}
	if _, err := s.Registers.Save(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}
