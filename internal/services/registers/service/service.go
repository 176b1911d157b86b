// Package service implements register storage workflows over a repo
package service

import (
	"context"
	"encoding/json"

	"oarr/internal/core/register"
	perr "oarr/internal/platform/errors"
	"oarr/internal/platform/logger"
	ptime "oarr/internal/platform/time"
	"oarr/internal/services/registers/domain"
	"oarr/internal/services/registers/repo"

	"github.com/google/uuid"
)

// Config bounds query pages
type Config struct {
	DefaultLimit int
	MaxLimit     int
}

// Service defines the registers service contract
type Service interface {
	domain.StorePort
}

// Svc implements the registers service
type Svc struct {
	Repo repo.Repo
	Cfg  Config
}

var _ Service = (*Svc)(nil)

// New constructs a registers service
func New(r repo.Repo, cfg Config) *Svc {
	if r == nil {
		panic("registers.Service requires a non nil Repo")
	}
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = 25
	}
	if cfg.MaxLimit < cfg.DefaultLimit {
		cfg.MaxLimit = max(cfg.DefaultLimit, 100)
	}
	return &Svc{Repo: r, Cfg: cfg}
}

// Get returns the register or nil, nil when there is none; malformed ids are never stored
func (s *Svc) Get(ctx context.Context, id string) (*register.Register, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	return s.Repo.Get(ctx, id)
}

// Query returns one page of registers matching q.Match
func (s *Svc) Query(ctx context.Context, q domain.Query) (domain.Result, error) {
	if q.Offset < 0 {
		return domain.Result{}, perr.WithField(perr.InvalidArgf("offset must not be negative"), "offset")
	}
	limit := q.Limit
	switch {
	case limit <= 0:
		limit = s.Cfg.DefaultLimit
	case limit > s.Cfg.MaxLimit:
		limit = s.Cfg.MaxLimit
	}

	match := []byte("{}")
	if len(q.Match) > 0 {
		b, err := json.Marshal(q.Match)
		if err != nil {
			return domain.Result{}, perr.JSONErrf("match: %v", err)
		}
		match = b
	}

	recs, total, err := s.Repo.Find(ctx, match, limit, q.Offset)
	if err != nil {
		return domain.Result{}, err
	}
	if recs == nil {
		recs = []*register.Register{}
	}
	return domain.Result{Total: total, Records: recs}, nil
}

// Save assigns an id on first save, stamps the dates and writes the register
func (s *Svc) Save(ctx context.Context, r *register.Register) (string, error) {
	if r == nil {
		return "", perr.InvalidArgf("register is required")
	}
	if r.ID() == "" {
		r.SetID(uuid.NewString())
	} else if _, err := uuid.Parse(r.ID()); err != nil {
		return "", perr.WithField(perr.InvalidArgf("id %q is not a uuid", r.ID()), "id")
	}
	r.Stamp(ptime.Now())

	if err := s.Repo.Upsert(ctx, r); err != nil {
		return "", err
	}
	logger.C(ctx).Info().Str("id", r.ID()).Str("repo_url", r.RepoURL()).Msg("register saved")
	return r.ID(), nil
}

// Delete removes the register; false when there was nothing to remove
func (s *Svc) Delete(ctx context.Context, id string) (bool, error) {
	if _, err := uuid.Parse(id); err != nil {
		return false, nil
	}
	ok, err := s.Repo.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	if ok {
		logger.C(ctx).Info().Str("id", id).Msg("register deleted")
	}
	return ok, nil
}
