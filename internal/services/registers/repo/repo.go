// Package repo persists registers as JSON documents
package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"oarr/internal/core/register"
	"oarr/internal/modkit/repokit"
	perr "oarr/internal/platform/errors"
	"oarr/internal/platform/store"
	str "oarr/internal/platform/strings"
	ptime "oarr/internal/platform/time"
)

// Repo is the minimal persistence surface for registers
type Repo interface {
	EnsureSchema(ctx context.Context) error
	// Get returns nil, nil when absent
	Get(ctx context.Context, id string) (*register.Register, error)
	// Find pages through documents containing match, a JSON object
	Find(ctx context.Context, match []byte, limit, offset int) ([]*register.Register, int, error)
	Upsert(ctx context.Context, r *register.Register) error
	Delete(ctx context.Context, id string) (bool, error)
}

type (
	// PG is a binder that can bind the repo to a Queryer or TxRunner
	PG struct{}
	// queries implements the Repo interface over postgres jsonb
	queries struct{ q repokit.Queryer }
)

// NewPG returns a binder that can bind the repo to a Queryer or TxRunner
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind wires a Queryer to the repo
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

func (r *queries) EnsureSchema(ctx context.Context) error {
	for _, ddl := range []string{
		`create table if not exists registers (
			id uuid primary key,
			body jsonb not null,
			seed_url text,
			created_at timestamptz not null default now(),
			updated_at timestamptz not null default now()
		)`,
		`create index if not exists registers_body_gin on registers using gin (body jsonb_path_ops)`,
		`create index if not exists registers_seed_url on registers (seed_url) where seed_url is not null`,
	} {
		if _, err := r.q.Exec(ctx, ddl); err != nil {
			return perr.FromPostgres(err, "ensure registers schema")
		}
	}
	return nil
}

func (r *queries) Get(ctx context.Context, id string) (*register.Register, error) {
	const sql = `select id::text, body from registers where id = $1`
	rec, err := store.One(ctx, r.q, scanRegister, sql, id)
	if errors.Is(err, perr.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, perr.FromPostgresf(err, "get register %s", id)
	}
	return rec, nil
}

// Find counts and pages in one transaction when the queryer can open one
func (r *queries) Find(ctx context.Context, match []byte, limit, offset int) ([]*register.Register, int, error) {
	where, args := `body @> $1::jsonb`, []any{string(match)}
	if seed := seedOf(match); seed != "" {
		where += ` and seed_url = $2`
		args = append(args, seed)
	}
	page := fmt.Sprintf(`
select id::text, body
from registers
where %s
order by created_at asc, id asc
limit $%d offset $%d
`, where, len(args)+1, len(args)+2)

	var (
		recs  []*register.Register
		total int64
	)
	find := func(q repokit.Queryer) (err error) {
		if total, err = store.Scalar[int64](ctx, q, `select count(*) from registers where `+where, args...); err != nil {
			return perr.FromPostgres(err, "count registers")
		}
		if recs, err = store.Many(ctx, q, scanRegister, page, append(args, limit, offset)...); err != nil {
			return perr.FromPostgres(err, "query registers")
		}
		return nil
	}

	var err error
	if tx, ok := r.q.(repokit.TxRunner); ok {
		err = tx.Tx(ctx, find)
	} else {
		err = find(r.q)
	}
	if err != nil {
		return nil, 0, err
	}
	return recs, int(total), nil
}

// seedOf returns the repo_url a match pins, if any, so the seed_url index can narrow the scan
func seedOf(match []byte) string {
	var m struct {
		Register struct {
			RepoURL any `json:"repo_url"`
		} `json:"register"`
	}
	if json.Unmarshal(match, &m) != nil {
		return ""
	}
	s, _ := m.Register.RepoURL.(string)
	return s
}

func (r *queries) Upsert(ctx context.Context, rec *register.Register) error {
	body, err := json.Marshal(rec)
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeJSON, "encode register")
	}
	const sql = `
insert into registers (id, body, seed_url, created_at, updated_at)
values ($1, $2::jsonb, $3, $4, $4)
on conflict (id) do update
set body = excluded.body, seed_url = excluded.seed_url, updated_at = excluded.updated_at
`
	if _, err := r.q.Exec(ctx, sql, rec.ID(), string(body), str.SQLNull(rec.RepoURL()), ptime.Now().UTC()); err != nil {
		return perr.FromPostgresf(err, "save register %s", rec.ID())
	}
	return nil
}

func (r *queries) Delete(ctx context.Context, id string) (bool, error) {
	n, err := store.Affected(ctx, r.q, `delete from registers where id = $1`, id)
	if err != nil {
		return false, perr.FromPostgresf(err, "delete register %s", id)
	}
	return n > 0, nil
}

func scanRegister(row store.Row) (*register.Register, error) {
	var (
		id   string
		body []byte
	)
	if err := row.Scan(&id, &body); err != nil {
		return nil, err
	}
	rec, err := register.FromJSON(body)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeJSON, "decode register %s", id)
	}
	rec.SetID(id)
	return rec, nil
}
