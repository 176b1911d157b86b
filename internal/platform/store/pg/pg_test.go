package pg

import (
	"context"
	"errors"
	"testing"
	"time"

	kit "oarr/internal/platform/testkit"

	"github.com/jackc/pgx/v5/pgxpool"
)

func TestOpen(t *testing.T) {
	kit.Serial(t)

	if _, err := Open(context.Background(), Config{URL: "://bad"}, nil); err == nil {
		t.Fatal("expected a parse error")
	}

	kit.Swap(t, &newPool, func(context.Context, *pgxpool.Config) (*pgxpool.Pool, error) {
		return nil, errors.New("refused")
	})
	if _, err := Open(context.Background(), Config{URL: "postgres://oarr@db:5432/oarr"}, nil); err == nil {
		t.Fatal("expected the pool error")
	}

	var seen *pgxpool.Config
	kit.Swap(t, &newPool, func(_ context.Context, c *pgxpool.Config) (*pgxpool.Pool, error) {
		seen = c
		return &pgxpool.Pool{}, nil
	})
	p, err := Open(context.Background(), Config{
		URL:         "postgres://oarr@db:5432/oarr",
		AppName:     "oarr-api",
		MaxConns:    7,
		MaxConnIdle: time.Minute,
		SlowMs:      250,
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if seen.MaxConns != 7 || seen.MaxConnIdleTime != time.Minute || seen.ConnConfig.RuntimeParams["application_name"] != "oarr-api" {
		t.Fatalf("pool config = %+v", seen)
	}
	if p.SlowMs != 250 || p.Pool == nil {
		t.Fatalf("pg = %+v", p)
	}
}

func TestCloseNilSafe(t *testing.T) {
	var p *PG
	p.Close()
	(&PG{}).Close()
}
