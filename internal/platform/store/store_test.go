package store

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"oarr/internal/platform/config"

	"github.com/rs/zerolog"
)

type fakeTx struct{ traced }

func (f *fakeTx) Tx(ctx context.Context, fn func(q RowQuerier) error) error { return fn(f) }

type fakeTxPing struct {
	fakeTx
	err error
}

func (f *fakeTxPing) Ping(context.Context) error { return f.err }

type fakeCH struct {
	pingErr error
	closed  bool
}

func (f *fakeCH) Insert(context.Context, string, any) error           { return nil }
func (f *fakeCH) Query(context.Context, string, ...any) (Rows, error) { return nil, nil }
func (f *fakeCH) Close() error                                        { f.closed = true; return nil }
func (f *fakeCH) Ping(context.Context) error                          { return f.pingErr }

func TestGuard(t *testing.T) {
	ctx := context.Background()

	var nilStore *Store
	if err := nilStore.Guard(ctx); err == nil {
		t.Fatal("nil store should fail")
	}
	if err := (&Store{}).Guard(ctx); err != nil {
		t.Fatalf("empty store: %v", err)
	}
	if err := (&Store{PG: &fakeTx{}}).Guard(ctx); err != nil {
		t.Fatalf("pg without Ping is skipped: %v", err)
	}

	s := &Store{
		PG: &fakeTxPing{err: errors.New("refused")},
		CH: &fakeCH{pingErr: errors.New("timeout")},
	}
	err := s.Guard(ctx)
	if err == nil {
		t.Fatal("expected joined error")
	}
	for _, want := range []string{"pg: refused", "ch: timeout"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("%q missing from %q", want, err)
		}
	}
}

func TestOpenNothingEnabled(t *testing.T) {
	s, err := Open(context.Background(), Config{})
	if err != nil {
		t.Fatal(err)
	}
	if s.PG != nil || s.CH != nil {
		t.Fatalf("unexpected seams %+v", s)
	}
	if err := s.Close(context.Background()); err != nil {
		t.Fatal(err)
	}
}

func TestOpenBadCHDSN(t *testing.T) {
	_, err := Open(context.Background(), Config{CH: CHConfig{Enabled: true, URL: "://nope"}})
	if err == nil {
		t.Fatal("expected dsn error")
	}
}

func TestCloseClosesCH(t *testing.T) {
	ch := &fakeCH{}
	if err := (&Store{CH: ch}).Close(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !ch.closed {
		t.Fatal("clickhouse not closed")
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("PG_URL", "postgres://u:p@db:5432/oarr")
	t.Setenv("PG_MAX_CONNS", "9")
	t.Setenv("PG_MAX_CONN_IDLE", "90s")
	t.Setenv("CH_URL", "")

	cfg := FromEnv(config.New(), "api")
	if !cfg.PG.Enabled || cfg.PG.MaxConns != 9 || cfg.PG.MaxConnIdle != 90*time.Second || cfg.CH.Enabled {
		t.Fatalf("cfg = %+v", cfg)
	}
	if appName(cfg) != "oarr-api" {
		t.Fatalf("appName = %q", appName(cfg))
	}
}

func TestWithLogger(t *testing.T) {
	var buf bytes.Buffer
	s, err := Open(context.Background(), Config{}, WithLogger(zerolog.New(&buf)))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "store open") || s.PG != nil || s.CH != nil {
		t.Fatalf("log = %q store = %+v", buf.String(), s)
	}
}
