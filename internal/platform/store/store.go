// Package store provides the optional storage backends: postgres for records,
// clickhouse for probe telemetry
package store

import (
	"context"
	"errors"
	"fmt"
	"io"

	"oarr/internal/platform/logger"
)

// Store holds whichever backends are enabled. The zero value has none
type Store struct {
	Log logger.Logger
	PG  TxRunner   // register records; nil when disabled
	CH  Clickhouse // probe telemetry; nil when disabled
}

// Row is a single result row
type Row interface {
	Scan(dest ...any) error
}

// Rows iterates a result set; Close is safe to call twice
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
	Columns() []string
}

// CommandTag reports what an Exec did
type CommandTag interface {
	String() string
	RowsAffected() int64
}

// RowQuerier is the read and write surface repos use for sql
type RowQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) Row
}

// TxRunner adds transactions: fn's statements commit together or roll back when fn errors
type TxRunner interface {
	RowQuerier
	Tx(ctx context.Context, fn func(q RowQuerier) error) error
}

// Clickhouse is the columnar seam. Insert takes [][]any rows in table column order
type Clickhouse interface {
	Insert(ctx context.Context, table string, data any) error
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	Close() error
}

// Pinger is implemented by seams that can report readiness
type Pinger interface{ Ping(context.Context) error }

// Option mutates Store during Open
type Option func(*Store) error

// WithLogger replaces the "store" named logger
func WithLogger(log logger.Logger) Option {
	return func(s *Store) error {
		s.Log = log
		return nil
	}
}

// Open connects the backends cfg enables. When one fails the ones already open are closed
func Open(ctx context.Context, cfg Config, opts ...Option) (*Store, error) {
	s := &Store{Log: *logger.Named("store")}
	for _, o := range opts {
		if err := o(s); err != nil {
			return nil, err
		}
	}

	var err error
	if cfg.PG.Enabled {
		if s.PG, err = openPG(ctx, cfg, s); err != nil {
			return nil, fmt.Errorf("store: pg: %w", err)
		}
	}
	if cfg.CH.Enabled {
		if s.CH, err = openCH(ctx, cfg, s); err != nil {
			_ = s.Close(ctx)
			return nil, fmt.Errorf("store: ch: %w", err)
		}
	}

	s.Log.Info().Bool("pg", s.PG != nil).Bool("ch", s.CH != nil).Msg("store open")
	return s, nil
}

type seam struct {
	name string
	v    any
}

// seams lists the open backends in dependency order
func (s *Store) seams() []seam {
	var out []seam
	if s.PG != nil {
		out = append(out, seam{"pg", s.PG})
	}
	if s.CH != nil {
		out = append(out, seam{"ch", s.CH})
	}
	return out
}

// Guard pings every open backend that supports it and joins the failures
func (s *Store) Guard(ctx context.Context) error {
	if s == nil {
		return errors.New("store: nil")
	}
	var errs []error
	for _, b := range s.seams() {
		if p, ok := b.v.(Pinger); ok {
			if err := p.Ping(ctx); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", b.name, err))
			}
		}
	}
	return errors.Join(errs...)
}

// Close closes the open backends, last opened first
func (s *Store) Close(_ context.Context) error {
	var errs []error
	bs := s.seams()
	for i := len(bs) - 1; i >= 0; i-- {
		if c, ok := bs[i].v.(io.Closer); ok {
			errs = append(errs, c.Close())
		}
	}
	return errors.Join(errs...)
}
