package store

import (
	"context"

	perr "oarr/internal/platform/errors"
)

// Affected runs a write and returns how many rows it touched
func Affected(ctx context.Context, q RowQuerier, sql string, args ...any) (int64, error) {
	tag, err := q.Exec(ctx, sql, args...)
	if err != nil || tag == nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// Scalar scans the first column of the first row into T
func Scalar[T any](ctx context.Context, q RowQuerier, sql string, args ...any) (T, error) {
	var v T
	err := q.QueryRow(ctx, sql, args...).Scan(&v)
	return v, err
}

// One maps exactly one row; none is perr.ErrNotFound and more than one is an ErrorCodeDB error
func One[T any](ctx context.Context, q RowQuerier, scan func(Row) (T, error), sql string, args ...any) (T, error) {
	var (
		out T
		n   int
	)
	err := each(ctx, q, sql, args, func(r Row) error {
		if n++; n > 1 {
			return perr.Newf(perr.ErrorCodeDB, "expected one row, got more")
		}
		v, err := scan(r)
		out = v
		return err
	})
	switch {
	case err != nil:
		var zero T
		return zero, err
	case n == 0:
		return out, perr.ErrNotFound
	}
	return out, nil
}

// Many maps every row
func Many[T any](ctx context.Context, q RowQuerier, scan func(Row) (T, error), sql string, args ...any) ([]T, error) {
	var out []T
	err := each(ctx, q, sql, args, func(r Row) error {
		v, err := scan(r)
		if err == nil {
			out = append(out, v)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func each(ctx context.Context, q RowQuerier, sql string, args []any, fn func(Row) error) error {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		if err := fn(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}
