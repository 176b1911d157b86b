package store

import (
	"context"
	"errors"
	"reflect"
	"testing"

	perr "oarr/internal/platform/errors"
	"oarr/internal/platform/store/pg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// fakeRows implements pgx.Rows over in-memory data
type fakeRows struct {
	cols   []string
	data   [][]any
	idx    int
	err    error
	closed bool
}

func newFakeRows(cols []string, data ...[]any) *fakeRows {
	return &fakeRows{cols: cols, data: data, idx: -1}
}

func (r *fakeRows) Close()                        { r.closed = true }
func (r *fakeRows) Err() error                    { return r.err }
func (r *fakeRows) CommandTag() pgconn.CommandTag { return pgconn.NewCommandTag("SELECT") }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription {
	out := make([]pgconn.FieldDescription, len(r.cols))
	for i, c := range r.cols {
		out[i] = pgconn.FieldDescription{Name: c}
	}
	return out
}
func (r *fakeRows) Next() bool {
	r.idx++
	return r.idx < len(r.data)
}
func (r *fakeRows) Values() ([]any, error) { return r.data[r.idx], nil }
func (r *fakeRows) RawValues() [][]byte    { return nil }
func (r *fakeRows) Conn() *pgx.Conn        { return nil }
func (r *fakeRows) Scan(dest ...any) error {
	row := r.data[r.idx]
	if len(row) != len(dest) {
		return errors.New("dest len mismatch")
	}
	for i := range dest {
		reflect.ValueOf(dest[i]).Elem().Set(reflect.ValueOf(row[i]))
	}
	return nil
}

type fakeRow struct{ err error }

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*int)) = 7
	return nil
}

// fakePgx implements pgxQuerier
type fakePgx struct {
	rows   *fakeRows
	err    error
	rowErr error
}

func (f *fakePgx) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.NewCommandTag("DELETE 2"), f.err
}

func (f *fakePgx) Query(context.Context, string, ...any) (pgx.Rows, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.rows, nil
}

func (f *fakePgx) QueryRow(context.Context, string, ...any) pgx.Row { return fakeRow{err: f.rowErr} }

type recTracer struct{ events []pg.QueryEvent }

func (r *recTracer) OnQuery(_ context.Context, ev pg.QueryEvent) { r.events = append(r.events, ev) }

func TestTracedEmitsPerStatement(t *testing.T) {
	tr := &recTracer{}
	q := traced{q: &fakePgx{rows: newFakeRows([]string{"n"}, []any{1})}, tracer: tr, slowUS: 0}
	ctx := context.Background()

	if _, err := q.Exec(ctx, "delete from registers", 1); err != nil {
		t.Fatal(err)
	}
	rs, err := q.Query(ctx, "select n")
	if err != nil {
		t.Fatal(err)
	}
	rs.Close()
	var n int
	if err := q.QueryRow(ctx, "select 7").Scan(&n); err != nil || n != 7 {
		t.Fatalf("QueryRow = %d, %v", n, err)
	}

	if len(tr.events) != 3 {
		t.Fatalf("events = %d, want 3", len(tr.events))
	}
	if tr.events[0].SQL != "delete from registers" || !tr.events[0].Slow {
		t.Fatalf("unexpected first event %+v", tr.events[0])
	}
}

func TestTracedQueryRowReportsScanError(t *testing.T) {
	tr := &recTracer{}
	boom := errors.New("boom")
	q := traced{q: &fakePgx{rowErr: boom}, tracer: tr, slowUS: -1}

	var n int
	if err := q.QueryRow(context.Background(), "select 1").Scan(&n); !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	if len(tr.events) != 1 || !errors.Is(tr.events[0].Err, boom) || tr.events[0].Slow {
		t.Fatalf("events = %+v", tr.events)
	}
}

func TestTracedWithoutTracer(t *testing.T) {
	q := traced{q: &fakePgx{err: errors.New("down")}}
	if _, err := q.Query(context.Background(), "select 1"); err == nil {
		t.Fatal("expected query error")
	}
}

func TestRowsAndTag(t *testing.T) {
	fr := newFakeRows([]string{"id", "body"}, []any{"a", "{}"})
	rs := rows{r: fr}
	if got := rs.Columns(); !reflect.DeepEqual(got, []string{"id", "body"}) {
		t.Fatalf("Columns = %v", got)
	}
	rs.Close()
	if !fr.closed {
		t.Fatal("Close not delegated")
	}

	tg := tag{t: pgconn.NewCommandTag("UPDATE 3")}
	if tg.RowsAffected() != 3 || tg.String() != "UPDATE 3" {
		t.Fatalf("tag = %q/%d", tg.String(), tg.RowsAffected())
	}
}

func TestHelpers(t *testing.T) {
	ctx := context.Background()
	scan := func(r Row) (string, error) {
		var id, body string
		err := r.Scan(&id, &body)
		return id + "=" + body, err
	}

	q := traced{q: &fakePgx{rows: newFakeRows([]string{"id", "body"}, []any{"a", "1"}, []any{"b", "2"})}}
	got, err := Many(ctx, q, scan, "select")
	if err != nil || !reflect.DeepEqual(got, []string{"a=1", "b=2"}) {
		t.Fatalf("Many = %v, %v", got, err)
	}

	q = traced{q: &fakePgx{rows: newFakeRows([]string{"id", "body"}, []any{"a", "1"})}}
	one, err := One(ctx, q, scan, "select")
	if err != nil || one != "a=1" {
		t.Fatalf("One = %q, %v", one, err)
	}

	q = traced{q: &fakePgx{rows: newFakeRows([]string{"id", "body"})}}
	if _, err := One(ctx, q, scan, "select"); !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("One on empty = %v, want not found", err)
	}

	q = traced{q: &fakePgx{rows: newFakeRows([]string{"id", "body"}, []any{"a", "1"}, []any{"b", "2"})}}
	if _, err := One(ctx, q, scan, "select"); err == nil {
		t.Fatal("One with two rows should fail")
	}

	n, err := Scalar[int](ctx, q, "select 7")
	if err != nil || n != 7 {
		t.Fatalf("Scalar = %d, %v", n, err)
	}

	affected, err := Affected(ctx, q, "delete")
	if err != nil || affected != 2 {
		t.Fatalf("Affected = %d, %v", affected, err)
	}
}

func TestRetrying(t *testing.T) {
	cases := []struct {
		name  string
		err   error
		calls int
	}{
		{"success", nil, 1},
		{"plain failure", errors.New("syntax error"), 1},
		{"serialization", &pgconn.PgError{Code: "40001"}, txAttempts},
		{"deadlock wrapped", perr.FromPostgres(&pgconn.PgError{Code: "40P01"}, "save"), txAttempts},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			calls := 0
			err := retrying(func() error { calls++; return c.err })
			if calls != c.calls || !errors.Is(err, c.err) {
				t.Fatalf("calls = %d err = %v", calls, err)
			}
		})
	}
}
