package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"oarr/internal/platform/store"
	"oarr/internal/services/discovery/domain"
)

type fakeCH struct {
	table string
	rows  [][]any
	ddl   []string
	err   error
}

func (f *fakeCH) Insert(_ context.Context, table string, data any) error {
	f.table = table
	f.rows = data.([][]any)
	return f.err
}
func (f *fakeCH) Query(context.Context, string, ...any) (store.Rows, error) { return nil, nil }
func (f *fakeCH) Close() error                                              { return nil }
func (f *fakeCH) Exec(_ context.Context, sql string, _ ...any) error {
	f.ddl = append(f.ddl, sql)
	return f.err
}

func TestRecord(t *testing.T) {
	at := time.Date(2024, 6, 1, 12, 0, 0, 0, time.FixedZone("BST", 3600))
	f := &fakeCH{}
	sink := NewCH(f)

	if err := sink.Record(context.Background(), nil); err != nil || f.table != "" {
		t.Fatalf("empty batch wrote: %v %q", err, f.table)
	}

	ev := domain.ProbeEvent{At: at, RunID: "run-1", URL: "http://repo.example.org", Detector: "oai_pmh",
		Outcome: domain.OutcomeFailed, Elapsed: 1500 * time.Microsecond, Error: "timeout"}
	if err := sink.Record(context.Background(), []domain.ProbeEvent{ev, ev}); err != nil {
		t.Fatal(err)
	}
	if f.table != Table || len(f.rows) != 2 {
		t.Fatalf("insert = %q %d rows", f.table, len(f.rows))
	}
	row := f.rows[0]
	if !row[0].(time.Time).Equal(at) || row[0].(time.Time).Location() != time.UTC {
		t.Fatalf("at = %v", row[0])
	}
	if row[4] != "failed" || row[5] != 1.5 || row[6] != "timeout" {
		t.Fatalf("row = %v", row)
	}
}

func TestEnsureSchema(t *testing.T) {
	f := &fakeCH{}
	if err := NewCH(f).EnsureSchema(context.Background()); err != nil || len(f.ddl) != 1 {
		t.Fatalf("ddl = %v %v", f.ddl, err)
	}
	f.err = errors.New("readonly")
	if err := NewCH(f).EnsureSchema(context.Background()); err == nil {
		t.Fatal("ddl failure swallowed")
	}
}
