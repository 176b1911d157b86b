// Package repo writes probe telemetry to clickhouse
package repo

import (
	"context"

	perr "oarr/internal/platform/errors"
	"oarr/internal/platform/store"
	"oarr/internal/services/discovery/domain"
)

// Table receives one row per detector run
const Table = "probe_events"

const ddl = `
create table if not exists probe_events (
	at         DateTime64(3, 'UTC'),
	run_id     String,
	url        String,
	detector   LowCardinality(String),
	outcome    LowCardinality(String),
	elapsed_ms Float64,
	error      String
)
engine = MergeTree
partition by toYYYYMM(at)
order by (at, run_id)
`

// CH is the clickhouse telemetry sink
type CH struct {
	ch store.Clickhouse
}

var _ domain.TelemetryPort = (*CH)(nil)

// NewCH wraps a clickhouse seam
func NewCH(ch store.Clickhouse) *CH { return &CH{ch: ch} }

// EnsureSchema creates the events table when the seam can run DDL
func (c *CH) EnsureSchema(ctx context.Context) error {
	d, ok := c.ch.(store.DDLer)
	if !ok {
		return nil
	}
	if err := d.Exec(ctx, ddl); err != nil {
		return perr.Wrap(err, perr.ErrorCodeDB, "ensure probe_events")
	}
	return nil
}

// Record inserts events in one batch
func (c *CH) Record(ctx context.Context, events []domain.ProbeEvent) error {
	if len(events) == 0 {
		return nil
	}
	rows := make([][]any, 0, len(events))
	for _, ev := range events {
		rows = append(rows, Row(ev))
	}
	return c.ch.Insert(ctx, Table, rows)
}

// Row lays ev out in table column order
func Row(ev domain.ProbeEvent) []any {
	return []any{
		ev.At.UTC(),
		ev.RunID,
		ev.URL,
		ev.Detector,
		string(ev.Outcome),
		float64(ev.Elapsed.Microseconds()) / 1000.0,
		ev.Error,
	}
}
