package pg

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

func TestCompact(t *testing.T) {
	cases := map[string]string{
		"select 1":                        "select 1",
		"  select   1  ":                  "select 1",
		"SELECT\t*\nFROM\r\tregisters  x": "SELECT * FROM registers x",
		"":                                "",
	}
	for in, want := range cases {
		if got := compact(in); got != want {
			t.Fatalf("compact(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTracerLevels(t *testing.T) {
	var buf bytes.Buffer
	tr := Tracer(zerolog.New(&buf).Level(zerolog.ErrorLevel))

	type line struct {
		Level     string  `json:"level"`
		ElapsedMS float64 `json:"elapsed_ms"`
		SQL       string  `json:"sql"`
		NArgs     int     `json:"nargs"`
		Error     string  `json:"error"`
		Component string  `json:"component"`
	}
	ev := QueryEvent{
		SQL:       "select body\n from registers where id = $1",
		Args:      []any{"abc"},
		ElapsedUS: 2500,
		Err:       errors.New("boom"),
	}

	for _, slow := range []bool{false, true} {
		buf.Reset()
		ev.Slow = slow
		tr.OnQuery(context.Background(), ev)

		var got line
		if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &got); err != nil {
			t.Fatalf("unmarshal: %v (%s)", err, buf.String())
		}
		want := "info"
		if slow {
			want = "warn"
		}
		if got.Level != want || got.ElapsedMS != 2.5 || got.NArgs != 1 || got.Error != "boom" || got.Component != "pg" {
			t.Fatalf("slow=%v line = %+v", slow, got)
		}
		if got.SQL != "select body from registers where id = $1" {
			t.Fatalf("sql = %q", got.SQL)
		}
	}
}
