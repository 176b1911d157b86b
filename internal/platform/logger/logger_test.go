package logger

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	kit "oarr/internal/platform/testkit"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"trace", "trace"},
		{"debug", "debug"},
		{"info", "info"},
		{"warn", "warn"},
		{"warning", "warn"},
		{"error", "error"},
		{"fatal", "fatal"},
		{"panic", "panic"},
		{"", "info"},
		{"   nonsense   ", "info"},
	}
	for _, c := range cases {
		lvl := parseLevel(c.in)
		if strings.ToLower(lvl.String()) != c.want {
			t.Fatalf("parseLevel(%q) = %q, want %q", c.in, lvl, c.want)
		}
	}
}

func TestInit_Named_C_WithProbe(t *testing.T) {
	var buf bytes.Buffer

	Init(Options{
		Level:        "debug",
		Format:       "console",
		Service:      "oarr-test",
		Writer:       &buf,
		SampleEvery:  2,
		StaticFields: map[string]string{"build": "test"},
	})

	// resample to N=1 so every line is emitted
	rv := Get().Sample(&zerolog.BasicSampler{N: 1})
	(&rv).Info().Msg("root-msg")

	nv := Named("probe").Sample(&zerolog.BasicSampler{N: 1})
	(&nv).Info().Msg("named-msg")

	ctx := WithRequest(context.Background(), "req-123")
	ctx = WithProbe(ctx, "run-9", "http://repo.example.ac.uk")
	cv := C(ctx).Sample(&zerolog.BasicSampler{N: 1})
	(&cv).Info().Msg("ctx-msg")

	out := buf.String()
	for _, want := range []string{
		"root-msg", "named-msg", "ctx-msg",
		"component=", "probe",
		"request_id=", "req-123",
		"run_id=", "run-9",
		"target=", "repo.example.ac.uk",
		"build=", "service=", "oarr-test",
	} {
		kit.MustContain(t, out, want)
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("LOG_SERVICE", "svc-b")
	t.Setenv("LOG_CALLER", "true")
	t.Setenv("LOG_SAMPLE_EVERY", "5")
	t.Setenv("LOG_FILE", "/tmp/oarr.log")
	t.Setenv("LOG_FILE_MAX_MB", "7")

	opt := FromEnv()
	if opt.Level != "warn" || opt.Format != "json" || opt.Service != "svc-b" {
		t.Fatalf("FromEnv fields mismatch: %+v", opt)
	}
	if !opt.WithCaller || opt.SampleEvery != 5 {
		t.Fatalf("FromEnv caller/sample mismatch: %+v", opt)
	}
	if opt.File != "/tmp/oarr.log" || opt.FileMaxMB != 7 || opt.FileBackups != 5 {
		t.Fatalf("FromEnv file mismatch: %+v", opt)
	}
}

func TestFileWriter(t *testing.T) {
	if fileWriter(Options{}) != nil {
		t.Fatal("expected no file writer without LOG_FILE")
	}
	path := filepath.Join(t.TempDir(), "probe.log")
	w := fileWriter(Options{File: path, FileMaxMB: 3, FileBackups: 2, FileMaxDays: 1})
	lj, ok := w.(*lumberjack.Logger)
	if !ok {
		t.Fatalf("fileWriter returned %T, want *lumberjack.Logger", w)
	}
	if lj.Filename != path || lj.MaxSize != 3 || lj.MaxBackups != 2 || !lj.Compress {
		t.Fatalf("unexpected rotation settings: %+v", lj)
	}
}
