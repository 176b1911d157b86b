// Package logger is the process logger: zerolog configured from LOG_*, an optional
// rotated JSON file, and child loggers scoped to a component, a request or a probe run
package logger

import (
	"context"
	"io"
	"os"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"oarr/internal/platform/config/raw"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is the project-wide logging type
type Logger = zerolog.Logger

// Options configures the root logger
type Options struct {
	Level       string
	Format      string // console or json
	Service     string
	Component   string
	Writer      io.Writer
	WithCaller  bool
	SampleEvery int

	File        string
	FileMaxMB   int
	FileBackups int
	FileMaxDays int

	StaticFields map[string]string
}

// FromEnv reads LOG_*. It goes through the raw reader since config itself logs
func FromEnv() Options {
	rc := raw.New().Prefix("LOG_")
	return Options{
		Level:       strings.ToLower(rc.Get("LEVEL", "info")),
		Format:      strings.ToLower(rc.Get("FORMAT", "console")),
		Service:     rc.Get("SERVICE", ""),
		Component:   rc.Get("COMPONENT", ""),
		WithCaller:  rc.GetBool("CALLER", false),
		SampleEvery: rc.GetInt("SAMPLE_EVERY", 0),
		File:        rc.Get("FILE", ""),
		FileMaxMB:   rc.GetInt("FILE_MAX_MB", 50),
		FileBackups: rc.GetInt("FILE_BACKUPS", 5),
		FileMaxDays: rc.GetInt("FILE_MAX_DAYS", 14),
	}
}

var (
	once sync.Once
	root *Logger
)

// Init builds the root logger. Only the first call, or the first Get, has any effect
func Init(opt Options) {
	once.Do(func() { root = build(opt) })
}

// Get returns the root logger, building it from the environment on first use
func Get() *Logger {
	once.Do(func() { root = build(FromEnv()) })
	return root
}

func build(opt Options) *Logger {
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	zerolog.TimeFieldFormat = time.RFC3339Nano

	out := opt.Writer
	if out == nil {
		out = os.Stdout
	}
	if opt.Format == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	if fw := fileWriter(opt); fw != nil {
		out = zerolog.MultiLevelWriter(out, fw)
	}

	fields := map[string]string{"service": opt.Service, "component": opt.Component}
	if bi, ok := debug.ReadBuildInfo(); ok {
		fields["go_version"] = bi.GoVersion
	}
	for k, v := range opt.StaticFields {
		fields[k] = v
	}
	zc := zerolog.New(out).Level(parseLevel(opt.Level)).With().Timestamp()
	for k, v := range fields {
		if v != "" {
			zc = zc.Str(k, v)
		}
	}
	if opt.WithCaller {
		zc = zc.Caller()
	}

	l := zc.Logger()
	if opt.SampleEvery > 1 {
		l = l.Sample(&zerolog.BasicSampler{N: uint32(opt.SampleEvery)})
	}
	return &l
}

// fileWriter is nil unless LOG_FILE is set; the file always gets JSON lines
func fileWriter(opt Options) io.Writer {
	if strings.TrimSpace(opt.File) == "" {
		return nil
	}
	return &lumberjack.Logger{
		Filename:   opt.File,
		MaxSize:    opt.FileMaxMB,
		MaxBackups: opt.FileBackups,
		MaxAge:     opt.FileMaxDays,
		Compress:   true,
	}
}

// parseLevel accepts zerolog's names plus "warning"; anything else is info
func parseLevel(s string) zerolog.Level {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "warning" {
		s = "warn"
	}
	lvl, err := zerolog.ParseLevel(s)
	if err != nil || s == "" || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

type ctxKey string

// ctxFields are copied from a context onto C's logger, in this order
var ctxFields = []ctxKey{"request_id", "run_id", "target"}

func withField(ctx context.Context, k ctxKey, v string) context.Context {
	if v == "" {
		return ctx
	}
	return context.WithValue(ctx, k, v)
}

// WithRequest annotates ctx with the http request id
func WithRequest(ctx context.Context, reqID string) context.Context {
	return withField(ctx, "request_id", reqID)
}

// WithProbe annotates ctx with a probe run id and the seed url being probed
func WithProbe(ctx context.Context, runID, target string) context.Context {
	return withField(withField(ctx, "run_id", runID), "target", target)
}

// C returns a child of the root logger carrying the request and probe fields set on ctx
func C(ctx context.Context) *Logger {
	zc := Get().With()
	for _, k := range ctxFields {
		if v, ok := ctx.Value(k).(string); ok {
			zc = zc.Str(string(k), v)
		}
	}
	l := zc.Logger()
	return &l
}

// Named returns a child logger with a component field
func Named(component string) *Logger {
	if component == "" {
		return Get()
	}
	l := Get().With().Str("component", component).Logger()
	return &l
}
