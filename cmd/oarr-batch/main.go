package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"oarr/internal/core/register"
	"oarr/internal/platform/config"
	"oarr/internal/platform/logger"
	"oarr/internal/platform/store"
	discmod "oarr/internal/services/discovery/module"
)

// line is one output record; registers are emitted whole
type line struct {
	URL      string             `json:"url"`
	ID       string             `json:"id,omitempty"`
	Error    string             `json:"error,omitempty"`
	Register *register.Register `json:"register,omitempty"`
}

func main() {
	var (
		fIn      = flag.String("in", "-", "file with one url per line, - for stdin")
		fWorkers = flag.Int("workers", 4, "concurrent probes (>=1)")
		fSave    = flag.Bool("save", false, "save registers (postgres when PG_URL is set)")
		fNoRaise = flag.Bool("no-raise", false, "fall back to detection when a registry file is invalid")
	)
	flag.Parse()

	l := logger.Named("batch")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	urls, err := readURLs(*fIn)
	if err != nil {
		l.Fatal().Err(err).Str("in", *fIn).Msg("read urls")
	}

	st, err := store.Open(ctx, store.FromEnv(config.New(), "batch"), store.WithLogger(*l))
	if err != nil {
		l.Fatal().Err(err).Msg("store.Open failed")
	}
	defer func() { _ = st.Close(context.Background()) }()

	cfg := discmod.FromConfig(config.New())
	m, err := discmod.Standalone(ctx, st, cfg, *fSave)
	if err != nil {
		l.Fatal().Err(err).Msg("discovery setup failed")
	}
	svc := m.Service()
	opts := svc.DefaultOptions()
	if *fNoRaise {
		opts.RaiseRegistryFileError = false
	}

	enc := json.NewEncoder(os.Stdout)
	failed := 0
	for _, res := range svc.Batch(ctx, urls, *fWorkers, opts, *fSave) {
		out := line{URL: res.URL, ID: res.ID, Register: res.Register}
		if res.Err != nil {
			out.Error = res.Err.Error()
			failed++
		}
		if err := enc.Encode(out); err != nil {
			l.Fatal().Err(err).Msg("write result")
		}
	}
	if failed > 0 {
		l.Warn().Int("failed", failed).Int("probes", len(urls)).Msg("batch had failures")
		_ = st.Close(context.Background())
		os.Exit(1)
	}
}

// readURLs skips blank lines and # comments
func readURLs(path string) ([]string, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	var urls []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		urls = append(urls, s)
	}
	return urls, sc.Err()
}
