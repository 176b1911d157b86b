package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"oarr/internal/core/register"
	"oarr/internal/platform/config"
	"oarr/internal/platform/logger"
	"oarr/internal/platform/store"
	"oarr/internal/services/discovery/domain"
	discmod "oarr/internal/services/discovery/module"
)

func main() {
	var (
		fURL     = flag.String("u", "", "repository url to probe")
		fSave    = flag.Bool("save", false, "save the register (postgres when PG_URL is set)")
		fNoRaise = flag.Bool("no-raise", false, "fall back to detection when the registry file is invalid")
	)
	flag.Parse()

	l := logger.Named("discover")
	if *fURL == "" {
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, store.FromEnv(config.New(), "discover"), store.WithLogger(*l))
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

	opts := domain.Options{RaiseRegistryFileError: cfg.RaiseRegistryFileError && !*fNoRaise}
	var r *register.Register
	if *fSave {
		r, err = svc.DiscoverAndSave(ctx, *fURL, opts)
	} else {
		r, err = svc.Discover(ctx, *fURL, opts)
	}
	if err != nil {
		l.Error().Err(err).Str("url", *fURL).Msg("probe failed")
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		l.Fatal().Err(err).Msg("encode register")
	}
}
