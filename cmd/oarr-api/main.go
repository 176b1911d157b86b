// @title         OARR Autodiscovery API
// @version       0.1.0
// @description   Probe open access repositories and keep their registers
// @BasePath      /api/v1

package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"oarr/internal/modkit/httpkit"
	"oarr/internal/platform/config"
	"oarr/internal/platform/logger"
	phttp "oarr/internal/platform/net/http"
	"oarr/internal/platform/store"

	"oarr/internal/services/api"
)

func main() {
	root := config.New()
	apiCfg := root.Prefix("API_")
	l := logger.Named("api")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, store.FromEnv(root, "api"), store.WithLogger(*l))
	if err != nil {
		l.Fatal().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()
	// telemetry is optional; an unreachable backend is reported by /meta/ready too
	if err := st.Guard(ctx); err != nil {
		l.Warn().Err(err).Msg("backend not ready")
	}

	srv := phttp.NewServer(root)

	if err := api.Mount(ctx, srv.Router(), api.Options{
		Config: root,
		Store:  st,
		Logger: l,
		Stack: httpkit.StackOptions{
			CORSOrigins: apiCfg.MayCSV("CORS_ORIGINS", nil),
			Timeout:     apiCfg.MayDuration("TIMEOUT", 2*time.Minute),
			Slow:        apiCfg.MayDuration("SLOW", 10*time.Second),
			MaxInFlight: apiCfg.MayInt("MAX_INFLIGHT", 0),
		},
		EnableSwagger:  apiCfg.MayBool("SWAGGER", false),
		EnableProfiler: apiCfg.MayBool("PROFILER", false),
	}); err != nil {
		l.Fatal().Err(err).Msg("api.Mount failed")
	}

	if err := srv.Run(ctx); err != nil {
		l.Fatal().Err(err).Msg("http server stopped")
	}
}
