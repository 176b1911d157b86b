package api_test

import (
	"context"
	"testing"

	"oarr/internal/platform/config"
	perr "oarr/internal/platform/errors"
	phttp "oarr/internal/platform/net/http"
	"oarr/internal/services/api"

	"github.com/go-chi/chi/v5"
)

func TestMountWithoutStore(t *testing.T) {
	err := api.Mount(context.Background(), phttp.AdaptChi(chi.NewRouter()), api.Options{Config: config.New()})
	if !perr.IsCode(err, perr.ErrorCodeUnavailable) {
		t.Fatalf("err = %v, want unavailable", err)
	}
}
