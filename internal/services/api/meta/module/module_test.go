package module_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"oarr/internal/modkit"
	phttp "oarr/internal/platform/net/http"
	kit "oarr/internal/platform/testkit"
	metamod "oarr/internal/services/api/meta/module"

	"github.com/go-chi/chi/v5"
)

func TestMetaWithoutBackends(t *testing.T) {
	m := metamod.New(modkit.Deps{}, "oarr-api")
	if m.Name() != "meta" || m.Prefix() != "/meta" || m.Ports() != nil {
		t.Fatalf("module = %s %s", m.Name(), m.Prefix())
	}

	mux := chi.NewRouter()
	m.MountRoutes(phttp.AdaptChi(mux))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/meta/ready", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("ready = %d", rec.Code)
	}
	body := rec.Body.String()
	kit.MustContain(t, body, `"skipped"`)
	if strings.Contains(body, `"fail"`) {
		t.Fatalf("unexpected failure in %s", body)
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/meta/detectors", nil))
	kit.MustContain(t, rec.Body.String(), `"Operational Status"`)
}
