//go:build !swag

package swaggerkit_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"oarr/internal/modkit/swaggerkit"
	phttp "oarr/internal/platform/net/http"

	"github.com/go-chi/chi/v5"
)

func TestMount(t *testing.T) {
	off := chi.NewRouter()
	swaggerkit.Mount(phttp.AdaptChi(off), false)
	rec := httptest.NewRecorder()
	off.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/docs/doc.json", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("disabled docs served %d", rec.Code)
	}

	on := chi.NewRouter()
	swaggerkit.Mount(phttp.AdaptChi(on), true)

	rec = httptest.NewRecorder()
	on.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/docs", nil))
	if rec.Code != http.StatusPermanentRedirect || rec.Header().Get("Location") != "/api/docs/" {
		t.Fatalf("redirect = %d %q", rec.Code, rec.Header().Get("Location"))
	}

	rec = httptest.NewRecorder()
	on.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/docs/doc.json", nil))
	var spec map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &spec); err != nil {
		t.Fatal(err)
	}
	if spec["openapi"] != "3.0.3" || rec.Header().Get("Cache-Control") != "no-store" {
		t.Fatalf("spec = %v", spec)
	}
}
