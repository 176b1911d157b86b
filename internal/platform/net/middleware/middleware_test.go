package middleware_test

import (
	"bytes"
	"compress/flate"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	perr "oarr/internal/platform/errors"
	pnet "oarr/internal/platform/net"
	"oarr/internal/platform/net/middleware"
)

func chain(h http.Handler, mws ...func(http.Handler) http.Handler) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

func TestRequestIDReachesContext(t *testing.T) {
	var seen string
	h := chain(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = pnet.RequestID(r.Context())
	}), middleware.RequestID())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "probe-42")
	h.ServeHTTP(httptest.NewRecorder(), req)
	if seen != "probe-42" {
		t.Fatalf("request id = %q", seen)
	}

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if seen == "" {
		t.Fatal("expected a generated request id")
	}
}

func TestRecoverJSON(t *testing.T) {
	h := chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("detector blew up") }),
		middleware.RequestID(), middleware.RecoverJSON)

	req := httptest.NewRequest(http.MethodPost, "/discover", nil)
	req.Header.Set("X-Request-ID", "rid-p")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var body struct {
		StatusCode int            `json:"status_code"`
		Code       perr.ErrorCode `json:"code"`
		RequestID  string         `json:"request_id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if rec.Code != 500 || body.Code != perr.ErrorCodePanic || body.RequestID != "rid-p" || rec.Header().Get("X-Request-ID") != "rid-p" {
		t.Fatalf("code=%d body=%+v", rec.Code, body)
	}
}

func TestAccessLogPassesThrough(t *testing.T) {
	for _, slow := range []middleware.AccessLogOptions{{}, {Slow: 1}} {
		h := middleware.AccessLogZerolog(slow)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusCreated)
			_, _ = io.WriteString(w, "hi")
			_, _ = io.WriteString(w, "there")
		}))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/registers", nil))
		if rec.Code != http.StatusCreated || rec.Body.String() != "hithere" {
			t.Fatalf("code=%d body=%q", rec.Code, rec.Body.String())
		}
	}
}

func TestCompress(t *testing.T) {
	h := middleware.Compress(flate.BestSpeed)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.Copy(w, bytes.NewReader([]byte(`"`+strings.Repeat("a", 4<<10)+`"`)))
	}))
	req := httptest.NewRequest(http.MethodGet, "/registers", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Header().Get("Content-Encoding") != "gzip" {
		t.Fatalf("encoding = %q", rec.Header().Get("Content-Encoding"))
	}
}

func TestCORSDefaults(t *testing.T) {
	h := middleware.CORS(middleware.CORSOptions{AllowedOrigins: []string{"https://oarr.example"}})(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(200) }))

	req := httptest.NewRequest(http.MethodOptions, "/discover", nil)
	req.Header.Set("Origin", "https://oarr.example")
	req.Header.Set("Access-Control-Request-Method", "POST")
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Header().Get("Access-Control-Allow-Origin") != "https://oarr.example" || rec.Header().Get("Access-Control-Allow-Methods") == "" {
		t.Fatalf("headers = %v", rec.Header())
	}
}

func TestThrottleRejectsOverflow(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	h := middleware.Throttle(1, 0, 0)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		close(entered)
		<-release
	}))

	done := make(chan struct{})
	go func() {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/discover", nil))
		close(done)
	}()
	<-entered

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/discover", nil))
	close(release)
	<-done
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("overflow code = %d", rec.Code)
	}
}
