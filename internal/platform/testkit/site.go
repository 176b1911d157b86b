package testkit

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// Page is one canned response served by a Site
type Page struct {
	Status      int
	ContentType string
	Header      map[string]string
	Body        string
}

// Site is a fake repository web site keyed by request path (query included when present)
type Site struct {
	*httptest.Server

	mu    sync.Mutex
	pages map[string]Page
	hits  map[string]int
}

// NewSite starts an httptest server serving pages; unknown paths get 404.
// Keys may be a bare path ("/oai/request") or path plus raw query ("/oai/request?verb=Identify")
func NewSite(t *testing.T, pages map[string]Page) *Site {
	t.Helper()
	s := &Site{pages: pages, hits: map[string]int{}}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)
	return s
}

// Transport routes every request to the site whatever host the URL names,
// so probes can be pointed at realistic repository hostnames
func (s *Site) Transport() *http.Transport {
	addr := s.Listener.Addr().String()
	return &http.Transport{
		DialContext: func(ctx context.Context, network, _ string) (net.Conn, error) {
			var d net.Dialer
			return d.DialContext(ctx, network, addr)
		},
	}
}

// Hits reports how many requests reached key
func (s *Site) Hits(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[key]
}

func (s *Site) serve(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Path
	if r.URL.RawQuery != "" {
		key += "?" + r.URL.RawQuery
	}
	s.mu.Lock()
	s.hits[key]++
	p, ok := s.pages[key]
	if !ok {
		p, ok = s.pages[r.URL.Path]
	}
	s.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}
	for k, v := range p.Header {
		w.Header().Set(k, v)
	}
	ct := p.ContentType
	if ct == "" {
		ct = "text/html; charset=utf-8"
	}
	w.Header().Set("Content-Type", ct)
	status := p.Status
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	_, _ = w.Write([]byte(p.Body))
}
