package detector

import (
	"context"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/xmlquery"
	"github.com/mmcdole/gofeed"
)

// Response is a fetched resource as held by the fetch cache
type Response struct {
	URL        string
	StatusCode int
	Header     http.Header
	Body       []byte
}

// OK reports a 2xx response
func (r *Response) OK() bool {
	return r != nil && r.StatusCode >= 200 && r.StatusCode < 300
}

// ContentType returns the media type without parameters
func (r *Response) ContentType() string {
	if r == nil {
		return ""
	}
	ct, _, _ := strings.Cut(r.Header.Get("Content-Type"), ";")
	return strings.ToLower(strings.TrimSpace(ct))
}

// WhoisRecord holds the fields a raw WHOIS answer resolved to; unresolved fields are empty
type WhoisRecord struct {
	Organisation string
	Domain       string
	Name         string
	Email        string
	Phone        string
	Fax          string
	Address      string
	Raw          string
}

// Contact returns the non-empty contact fields keyed as they appear in a record's details
func (w *WhoisRecord) Contact() map[string]any {
	if w == nil {
		return nil
	}
	out := map[string]any{}
	for k, v := range map[string]string{
		"name":    w.Name,
		"email":   w.Email,
		"address": w.Address,
		"fax":     w.Fax,
		"phone":   w.Phone,
	} {
		if v != "" {
			out[k] = v
		}
	}
	return out
}

// Statement is one RDF triple
type Statement struct {
	Subject   string
	Predicate string
	Object    string
}

// Graph is a parsed RDF document
type Graph struct {
	Statements []Statement
}

// Objects returns every object of predicate, optionally restricted to subject
func (g *Graph) Objects(subject, predicate string) []string {
	if g == nil {
		return nil
	}
	var out []string
	for _, s := range g.Statements {
		if s.Predicate == predicate && (subject == "" || s.Subject == subject) {
			out = append(out, s.Object)
		}
	}
	return out
}

// Info is the per-probe fetch cache detectors read signals through.
// Every method returns nil or "" when the signal is unavailable
type Info interface {
	// URLGet returns a 2xx response
	URLGet(ctx context.Context, url string) *Response
	// URLGetStatus returns the response whatever its status
	URLGetStatus(ctx context.Context, url string) *Response
	Soup(ctx context.Context, url string) *goquery.Document
	XML(ctx context.Context, url string) *xmlquery.Node
	Feed(ctx context.Context, url string) *gofeed.Feed
	Graph(ctx context.Context, url, mimetype string) *Graph
	Whois(ctx context.Context, host string) *WhoisRecord
	Geolocate(ctx context.Context, host string) string

	// Remember and Recall carry memos from one detector to later ones in the same probe
	Remember(key string, v any)
	Recall(key string) (any, bool)
}

// Memo keys shared between detectors
const (
	MemoOAIIdentify = "oai_identify_url"
	MemoFeeds       = "feed_urls"
)
