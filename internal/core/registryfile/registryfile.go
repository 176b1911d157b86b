// Package registryfile reads the oarr.json descriptor a repository may publish about itself.
// A valid descriptor is authoritative and replaces heuristic detection
package registryfile

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"

	"oarr/internal/core/detector"
	"oarr/internal/core/register"
	perr "oarr/internal/platform/errors"
	"oarr/internal/platform/logger"

	"github.com/PuerkitoBio/goquery"
)

// DefaultPath is where a descriptor lives when no link advertises one
const DefaultPath = "/oarr.json"

// Rel is the link relation advertising a descriptor
const Rel = "oarr"

// Error carries every message a descriptor failed with
type Error struct {
	Message string
	Errors  []string
	Obj     map[string]any
}

func (e *Error) Error() string {
	if len(e.Errors) == 0 {
		return e.Message
	}
	return e.Message + ": " + strings.Join(e.Errors, "; ")
}

// ObjJSON renders the offending object indented, "" when there is none
func (e *Error) ObjJSON() string {
	if e.Obj == nil {
		return ""
	}
	b, err := json.MarshalIndent(e.Obj, "", "  ")
	if err != nil {
		return ""
	}
	return string(b)
}

// Perr converts the error for the http edge
func (e *Error) Perr() error {
	return perr.Validation(e.Message, e.Errors)
}

// Fetcher is the part of the fetch cache the locator needs
type Fetcher interface {
	Soup(ctx context.Context, url string) *goquery.Document
	URLGet(ctx context.Context, url string) *detector.Response
}

// Locate finds and fetches the descriptor for repoURL: the page's rel="oarr" link first,
// then DefaultPath. It returns nil when neither answers 2xx
func Locate(ctx context.Context, f Fetcher, repoURL string) *detector.Response {
	if doc := f.Soup(ctx, repoURL); doc != nil {
		var href string
		doc.Find("link[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
			for _, tok := range strings.Fields(s.AttrOr("rel", "")) {
				if strings.EqualFold(tok, Rel) {
					href = expandURL(repoURL, s.AttrOr("href", ""))
					return false
				}
			}
			return true
		})
		if href != "" {
			if resp := f.URLGet(ctx, href); resp != nil {
				return resp
			}
		}
	}
	if u := expandURL(repoURL, DefaultPath); u != "" {
		return f.URLGet(ctx, u)
	}
	return nil
}

// Get locates, validates and expands the descriptor for repoURL.
// Nothing found is nil, nil; an invalid descriptor is a *Error
func Get(ctx context.Context, f Fetcher, repoURL string) (*register.Register, error) {
	log := logger.C(ctx)
	resp := Locate(ctx, f, repoURL)
	if resp == nil {
		log.Debug().Str("url", repoURL).Msg("no registry file")
		return nil, nil
	}
	log.Info().Str("url", repoURL).Str("file", resp.URL).Msg("registry file located")

	obj, err := Validate(resp.Body, repoURL)
	if err != nil {
		return nil, err
	}
	return Expand(obj)
}

func expandURL(base, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	b, err := url.Parse(base)
	if err != nil {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return b.ResolveReference(ref).String()
}
