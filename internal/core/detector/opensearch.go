package detector

import (
	"context"
	"strings"

	"oarr/internal/core/register"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/xmlquery"
)

var openSearchVersions = map[string]string{
	"http://a9.com/-/spec/opensearch/1.1/":            "1.1",
	"http://a9.com/-/spec/opensearchdescription/1.0/": "1.0",
}

// OpenSearch follows the home page search link to an OpenSearch description document
type OpenSearch struct{}

func (OpenSearch) Name() string { return "OpenSearch" }

func (OpenSearch) Detectable(r *register.Register) bool { return hasRepoURL(r) }

func (OpenSearch) Detect(ctx context.Context, r *register.Register, info Info) error {
	doc := info.Soup(ctx, r.RepoURL())
	if doc == nil {
		return nil
	}
	var href string
	doc.Find("link[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if relHas(s, "search") && strings.EqualFold(s.AttrOr("type", ""), "application/opensearchdescription+xml") {
			href = resolve(r.RepoURL(), s.AttrOr("href", ""))
			return false
		}
		return true
	})
	if href == "" {
		return nil
	}
	desc := info.XML(ctx, href)
	if desc == nil {
		return nil
	}
	root := xmlquery.FindOne(desc, "/*[local-name()='OpenSearchDescription']")
	if root == nil {
		return nil
	}
	r.AddAPI(register.API{
		APIType: register.APIOpenSearch,
		Version: openSearchVersions[root.NamespaceURI],
		BaseURL: href,
	})
	return nil
}
