package detector

import (
	"context"
	"net/http"
	"strings"

	"oarr/internal/core/register"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/xmlquery"
)

// Link relations advertising a SWORD service document
const (
	RelSwordV1 = "sword"
	RelSwordV2 = "http://purl.org/net/sword/discovery/service-document"
)

// SwordPaths are the service document locations tried after the home page links
var SwordPaths = []string{
	"/sword-app/servicedocument",
	"/sword/servicedocument",
	"/sword2/servicedocument",
	"/swordv2/servicedocument",
	"/sword-app/sd-uri",
}

// Sword finds a SWORD deposit endpoint
type Sword struct{}

func (Sword) Name() string { return "Sword" }

func (Sword) Detectable(r *register.Register) bool { return hasRepoURL(r) }

func (Sword) Detect(ctx context.Context, r *register.Register, info Info) error {
	home := r.RepoURL()
	if doc := info.Soup(ctx, home); doc != nil {
		var api *register.API
		doc.Find("link[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
			rel := strings.TrimSpace(s.AttrOr("rel", ""))
			var version string
			switch {
			case rel == RelSwordV2:
				version = "2.0"
			case strings.EqualFold(rel, RelSwordV1):
				version = "1.3"
			default:
				return true
			}
			api = &register.API{APIType: register.APISword, Version: version, BaseURL: resolve(home, s.AttrOr("href", ""))}
			return false
		})
		if api != nil && api.BaseURL != "" {
			r.AddAPI(*api)
			return nil
		}
	}

	origin := originOf(home)
	for _, p := range SwordPaths {
		u := origin + p
		resp := info.URLGetStatus(ctx, u)
		if resp == nil {
			continue
		}
		locked := resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden
		if resp.StatusCode != http.StatusOK && !locked {
			continue
		}
		api := register.API{
			APIType:       register.APISword,
			Version:       swordVersion(p, r),
			BaseURL:       u,
			Authenticated: &locked,
		}
		if !locked {
			if doc := info.XML(ctx, u); doc != nil {
				for _, n := range xmlquery.Find(doc, "//*[local-name()='accept']") {
					api.Accepts = appendText(api.Accepts, n)
				}
				for _, n := range xmlquery.Find(doc, "//*[local-name()='acceptPackaging']") {
					api.AcceptPackaging = appendText(api.AcceptPackaging, n)
				}
			}
		}
		r.AddAPI(api)
		return nil
	}
	return nil
}

// swordVersion reads the version off the path, asking the detected software when the path is ambiguous
func swordVersion(path string, r *register.Register) string {
	switch {
	case strings.Contains(path, "sword2"), strings.Contains(path, "swordv2"), strings.Contains(path, "sd-uri"):
		return "2.0"
	case strings.HasPrefix(path, "/sword/"):
		return "1.3"
	}
	for _, s := range r.Software() {
		switch {
		case strings.EqualFold(s.Name, "EPrints") && versionAtLeast(s.Version, 3, 3):
			return "2.0"
		case strings.EqualFold(s.Name, "DSpace") && versionAtLeast(s.Version, 1, 8):
			return "2.0"
		}
	}
	return "1.3"
}

func appendText(list []string, n *xmlquery.Node) []string {
	if t := strings.TrimSpace(n.InnerText()); t != "" {
		return append(list, t)
	}
	return list
}
