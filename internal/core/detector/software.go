package detector

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"oarr/internal/core/register"

	"github.com/PuerkitoBio/goquery"
)

// platform describes how one repository platform gives itself away
type platform struct {
	name      string
	url       string
	generator *regexp.Regexp // first group is the version
	fragments []string       // goquery selectors only this platform renders
	urlHints  []string
	mention   *regexp.Regexp
}

var platforms = []platform{
	{
		name:      "DSpace",
		url:       "http://www.dspace.org/",
		generator: regexp.MustCompile(`(?i)^\s*dspace\s*v?([0-9][0-9.]*)?`),
		fragments: []string{
			`a[href*="/help/index.html"]`,
			`link[type="application/opensearchdescription+xml"][title*="DSpace"]`,
		},
		urlHints: []string{"dspace", "jspui", "xmlui"},
		mention:  regexp.MustCompile(`(?i)\bdspace\b`),
	},
	{
		name:      "EPrints",
		url:       "http://www.eprints.org/",
		generator: regexp.MustCompile(`(?i)^\s*eprints\s*v?([0-9][0-9.]*)?`),
		fragments: []string{
			`a[href*="eprints.org/software"]`,
			`link[type="application/opensearchdescription+xml"][title*="EPrints"]`,
		},
		urlHints: []string{"eprints"},
		mention:  regexp.MustCompile(`(?i)\beprints\b`),
	},
}

// Software fingerprints the repository platform
type Software struct{}

func (Software) Name() string { return "Software" }

func (Software) Detectable(r *register.Register) bool { return hasRepoURL(r) }

func (Software) Detect(ctx context.Context, r *register.Register, info Info) error {
	doc := info.Soup(ctx, r.RepoURL())
	prints := make([]Fingerprint, len(platforms))
	for i, p := range platforms {
		prints[i] = p.fingerprint(r.RepoURL(), doc)
	}
	if c, ok := Choose(AcceptAt, FloorAt, prints...); ok {
		r.AddSoftware(c.Value, c.Version, c.URL, c.Confidence)
	}
	return nil
}

// fingerprint checks the signals strongest first and stops at the first that fires
func (p platform) fingerprint(repoURL string, doc *goquery.Document) Fingerprint {
	return func() (Candidate, bool) {
		c := Candidate{Value: p.name, URL: p.url}
		if doc != nil {
			var version string
			hit := false
			doc.Find(`meta[name]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
				if !strings.EqualFold(s.AttrOr("name", ""), "generator") {
					return true
				}
				if m := p.generator.FindStringSubmatch(s.AttrOr("content", "")); m != nil {
					version, hit = strings.TrimRight(m[1], "."), true
					return false
				}
				return true
			})
			if hit {
				c.Version, c.Confidence = version, 1.0
				return c, true
			}
			for _, sel := range p.fragments {
				if doc.Find(sel).Length() > 0 {
					c.Confidence = 1.0
					return c, true
				}
			}
		}
		lower := strings.ToLower(repoURL)
		for _, h := range p.urlHints {
			if strings.Contains(lower, h) {
				c.Confidence = 0.9
				return c, true
			}
		}
		if doc != nil && p.mention.MatchString(doc.Text()) {
			c.Confidence = 0.5
			return c, true
		}
		return Candidate{}, false
	}
}

// versionAtLeast compares a dotted version with the given minimum parts.
// Missing or non-numeric parts count as zero
func versionAtLeast(v string, min ...int) bool {
	parts := strings.Split(v, ".")
	for i, want := range min {
		got := 0
		if i < len(parts) {
			got, _ = strconv.Atoi(parts[i])
		}
		if got != want {
			return got > want
		}
	}
	return true
}
