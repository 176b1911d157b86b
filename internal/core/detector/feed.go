package detector

import (
	"context"
	"strings"

	"oarr/internal/core/register"

	"github.com/PuerkitoBio/goquery"
)

var feedTypes = map[string]bool{
	"application/rss+xml":  true,
	"application/atom+xml": true,
}

// Feed finds RSS and Atom feeds advertised or linked from the home page
type Feed struct{}

func (Feed) Name() string { return "Feed" }

func (Feed) Detectable(r *register.Register) bool { return hasRepoURL(r) }

func (Feed) Detect(ctx context.Context, r *register.Register, info Info) error {
	home := r.RepoURL()
	doc := info.Soup(ctx, home)
	if doc == nil {
		return nil
	}

	var cands []string
	seen := map[string]bool{}
	add := func(href string) {
		if u := resolve(home, href); u != "" && !seen[u] {
			seen[u] = true
			cands = append(cands, u)
		}
	}
	doc.Find("link[href]").Each(func(_ int, s *goquery.Selection) {
		if relHas(s, "alternate") && feedTypes[strings.ToLower(s.AttrOr("type", ""))] {
			add(s.AttrOr("href", ""))
		}
	})
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		t := strings.ToLower(s.Text())
		if strings.Contains(t, "rss") || strings.Contains(t, "atom") {
			add(s.AttrOr("href", ""))
		}
	})

	var parsed []string
	for _, u := range cands {
		f := info.Feed(ctx, u)
		if f == nil || (f.FeedType != register.APIRSS && f.FeedType != register.APIAtom) {
			continue
		}
		parsed = append(parsed, u)
		r.AddAPI(register.API{APIType: f.FeedType, Version: f.FeedVersion, BaseURL: u})
	}
	if len(parsed) > 0 {
		info.Remember(MemoFeeds, parsed)
	}
	return nil
}

// relHas reports whether the space separated rel attribute carries want, ignoring case
func relHas(s *goquery.Selection, want string) bool {
	for _, tok := range strings.Fields(s.AttrOr("rel", "")) {
		if strings.EqualFold(tok, want) {
			return true
		}
	}
	return false
}
