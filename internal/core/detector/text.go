package detector

import (
	"context"
	"strings"

	"oarr/internal/core/normalize"
	"oarr/internal/core/register"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
)

// Title names the repository from the OAI Identify response, its feeds or the page title
type Title struct{}

func (Title) Name() string { return "Title" }

func (Title) Detectable(r *register.Register) bool { return hasRepoURL(r) }

func (Title) Detect(ctx context.Context, r *register.Register, info Info) error {
	if r.Name("") != "" {
		return nil
	}
	c, ok := first(
		text(func() string {
			id, _ := info.Recall(MemoOAIIdentify)
			u, _ := id.(string)
			if u == "" {
				return ""
			}
			if doc := info.XML(ctx, u); doc != nil {
				return xmlText(doc, "repositoryName")
			}
			return ""
		}),
		text(func() string {
			return feedField(ctx, info, register.APIAtom, func(f *gofeed.Feed) string { return f.Title })
		}),
		text(func() string {
			return feedField(ctx, info, register.APIRSS, func(f *gofeed.Feed) string { return f.Title })
		}),
		text(func() string {
			if doc := info.Soup(ctx, r.RepoURL()); doc != nil {
				return normalize.Text(doc.Find("title").First().Text())
			}
			return ""
		}),
	)
	if ok {
		r.SetName(c.Value, "")
	}
	return nil
}

// Description picks a blurb from the page paragraphs, the feeds, or the page tables
type Description struct{}

func (Description) Name() string { return "Description" }

func (Description) Detectable(r *register.Register) bool { return hasRepoURL(r) }

func (Description) Detect(ctx context.Context, r *register.Register, info Info) error {
	if r.Description("") != "" {
		return nil
	}
	doc := info.Soup(ctx, r.RepoURL())
	c, ok := first(
		text(func() string { return longest(doc, "p", r.Name("")) }),
		text(func() string {
			return feedField(ctx, info, register.APIAtom, func(f *gofeed.Feed) string { return f.Description })
		}),
		text(func() string {
			return feedField(ctx, info, register.APIRSS, func(f *gofeed.Feed) string { return f.Description })
		}),
		text(func() string { return longest(doc, "td", "") }),
	)
	if ok {
		r.SetDescription(c.Value, "")
	}
	return nil
}

// feedField reads field from the first remembered feed of the given type
func feedField(ctx context.Context, info Info, feedType string, field func(*gofeed.Feed) string) string {
	v, _ := info.Recall(MemoFeeds)
	urls, _ := v.([]string)
	for _, u := range urls {
		f := info.Feed(ctx, u)
		if f == nil || f.FeedType != feedType {
			continue
		}
		if s := normalize.Text(field(f)); s != "" {
			return s
		}
	}
	return ""
}

// longest returns the longest text among the elements matched by sel, preferring
// elements that mention prefer when it is set
func longest(doc *goquery.Document, sel, prefer string) string {
	if doc == nil {
		return ""
	}
	var best, bestPreferred string
	prefer = normalize.Key(prefer)
	doc.Find(sel).Each(func(_ int, s *goquery.Selection) {
		t := normalize.Text(s.Text())
		if len(t) > len(best) {
			best = t
		}
		if prefer != "" && strings.Contains(normalize.Key(t), prefer) && len(t) > len(bestPreferred) {
			bestPreferred = t
		}
	})
	if bestPreferred != "" {
		return bestPreferred
	}
	return best
}
