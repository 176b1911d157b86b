package detector

import (
	"context"
	"regexp"
	"strings"

	"oarr/internal/core/register"

	"github.com/PuerkitoBio/goquery"
)

var (
	twitterRx = regexp.MustCompile(`(?i)^https?://(?:www\.|mobile\.)?(?:twitter|x)\.com/(?:#!/)?@?([a-z0-9_]{1,15})(?:[/?#]|$)`)

	// paths on twitter.com that are not accounts
	twitterReserved = map[string]bool{"share": true, "intent": true, "home": true, "search": true}
)

// Twitter takes the first account linked from the home page
type Twitter struct{}

func (Twitter) Name() string { return "Twitter" }

func (Twitter) Detectable(r *register.Register) bool { return hasRepoURL(r) }

func (Twitter) Detect(ctx context.Context, r *register.Register, info Info) error {
	doc := info.Soup(ctx, r.RepoURL())
	if doc == nil {
		return nil
	}
	doc.Find("a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		m := twitterRx.FindStringSubmatch(strings.TrimSpace(s.AttrOr("href", "")))
		if m == nil || twitterReserved[strings.ToLower(m[1])] {
			return true
		}
		r.SetTwitter(m[1], "")
		return false
	})
	return nil
}
