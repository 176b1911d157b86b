package probe

import (
	"context"
	"regexp"
	"strings"
	"sync"
	"time"

	"oarr/internal/core/detector"
	"oarr/internal/platform/logger"

	"github.com/likexian/whois"
)

// whoisLabels lists, per field, the labels registries use for it, most specific first
var whoisLabels = []struct {
	field  string
	labels []string
}{
	{"organisation", []string{"Registrant Organization", "Registrant Organisation", "Registered For", "Registrant", "Organisation", "Organization", "org-name", "OrgName"}},
	{"domain", []string{"Domain Name", "Domain", "domain"}},
	{"name", []string{"Registrant Name", "Admin Name", "Tech Name", "Registrant Contact Name", "Registrant Contact", "person", "contact"}},
	{"email", []string{"Registrant Email", "Admin Email", "Tech Email", "Registrant Contact Email", "e-mail", "Email"}},
	{"phone", []string{"Registrant Phone", "Admin Phone", "Tech Phone", "Registrant Contact Phone", "phone"}},
	{"fax", []string{"Registrant Fax", "Admin Fax", "Tech Fax", "fax-no", "Fax"}},
	{"address", []string{"Registrant Street", "Registrant Address", "Registrant's address", "Admin Street", "address", "Address"}},
}

var (
	rxMu    sync.Mutex
	rxCache = map[string][2]*regexp.Regexp{}
)

// labelPatterns returns the multi-line and single-line patterns for label
func labelPatterns(label string) (multi, single *regexp.Regexp) {
	rxMu.Lock()
	defer rxMu.Unlock()
	if p, ok := rxCache[label]; ok {
		return p[0], p[1]
	}
	q := regexp.QuoteMeta(label)
	multi = regexp.MustCompile(`(?mi)^[ \t]*` + q + `:[ \t]*\r?\n((?:[ \t]+\S[^\r\n]*(?:\r?\n|$))+)`)
	single = regexp.MustCompile(`(?mi)^[ \t]*` + q + `:[ \t]*(\S[^\r\n]*)$`)
	rxCache[label] = [2]*regexp.Regexp{multi, single}
	return multi, single
}

// ParseWhois resolves the named fields of a raw WHOIS answer
func ParseWhois(raw string) *detector.WhoisRecord {
	rec := &detector.WhoisRecord{Raw: raw}
	set := map[string]*string{
		"organisation": &rec.Organisation,
		"domain":       &rec.Domain,
		"name":         &rec.Name,
		"email":        &rec.Email,
		"phone":        &rec.Phone,
		"fax":          &rec.Fax,
		"address":      &rec.Address,
	}
	for _, f := range whoisLabels {
		*set[f.field] = findLabel(raw, f.labels)
	}
	return rec
}

// findLabel tries every label in order, the indented block form before the inline form
func findLabel(raw string, labels []string) string {
	for _, l := range labels {
		multi, single := labelPatterns(l)
		if m := multi.FindStringSubmatch(raw); m != nil {
			var parts []string
			for _, line := range strings.Split(m[1], "\n") {
				if s := strings.TrimSpace(line); s != "" {
					parts = append(parts, s)
				}
			}
			if len(parts) > 0 {
				return strings.Join(parts, ", ")
			}
		}
		if m := single.FindStringSubmatch(raw); m != nil {
			if s := strings.TrimSpace(m[1]); s != "" {
				return s
			}
		}
	}
	return ""
}

// Whois looks up and parses the WHOIS record for host
func (i *Info) Whois(ctx context.Context, host string) *detector.WhoisRecord {
	host = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(host)), "www.")
	if host == "" {
		return nil
	}
	return memo(i, keyWhois+host, func() *detector.WhoisRecord {
		raw, err := i.c.whois(ctx, host)
		if err != nil || strings.TrimSpace(raw) == "" {
			logger.C(ctx).Debug().Err(err).Str("host", host).Msg("probe whois failed")
			return nil
		}
		return ParseWhois(raw)
	})
}

// lookupWhois queries the public WHOIS servers. The library has no context support,
// so the call is abandoned rather than cancelled when ctx ends
func lookupWhois(timeout time.Duration) WhoisFunc {
	cl := whois.NewClient().SetTimeout(timeout)
	return func(ctx context.Context, host string) (string, error) {
		type result struct {
			raw string
			err error
		}
		ch := make(chan result, 1)
		go func() {
			raw, err := cl.Whois(host)
			ch <- result{raw, err}
		}()
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case r := <-ch:
			return r.raw, r.err
		}
	}
}
