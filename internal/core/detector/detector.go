// Package detector infers repository facts from a seed URL.
// Each detector reads signals through Info and writes what it finds into the register;
// a missing signal is not an error
package detector

import (
	"context"
	"net/url"
	"strings"

	"oarr/internal/core/register"
)

// Detector is one inference step of a probe
type Detector interface {
	Name() string
	// Detectable reports whether the register holds what Detect needs
	Detectable(r *register.Register) bool
	Detect(ctx context.Context, r *register.Register, info Info) error
}

// Default returns the detectors in the order a probe runs them.
// Later detectors depend on facts and memos earlier ones leave behind
func Default() []Detector {
	return []Detector{
		OperationalStatus{},
		Country{},
		Continent{},
		Language{},
		RepositoryType{},
		Software{},
		Organisation{},
		Feed{},
		OAIPMH{},
		Sword{},
		OpenSearch{},
		Title{},
		Description{},
		Twitter{},
		TechnicalContact{},
	}
}

// hasRepoURL is the usual Detectable test
func hasRepoURL(r *register.Register) bool { return r.RepoURL() != "" }

// hostOf returns the lower-cased host of raw without any port
func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

// bareHost strips a leading www. for WHOIS lookups
func bareHost(raw string) string {
	return strings.TrimPrefix(hostOf(raw), "www.")
}

// originOf returns scheme://host[:port] of raw
func originOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return strings.TrimRight(raw, "/")
	}
	return u.Scheme + "://" + u.Host
}

// resolve expands href against base; an unparsable href yields ""
func resolve(base, href string) string {
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
