package detector

import (
	"context"
	"strings"

	"oarr/internal/core/register"
)

// Organisation records the WHOIS registrant as the hosting organisation
type Organisation struct{}

func (Organisation) Name() string { return "Organisation" }

func (Organisation) Detectable(r *register.Register) bool { return hasRepoURL(r) }

func (Organisation) Detect(ctx context.Context, r *register.Register, info Info) error {
	w := info.Whois(ctx, bareHost(r.RepoURL()))
	if w == nil || (w.Organisation == "" && w.Domain == "") {
		return nil
	}
	details := map[string]any{}
	if w.Organisation != "" {
		details["name"] = w.Organisation
	}
	if w.Domain != "" {
		details["url"] = "http://" + strings.ToLower(w.Domain)
	}
	r.AddOrganisation(register.RoleHost, details)
	return nil
}

// TechnicalContact records the WHOIS contact when any of its fields resolved
type TechnicalContact struct{}

func (TechnicalContact) Name() string { return "Technical Contact" }

func (TechnicalContact) Detectable(r *register.Register) bool { return hasRepoURL(r) }

func (TechnicalContact) Detect(ctx context.Context, r *register.Register, info Info) error {
	details := info.Whois(ctx, bareHost(r.RepoURL())).Contact()
	if len(details) == 0 {
		return nil
	}
	r.AddContact(register.RoleTechnical, details)
	return nil
}
