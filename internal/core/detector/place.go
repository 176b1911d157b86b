package detector

import (
	"context"
	"strings"

	"oarr/internal/core/geo"
	"oarr/internal/core/register"
)

// Country reads the country from the TLD, falling back to geolocating the host
type Country struct{}

func (Country) Name() string { return "Country" }

func (Country) Detectable(r *register.Register) bool { return hasRepoURL(r) }

func (Country) Detect(ctx context.Context, r *register.Register, info Info) error {
	host := hostOf(r.RepoURL())
	if host == "" {
		return nil
	}
	labels := strings.Split(host, ".")
	if cc, ok := geo.CountryForTLD(labels[len(labels)-1]); ok {
		r.SetCountry(cc, "")
		return nil
	}
	if code := info.Geolocate(ctx, host); code != "" {
		if cc, ok := geo.CountryForTLD(code); ok {
			r.SetCountry(cc, "")
		}
	}
	return nil
}

// Continent fills the continent from the country code
type Continent struct{}

func (Continent) Name() string { return "Continent" }

func (Continent) Detectable(r *register.Register) bool { return r.CountryCode("") != "" }

func (Continent) Detect(_ context.Context, r *register.Register, _ Info) error {
	if c, ok := geo.ContinentOf(r.CountryCode("")); ok {
		r.SetContinent(c.Code, "")
	}
	return nil
}

// Language takes the Content-Language of the home page, or the languages of the country
type Language struct{}

func (Language) Name() string { return "Language" }

func (Language) Detectable(r *register.Register) bool {
	return hasRepoURL(r) || r.CountryCode("") != ""
}

func (Language) Detect(ctx context.Context, r *register.Register, info Info) error {
	if hasRepoURL(r) {
		if resp := info.URLGet(ctx, r.RepoURL()); resp != nil {
			tok, _, _ := strings.Cut(resp.Header.Get("Content-Language"), ",")
			if code, ok := geo.ParseLanguage(tok); ok {
				r.AddLanguage(geo.LanguageName(code), code, "")
				return nil
			}
		}
	}
	for _, code := range geo.SpokenLanguages(r.CountryCode("")) {
		r.AddLanguage(geo.LanguageName(code), code, "")
	}
	return nil
}

var (
	institutionalSuffixes = []string{".ac.uk", ".edu"}
	governmentalSuffixes  = []string{".gov.uk", ".gov"}
	weakSuffixes          = []string{".org", ".com", ".info", ".net"}
)

// RepositoryType classifies the host by domain suffix, defaulting to Institutional
type RepositoryType struct{}

func (RepositoryType) Name() string { return "Repository Type" }

func (RepositoryType) Detectable(r *register.Register) bool { return hasRepoURL(r) }

func (RepositoryType) Detect(_ context.Context, r *register.Register, _ Info) error {
	host := hostOf(r.RepoURL())
	matched := false
	add := func(t string) {
		r.AddRepositoryType(t, "")
		matched = true
	}
	if hasSuffix(host, institutionalSuffixes...) || strings.Contains(host, ".edu.") {
		add(register.TypeInstitutional)
	}
	if hasSuffix(host, governmentalSuffixes...) || strings.Contains(host, ".gov.") {
		add(register.TypeGovernmental)
	}
	// the weak list cannot tell aggregators from subject repositories, so both go in
	if hasSuffix(host, weakSuffixes...) {
		add(register.TypeAggregating)
		add(register.TypeDisciplinary)
	}
	if !matched {
		r.AddRepositoryType(register.TypeInstitutional, "")
	}
	return nil
}

func hasSuffix(s string, suffixes ...string) bool {
	for _, x := range suffixes {
		if strings.HasSuffix(s, x) {
			return true
		}
	}
	return false
}
