package register

import (
	"strconv"
	"strings"

	"oarr/internal/core/geo"
)

// Metadata record keys
const (
	KeyCountry        = "country"
	KeyCountryCode    = "country_code"
	KeyContinent      = "continent"
	KeyContinentCode  = "continent_code"
	KeyLanguage       = "language"
	KeyLanguageCode   = "language_code"
	KeyRepositoryType = "repository_type"
	KeyURL            = "url"
	KeyName           = "name"
	KeyDescription    = "description"
	KeyTwitter        = "twitter"
	KeyAcronym        = "acronym"
	KeyEstablished    = "established_date"
	KeySubject        = "subject"
	KeyContentType    = "content_type"
	KeyCertification  = "certification"
)

// DefaultLang is used when a write names no language and no entry exists yet
const DefaultLang = "en"

// entry returns the metadata entry for lang, or the default entry when lang is "".
// It does not fall back across languages
func (r *Register) entry(lang string) *Metadata {
	for i := range r.metadata {
		if lang == "" && r.metadata[i].Default {
			return &r.metadata[i]
		}
		if lang != "" && r.metadata[i].Lang == lang {
			return &r.metadata[i]
		}
	}
	return nil
}

// lookup is entry with the default fallback used by every read
func (r *Register) lookup(lang string) *Metadata {
	if e := r.entry(lang); e != nil {
		return e
	}
	return r.entry("")
}

// ensure returns the entry for lang, creating it when missing.
// The first entry ever created becomes the default
func (r *Register) ensure(lang string) *Metadata {
	if e := r.entry(lang); e != nil {
		return e
	}
	if lang == "" {
		lang = DefaultLang
		if e := r.entry(lang); e != nil {
			return e
		}
	}
	r.metadata = append(r.metadata, Metadata{
		Lang:    lang,
		Default: len(r.metadata) == 0,
		Record:  map[string]any{},
	})
	return &r.metadata[len(r.metadata)-1]
}

// MetadataValue reads key from the lang entry, falling back to the default entry
// when lang has no entry. lang "" reads the default entry
func (r *Register) MetadataValue(key, lang string) any {
	e := r.lookup(lang)
	if e == nil {
		return nil
	}
	return copyValue(e.Record[key])
}

// SetMetadataValue writes key on the lang entry, creating the entry if needed
func (r *Register) SetMetadataValue(key string, value any, lang string) {
	e := r.ensure(lang)
	if e.Record == nil {
		e.Record = map[string]any{}
	}
	e.Record[key] = copyValue(value)
}

// Metadata returns a copy of the record for lang, falling back to the default
func (r *Register) Metadata(lang string) map[string]any {
	e := r.lookup(lang)
	if e == nil {
		return nil
	}
	return copyMap(e.Record)
}

// MetadataEntries returns a copy of all entries in order
func (r *Register) MetadataEntries() []Metadata {
	out := make([]Metadata, len(r.metadata))
	for i, m := range r.metadata {
		out[i] = Metadata{Lang: m.Lang, Default: m.Default, Record: copyMap(m.Record)}
	}
	return out
}

// DefaultLanguage is the lang of the default entry, "" when there are no entries
func (r *Register) DefaultLanguage() string {
	if e := r.entry(""); e != nil {
		return e.Lang
	}
	return ""
}

func (r *Register) metaString(key, lang string) string {
	switch v := r.MetadataValue(key, lang).(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return ""
}

func (r *Register) metaStrings(key, lang string) []string {
	return toStrings(r.MetadataValue(key, lang))
}

// appendUnique adds v to the list at key unless it is already present
func (r *Register) appendUnique(key, v, lang string) bool {
	e := r.ensure(lang)
	cur := toStrings(e.Record[key])
	for _, x := range cur {
		if x == v {
			return false
		}
	}
	e.Record[key] = append(cur, v)
	return true
}

// Name is the repository name
func (r *Register) Name(lang string) string { return r.metaString(KeyName, lang) }

// SetName sets the repository name
func (r *Register) SetName(v, lang string) { r.SetMetadataValue(KeyName, v, lang) }

// Description is the repository description
func (r *Register) Description(lang string) string { return r.metaString(KeyDescription, lang) }

// SetDescription sets the repository description
func (r *Register) SetDescription(v, lang string) { r.SetMetadataValue(KeyDescription, v, lang) }

// URL is the repository home page as recorded in metadata
func (r *Register) URL(lang string) string { return r.metaString(KeyURL, lang) }

// SetURL sets the repository home page
func (r *Register) SetURL(v, lang string) { r.SetMetadataValue(KeyURL, v, lang) }

// Twitter is the twitter handle
func (r *Register) Twitter(lang string) string { return r.metaString(KeyTwitter, lang) }

// SetTwitter sets the twitter handle
func (r *Register) SetTwitter(v, lang string) { r.SetMetadataValue(KeyTwitter, v, lang) }

// Acronym is the repository acronym
func (r *Register) Acronym(lang string) string { return r.metaString(KeyAcronym, lang) }

// EstablishedDate is the establishment year as text
func (r *Register) EstablishedDate(lang string) string { return r.metaString(KeyEstablished, lang) }

// Country is the country name
func (r *Register) Country(lang string) string { return r.metaString(KeyCountry, lang) }

// CountryCode is the ISO 3166-1 code
func (r *Register) CountryCode(lang string) string { return r.metaString(KeyCountryCode, lang) }

// Continent is the continent name
func (r *Register) Continent(lang string) string { return r.metaString(KeyContinent, lang) }

// ContinentCode is the two letter continent code
func (r *Register) ContinentCode(lang string) string { return r.metaString(KeyContinentCode, lang) }

// Languages are the content language names
func (r *Register) Languages(lang string) []string { return r.metaStrings(KeyLanguage, lang) }

// LanguageCodes are the ISO 639-1 content language codes
func (r *Register) LanguageCodes(lang string) []string { return r.metaStrings(KeyLanguageCode, lang) }

// RepositoryTypes lists the repository classifications
func (r *Register) RepositoryTypes(lang string) []string {
	return r.metaStrings(KeyRepositoryType, lang)
}

// AddLanguage records a content language by name and code, skipping values already present
func (r *Register) AddLanguage(name, code, lang string) {
	if name != "" {
		r.appendUnique(KeyLanguage, name, lang)
	}
	if code != "" {
		r.appendUnique(KeyLanguageCode, strings.ToLower(code), lang)
	}
}

// AddRepositoryType records a classification, skipping values already present
func (r *Register) AddRepositoryType(t, lang string) { r.appendUnique(KeyRepositoryType, t, lang) }

// SetCountry accepts a country name or ISO code and records both halves plus the continent.
// Unresolvable input is ignored
func (r *Register) SetCountry(nameOrCode, lang string) bool {
	c, ok := geo.ResolveCountry(nameOrCode)
	if !ok {
		return false
	}
	e := r.ensure(lang)
	name := geo.LocalisedTerritory(c.Code, e.Lang)
	if name == "" {
		name = c.Name
	}
	r.SetMetadataValue(KeyCountryCode, c.Code, e.Lang)
	r.SetMetadataValue(KeyCountry, name, e.Lang)
	r.SetContinent(c.ContinentCode, e.Lang)
	return true
}

// SetContinent accepts a continent name or code and records both halves.
// Unresolvable input is ignored
func (r *Register) SetContinent(nameOrCode, lang string) bool {
	c, ok := geo.ResolveContinent(nameOrCode)
	if !ok {
		return false
	}
	e := r.ensure(lang)
	r.SetMetadataValue(KeyContinentCode, c.Code, e.Lang)
	r.SetMetadataValue(KeyContinent, c.Name, e.Lang)
	return true
}

func toStrings(v any) []string {
	switch x := v.(type) {
	case []string:
		return append([]string(nil), x...)
	case []any:
		out := make([]string, 0, len(x))
		for _, e := range x {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		if x == "" {
			return nil
		}
		return []string{x}
	}
	return nil
}
