package registryfile

import (
	"strings"

	"oarr/internal/core/geo"
	"oarr/internal/core/register"
)

// Expand normalises a validated descriptor in place and builds the record from it:
// codes are case-folded, country, continent and language names are filled in
// for each metadata entry in that entry's language, and organisations get their
// country in English
func Expand(obj map[string]any) (*register.Register, error) {
	reg, _ := obj["register"].(map[string]any)
	if reg == nil {
		reg = map[string]any{}
		obj["register"] = reg
	}

	for _, md := range objects(reg, "metadata") {
		lang := register.DefaultLang
		if v := md["lang"]; v != nil {
			lang = strings.ToLower(str(v))
		}
		md["lang"] = lang

		record, _ := md["record"].(map[string]any)
		if record == nil {
			record = map[string]any{}
			md["record"] = record
		}
		if v := record["country_code"]; v != nil {
			cc := strings.ToUpper(str(v))
			record["country_code"] = cc
			if name := geo.LocalisedTerritory(cc, lang); name != "" {
				record["country"] = name
			}
			if c, ok := geo.ContinentOf(cc); ok {
				record["continent_code"] = c.Code
				record["continent"] = c.Name
			}
		}

		codes := []any{}
		names := []any{}
		for _, v := range scalars(record, "language_code") {
			code := strings.ToLower(str(v))
			codes = append(codes, code)
			names = append(names, geo.LocalisedLanguage(code, lang))
		}
		record["language_code"] = codes
		record["language"] = names
	}

	for _, o := range objects(reg, "organisation") {
		details, _ := o["details"].(map[string]any)
		if details == nil {
			continue
		}
		if v := details["country_code"]; v != nil {
			cc := strings.ToUpper(str(v))
			details["country_code"] = cc
			if name := geo.LocalisedTerritory(cc, "en"); name != "" {
				details["country"] = name
			}
		}
	}

	// typed record fields accept numbers in a descriptor
	stringify(obj, "last_updated")
	stringify(reg, "operational_status", "replaces")
	for _, s := range objects(reg, "software") {
		stringify(s, "name", "version", "url")
	}
	for _, a := range objects(reg, "api") {
		stringify(a, "api_type", "version", "base_url")
		for _, mf := range objects(a, "metadata_formats") {
			stringify(mf, "prefix", "namespace", "schema")
		}
	}

	return register.FromRaw(obj)
}

func stringify(m map[string]any, keys ...string) {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			m[k] = str(v)
		}
	}
}
