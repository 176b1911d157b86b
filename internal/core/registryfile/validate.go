package registryfile

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"oarr/internal/core/geo"
	"oarr/internal/core/schema"
	ptime "oarr/internal/platform/time"

	"github.com/go-playground/validator/v10"
)

var fileSchema = &schema.Schema{
	Fields:  []string{"last_updated"},
	Objects: []string{"register"},
}

var registerSchema = &schema.Schema{
	Fields: []string{"operational_status", "replaces"},
	Lists:  []string{"metadata", "software", "contact", "organisation", "policy", "api", "integration"},
	ListEntries: map[string]*schema.Schema{
		"metadata": {
			Bools:   []string{"default"},
			Fields:  []string{"lang"},
			Objects: []string{"record"},
			ObjectEntries: map[string]*schema.Schema{
				"record": {
					Fields: []string{"country_code", "twitter", "acronym", "description", "established_date", "name", "url"},
					Lists:  []string{"language_code", "subject", "repository_type", "certification", "content_type"},
					ListEntries: map[string]*schema.Schema{
						"subject": {Fields: []string{"scheme", "term", "code"}},
					},
				},
			},
		},
		"software": {Fields: []string{"name", "version", "url"}},
		"contact": {
			Lists:   []string{"role"},
			Objects: []string{"details"},
			ObjectEntries: map[string]*schema.Schema{
				"details": {Fields: []string{"name", "email", "address", "fax", "phone", "lat", "lon", "job_title"}},
			},
		},
		"organisation": {
			Lists:   []string{"role"},
			Objects: []string{"details"},
			ObjectEntries: map[string]*schema.Schema{
				"details": {Fields: []string{"name", "acronym", "url", "unit", "unit_acronym", "unit_url", "country_code", "lat", "lon"}},
			},
		},
		"policy": {
			Fields: []string{"policy_type", "description"},
			Lists:  []string{"terms"},
		},
		"api": {
			Fields: []string{"api_type", "version", "base_url"},
			Bools:  []string{"authorisation"},
			Lists:  []string{"metadata_formats", "accepts", "accept_packaging"},
			ListEntries: map[string]*schema.Schema{
				"metadata_formats": {Fields: []string{"prefix", "namespace", "schema"}},
			},
		},
		"integration": {Fields: []string{"integrated_with", "nature", "url", "software", "version"}},
	},
}

// operationalStatuses are the statuses a descriptor may claim
var operationalStatuses = []string{"Trial", "Operational"}

// earliestRepository is the year at or before which no digital repository is believed to exist
const earliestRepository = 1970

var validate = validator.New()

// Validate parses content and checks its shape, then its content.
// source names where the content came from in the parse error
func Validate(content []byte, source string) (map[string]any, error) {
	var obj map[string]any
	if err := json.Unmarshal(content, &obj); err != nil || obj == nil {
		return nil, &Error{Message: "error reading file", Errors: []string{"OARR file did not parse as JSON from " + source}}
	}

	msgs := schema.Validate(obj, fileSchema)
	if reg, ok := obj["register"].(map[string]any); ok {
		msgs = append(msgs, schema.Validate(reg, registerSchema)...)
	}
	if len(msgs) > 0 {
		return nil, &Error{Message: "error validating file", Errors: msgs, Obj: obj}
	}

	if msgs := contentErrors(obj); len(msgs) > 0 {
		return nil, &Error{Message: "error validating file", Errors: msgs, Obj: obj}
	}
	return obj, nil
}

// contentErrors applies the content rules to a shape-valid descriptor
func contentErrors(obj map[string]any) []string {
	var msgs []string
	add := func(format string, a ...any) { msgs = append(msgs, fmt.Sprintf(format, a...)) }

	if lu, ok := obj["last_updated"]; ok && lu != nil {
		s, _ := lu.(string)
		if _, err := ptime.ParseISO(s); err != nil {
			add("last updated date is not of the form YYYY-mm-ddTHH:MM:SSZ : %s", str(lu))
		}
	}

	reg, _ := obj["register"].(map[string]any)
	if len(reg) == 0 {
		add("No register object in the registry file")
		return msgs
	}

	if v := reg["replaces"]; v != nil {
		if !strings.HasPrefix(str(v), "info:oarr:") {
			add("identifier for object being replaced must take the form of the info uri (info:oarr:<identifier>) %s", str(v))
		}
	}

	if v := reg["operational_status"]; v != nil {
		if !contains(operationalStatuses, str(v)) {
			add("operational_status must be one of ['%s'] but is %s", strings.Join(operationalStatuses, "', '"), str(v))
		}
	}

	mds := objects(reg, "metadata")
	var langs []string
	seenDefault := false
	for _, md := range mds {
		if lang := md["lang"]; lang == nil {
			add("lang for metadata record must be set")
		} else if contains(langs, str(lang)) {
			add("lang %s is repeated in list of metadata records", str(lang))
		} else {
			langs = append(langs, str(lang))
		}

		if d, _ := md["default"].(bool); d && seenDefault {
			add("Two or more metadata records are marked as default")
		} else if d {
			seenDefault = true
		}
	}
	if !seenDefault && len(mds) > 0 {
		add("There is no metadata record which is marked as the default")
	}

	for _, md := range mds {
		if lang := md["lang"]; lang != nil && !geo.IsLanguageCode(strings.ToLower(str(lang))) {
			add("metadata record language %s is not recognised as an iso-639-1 language code", str(lang))
		}

		record, _ := md["record"].(map[string]any)
		if len(record) == 0 {
			add("No record entry in the metadata object, or record entry is empty")
			continue
		}

		if cc := record["country_code"]; cc != nil && !isCountryCode(cc) {
			add("country code %s is not recognised as an iso-3166-1 country code", str(cc))
		}

		if ed := record["established_date"]; ed != nil {
			year, ok := asYear(ed)
			now := ptime.Now().Year()
			switch {
			case !ok:
				add("established date %s is not a number; should be a 4 digit year", str(ed))
			case year >= now:
				add("established date %d is in the future", year)
			case year <= earliestRepository:
				add("established date %d is too far in the past", year)
			}
		}

		for _, lc := range scalars(record, "language_code") {
			if !geo.IsLanguageCode(strings.ToLower(str(lc))) {
				add("content language %s is not recognised as an iso-639-1 language code", str(lc))
			}
		}

		u := record["url"]
		if u != nil {
			msgs = append(msgs, urlErrors(str(u))...)
		}
		if d, _ := md["default"].(bool); d && u == nil {
			add("default metadata record does not contain the repository url")
		}
	}

	for _, sw := range objects(reg, "software") {
		if name := sw["name"]; name == nil || str(name) == "" {
			add("the name of the software is not present")
		}
		if u := sw["url"]; u != nil {
			msgs = append(msgs, urlErrors(str(u))...)
		}
	}

	for _, c := range objects(reg, "contact") {
		details, _ := c["details"].(map[string]any)
		if len(details) == 0 {
			add("contact does not contain a details object, or details object is empty")
			continue
		}
		msgs = append(msgs, coordErrors("contact", details)...)
	}

	for _, o := range objects(reg, "organisation") {
		details, _ := o["details"].(map[string]any)
		if len(details) == 0 {
			add("organisation does not contain a details object or details object is empty")
			continue
		}
		for _, k := range []string{"url", "unit_url"} {
			if u := details[k]; u != nil {
				msgs = append(msgs, urlErrors(str(u))...)
			}
		}
		if cc := details["country_code"]; cc != nil && !isCountryCode(cc) {
			add("in organisation, country code %s is not recognised as an iso-3166-1 country code", str(cc))
		}
		msgs = append(msgs, coordErrors("organisation", details)...)
	}

	for _, p := range objects(reg, "policy") {
		if len(scalars(p, "terms")) == 0 {
			add("policy must contain one or more policy terms")
		}
		if p["policy_type"] == nil {
			add("policy must specify a policy type")
		}
	}

	for _, a := range objects(reg, "api") {
		apiType := ""
		if t := a["api_type"]; t == nil {
			add("api entry must specify a type")
		} else {
			apiType = str(t)
		}
		if u := a["base_url"]; u == nil {
			add("api entry must specify a base url")
		} else {
			msgs = append(msgs, urlErrors(str(u))...)
		}

		formats := objects(a, "metadata_formats")
		if apiType == "oai-pmh" {
			for _, mf := range formats {
				if mf["prefix"] == nil {
					add("metadata_format must contain the prefix")
				}
			}
		} else if len(formats) > 0 {
			add("metadata_format can only be present for apis of type oai-pmh")
		}

		if apiType != "sword" && len(scalars(a, "accepts")) > 0 {
			add("accepts can only be present for apis of type sword")
		}
		if apiType != "sword" && len(scalars(a, "accept_packaging")) > 0 {
			add("accept_packaging can only be present for apis of type sword")
		}
	}

	for _, in := range objects(reg, "integration") {
		if in["integrated_with"] == nil {
			add("integration section must specify integrated_with")
		}
		if u := in["url"]; u != nil {
			msgs = append(msgs, urlErrors(str(u))...)
		}
	}

	return msgs
}

// urlErrors is a plausibility check only: a scheme and a dotted host
func urlErrors(raw string) []string {
	u, err := url.Parse(raw)
	if err != nil {
		return []string{"unable to parse url: " + raw}
	}
	var out []string
	if u.Scheme == "" {
		out = append(out, "url does not contain a scheme (e.g. http or https): "+raw)
	}
	if !strings.Contains(u.Host, ".") {
		out = append(out, "url domain does not look complete "+raw)
	}
	return out
}

// coordErrors checks that lat and lon come as a numeric, in-range pair
func coordErrors(who string, details map[string]any) []string {
	lat, lon := details["lat"], details["lon"]
	if (lat == nil) != (lon == nil) {
		return []string{who + "'s latitude and longitude must both be specified"}
	}
	if lat == nil {
		return nil
	}
	var out []string
	for _, c := range []struct {
		v      any
		name   string
		tag    string
		bounds string
	}{
		{lat, "latitude", "latitude", "-90 -> 90"},
		{lon, "longitude", "longitude", "-180 -> 180"},
	} {
		f, ok := asFloat(c.v)
		if !ok {
			out = append(out, fmt.Sprintf("%s's %s is not numeric: %s", who, c.name, str(c.v)))
			continue
		}
		if validate.Var(f, c.tag) != nil {
			out = append(out, fmt.Sprintf("%s's %s is outside the allowable range (%s): %s", who, c.name, c.bounds, str(c.v)))
		}
	}
	return out
}

func isCountryCode(v any) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	return validate.Var(strings.ToUpper(strings.TrimSpace(s)), "required,iso3166_1_alpha2") == nil
}

func asFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		return f, err == nil
	}
	return 0, false
}

// asYear accepts a whole number or a string holding one
func asYear(v any) (int, bool) {
	switch x := v.(type) {
	case float64:
		return int(x), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(x))
		return n, err == nil
	}
	return 0, false
}

// objects returns the object members of the list under key, skipping anything else
func objects(m map[string]any, key string) []map[string]any {
	list, _ := m[key].([]any)
	out := make([]map[string]any, 0, len(list))
	for _, e := range list {
		if o, ok := e.(map[string]any); ok {
			out = append(out, o)
		}
	}
	return out
}

func scalars(m map[string]any, key string) []any {
	list, _ := m[key].([]any)
	return list
}

// str renders a decoded JSON scalar for messages
func str(v any) string {
	switch x := v.(type) {
	case nil:
		return "None"
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}

func contains(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}
