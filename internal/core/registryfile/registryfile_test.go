package registryfile_test

import (
	"context"
	"errors"
	"net/http"
	"reflect"
	"strings"
	"testing"
	"time"

	"oarr/internal/adapters/probe"
	"oarr/internal/core/register"
	"oarr/internal/core/registryfile"
	perr "oarr/internal/platform/errors"
	kit "oarr/internal/platform/testkit"
	ptime "oarr/internal/platform/time"
)

const valid = `{
  "last_updated": "2013-05-01T12:00:00Z",
  "register": {
    "operational_status": "Operational",
    "replaces": "info:oarr:1234",
    "metadata": [
      {
        "lang": "DE",
        "default": true,
        "record": {
          "name": "Beispiel Repositorium",
          "url": "http://repo.example.de/",
          "country_code": "de",
          "language_code": ["DE", "en"],
          "established_date": 2004
        }
      },
      {
        "lang": "en",
        "record": {"name": "Example Repository", "country_code": "DE"}
      }
    ],
    "software": [{"name": "DSpace", "version": 1.8, "url": "http://www.dspace.org/"}],
    "organisation": [{"role": ["host"], "details": {"name": "Beispiel Universität", "country_code": "gb", "lat": "52.2", "lon": 0.12}}],
    "api": [
      {"api_type": "oai-pmh", "version": "2.0", "base_url": "http://repo.example.de/oai/request",
       "metadata_formats": [{"prefix": "oai_dc"}]},
      {"api_type": "sword", "base_url": "http://repo.example.de/sword/servicedocument", "authorisation": true,
       "accepts": ["application/zip"]}
    ],
    "policy": [{"policy_type": "content", "terms": ["open"]}],
    "integration": [{"integrated_with": "CRIS", "url": "http://cris.example.de/"}]
  }
}`

func TestValidateAndExpand(t *testing.T) {
	kit.Serial(t)
	kit.Swap(t, &ptime.Now, func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) })

	obj, err := registryfile.Validate([]byte(valid), "http://repo.example.de/")
	if err != nil {
		t.Fatalf("valid file rejected: %v", err)
	}
	r, err := registryfile.Expand(obj)
	if err != nil {
		t.Fatal(err)
	}

	if r.RepoURL() != "http://repo.example.de/" || r.OperationalStatus() != register.StatusOperational {
		t.Fatalf("repo = %q %q", r.RepoURL(), r.OperationalStatus())
	}
	if r.Replaces() != "info:oarr:1234" || r.LastUpdated() != "2013-05-01T12:00:00Z" {
		t.Fatalf("replaces/last_updated = %q %q", r.Replaces(), r.LastUpdated())
	}
	if r.DefaultLanguage() != "de" {
		t.Fatalf("default lang = %q", r.DefaultLanguage())
	}
	if r.CountryCode("de") != "DE" || r.Country("de") != "Deutschland" || r.Country("en") != "Germany" {
		t.Fatalf("country = %q %q %q", r.CountryCode("de"), r.Country("de"), r.Country("en"))
	}
	if r.ContinentCode("de") != "EU" || r.Continent("de") != "Europe" {
		t.Fatalf("continent = %q %q", r.ContinentCode("de"), r.Continent("de"))
	}
	if !reflect.DeepEqual(r.LanguageCodes("de"), []string{"de", "en"}) ||
		!reflect.DeepEqual(r.Languages("de"), []string{"Deutsch", "Englisch"}) {
		t.Fatalf("languages = %v %v", r.LanguageCodes("de"), r.Languages("de"))
	}

	sw := r.Software()
	if len(sw) != 1 || sw[0].Version != "1.8" {
		t.Fatalf("software = %+v", sw)
	}
	org := r.Organisations()
	if len(org) != 1 || org[0].Details["country_code"] != "GB" || org[0].Details["country"] != "United Kingdom" {
		t.Fatalf("organisation = %+v", org)
	}
	apis := r.APIsOfType(register.APISword)
	if len(apis) != 1 || apis[0].Authenticated == nil || !*apis[0].Authenticated {
		t.Fatalf("sword = %+v", apis)
	}
}

func TestValidateParseError(t *testing.T) {
	for _, in := range []string{"{not json", "[1, 2]", "null"} {
		_, err := registryfile.Validate([]byte(in), "http://repo.example.org/")
		var fe *registryfile.Error
		if !errors.As(err, &fe) {
			t.Fatalf("%q: err = %v", in, err)
		}
		if fe.Message != "error reading file" ||
			!reflect.DeepEqual(fe.Errors, []string{"OARR file did not parse as JSON from http://repo.example.org/"}) {
			t.Fatalf("%q: %+v", in, fe)
		}
		if fe.ObjJSON() != "" {
			t.Fatal("no object to show")
		}
	}
}

func TestValidateShapeCollectsEverything(t *testing.T) {
	in := `{
	  "generator": "x",
	  "register": {
	    "operational_status": ["Operational"],
	    "metadata": [{"lang": "en", "default": "yes", "record": {"name": "X", "colour": "blue"}}],
	    "api": {"api_type": "oai-pmh"}
	  }
	}`
	_, err := registryfile.Validate([]byte(in), "src")
	var fe *registryfile.Error
	if !errors.As(err, &fe) || fe.Message != "error validating file" {
		t.Fatalf("err = %v", err)
	}
	kit.MustContainAll(t, fe.Errors,
		"object contains key generator which is not permitted by schema",
		"object contains operational_status = [Operational] but expected string, unicode or a number",
		"object contains default = yes but expected boolean",
		"object contains key colour which is not permitted by schema",
		"object contains api = map[api_type:oai-pmh] but expected list",
	)
	if fe.Obj == nil || !strings.Contains(fe.ObjJSON(), `"generator": "x"`) {
		t.Fatalf("offending object missing: %s", fe.ObjJSON())
	}
}

func TestValidateContent(t *testing.T) {
	kit.Serial(t)
	kit.Swap(t, &ptime.Now, func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) })

	cases := []struct {
		name string
		in   string
		want []string
	}{
		{
			name: "no register",
			in:   `{"last_updated": "yesterday"}`,
			want: []string{
				"last updated date is not of the form YYYY-mm-ddTHH:MM:SSZ : yesterday",
				"No register object in the registry file",
			},
		},
		{
			name: "empty register",
			in:   `{"register": {}}`,
			want: []string{"No register object in the registry file"},
		},
		{
			name: "status and replaces",
			in:   `{"register": {"replaces": "oarr:1", "operational_status": "Broken"}}`,
			want: []string{
				"identifier for object being replaced must take the form of the info uri (info:oarr:<identifier>) oarr:1",
				"operational_status must be one of ['Trial', 'Operational'] but is Broken",
			},
		},
		{
			name: "metadata languages and defaults",
			in: `{"register": {"metadata": [
				{"lang": "en", "default": true, "record": {"url": "http://a.example.org/"}},
				{"lang": "en", "default": true, "record": {"name": "B"}},
				{"record": {"name": "C"}},
				{"lang": "xx", "record": {}}
			]}}`,
			want: []string{
				"lang en is repeated in list of metadata records",
				"Two or more metadata records are marked as default",
				"lang for metadata record must be set",
				"metadata record language xx is not recognised as an iso-639-1 language code",
				"No record entry in the metadata object, or record entry is empty",
				"default metadata record does not contain the repository url",
			},
		},
		{
			name: "no default",
			in:   `{"register": {"metadata": [{"lang": "en", "record": {"name": "A"}}]}}`,
			want: []string{"There is no metadata record which is marked as the default"},
		},
		{
			name: "record fields",
			in: `{"register": {"metadata": [
				{"lang": "en", "default": true, "record": {"url": "example.org", "country_code": "ZZ",
				 "established_date": 2030, "language_code": ["en", "xx"]}},
				{"lang": "fr", "record": {"established_date": "1970"}},
				{"lang": "de", "record": {"established_date": "MMIV"}}
			]}}`,
			want: []string{
				"url does not contain a scheme (e.g. http or https): example.org",
				"url domain does not look complete example.org",
				"country code ZZ is not recognised as an iso-3166-1 country code",
				"established date 2030 is in the future",
				"established date 1970 is too far in the past",
				"established date MMIV is not a number; should be a 4 digit year",
				"content language xx is not recognised as an iso-639-1 language code",
			},
		},
		{
			name: "software and contacts",
			in: `{"register": {
				"software": [{"version": "1"}, {"name": "EPrints", "url": "http://localhost/"}],
				"contact": [{"role": ["admin"]}, {"details": {"lat": 1}}, {"details": {"lat": 91, "lon": "east"}}]
			}}`,
			want: []string{
				"the name of the software is not present",
				"url domain does not look complete http://localhost/",
				"contact does not contain a details object, or details object is empty",
				"contact's latitude and longitude must both be specified",
				"contact's latitude is outside the allowable range (-90 -> 90): 91",
				"contact's longitude is not numeric: east",
			},
		},
		{
			name: "organisations",
			in: `{"register": {"organisation": [
				{"details": {}},
				{"details": {"name": "X", "unit_url": "http://localhost", "country_code": "QQ", "lat": "10", "lon": 200}}
			]}}`,
			want: []string{
				"organisation does not contain a details object or details object is empty",
				"url domain does not look complete http://localhost",
				"in organisation, country code QQ is not recognised as an iso-3166-1 country code",
				"organisation's longitude is outside the allowable range (-180 -> 180): 200",
			},
		},
		{
			name: "policies, apis and integrations",
			in: `{"register": {
				"policy": [{"description": "none"}],
				"api": [
					{"api_type": "rss", "metadata_formats": [{"prefix": "x"}], "accepts": ["a"], "accept_packaging": ["b"]},
					{"api_type": "oai-pmh", "base_url": "http://x.example.org/oai", "metadata_formats": [{"namespace": "n"}]},
					{"base_url": "http://x.example.org/"}
				],
				"integration": [{"nature": "cris"}]
			}}`,
			want: []string{
				"policy must contain one or more policy terms",
				"policy must specify a policy type",
				"api entry must specify a base url",
				"metadata_format can only be present for apis of type oai-pmh",
				"accepts can only be present for apis of type sword",
				"accept_packaging can only be present for apis of type sword",
				"metadata_format must contain the prefix",
				"api entry must specify a type",
				"integration section must specify integrated_with",
			},
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := registryfile.Validate([]byte(c.in), "src")
			var fe *registryfile.Error
			if !errors.As(err, &fe) {
				t.Fatalf("err = %v", err)
			}
			kit.MustContainAll(t, fe.Errors, c.want...)
			if len(fe.Errors) != len(c.want) {
				t.Fatalf("unexpected extra messages: %q", fe.Errors)
			}
		})
	}
}

func TestErrorPerr(t *testing.T) {
	e := &registryfile.Error{Message: "error validating file", Errors: []string{"a", "b"}}
	err := e.Perr()
	if perr.CodeOf(err) != perr.ErrorCodeValidation || perr.HTTPStatus(err) != http.StatusUnprocessableEntity {
		t.Fatalf("code = %v", perr.CodeOf(err))
	}
	pe, _ := perr.As(err)
	if !reflect.DeepEqual(pe.Details(), []string{"a", "b"}) {
		t.Fatalf("details = %v", pe.Details())
	}
	if e.Error() != "error validating file: a; b" {
		t.Fatalf("Error() = %q", e.Error())
	}
}

func newFetcher(t *testing.T, pages map[string]kit.Page) (*kit.Site, *probe.Info) {
	s := kit.NewSite(t, pages)
	return s, probe.NewClient(probe.Options{}, probe.WithTransport(s.Transport())).NewInfo()
}

func TestLocate(t *testing.T) {
	ctx := context.Background()

	t.Run("advertised link", func(t *testing.T) {
		s, info := newFetcher(t, map[string]kit.Page{
			"/repo/":                {Body: `<html><head><link rel="meta oarr" href="files/desc.json"></head></html>`},
			"/repo/files/desc.json": {ContentType: "application/json", Body: `{}`},
		})
		resp := registryfile.Locate(ctx, info, "http://repo.example.org/repo/")
		if resp == nil || resp.URL != "http://repo.example.org/repo/files/desc.json" {
			t.Fatalf("resp = %+v", resp)
		}
		if s.Hits("/oarr.json") != 0 {
			t.Fatal("default location must not be tried")
		}
	})
	t.Run("broken link falls back to default path", func(t *testing.T) {
		_, info := newFetcher(t, map[string]kit.Page{
			"/":          {Body: `<link rel="oarr" href="/missing.json">`},
			"/oarr.json": {Body: `{}`},
		})
		resp := registryfile.Locate(ctx, info, "http://repo.example.org/")
		if resp == nil || resp.URL != "http://repo.example.org/oarr.json" {
			t.Fatalf("resp = %+v", resp)
		}
	})
	t.Run("nothing", func(t *testing.T) {
		_, info := newFetcher(t, map[string]kit.Page{"/": {}, "/oarr.json": {Status: http.StatusForbidden}})
		if resp := registryfile.Locate(ctx, info, "http://repo.example.org/"); resp != nil {
			t.Fatalf("resp = %+v", resp)
		}
	})
}

func TestGet(t *testing.T) {
	ctx := context.Background()

	_, none := newFetcher(t, nil)
	if r, err := registryfile.Get(ctx, none, "http://repo.example.org/"); r != nil || err != nil {
		t.Fatalf("nothing located = %v %v", r, err)
	}

	_, bad := newFetcher(t, map[string]kit.Page{"/oarr.json": {Body: `{"register": {"operational_status": "Closed"}}`}})
	_, err := registryfile.Get(ctx, bad, "http://repo.example.org/")
	var fe *registryfile.Error
	if !errors.As(err, &fe) || !reflect.DeepEqual(fe.Errors, []string{"operational_status must be one of ['Trial', 'Operational'] but is Closed"}) {
		t.Fatalf("err = %v", err)
	}

	kit.Serial(t)
	kit.Swap(t, &ptime.Now, func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) })
	_, good := newFetcher(t, map[string]kit.Page{"/oarr.json": {Body: valid}})
	r, err := registryfile.Get(ctx, good, "http://repo.example.de/")
	if err != nil || r == nil || r.Name("en") != "Example Repository" {
		t.Fatalf("get = %v %v", r, err)
	}
}
