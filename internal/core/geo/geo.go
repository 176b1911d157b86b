// Package geo resolves countries, continents and languages from embedded reference
// tables and CLDR locale data
package geo

import (
	"embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var dataFS embed.FS

// Country is one ISO 3166-1 entry
type Country struct {
	Code          string
	Name          string
	ContinentCode string
}

// Continent is one of the seven continents
type Continent struct {
	Code string
	Name string
}

// Language is one spoken language of a territory
type Language struct {
	Code     string `yaml:"code"`
	Official bool   `yaml:"official"`
}

type continentsFile struct {
	Continents []struct {
		Code      string   `yaml:"code"`
		Name      string   `yaml:"name"`
		Countries []string `yaml:"countries"`
	} `yaml:"continents"`
	Aliases map[string]string `yaml:"aliases"`
}

type tldFile struct {
	Overrides map[string]string `yaml:"overrides"`
	Ignore    []string          `yaml:"ignore"`
}

type territoryFile struct {
	Territories map[string][]Language `yaml:"territories"`
}

type tables struct {
	countries   map[string]Country // by code
	byName      map[string]string  // lower name -> code
	continents  map[string]Continent
	contByName  map[string]string
	tldOverride map[string]string
	tldIgnore   map[string]bool
	territories map[string][]Language
}

var load = sync.OnceValue(func() *tables {
	t, err := parse()
	if err != nil {
		// the assets are compiled in, so this only trips on a bad edit
		panic(fmt.Sprintf("geo: %v", err))
	}
	return t
})

func parse() (*tables, error) {
	var cf continentsFile
	if err := decode("data/continents.yaml", &cf); err != nil {
		return nil, err
	}
	var tf tldFile
	if err := decode("data/tld.yaml", &tf); err != nil {
		return nil, err
	}
	var lf territoryFile
	if err := decode("data/territory_languages.yaml", &lf); err != nil {
		return nil, err
	}

	t := &tables{
		countries:   map[string]Country{},
		byName:      map[string]string{},
		continents:  map[string]Continent{},
		contByName:  map[string]string{},
		tldOverride: map[string]string{},
		tldIgnore:   map[string]bool{},
		territories: lf.Territories,
	}
	for _, c := range cf.Continents {
		t.continents[c.Code] = Continent{Code: c.Code, Name: c.Name}
		t.contByName[strings.ToLower(c.Name)] = c.Code
		for _, cc := range c.Countries {
			name := englishRegionName(cc)
			t.countries[cc] = Country{Code: cc, Name: name, ContinentCode: c.Code}
			if name != "" {
				t.byName[strings.ToLower(name)] = cc
			}
		}
	}
	for alias, cc := range cf.Aliases {
		t.byName[strings.ToLower(alias)] = strings.ToUpper(cc)
	}
	for tld, cc := range tf.Overrides {
		t.tldOverride[strings.ToLower(tld)] = strings.ToUpper(cc)
	}
	for _, tld := range tf.Ignore {
		t.tldIgnore[strings.ToLower(tld)] = true
	}
	return t, nil
}

func decode(name string, v any) error {
	b, err := dataFS.ReadFile(name)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(b, v); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// CountryByCode looks up an ISO 3166-1 alpha-2 code, case insensitive
func CountryByCode(code string) (Country, bool) {
	c, ok := load().countries[strings.ToUpper(strings.TrimSpace(code))]
	return c, ok
}

// CountryByName looks up an English country name or known alias, case insensitive
func CountryByName(name string) (Country, bool) {
	t := load()
	cc, ok := t.byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Country{}, false
	}
	c, ok := t.countries[cc]
	return c, ok
}

// ResolveCountry accepts either a code or a name
func ResolveCountry(nameOrCode string) (Country, bool) {
	if c, ok := CountryByCode(nameOrCode); ok {
		return c, true
	}
	return CountryByName(nameOrCode)
}

// ContinentOf maps a country code to its continent
func ContinentOf(countryCode string) (Continent, bool) {
	c, ok := CountryByCode(countryCode)
	if !ok {
		return Continent{}, false
	}
	cont, ok := load().continents[c.ContinentCode]
	return cont, ok
}

// ResolveContinent accepts either a continent code (EU) or an English name (Europe)
func ResolveContinent(nameOrCode string) (Continent, bool) {
	t := load()
	s := strings.TrimSpace(nameOrCode)
	if c, ok := t.continents[strings.ToUpper(s)]; ok {
		return c, true
	}
	if code, ok := t.contByName[strings.ToLower(s)]; ok {
		return t.continents[code], true
	}
	return Continent{}, false
}

// CountryForTLD maps a top level domain to a country code.
// Overrides apply first, ignored TLDs never resolve, and the result must be a known code
func CountryForTLD(tld string) (string, bool) {
	t := load()
	tld = strings.ToLower(strings.Trim(strings.TrimSpace(tld), "."))
	if tld == "" || t.tldIgnore[tld] {
		return "", false
	}
	if cc, ok := t.tldOverride[tld]; ok {
		return cc, true
	}
	if c, ok := CountryByCode(tld); ok && len(tld) == 2 {
		return c.Code, true
	}
	return "", false
}

// TerritoryLanguages returns the table entries for a country, most spoken first
func TerritoryLanguages(countryCode string) []Language {
	return append([]Language(nil), load().territories[strings.ToUpper(countryCode)]...)
}
