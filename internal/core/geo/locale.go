package geo

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

func englishRegionName(code string) string {
	r, err := language.ParseRegion(code)
	if err != nil {
		return ""
	}
	return display.English.Regions().Name(r)
}

// IsLanguageCode reports whether code is a known ISO 639-1 two letter code
func IsLanguageCode(code string) bool {
	code = strings.TrimSpace(code)
	if len(code) != 2 {
		return false
	}
	_, err := language.ParseBase(strings.ToLower(code))
	return err == nil
}

// ParseLanguage accepts "fr", "fr-CA" or "fr_CA" and returns the lower case base code
func ParseLanguage(s string) (string, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, "_", "-"))
	if s == "" {
		return "", false
	}
	tag, err := language.Parse(s)
	if err != nil {
		return "", false
	}
	base, conf := tag.Base()
	if conf == language.No {
		return "", false
	}
	return base.String(), true
}

// LanguageName returns the English name of a language code, "" when unknown
func LanguageName(code string) string {
	return LocalisedLanguage(code, "en")
}

// LocalisedLanguage names a language code in the display language lang, falling back to English
func LocalisedLanguage(code, lang string) string {
	base, err := language.ParseBase(strings.ToLower(strings.TrimSpace(code)))
	if err != nil {
		return ""
	}
	if n := display.Languages(displayTag(lang)); n != nil {
		if s := n.Name(base); s != "" {
			return s
		}
	}
	return display.English.Languages().Name(base)
}

// LocalisedTerritory names a country code in the display language lang, falling back to English
func LocalisedTerritory(countryCode, lang string) string {
	r, err := language.ParseRegion(strings.ToUpper(strings.TrimSpace(countryCode)))
	if err != nil {
		return ""
	}
	if n := display.Regions(displayTag(lang)); n != nil {
		if s := n.Name(r); s != "" {
			return s
		}
	}
	return display.English.Regions().Name(r)
}

// LikelyLanguage returns the most likely language code spoken in a territory per CLDR
func LikelyLanguage(countryCode string) (string, bool) {
	r, err := language.ParseRegion(strings.ToUpper(strings.TrimSpace(countryCode)))
	if err != nil {
		return "", false
	}
	tag, err := language.Compose(language.Und, r)
	if err != nil {
		return "", false
	}
	base, conf := tag.Base()
	if conf == language.No || base.String() == "und" {
		return "", false
	}
	return base.String(), true
}

// SpokenLanguages picks the languages of a territory: the only one when there is a single
// entry, otherwise every official one, otherwise the CLDR likely language
func SpokenLanguages(countryCode string) []string {
	entries := TerritoryLanguages(countryCode)
	if len(entries) == 1 {
		return []string{entries[0].Code}
	}
	var out []string
	for _, l := range entries {
		if l.Official {
			out = append(out, l.Code)
		}
	}
	if len(out) > 0 {
		return out
	}
	if len(entries) > 0 {
		return []string{entries[0].Code}
	}
	if code, ok := LikelyLanguage(countryCode); ok {
		return []string{code}
	}
	return nil
}

func displayTag(lang string) language.Tag {
	t, err := language.Parse(strings.TrimSpace(lang))
	if err != nil {
		return language.English
	}
	return t
}
