// Package normalize cleans text scraped from repository pages.
// Text is for display (titles, descriptions, names); Key is for comparing them.
//
// Text pipeline
// 1 Sanitize control runes and invalid UTF-8
// 2 Unicode NFC
// 3 Remove format runes (ZWJ ZWNJ FEFF soft hyphen)
// 4 Collapse whitespace to single spaces and trim
//
// Key adds NFKC, case folding, combining mark removal and width folding on top
package normalize

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// transformer chains are stateful, so each call borrows its own
type pool struct{ p sync.Pool }

func newPool(build func() transform.Transformer) *pool {
	return &pool{p: sync.Pool{New: func() any { return build() }}}
}

func (p *pool) apply(s string) string {
	tr := p.p.Get().(transform.Transformer)
	out, _, err := transform.String(tr, s)
	tr.Reset()
	p.p.Put(tr)
	if err != nil {
		return s
	}
	return out
}

var (
	textChain = newPool(func() transform.Transformer {
		return transform.Chain(
			norm.NFC,
			runes.Remove(runes.In(unicode.Cf)),
		)
	})
	keyChain = newPool(func() transform.Transformer {
		// order matters: decompose before dropping marks
		return transform.Chain(
			norm.NFKD,
			cases.Fold(),
			runes.Remove(runes.In(unicode.Mn)),
			width.Fold,
			norm.NFC,
		)
	})
)

// Text returns s fit for a register field
func Text(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ToValidUTF8(Sanitize(s), "")
	return collapseSpaces(textChain.apply(s))
}

// Key returns a comparison form of s: "Universität  Zürich" and "universitat zurich" share one
func Key(s string) string {
	t := Text(s)
	if t == "" {
		return ""
	}
	return keyChain.apply(t)
}

// collapseSpaces turns every whitespace run into one ASCII space and trims the ends
func collapseSpaces(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inWS := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			inWS = true
			continue
		}
		if inWS && b.Len() > 0 {
			b.WriteByte(' ')
		}
		inWS = false
		b.WriteRune(r)
	}
	return b.String()
}
