package probe

import (
	"testing"
)

const nominetSample = `
    Domain name:
        example.ac.uk

    Registrant:
        University of Example

    Registrant type:
        UK Educational Institution

    Registrant's address:
        1 College Road
        Exampleton
        EX1 2AB
        United Kingdom
`

const icannSample = `Domain Name: EXAMPLE-REPO.ORG
Registry Domain ID: D123-LROR
Registrant Name: Jane Archivist
Registrant Organization: Example Research Trust
Registrant Street: 12 Library Lane
Registrant Phone: +44.1234567890
Registrant Fax:
Registrant Email: repo-admin@example-repo.org
`

const janetSample = `Domain:
    example.ac.uk

Registered For:
    Example College

Registrant Contact:
    Sam Sysadmin

Registrant Address:
    Main Building
    Exampletown

Registrant Contact Email:
    sam@example.ac.uk
`

func TestParseWhois(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		org  string
		dom  string
		who  string
		mail string
		addr string
		fax  string
	}{
		{
			name: "nominet block layout",
			raw:  nominetSample,
			org:  "University of Example",
			dom:  "example.ac.uk",
			addr: "1 College Road, Exampleton, EX1 2AB, United Kingdom",
		},
		{
			name: "icann inline layout",
			raw:  icannSample,
			org:  "Example Research Trust",
			dom:  "EXAMPLE-REPO.ORG",
			who:  "Jane Archivist",
			mail: "repo-admin@example-repo.org",
			addr: "12 Library Lane",
		},
		{
			name: "janet layout",
			raw:  janetSample,
			org:  "Example College",
			dom:  "example.ac.uk",
			who:  "Sam Sysadmin",
			mail: "sam@example.ac.uk",
			addr: "Main Building, Exampletown",
		},
		{name: "nothing recognisable", raw: "% no match for domain\n"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := ParseWhois(c.raw)
			if w.Organisation != c.org || w.Domain != c.dom || w.Name != c.who ||
				w.Email != c.mail || w.Address != c.addr || w.Fax != c.fax {
				t.Fatalf("got %+v", w)
			}
		})
	}
}

func TestParseWhoisContact(t *testing.T) {
	w := ParseWhois(icannSample)
	got := w.Contact()
	if got["phone"] != "+44.1234567890" || got["email"] != "repo-admin@example-repo.org" {
		t.Fatalf("contact = %v", got)
	}
	if _, ok := got["fax"]; ok {
		t.Fatal("empty fax must be left out")
	}
}
