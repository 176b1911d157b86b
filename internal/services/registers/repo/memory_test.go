package repo

import (
	"encoding/json"
	"testing"
)

func TestContains(t *testing.T) {
	doc := decodeJSON(t, `{
		"register": {
			"software": [{"name": "DSpace", "version": "6.3"}, {"name": "Tomcat"}],
			"api": [{"api_type": "oai-pmh", "version": "2.0"}],
			"operational_status": "Operational"
		},
		"created_date": "2024-01-01T00:00:00Z"
	}`)

	cases := []struct {
		pat  string
		want bool
	}{
		{`{}`, true},
		{`{"register": {"operational_status": "Operational"}}`, true},
		{`{"register": {"operational_status": "Trial"}}`, false},
		{`{"register": {"software": [{"name": "DSpace"}]}}`, true},
		{`{"register": {"software": [{"name": "Tomcat"}, {"name": "DSpace"}]}}`, true},
		{`{"register": {"software": [{"name": "EPrints"}]}}`, false},
		{`{"register": {"api": [{"api_type": "oai-pmh", "version": "2.0"}]}}`, true},
		{`{"register": {"api": {"api_type": "oai-pmh"}}}`, false},
		{`{"missing": true}`, false},
	}
	for _, c := range cases {
		if got := Contains(doc, decodeJSON(t, c.pat)); got != c.want {
			t.Errorf("Contains(%s) = %v, want %v", c.pat, got, c.want)
		}
	}
}

func decodeJSON(t *testing.T, s string) any {
	t.Helper()
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		t.Fatal(err)
	}
	return v
}

func TestSeedOf(t *testing.T) {
	cases := []struct {
		match string
		want  string
	}{
		{`{"register": {"repo_url": "http://a.example"}}`, "http://a.example"},
		{`{"register": {"software": [{"name": "DSpace"}]}}`, ""},
		{`{"register": {"repo_url": 7}}`, ""},
		{`{}`, ""},
		{`not json`, ""},
	}
	for _, c := range cases {
		if got := seedOf([]byte(c.match)); got != c.want {
			t.Fatalf("seedOf(%s) = %q, want %q", c.match, got, c.want)
		}
	}
}
