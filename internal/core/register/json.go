package register

import (
	"encoding/json"
)

// body is the "register" object of the wire form
type body struct {
	RepoURL           string           `json:"repo_url,omitempty"`
	OperationalStatus Status           `json:"operational_status,omitempty"`
	Replaces          string           `json:"replaces,omitempty"`
	Metadata          []Metadata       `json:"metadata"`
	Software          []Software       `json:"software"`
	Contact           []Party          `json:"contact"`
	Organisation      []Party          `json:"organisation"`
	Policy            []map[string]any `json:"policy"`
	API               []API            `json:"api"`
	Integration       []map[string]any `json:"integration"`
}

type document struct {
	ID          string `json:"id,omitempty"`
	Register    body   `json:"register"`
	CreatedDate string `json:"created_date,omitempty"`
	LastUpdated string `json:"last_updated,omitempty"`
}

// MarshalJSON renders {"register": {...}, "created_date", "last_updated"}
func (r *Register) MarshalJSON() ([]byte, error) {
	d := document{
		ID: r.id,
		Register: body{
			RepoURL:           r.repoURL,
			OperationalStatus: r.status,
			Replaces:          r.replaces,
			Metadata:          nonNil(r.metadata),
			Software:          nonNil(r.software),
			Contact:           nonNil(r.contact),
			Organisation:      nonNil(r.org),
			Policy:            nonNil(r.policy),
			API:               nonNil(r.api),
			Integration:       nonNil(r.integration),
		},
		CreatedDate: r.createdDate,
		LastUpdated: r.lastUpdated,
	}
	return json.Marshal(d)
}

// UnmarshalJSON reads the wire form and repairs the default flag invariant
func (r *Register) UnmarshalJSON(b []byte) error {
	var d document
	if err := json.Unmarshal(b, &d); err != nil {
		return err
	}
	*r = Register{
		id:          d.ID,
		repoURL:     d.Register.RepoURL,
		status:      d.Register.OperationalStatus,
		replaces:    d.Register.Replaces,
		metadata:    d.Register.Metadata,
		software:    d.Register.Software,
		contact:     d.Register.Contact,
		org:         d.Register.Organisation,
		policy:      d.Register.Policy,
		api:         dedupeAPIs(d.Register.API),
		integration: d.Register.Integration,
		createdDate: d.CreatedDate,
		lastUpdated: d.LastUpdated,
	}
	r.normalize()
	if r.repoURL == "" {
		r.repoURL = r.URL("")
	}
	return nil
}

// UnmarshalJSON accepts the registry file spelling "authorisation" as well as "authenticated"
func (a *API) UnmarshalJSON(b []byte) error {
	type plain API
	var aux struct {
		plain
		Authorisation *bool `json:"authorisation,omitempty"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*a = API(aux.plain)
	if a.Authenticated == nil {
		a.Authenticated = aux.Authorisation
	}
	return nil
}

// FromJSON decodes the wire form
func FromJSON(b []byte) (*Register, error) {
	r := New()
	if err := json.Unmarshal(b, r); err != nil {
		return nil, err
	}
	return r, nil
}

// FromRaw builds a Register from an already decoded wire form
func FromRaw(raw map[string]any) (*Register, error) {
	b, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	return FromJSON(b)
}

// Raw returns the wire form as generic maps
func (r *Register) Raw() (map[string]any, error) {
	b, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// normalize keeps one entry per lang and exactly one default when entries exist
func (r *Register) normalize() {
	seen := map[string]bool{}
	kept := r.metadata[:0]
	hasDefault := false
	for _, m := range r.metadata {
		if seen[m.Lang] {
			continue
		}
		seen[m.Lang] = true
		if m.Default {
			if hasDefault {
				m.Default = false
			}
			hasDefault = true
		}
		if m.Record == nil {
			m.Record = map[string]any{}
		}
		kept = append(kept, m)
	}
	if len(kept) > 0 && !hasDefault {
		kept[0].Default = true
	}
	r.metadata = kept
}

func dedupeAPIs(in []API) []API {
	var out []API
	seen := map[string]bool{}
	for _, a := range in {
		if seen[a.BaseURL] {
			continue
		}
		seen[a.BaseURL] = true
		out = append(out, a)
	}
	return out
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
