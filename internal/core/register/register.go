// Package register holds the repository record every probe and registry file produces
package register

import (
	"time"

	ptime "oarr/internal/platform/time"
)

// Status is the operational status of a repository
type Status string

// Operational statuses
const (
	StatusOperational Status = "Operational"
	StatusTrial       Status = "Trial"
	StatusBroken      Status = "Broken"
	StatusClosed      Status = "Closed"
)

// Repository types
const (
	TypeInstitutional = "Institutional"
	TypeGovernmental  = "Governmental"
	TypeAggregating   = "Aggregating"
	TypeDisciplinary  = "Disciplinary"
)

// API types
const (
	APIOAIPMH     = "oai-pmh"
	APISword      = "sword"
	APIOpenSearch = "opensearch"
	APIRSS        = "rss"
	APIAtom       = "atom"
)

// Roles used on organisation and contact entries
const (
	RoleHost      = "host"
	RoleTechnical = "technical"
)

// Software is one platform the repository may be running
type Software struct {
	Name       string  `json:"name"`
	Version    string  `json:"version,omitempty"`
	URL        string  `json:"url,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
}

// Party is an organisation or contact entry
type Party struct {
	Role    []string       `json:"role,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// MetadataFormat is an OAI-PMH metadata format
type MetadataFormat struct {
	Prefix    string `json:"prefix,omitempty"`
	Namespace string `json:"namespace,omitempty"`
	Schema    string `json:"schema,omitempty"`
}

// API describes a machine interface exposed by the repository
type API struct {
	APIType         string           `json:"api_type"`
	Version         string           `json:"version,omitempty"`
	BaseURL         string           `json:"base_url"`
	MetadataFormats []MetadataFormat `json:"metadata_formats,omitempty"`
	Accepts         []string         `json:"accepts,omitempty"`
	AcceptPackaging []string         `json:"accept_packaging,omitempty"`
	Authenticated   *bool            `json:"authenticated,omitempty"`
}

// Metadata is the per language descriptive block
type Metadata struct {
	Lang    string         `json:"lang"`
	Default bool           `json:"default"`
	Record  map[string]any `json:"record"`
}

// Register is the mutable result of probing one repository.
// Add* methods keep the uniqueness rules; nothing here ever removes data
type Register struct {
	id          string
	repoURL     string
	status      Status
	replaces    string
	metadata    []Metadata
	software    []Software
	contact     []Party
	org         []Party
	policy      []map[string]any
	api         []API
	integration []map[string]any
	createdDate string
	lastUpdated string
}

// New returns an empty Register
func New() *Register { return &Register{} }

// ID is the storage identifier, empty until saved
func (r *Register) ID() string { return r.id }

// SetID is used by the storage boundary
func (r *Register) SetID(id string) { r.id = id }

// RepoURL is the seed url
func (r *Register) RepoURL() string { return r.repoURL }

// SetRepoURL sets the seed url once; later calls are ignored
func (r *Register) SetRepoURL(u string) {
	if r.repoURL == "" {
		r.repoURL = u
	}
}

// OperationalStatus returns the status, "" when unknown
func (r *Register) OperationalStatus() Status { return r.status }

// SetOperationalStatus overwrites the status
func (r *Register) SetOperationalStatus(s Status) { r.status = s }

// Replaces is the info:oarr identifier this record supersedes
func (r *Register) Replaces() string { return r.replaces }

// CreatedDate is set on first save
func (r *Register) CreatedDate() string { return r.createdDate }

// LastUpdated is set on every save
func (r *Register) LastUpdated() string { return r.lastUpdated }

// Stamp assigns created_date (first time only) and last_updated
func (r *Register) Stamp(now time.Time) {
	ts := ptime.ISO(now)
	if r.createdDate == "" {
		r.createdDate = ts
	}
	r.lastUpdated = ts
}

// AddSoftware appends a platform; duplicates are kept
func (r *Register) AddSoftware(name, version, url string, confidence float64) {
	r.software = append(r.software, Software{Name: name, Version: version, URL: url, Confidence: confidence})
}

// Software returns a copy of the platforms
func (r *Register) Software() []Software { return append([]Software(nil), r.software...) }

// AddOrganisation appends an organisation entry
func (r *Register) AddOrganisation(role string, details map[string]any) {
	r.org = append(r.org, Party{Role: []string{role}, Details: copyMap(details)})
}

// Organisations returns a copy of the organisation entries
func (r *Register) Organisations() []Party { return copyParties(r.org) }

// AddContact appends a contact entry
func (r *Register) AddContact(role string, details map[string]any) {
	r.contact = append(r.contact, Party{Role: []string{role}, Details: copyMap(details)})
}

// Contacts returns a copy of the contact entries
func (r *Register) Contacts() []Party { return copyParties(r.contact) }

// AddAPI appends an interface unless one with the same base_url exists.
// It reports whether the entry was added
func (r *Register) AddAPI(a API) bool {
	if r.HasAPI(a.BaseURL) {
		return false
	}
	r.api = append(r.api, a)
	return true
}

// HasAPI reports whether an interface with baseURL is recorded
func (r *Register) HasAPI(baseURL string) bool {
	for _, x := range r.api {
		if x.BaseURL == baseURL {
			return true
		}
	}
	return false
}

// APIs returns a copy of the interfaces
func (r *Register) APIs() []API { return append([]API(nil), r.api...) }

// APIsOfType filters the interfaces by api_type
func (r *Register) APIsOfType(t string) []API {
	var out []API
	for _, a := range r.api {
		if a.APIType == t {
			out = append(out, a)
		}
	}
	return out
}

// Policies returns a copy of the policy entries
func (r *Register) Policies() []map[string]any { return copyMaps(r.policy) }

// Integrations returns a copy of the integration entries
func (r *Register) Integrations() []map[string]any { return copyMaps(r.integration) }

func copyParties(in []Party) []Party {
	if in == nil {
		return nil
	}
	out := make([]Party, len(in))
	for i, p := range in {
		out[i] = Party{Role: append([]string(nil), p.Role...), Details: copyMap(p.Details)}
	}
	return out
}

func copyMaps(in []map[string]any) []map[string]any {
	if in == nil {
		return nil
	}
	out := make([]map[string]any, len(in))
	for i, m := range in {
		out[i] = copyMap(m)
	}
	return out
}

func copyMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v any) any {
	switch x := v.(type) {
	case map[string]any:
		return copyMap(x)
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = copyValue(e)
		}
		return out
	case []string:
		return append([]string(nil), x...)
	default:
		return v
	}
}
