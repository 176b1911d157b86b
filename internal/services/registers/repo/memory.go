package repo

import (
	"context"
	"encoding/json"
	"reflect"
	"sync"

	"oarr/internal/core/register"
	perr "oarr/internal/platform/errors"
)

// Memory keeps registers in process, in insertion order.
// Documents are stored encoded so callers never share state with the store
type Memory struct {
	mu    sync.RWMutex
	docs  map[string][]byte
	order []string
}

// NewMemory returns an empty in-process repo
func NewMemory() *Memory { return &Memory{docs: map[string][]byte{}} }

var _ Repo = (*Memory)(nil)

// EnsureSchema is a no-op
func (m *Memory) EnsureSchema(context.Context) error { return nil }

// Get returns a decoded copy, nil when absent
func (m *Memory) Get(_ context.Context, id string) (*register.Register, error) {
	m.mu.RLock()
	b, ok := m.docs[id]
	m.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	return decode(id, b)
}

// Find applies jsonb containment to every document
func (m *Memory) Find(_ context.Context, match []byte, limit, offset int) ([]*register.Register, int, error) {
	var pat any = map[string]any{}
	if len(match) > 0 {
		if err := json.Unmarshal(match, &pat); err != nil {
			return nil, 0, perr.JSONErrf("match: %v", err)
		}
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var hits []string
	for _, id := range m.order {
		var doc any
		if err := json.Unmarshal(m.docs[id], &doc); err != nil {
			return nil, 0, perr.Wrapf(err, perr.ErrorCodeJSON, "decode register %s", id)
		}
		if Contains(doc, pat) {
			hits = append(hits, id)
		}
	}

	total := len(hits)
	if offset >= total {
		return []*register.Register{}, total, nil
	}
	hits = hits[offset:]
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	out := make([]*register.Register, 0, len(hits))
	for _, id := range hits {
		r, err := decode(id, m.docs[id])
		if err != nil {
			return nil, 0, err
		}
		out = append(out, r)
	}
	return out, total, nil
}

// Upsert stores the register under its id
func (m *Memory) Upsert(_ context.Context, r *register.Register) error {
	b, err := json.Marshal(r)
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeJSON, "encode register")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[r.ID()]; !ok {
		m.order = append(m.order, r.ID())
	}
	m.docs[r.ID()] = b
	return nil
}

// Delete reports whether something was removed
func (m *Memory) Delete(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[id]; !ok {
		return false, nil
	}
	delete(m.docs, id)
	for i, o := range m.order {
		if o == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return true, nil
}

func decode(id string, b []byte) (*register.Register, error) {
	r, err := register.FromJSON(b)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeJSON, "decode register %s", id)
	}
	r.SetID(id)
	return r, nil
}

// Contains reports whether doc contains pat the way postgres jsonb @> does:
// objects match on a subset of keys, arrays on a subset of elements, scalars on equality
func Contains(doc, pat any) bool {
	switch p := pat.(type) {
	case map[string]any:
		d, ok := doc.(map[string]any)
		if !ok {
			return false
		}
		for k, pv := range p {
			dv, ok := d[k]
			if !ok || !Contains(dv, pv) {
				return false
			}
		}
		return true
	case []any:
		d, ok := doc.([]any)
		if !ok {
			return false
		}
	next:
		for _, pv := range p {
			for _, dv := range d {
				if Contains(dv, pv) {
					continue next
				}
			}
			return false
		}
		return true
	default:
		return reflect.DeepEqual(doc, pat)
	}
}
