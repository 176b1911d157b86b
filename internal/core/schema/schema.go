// Package schema checks decoded JSON objects against a small allow-list schema.
// Every violation is collected rather than stopping at the first one
package schema

import (
	"fmt"
	"sort"
	"strings"
)

// Schema lists the keys an object may carry, grouped by the kind of value expected.
// ListEntries and ObjectEntries describe the members of lists and nested objects;
// a list without an entry schema must hold scalars, an object without one is unchecked
type Schema struct {
	Bools         []string
	Fields        []string
	Lists         []string
	Objects       []string
	ListEntries   map[string]*Schema
	ObjectEntries map[string]*Schema
}

// Validate returns every violation of s found in obj, in key order.
// A nil obj has nothing to violate
func Validate(obj map[string]any, s *Schema) []string {
	if obj == nil || s == nil {
		return nil
	}
	var out []string
	validate(obj, s, &out)
	return out
}

func validate(obj map[string]any, s *Schema, out *[]string) {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		v := obj[k]
		if !s.allows(k) {
			*out = append(*out, "object contains key "+k+" which is not permitted by schema")
			continue
		}

		if has(s.Bools, k) {
			if _, ok := v.(bool); !ok {
				*out = append(*out, "object contains "+k+" = "+show(v)+" but expected boolean")
			}
		}

		if has(s.Fields, k) && !isScalar(v) {
			*out = append(*out, "object contains "+k+" = "+show(v)+" but expected string, unicode or a number")
		}

		if has(s.Lists, k) {
			list, ok := v.([]any)
			if !ok {
				*out = append(*out, "object contains "+k+" = "+show(v)+" but expected list")
			} else if entry := s.ListEntries[k]; entry == nil {
				for _, e := range list {
					if !isScalar(e) {
						*out = append(*out, "list in object contains "+kind(e)+" but expected string, unicode or a number in "+k)
					}
				}
			} else {
				for _, e := range list {
					m, ok := e.(map[string]any)
					if !ok {
						*out = append(*out, "list in object contains "+kind(e)+" but expected object/dict in "+k)
						continue
					}
					validate(m, entry, out)
				}
			}
		}

		if has(s.Objects, k) {
			m, ok := v.(map[string]any)
			if !ok {
				*out = append(*out, "object contains "+k+" = "+show(v)+" but expected object/dict")
			} else if entry := s.ObjectEntries[k]; entry != nil {
				validate(m, entry, out)
			}
		}
	}
}

func (s *Schema) allows(k string) bool {
	return has(s.Bools, k) || has(s.Fields, k) || has(s.Lists, k) || has(s.Objects, k)
}

func has(list []string, k string) bool {
	for _, x := range list {
		if x == k {
			return true
		}
	}
	return false
}

func isScalar(v any) bool {
	switch v.(type) {
	case string, float64, float32, int, int64:
		return true
	}
	return false
}

func kind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case float64, float32, int, int64:
		return "number"
	case []any:
		return "list"
	case map[string]any:
		return "object"
	}
	return fmt.Sprintf("%T", v)
}

// show renders a value for messages the way a reader of the JSON would expect
func show(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return x
	case []any:
		parts := make([]string, len(x))
		for i, e := range x {
			parts[i] = show(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	}
	return fmt.Sprint(v)
}
