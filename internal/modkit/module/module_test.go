package module_test

import (
	"testing"

	"oarr/internal/modkit/module"
	phttp "oarr/internal/platform/net/http"
	kit "oarr/internal/platform/testkit"
)

type lister interface{ List() []string }

type fixed []string

func (f fixed) List() []string { return f }

type stub struct{ ports any }

func (stub) MountRoutes(phttp.Router) {}
func (s stub) Ports() any             { return s.ports }
func (stub) Name() string             { return "stub" }

func TestPortsOf(t *testing.T) {
	type bundle struct {
		Missing lister
		Names   lister
		hidden  lister
	}
	cases := []struct {
		name  string
		ports any
		want  int
		ok    bool
	}{
		{"nil", nil, 0, false},
		{"direct", fixed{"a"}, 1, true},
		{"struct field", bundle{Names: fixed{"a", "b"}}, 2, true},
		{"pointer to struct", &bundle{Names: fixed{"a", "b", "c"}}, 3, true},
		{"unexported only", bundle{hidden: fixed{"a"}}, 0, false},
		{"nil pointer", (*bundle)(nil), 0, false},
		{"scalar", 7, 0, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, ok := module.PortsOf[lister](stub{ports: c.ports})
			if ok != c.ok || (ok && len(got.List()) != c.want) {
				t.Fatalf("ok=%v got=%v", ok, got)
			}
		})
	}
}

func TestMustPortsOf(t *testing.T) {
	if got := module.MustPortsOf[lister](stub{ports: fixed{"x"}}); got.List()[0] != "x" {
		t.Fatalf("got %v", got)
	}
	kit.MustPanic(t, func() { module.MustPortsOf[lister](stub{}) })
}
