package strings

import (
	"testing"

	kit "oarr/internal/platform/testkit"
)

func TestIfEmpty(t *testing.T) {
	if got := IfEmpty([]string{"GET"}, []string{"POST"}); got[0] != "GET" {
		t.Fatalf("got %v", got)
	}
	if got := IfEmpty(nil, []string{"POST"}); len(got) != 1 || got[0] != "POST" {
		t.Fatalf("got %v", got)
	}
}

func TestMustPrefix(t *testing.T) {
	for in, want := range map[string]string{
		"registers":     "/registers",
		"/discover/":    "/discover",
		"  //meta// ":   "/meta",
		"/api/v1/probe": "/api/v1/probe",
	} {
		if got := MustPrefix(in); got != want {
			t.Fatalf("MustPrefix(%q) = %q, want %q", in, got, want)
		}
	}
	kit.MustPanic(t, func() { MustPrefix(" / ") })
}

func TestMustString(t *testing.T) {
	if MustString("discovery", "module name") != "discovery" {
		t.Fatal("value not returned")
	}
	kit.MustPanic(t, func() { MustString("  ", "module name") })
}

func TestSQLNull(t *testing.T) {
	if SQLNull(" \t") != nil {
		t.Fatal("blank should be NULL")
	}
	if SQLNull("http://repo.example") != "http://repo.example" {
		t.Fatal("value should pass through")
	}
}
