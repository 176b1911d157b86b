// Package testkit provides testing helpers shared across packages
package testkit

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// MustPanic asserts that fn panics
func MustPanic(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected panic, got none")
		}
	}()
	fn()
}

// MustContain asserts that haystack contains needle; on failure the haystack is dumped to a temp file
func MustContain(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		dump := filepath.Join(t.TempDir(), "haystack.txt")
		_ = os.WriteFile(dump, []byte(haystack), 0o600)
		t.Fatalf("expected output to contain %q\n\nfull output written to %s", needle, dump)
	}
}

// MustJSON marshals v or fails the test
func MustJSON(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal %T: %v", v, err)
	}
	return b
}

// MustContainAll asserts every needle is present in msgs (exact element match)
func MustContainAll(t *testing.T, msgs []string, needles ...string) {
	t.Helper()
	have := make(map[string]bool, len(msgs))
	for _, m := range msgs {
		have[m] = true
	}
	for _, n := range needles {
		if !have[n] {
			t.Fatalf("missing message %q in %q", n, msgs)
		}
	}
}
