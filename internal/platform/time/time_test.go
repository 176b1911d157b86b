package time

import (
	"testing"
	"time"
)

func TestISORoundTrip(t *testing.T) {
	in := time.Date(2024, 3, 9, 17, 4, 5, 999, time.FixedZone("X", 3600))
	s := ISO(in)
	if s != "2024-03-09T16:04:05Z" {
		t.Fatalf("ISO = %q", s)
	}
	back, err := ParseISO(s)
	if err != nil || !back.Equal(in.Truncate(time.Second)) {
		t.Fatalf("ParseISO = %v, %v", back, err)
	}
	for _, bad := range []string{"2024-03-09", "2024-03-09T16:04:05+00:00", "2024-03-09 16:04:05Z"} {
		if _, err := ParseISO(bad); err == nil {
			t.Fatalf("ParseISO(%q) should fail", bad)
		}
	}
}
