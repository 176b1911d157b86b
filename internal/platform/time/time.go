// Package time contains time helpers shared by records and validators
package time

import "time"

// ISOLayout is the timestamp form used on records and registry files
const ISOLayout = "2006-01-02T15:04:05Z"

// ISO formats t in UTC using ISOLayout
func ISO(t time.Time) string { return t.UTC().Format(ISOLayout) }

// ParseISO parses a YYYY-MM-DDTHH:MM:SSZ timestamp
func ParseISO(s string) (time.Time, error) { return time.Parse(ISOLayout, s) }

// Now is the clock seam used by stamping code
var Now = time.Now
