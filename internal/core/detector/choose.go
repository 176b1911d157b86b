package detector

// Candidate is one scored answer from a fingerprint or source
type Candidate struct {
	Value      string
	Version    string
	URL        string
	Confidence float64
}

// Fingerprint produces a candidate lazily; ok is false when it found nothing
type Fingerprint func() (c Candidate, ok bool)

// Software acceptance thresholds
const (
	AcceptAt = 0.8
	FloorAt  = 0.5
)

// Choose evaluates prints in order. A candidate at or above accept wins at once and
// the remaining prints are never evaluated. Otherwise the highest candidate at or
// above floor wins, ties going to the one evaluated first
func Choose(accept, floor float64, prints ...Fingerprint) (Candidate, bool) {
	var (
		best  Candidate
		found bool
	)
	for _, fp := range prints {
		c, ok := fp()
		if !ok {
			continue
		}
		if c.Confidence >= accept {
			return c, true
		}
		if c.Confidence >= floor && (!found || c.Confidence > best.Confidence) {
			best, found = c, true
		}
	}
	return best, found
}

// first returns the first non-empty source; every source counts as certain
func first(prints ...Fingerprint) (Candidate, bool) {
	return Choose(1.0, 1.0, prints...)
}

// text wraps a plain string source for first
func text(fn func() string) Fingerprint {
	return func() (Candidate, bool) {
		v := fn()
		if v == "" {
			return Candidate{}, false
		}
		return Candidate{Value: v, Confidence: 1.0}, true
	}
}
