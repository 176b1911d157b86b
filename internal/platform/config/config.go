// Package config reads application configuration from environment variables
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"oarr/internal/platform/logger"
)

// Conf is a namespaced view over environment variables (e.g. "API_", "CORE_PROBE_").
// The zero value reads unprefixed keys
type Conf struct{ prefix string }

// New creates a root Conf
func New() Conf { return Conf{} }

// Prefix scopes a child view; prefixes concatenate
func (c Conf) Prefix(p string) Conf { return Conf{prefix: c.prefix + p} }

func (c Conf) key(k string) string { return c.prefix + k }

func (c Conf) get(k string) string { return strings.TrimSpace(os.Getenv(c.key(k))) }

// parsed reads key through parse. Unset yields def; a value parse rejects is logged and yields def
func parsed[T any](c Conf, key string, def T, parse func(string) (T, error)) T {
	s := c.get(key)
	if s == "" {
		return def
	}
	v, err := parse(s)
	if err != nil {
		logger.Get().Warn().Str("key", c.key(key)).Str("value", s).Interface("default", def).Msg("invalid config value; using default")
		return def
	}
	return v
}

// MustString panics when the key is unset or blank
func (c Conf) MustString(key string) string {
	v := c.get(key)
	if v == "" {
		logger.Get().Panic().Str("key", c.key(key)).Msg("missing required env")
	}
	return v
}

func (c Conf) MayString(key, def string) string {
	return parsed(c, key, def, func(s string) (string, error) { return s, nil })
}

func (c Conf) MayInt(key string, def int) int { return parsed(c, key, def, strconv.Atoi) }

func (c Conf) MayInt64(key string, def int64) int64 {
	return parsed(c, key, def, func(s string) (int64, error) { return strconv.ParseInt(s, 10, 64) })
}

func (c Conf) MayFloat64(key string, def float64) float64 {
	return parsed(c, key, def, func(s string) (float64, error) { return strconv.ParseFloat(s, 64) })
}

// MayBool takes what strconv.ParseBool takes
func (c Conf) MayBool(key string, def bool) bool { return parsed(c, key, def, strconv.ParseBool) }

func (c Conf) MayDuration(key string, def time.Duration) time.Duration {
	return parsed(c, key, def, time.ParseDuration)
}

// MayDurationBetween is MayDuration clamped to [lo, hi]
func (c Conf) MayDurationBetween(key string, def, lo, hi time.Duration) time.Duration {
	d := c.MayDuration(key, def)
	if d < lo || d > hi {
		clamped := min(max(d, lo), hi)
		logger.Get().Warn().Str("key", c.key(key)).Dur("value", d).Dur("clamped", clamped).Msg("duration out of range")
		return clamped
	}
	return d
}

// MayCSV splits a comma separated value, dropping blanks; def if nothing remains
func (c Conf) MayCSV(key string, def []string) []string {
	var out []string
	for _, p := range strings.Split(c.get(key), ",") {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
