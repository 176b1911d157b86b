package module

import "oarr/internal/platform/config"

// Options holds configuration settings for the registers module
type Options struct {
	DefaultLimit int
	MaxLimit     int

	// Memory keeps registers in process instead of postgres
	Memory bool
}

// FromConfig extracts Options from the given config.Conf
func FromConfig(cfg config.Conf) Options {
	rc := cfg.Prefix("CORE_REGISTERS_")
	return Options{
		DefaultLimit: rc.MayInt("DEFAULT_LIMIT", 25),
		MaxLimit:     rc.MayInt("MAX_LIMIT", 100),
	}
}
