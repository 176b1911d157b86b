package module

import (
	"oarr/internal/adapters/probe"
	"oarr/internal/core/detector"
	"oarr/internal/platform/config"
)

// Options holds configuration settings for the discovery module
type Options struct {
	RaiseRegistryFileError bool
	// Telemetry sends probe events to clickhouse when deps.CH is set
	Telemetry bool

	// Client and Detectors replace the defaults; tests use them
	Client    *probe.Client
	Detectors []detector.Detector
}

// FromConfig extracts Options from the given config.Conf
func FromConfig(cfg config.Conf) Options {
	dc := cfg.Prefix("CORE_DISCOVERY_")
	return Options{
		RaiseRegistryFileError: dc.MayBool("RAISE_REGISTRY_FILE_ERROR", true),
		Telemetry:              dc.MayBool("TELEMETRY", true),
	}
}
