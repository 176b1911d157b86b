// Package version reports the build of the running binary
package version

// BuildInfo holds version information about the build
type BuildInfo struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Set with -ldflags "-X 'oarr/internal/core/version.version=v0.1.0' -X 'oarr/internal/core/version.commit=abcd'"
var (
	service = "oarr"
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Info returns the build information for binary, e.g. "oarr-api"
func Info(binary string) BuildInfo {
	name := service
	if binary != "" {
		name = binary
	}
	return BuildInfo{Service: name, Version: version, Commit: commit, Date: date}
}
