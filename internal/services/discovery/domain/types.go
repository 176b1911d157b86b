// Package domain defines the types and ports of the discovery service
package domain

import (
	"encoding/json"
	"time"

	"oarr/internal/core/register"
)

// Options tune one probe
type Options struct {
	// RaiseRegistryFileError fails the probe on an invalid oarr.json instead of falling back to detection
	RaiseRegistryFileError bool
}

// DefaultOptions raises on invalid descriptors
func DefaultOptions() Options { return Options{RaiseRegistryFileError: true} }

// Outcome is what happened to one detector during a probe
type Outcome string

// Outcomes
const (
	OutcomeRan     Outcome = "ran"
	OutcomeSkipped Outcome = "skipped"
	OutcomeFailed  Outcome = "failed"
)

// ProbeEvent is the telemetry row for one detector run
type ProbeEvent struct {
	At       time.Time
	RunID    string
	URL      string
	Detector string
	Outcome  Outcome
	Elapsed  time.Duration
	Error    string
}

// DiscoverInput is the body of POST /discover
type DiscoverInput struct {
	URL                    string `json:"url" validate:"required,seed_url" example:"eprints.example.ac.uk"`
	RaiseRegistryFileError *bool  `json:"raise_registry_file_error,omitempty" example:"true"`
	Save                   bool   `json:"save,omitempty" example:"false"`
}

// FileInput is the body of POST /discover/file: the descriptor itself or where to fetch it
type FileInput struct {
	Content json.RawMessage `json:"content,omitempty" validate:"required_without=URL" swaggertype:"object"`
	URL     string          `json:"url,omitempty" validate:"omitempty,url" example:"http://eprints.example.ac.uk/oarr.json"`
}

// BatchResult is the outcome of one probe in a batch
type BatchResult struct {
	URL string
	// ID is set when the register was saved
	ID       string
	Register *register.Register
	Err      error
}
