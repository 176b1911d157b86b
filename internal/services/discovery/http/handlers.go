// Package http provides http transport for discovery
package http

import (
	"bytes"
	"context"
	"encoding/json"
	stdhttp "net/http"

	"oarr/internal/core/register"
	"oarr/internal/modkit/httpkit"
	perr "oarr/internal/platform/errors"
	"oarr/internal/services/discovery/domain"
)

// Service is what the handlers need from discovery
type Service interface {
	domain.ServicePort
	DiscoverAndSave(ctx context.Context, url string, opts domain.Options) (*register.Register, error)
	DefaultOptions() domain.Options
}

// Register mounts discovery endpoints on the given router
func Register(r httpkit.Router, s Service) {
	h := &handlers{svc: s}

	httpkit.PostJSON[domain.DiscoverInput](r, "/", h.discover)
	httpkit.PostJSON[domain.FileInput](r, "/file", h.file)
}

type handlers struct{ svc Service }

// swagger:route POST /discover Discovery discoveryProbe
// @Summary Probe a repository and build its register
// @Description A valid oarr.json on the site wins; otherwise the detectors infer what they can
// @Tags Discovery
// @Accept json
// @Produce json
// @Param payload body domain.DiscoverInput true "Seed url"
// @Success 200 {object} map[string]any "ok"
// @Failure 422 {object} httpkit.Envelope "invalid url or registry file"
// @Failure 503 {object} httpkit.Envelope "save requested without storage"
// @Router /discover [post]
func (h *handlers) discover(r *stdhttp.Request, in domain.DiscoverInput) (any, error) {
	opts := h.svc.DefaultOptions()
	if in.RaiseRegistryFileError != nil {
		opts.RaiseRegistryFileError = *in.RaiseRegistryFileError
	}
	if in.Save {
		rec, err := h.svc.DiscoverAndSave(r.Context(), in.URL, opts)
		if err != nil {
			return nil, err
		}
		return httpkit.Created(rec), nil
	}
	return h.svc.Discover(r.Context(), in.URL, opts)
}

// swagger:route POST /discover/file Discovery discoveryFile
// @Summary Validate a registry file and expand it into a register
// @Tags Discovery
// @Accept json
// @Produce json
// @Param payload body domain.FileInput true "Descriptor or its url"
// @Success 200 {object} map[string]any "ok"
// @Failure 422 {object} httpkit.Envelope "violations in details"
// @Router /discover/file [post]
func (h *handlers) file(r *stdhttp.Request, in domain.FileInput) (any, error) {
	if len(in.Content) == 0 {
		return h.svc.DiscoverFromURL(r.Context(), in.URL)
	}
	content, err := descriptor(in.Content)
	if err != nil {
		return nil, err
	}
	return h.svc.DiscoverFromFile(r.Context(), content, "request body")
}

// descriptor accepts the document inline or as a JSON string holding it
func descriptor(raw json.RawMessage) ([]byte, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '"' {
		return raw, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, perr.JSONErrf("content: %v", err)
	}
	return []byte(s), nil
}
