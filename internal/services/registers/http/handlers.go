// Package http provides http transport for registers
package http

import (
	stdhttp "net/http"

	"oarr/internal/core/register"
	"oarr/internal/modkit/httpkit"
	perr "oarr/internal/platform/errors"
	"oarr/internal/services/registers/domain"
)

// Register mounts register endpoints on the given router
func Register(r httpkit.Router, s domain.StorePort) {
	h := &handlers{svc: s}

	httpkit.Get(r, "/{id}", h.get)
	httpkit.PostJSON[domain.Query](r, "/query", h.query)
	httpkit.PutJSON[register.Register](r, "/", h.save)
	httpkit.Delete(r, "/{id}", h.delete)
}

type handlers struct{ svc domain.StorePort }

// swagger:route GET /registers/{id} Registers registersGet
// @Summary Fetch a stored register
// @Tags Registers
// @Produce json
// @Param id path string true "Register id (uuid)"
// @Success 200 {object} map[string]any "ok"
// @Failure 404 {object} httpkit.Envelope "not found"
// @Router /registers/{id} [get]
func (h *handlers) get(r *stdhttp.Request) (any, error) {
	id := httpkit.Param(r, "id")
	rec, err := h.svc.Get(r.Context(), id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, perr.NotFoundf("register %s not found", id)
	}
	return rec, nil
}

// swagger:route POST /registers/query Registers registersQuery
// @Summary Query registers by JSON containment
// @Tags Registers
// @Accept json
// @Produce json
// @Param payload body domain.Query true "Query"
// @Success 200 {object} domain.Result "ok"
// @Router /registers/query [post]
func (h *handlers) query(r *stdhttp.Request, in domain.Query) (any, error) {
	return h.svc.Query(r.Context(), in)
}

// swagger:route PUT /registers Registers registersSave
// @Summary Save a register, assigning an id when it has none
// @Tags Registers
// @Accept json
// @Produce json
// @Param payload body map[string]any true "Register document"
// @Success 201 {object} domain.Saved "created"
// @Router /registers [put]
func (h *handlers) save(r *stdhttp.Request, in register.Register) (any, error) {
	id, err := h.svc.Save(r.Context(), &in)
	if err != nil {
		return nil, err
	}
	return httpkit.Created(domain.Saved{ID: id}), nil
}

// swagger:route DELETE /registers/{id} Registers registersDelete
// @Summary Delete a stored register
// @Tags Registers
// @Produce json
// @Param id path string true "Register id (uuid)"
// @Success 200 {object} domain.Deleted "ok"
// @Failure 404 {object} httpkit.Envelope "not found"
// @Router /registers/{id} [delete]
func (h *handlers) delete(r *stdhttp.Request) (any, error) {
	id := httpkit.Param(r, "id")
	ok, err := h.svc.Delete(r.Context(), id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, perr.NotFoundf("register %s not found", id)
	}
	return domain.Deleted{ID: id, Deleted: true}, nil
}
