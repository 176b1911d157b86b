// Package domain holds the register storage contract shared by http, service and other modules
package domain

import "oarr/internal/core/register"

// Query selects stored registers whose document contains Match (jsonb @> semantics)
type Query struct {
	Match  map[string]any `json:"match,omitempty" swaggertype:"object"`
	Limit  int            `json:"limit,omitempty" validate:"omitempty,min=1" example:"25"`
	Offset int            `json:"offset,omitempty" validate:"omitempty,min=0" example:"0"`
}

// Result is one page of a query
type Result struct {
	Total   int                  `json:"total" example:"1"`
	Records []*register.Register `json:"records"`
}

// Saved is returned after a write
type Saved struct {
	ID string `json:"id" example:"3f0c7b3e-4a43-4c55-9d5f-1c1b8a8f2d10"`
}

// Deleted is returned after a delete
type Deleted struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}
