// Package httpkit is the http surface modules build against, so handler code
// does not reach into internal/platform/net/http directly
package httpkit

import (
	"net/http"

	phttp "oarr/internal/platform/net/http"
)

type (
	// Envelope is the transport envelope every handler answers with
	Envelope = phttp.Envelope
	// Response is a status plus a payload
	Response = phttp.Response
	// Handler is the platform handler type
	Handler = phttp.Handler
	// Router is the platform router seam
	Router = phttp.Router
)

// OK returns a 200 response
func OK(data any) Response { return phttp.OK(data) }

// Created returns a 201 response
func Created(data any) Response { return phttp.Created(data) }

// Param returns a path parameter such as {id}
func Param(r *http.Request, name string) string { return phttp.Param(r, name) }
