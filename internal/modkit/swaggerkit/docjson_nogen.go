//go:build !swag

// Package swaggerkit mounts the swagger UI and the OpenAPI document under /api/docs
package swaggerkit

import "net/http"

const skeleton = `{"openapi":"3.0.3","info":{"title":"OARR Autodiscovery API","version":"0.0.0"},"servers":[{"url":"/api/v1"}],"paths":{}}`

// serveDocJSON serves a skeleton in builds without generated docs so the UI still loads
func serveDocJSON() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_, _ = w.Write([]byte(skeleton))
	}
}
