package server

import (
	"encoding/json"
	"net/http"
)

// healthResponse is the body served on the health check route.
type healthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Message string `json:"message"`
}

// HealthHandler answers liveness probes on the root path.
// Implements the Handler interface for registration with a Router.
type HealthHandler struct{}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// Routes returns the HTTP routes this handler serves.
//
// The {$} suffix pins the pattern to the root path itself rather than the
// whole subtree.
func (h *HealthHandler) Routes() []string {
	return []string{"GET /{$}"}
}

// ServeHTTP reports the service as ready to receive webhooks.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(healthResponse{
		Status:  "healthy",
		Service: "tagsync",
		Message: "Server is running and ready to receive webhooks",
	})
}
