package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tagsync/internal/models"
	"github.com/desertthunder/tagsync/internal/shared"
	"github.com/desertthunder/tagsync/internal/tasks"
)

// webhookResponse is the JSON body returned by every endpoint.
type webhookResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	Data    *webhookData `json:"data,omitempty"`
	Error   string       `json:"error,omitempty"`
}

// webhookData carries the publish result fields of a successful run.
type webhookData struct {
	VideoID   string `json:"video_id"`
	TagsCount int    `json:"tags_count"`
}

// failureResponse builds the error body for rejected or failed requests.
func failureResponse(message string) webhookResponse {
	return webhookResponse{Success: false, Error: message}
}

// writeJSON writes a JSON response body with the given status code.
func writeJSON(w http.ResponseWriter, status int, body webhookResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// WebhookHandler accepts record sync notifications and runs the publish
// pipeline synchronously. Implements the Handler interface for registration
// with a Router.
type WebhookHandler struct {
	engine tasks.SyncEngine
	logger *log.Logger
}

// NewWebhookHandler creates a webhook handler backed by the given engine.
func NewWebhookHandler(engine tasks.SyncEngine, logger *log.Logger) *WebhookHandler {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &WebhookHandler{engine: engine, logger: logger}
}

// Routes returns the HTTP routes this handler serves.
func (h *WebhookHandler) Routes() []string {
	return []string{"POST /webhook"}
}

// ServeHTTP decodes the notification payload, runs the pipeline, and maps
// the terminal outcome onto the response: 200 with the publish data on
// success, 400 with the pipeline's failure message otherwise.
func (h *WebhookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var req models.SyncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("rejected webhook payload", "error", err)
		writeJSON(w, http.StatusBadRequest, failureResponse(fmt.Sprintf("Invalid JSON: %v", err)))
		return
	}

	h.logger.Info("webhook received", "record_id", req.RecordID, "url", req.ContentURL)

	// A dropped caller connection must not tear the pipeline mid-flight;
	// the record and the video would otherwise be left half-updated.
	ctx := context.WithoutCancel(r.Context())

	result := h.engine.Publish(ctx, nil, req)

	h.logger.Info("webhook processed",
		"record_id", result.RecordID,
		"status", result.Outcome.Status,
		"message", result.Outcome.Message,
	)

	if !result.Outcome.Succeeded() {
		writeJSON(w, http.StatusBadRequest, failureResponse(result.Outcome.Message))
		return
	}

	writeJSON(w, http.StatusOK, webhookResponse{
		Success: true,
		Message: result.Outcome.Message,
		Data: &webhookData{
			VideoID:   result.VideoID,
			TagsCount: result.Outcome.TagsCount,
		},
	})
}
