// Airtable REST client for sync status write-back
//
// Airtable REST API reference: https://airtable.com/developers/web/api
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/desertthunder/tagsync/internal/models"
	"github.com/desertthunder/tagsync/internal/shared"
)

const (
	defaultAirtableBaseURL = "https://api.airtable.com/v0"
	defaultAirtableTable   = "Content"
)

// Field names in the content table.
const (
	fieldSyncStatus  = "Tag Sync Status"
	fieldSyncDate    = "Last Sync Date"
	fieldSyncError   = "Sync Error"
	fieldPublishTags = "Publish Tags"
	fieldTags        = "Tags"
)

// AirtableService implements [RecordStore] against the Airtable REST API.
//
// All writes are PATCH requests scoped to a single base and table. Every
// status write stamps Last Sync Date and sets or clears Sync Error; success
// additionally unchecks the Publish Tags trigger so the record doesn't
// re-fire the webhook.
type AirtableService struct {
	baseURL    string
	apiKey     string
	baseID     string
	table      string
	httpClient *http.Client
	now        func() time.Time
}

// NewAirtableService creates a client for one base and table. An empty table
// name falls back to the default content table.
func NewAirtableService(apiKey, baseID, table string) (*AirtableService, error) {
	if apiKey == "" || baseID == "" {
		return nil, fmt.Errorf("%w: airtable api_key and base_id", shared.ErrMissingCredentials)
	}
	if table == "" {
		table = defaultAirtableTable
	}

	return &AirtableService{
		baseURL:    defaultAirtableBaseURL,
		apiKey:     apiKey,
		baseID:     baseID,
		table:      table,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		now:        time.Now,
	}, nil
}

// MarkProcessing flags the record as in-flight when the pipeline accepts it.
func (a *AirtableService) MarkProcessing(ctx context.Context, recordID string) error {
	return a.writeStatus(ctx, recordID, models.StatusProcessing, "")
}

// UpdateSyncStatus writes a terminal outcome to the record's sync fields.
func (a *AirtableService) UpdateSyncStatus(ctx context.Context, recordID string, outcome models.SyncOutcome) error {
	return a.writeStatus(ctx, recordID, outcome.Status, outcome.ErrorDetail)
}

// CopyTags mirrors the curator's raw tag list into the record's Tags field.
func (a *AirtableService) CopyTags(ctx context.Context, recordID, tags string) error {
	return a.patchRecord(ctx, recordID, map[string]any{fieldTags: tags})
}

// writeStatus builds the sync status field set shared by processing and
// terminal writes.
func (a *AirtableService) writeStatus(ctx context.Context, recordID string, status models.SyncStatus, errorDetail string) error {
	fields := map[string]any{
		fieldSyncStatus: string(status),
		fieldSyncDate:   a.now().UTC().Format(time.RFC3339),
		fieldSyncError:  errorDetail,
	}

	if status == models.StatusSuccess {
		fields[fieldPublishTags] = false
	}

	return a.patchRecord(ctx, recordID, fields)
}

// patchRecord performs an authenticated PATCH of the given fields.
func (a *AirtableService) patchRecord(ctx context.Context, recordID string, fields map[string]any) error {
	if recordID == "" {
		return fmt.Errorf("%w: record id is required", shared.ErrInvalidInput)
	}

	payload, err := json.Marshal(map[string]any{"fields": fields})
	if err != nil {
		return fmt.Errorf("failed to marshal fields: %w", err)
	}

	apiURL := fmt.Sprintf("%s/%s/%s/%s", a.baseURL, a.baseID, url.PathEscape(a.table), recordID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, apiURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+a.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrRecordUpdate, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp struct {
			Error struct {
				Type    string `json:"type"`
				Message string `json:"message"`
			} `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Error.Message != "" {
			return fmt.Errorf("%w: status %d: %s", shared.ErrRecordUpdate, resp.StatusCode, errResp.Error.Message)
		}
		return fmt.Errorf("%w: status %d", shared.ErrRecordUpdate, resp.StatusCode)
	}

	return nil
}
