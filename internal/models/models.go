package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/tagsync/internal/shared"
)

// Model defines the base interface for all persistent models in the tag sync service.
type Model interface {
	ID() string           // ID returns the unique identifier for this model
	CreatedAt() time.Time // CreatedAt returns when this model was created
	UpdatedAt() time.Time // UpdatedAt returns when this model was last updated
	Validate() error      // Validate checks if the model's data is valid and returns an error if not
}

// Repository defines the interface for data access operations.
// Implementations handle database interactions for specific model types.
type Repository[T Model] interface {
	Create(model T) error                      // Create inserts a new model into the database
	Get(id string) (T, error)                  // Get retrieves a model by its ID
	Update(model T) error                      // Update modifies an existing model in the database
	Delete(id string) error                    // Delete removes a model from the database by its ID
	List(criteria map[string]any) ([]T, error) // List retrieves all models matching the given criteria
}

// SyncRequest is the webhook payload sent when a curator marks a record
// ready to publish.
type SyncRequest struct {
	RecordID      string `json:"record_id"`
	Title         string `json:"title,omitempty"`
	ContentURL    string `json:"content_url"`
	SuggestedTags string `json:"suggested_tags"`
}

// Validate checks that every field required to run the pipeline is present.
func (r SyncRequest) Validate() error {
	if strings.TrimSpace(r.RecordID) == "" {
		return fmt.Errorf("%w: record_id is required", shared.ErrInvalidInput)
	}
	if strings.TrimSpace(r.ContentURL) == "" {
		return fmt.Errorf("%w: content_url is required", shared.ErrInvalidInput)
	}
	if strings.TrimSpace(r.SuggestedTags) == "" {
		return fmt.Errorf("%w: suggested_tags is required", shared.ErrInvalidInput)
	}
	return nil
}

// SyncStatus is the state written to the content record's sync field.
type SyncStatus string

const (
	StatusProcessing SyncStatus = "Processing"
	StatusSuccess    SyncStatus = "Success"
	StatusFailed     SyncStatus = "Failed"
)

// SyncOutcome is the terminal result of one publish pipeline run. It is
// reported to the record store exactly once per request.
type SyncOutcome struct {
	Status      SyncStatus
	Message     string
	TagsCount   int
	ErrorDetail string
}

// Succeeded reports whether the pipeline reached terminal success.
func (o SyncOutcome) Succeeded() bool {
	return o.Status == StatusSuccess
}

// SuccessOutcome builds the outcome for a completed publish of count tags.
func SuccessOutcome(count int) SyncOutcome {
	return SyncOutcome{
		Status:    StatusSuccess,
		Message:   fmt.Sprintf("Tags published successfully. Updated with %d tags", count),
		TagsCount: count,
	}
}

// FailedOutcome builds the outcome for a failed publish. The detail doubles
// as the caller-facing error and the record store's error field.
func FailedOutcome(detail string) SyncOutcome {
	return SyncOutcome{
		Status:      StatusFailed,
		Message:     detail,
		ErrorDetail: detail,
	}
}
