package models

import (
	"fmt"
	"time"

	"github.com/desertthunder/tagsync/internal/shared"
)

// SyncRecord is a persisted audit row for one publish pipeline run.
//
// Rows are written after the terminal outcome is known and build the local
// sync history browsable from the CLI. Persistence is best-effort and never
// changes a pipeline result.
type SyncRecord struct {
	id          string
	sequence    int
	recordID    string
	videoID     string
	title       string
	status      SyncStatus
	message     string
	errorDetail string
	tagsCount   int
	createdAt   time.Time
	updatedAt   time.Time
	deletedAt   *time.Time
}

// NewSyncRecord creates an audit row for the given record and outcome.
// The ID and sequence are assigned by the repository on create.
func NewSyncRecord(recordID, videoID, title string, outcome SyncOutcome) *SyncRecord {
	now := time.Now()
	return &SyncRecord{
		recordID:    recordID,
		videoID:     videoID,
		title:       title,
		status:      outcome.Status,
		message:     outcome.Message,
		errorDetail: outcome.ErrorDetail,
		tagsCount:   outcome.TagsCount,
		createdAt:   now,
		updatedAt:   now,
	}
}

// ID returns the unique identifier for this record
func (s *SyncRecord) ID() string { return s.id }

// Sequence returns the per-table insertion counter value
func (s *SyncRecord) Sequence() int { return s.sequence }

// RecordID returns the content record this run synced
func (s *SyncRecord) RecordID() string { return s.recordID }

// VideoID returns the platform video id, empty when resolution failed
func (s *SyncRecord) VideoID() string { return s.videoID }

// Title returns the video title from the request payload
func (s *SyncRecord) Title() string { return s.title }

// Status returns the terminal status of the run
func (s *SyncRecord) Status() SyncStatus { return s.status }

// Message returns the caller-facing result message
func (s *SyncRecord) Message() string { return s.message }

// ErrorDetail returns the failure detail, empty on success
func (s *SyncRecord) ErrorDetail() string { return s.errorDetail }

// TagsCount returns how many tags were published
func (s *SyncRecord) TagsCount() int { return s.tagsCount }

// CreatedAt returns when this record was created
func (s *SyncRecord) CreatedAt() time.Time { return s.createdAt }

// UpdatedAt returns when this record was last updated
func (s *SyncRecord) UpdatedAt() time.Time { return s.updatedAt }

// DeletedAt returns the soft-delete timestamp, nil while live
func (s *SyncRecord) DeletedAt() *time.Time { return s.deletedAt }

// Outcome rebuilds the SyncOutcome this row was archived from.
func (s *SyncRecord) Outcome() SyncOutcome {
	return SyncOutcome{
		Status:      s.status,
		Message:     s.message,
		TagsCount:   s.tagsCount,
		ErrorDetail: s.errorDetail,
	}
}

// SetID sets the unique identifier, called by the repository on create
func (s *SyncRecord) SetID(id string) { s.id = id }

// SetTitle updates the stored video title
func (s *SyncRecord) SetTitle(title string) { s.title = title }

// SetSequence sets the insertion counter value, called by the repository on create
func (s *SyncRecord) SetSequence(sequence int) { s.sequence = sequence }

// SetCreatedAt overrides the creation timestamp when rehydrating from the database
func (s *SyncRecord) SetCreatedAt(t time.Time) { s.createdAt = t }

// SetUpdatedAt sets the modification timestamp
func (s *SyncRecord) SetUpdatedAt(t time.Time) { s.updatedAt = t }

// SetDeletedAt marks the record soft-deleted
func (s *SyncRecord) SetDeletedAt(t *time.Time) { s.deletedAt = t }

// Validate checks that the record represents a finished pipeline run.
func (s *SyncRecord) Validate() error {
	if s.recordID == "" {
		return fmt.Errorf("%w: sync record requires a record_id", shared.ErrInvalidInput)
	}
	if s.status != StatusSuccess && s.status != StatusFailed {
		return fmt.Errorf("%w: sync record status must be terminal, got %q", shared.ErrInvalidInput, s.status)
	}
	if s.tagsCount < 0 {
		return fmt.Errorf("%w: negative tags count", shared.ErrInvalidInput)
	}
	return nil
}
