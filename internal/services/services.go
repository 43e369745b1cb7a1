// package services defines clients for the remote systems the publish
// pipeline talks to
//
// YouTube Data API v3, Airtable REST, Google OAuth token endpoint
package services

import (
	"context"

	"github.com/desertthunder/tagsync/internal/models"
)

// VideoPublisher applies a normalized tag set to a platform video.
type VideoPublisher interface {
	// ApplyTags replaces the video's tags with the given set via a
	// read-modify-write of the video snippet. Returns a classified error
	// from the shared taxonomy on failure.
	ApplyTags(ctx context.Context, videoID string, tags models.TagSet) (*UpdateResult, error)
}

// RecordStore writes sync state back to the content record store.
type RecordStore interface {
	// MarkProcessing flags the record as in-flight when the pipeline
	// accepts a request.
	MarkProcessing(ctx context.Context, recordID string) error

	// CopyTags mirrors the curator's raw tag list into the record's Tags
	// field before the platform update.
	CopyTags(ctx context.Context, recordID, tags string) error

	// UpdateSyncStatus writes a terminal outcome to the record's sync
	// fields. The pipeline calls this exactly once per request.
	UpdateSyncStatus(ctx context.Context, recordID string, outcome models.SyncOutcome) error
}

// UpdateResult describes a completed platform tag update.
type UpdateResult struct {
	VideoID   string
	Title     string
	TagsCount int
}
