package tasks

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tagsync/internal/models"
	"github.com/desertthunder/tagsync/internal/services"
	"github.com/desertthunder/tagsync/internal/shared"
)

// Curator-facing messages. These land in the webhook response and in the
// record's Sync Error field, so the wording stays stable.
const (
	msgMissingRecordID  = "Missing record_id"
	msgNoTags           = "No suggested tags found to publish"
	msgNoVideoID        = "Could not extract video ID from URL"
	msgCopyTagsFailed   = "Failed to copy tags to Tags field"
	msgQuotaExceeded    = "YouTube API quota exceeded. Please try again later."
	msgVideoNotFound    = "Video not found on YouTube. Check the video URL."
	msgAccessDenied     = "Access denied. Check YouTube API permissions."
	msgPublisherMissing = "YouTube API not initialized"
	msgRecordsMissing   = "Airtable API not initialized"
)

// PublishResult carries the terminal outcome of one publish run.
type PublishResult struct {
	RecordID string
	VideoID  string
	Title    string
	Outcome  models.SyncOutcome
}

// SyncEngine defines the webhook-triggered tag publish pipeline.
type SyncEngine interface {
	// Publish runs the full pipeline for one request: validate, resolve the
	// video reference, mirror and normalize the tags, update the platform,
	// and report the terminal outcome to the record. The result always
	// carries an outcome; failures are encoded there rather than returned.
	Publish(ctx context.Context, progress chan<- ProgressUpdate, req models.SyncRequest) *PublishResult
}

// HistoryArchiver persists finished runs for the history views.
//
// Optional; archive failures are logged and never change the outcome.
type HistoryArchiver interface {
	ArchiveSync(record *models.SyncRecord) error
}

// PublishEngine implements SyncEngine for tag publishing.
// Contains dependencies on the video platform client and the record store.
type PublishEngine struct {
	publisher services.VideoPublisher
	records   services.RecordStore
	history   HistoryArchiver
	logger    *log.Logger
}

// NewPublishEngine creates a new PublishEngine with the provided clients.
func NewPublishEngine(publisher services.VideoPublisher, records services.RecordStore, logger *log.Logger) *PublishEngine {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &PublishEngine{
		publisher: publisher,
		records:   records,
		logger:    logger,
	}
}

// SetHistoryArchiver attaches the optional history store.
func (e *PublishEngine) SetHistoryArchiver(history HistoryArchiver) {
	e.history = history
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *PublishEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}

// Publish runs one request through the pipeline.
//
// The terminal outcome is written to the record at most once; the Processing
// flag and the Tags mirror are best-effort side writes along the way.
func (e *PublishEngine) Publish(ctx context.Context, progress chan<- ProgressUpdate, req models.SyncRequest) *PublishResult {
	result := &PublishResult{RecordID: req.RecordID, Title: req.Title}

	e.sendProgress(progress, receivedUpdate(req.Title))

	if strings.TrimSpace(req.RecordID) == "" {
		// No identified record, so nothing to report against.
		result.Outcome = models.FailedOutcome(msgMissingRecordID)
		return result
	}

	if e.records == nil {
		result.Outcome = models.FailedOutcome(msgRecordsMissing)
		return result
	}

	if err := e.records.MarkProcessing(ctx, req.RecordID); err != nil {
		e.logger.Warn("processing status write failed", "record_id", req.RecordID, "error", err)
	}

	if strings.TrimSpace(req.SuggestedTags) == "" {
		return e.finish(ctx, progress, result, models.FailedOutcome(msgNoTags))
	}

	e.sendProgress(progress, resolvingUpdate())
	ref, err := models.ResolveVideoURL(req.ContentURL)
	if err != nil {
		return e.finish(ctx, progress, result, models.FailedOutcome(msgNoVideoID))
	}
	result.VideoID = ref.VideoID
	e.sendProgress(progress, resolvedUpdate(ref))

	e.sendProgress(progress, copyTagsUpdate())
	if err := e.records.CopyTags(ctx, req.RecordID, req.SuggestedTags); err != nil {
		e.logger.Error("tags copy failed", "record_id", req.RecordID, "error", err)
		return e.finish(ctx, progress, result, models.FailedOutcome(msgCopyTagsFailed))
	}

	e.sendProgress(progress, normalizeUpdate())
	tags, err := models.NormalizeTags(req.SuggestedTags)
	if err != nil {
		return e.finish(ctx, progress, result, models.FailedOutcome(fmt.Sprintf("Tag validation failed: %v", err)))
	}
	e.sendProgress(progress, normalizedUpdate(tags))

	if e.publisher == nil {
		return e.finish(ctx, progress, result, models.FailedOutcome(msgPublisherMissing))
	}

	e.sendProgress(progress, applyingUpdate(ref.VideoID, len(tags)))
	updateResult, err := e.publisher.ApplyTags(ctx, ref.VideoID, tags)
	if err != nil {
		e.logger.Error("video update failed", "video_id", ref.VideoID, "error", err)
		return e.finish(ctx, progress, result, failureOutcome(err))
	}

	if updateResult.Title != "" {
		result.Title = updateResult.Title
	}
	e.sendProgress(progress, appliedUpdate(updateResult))

	e.logger.Info("tags published", "record_id", req.RecordID, "video_id", ref.VideoID, "tags_count", updateResult.TagsCount)
	return e.finish(ctx, progress, result, models.SuccessOutcome(updateResult.TagsCount))
}

// finish seals the result with the terminal outcome, reports it to the
// record, and archives the run. Report and archive failures are logged but
// never overturn the outcome the caller sees.
func (e *PublishEngine) finish(ctx context.Context, progress chan<- ProgressUpdate, result *PublishResult, outcome models.SyncOutcome) *PublishResult {
	result.Outcome = outcome

	e.sendProgress(progress, reportingUpdate(outcome.Status))
	if err := e.records.UpdateSyncStatus(ctx, result.RecordID, outcome); err != nil {
		e.logger.Warn("status report failed", "record_id", result.RecordID, "error", err)
	}

	e.archive(result)
	return result
}

// archive hands the finished run to the history store when one is attached.
func (e *PublishEngine) archive(result *PublishResult) {
	if e.history == nil {
		return
	}

	record := models.NewSyncRecord(result.RecordID, result.VideoID, result.Title, result.Outcome)
	if err := e.history.ArchiveSync(record); err != nil {
		e.logger.Warn("history archive failed", "record_id", result.RecordID, "error", err)
	}
}

// failureOutcome maps a platform error onto the curator-facing message.
func failureOutcome(err error) models.SyncOutcome {
	switch {
	case errors.Is(err, shared.ErrQuotaExceeded):
		return models.FailedOutcome(msgQuotaExceeded)
	case errors.Is(err, shared.ErrVideoNotFound):
		return models.FailedOutcome(msgVideoNotFound)
	case errors.Is(err, shared.ErrAccessDenied):
		return models.FailedOutcome(msgAccessDenied)
	default:
		return models.FailedOutcome(fmt.Sprintf("YouTube API error: %v", err))
	}
}
