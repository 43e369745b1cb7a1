package tasks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/desertthunder/tagsync/internal/models"
	"github.com/desertthunder/tagsync/internal/services"
	"github.com/desertthunder/tagsync/internal/shared"
)

type fakePublisher struct {
	result     *services.UpdateResult
	err        error
	applyCalls int
	lastVideo  string
	lastTags   models.TagSet
}

func (f *fakePublisher) ApplyTags(ctx context.Context, videoID string, tags models.TagSet) (*services.UpdateResult, error) {
	f.applyCalls++
	f.lastVideo = videoID
	f.lastTags = tags
	if f.err != nil {
		return nil, f.err
	}
	if f.result != nil {
		return f.result, nil
	}
	return &services.UpdateResult{VideoID: videoID, Title: "Test Video", TagsCount: len(tags)}, nil
}

type fakeStore struct {
	markCalls   int
	copyCalls   int
	statusCalls int
	lastCopied  string
	lastOutcome models.SyncOutcome
	markErr     error
	copyErr     error
	statusErr   error
}

func (f *fakeStore) MarkProcessing(ctx context.Context, recordID string) error {
	f.markCalls++
	return f.markErr
}

func (f *fakeStore) CopyTags(ctx context.Context, recordID, tags string) error {
	f.copyCalls++
	f.lastCopied = tags
	return f.copyErr
}

func (f *fakeStore) UpdateSyncStatus(ctx context.Context, recordID string, outcome models.SyncOutcome) error {
	f.statusCalls++
	f.lastOutcome = outcome
	return f.statusErr
}

type fakeArchiver struct {
	records []*models.SyncRecord
	err     error
}

func (f *fakeArchiver) ArchiveSync(record *models.SyncRecord) error {
	if f.err != nil {
		return f.err
	}
	f.records = append(f.records, record)
	return nil
}

func newTestEngine(publisher *fakePublisher, store *fakeStore) *PublishEngine {
	return NewPublishEngine(publisher, store, shared.NewLogger(io.Discard))
}

func validRequest() models.SyncRequest {
	return models.SyncRequest{
		RecordID:      "rec123",
		Title:         "My Upload",
		ContentURL:    "https://www.youtube.com/watch?v=abc123",
		SuggestedTags: "go, web",
	}
}

func TestPublishEngine_Publish(t *testing.T) {
	t.Run("Successful Publish", func(t *testing.T) {
		publisher := &fakePublisher{}
		store := &fakeStore{}
		archiver := &fakeArchiver{}
		engine := newTestEngine(publisher, store)
		engine.SetHistoryArchiver(archiver)

		result := engine.Publish(context.Background(), nil, validRequest())

		if !result.Outcome.Succeeded() {
			t.Fatalf("expected success, got %+v", result.Outcome)
		}
		if result.Outcome.Message != "Tags published successfully. Updated with 2 tags" {
			t.Errorf("unexpected message %q", result.Outcome.Message)
		}
		if result.Outcome.TagsCount != 2 {
			t.Errorf("expected 2 tags, got %d", result.Outcome.TagsCount)
		}
		if result.VideoID != "abc123" {
			t.Errorf("expected video ID 'abc123', got %s", result.VideoID)
		}
		if result.Title != "Test Video" {
			t.Errorf("expected platform title, got %s", result.Title)
		}

		if store.markCalls != 1 {
			t.Errorf("expected 1 processing write, got %d", store.markCalls)
		}
		if store.copyCalls != 1 || store.lastCopied != "go, web" {
			t.Errorf("expected raw tags copied once, got %d calls with %q", store.copyCalls, store.lastCopied)
		}
		if store.statusCalls != 1 {
			t.Errorf("expected exactly one terminal report, got %d", store.statusCalls)
		}
		if store.lastOutcome.Status != models.StatusSuccess {
			t.Errorf("expected Success reported, got %s", store.lastOutcome.Status)
		}

		if publisher.lastVideo != "abc123" {
			t.Errorf("expected publish to 'abc123', got %s", publisher.lastVideo)
		}
		if len(publisher.lastTags) != 2 || publisher.lastTags[0] != "go" || publisher.lastTags[1] != "web" {
			t.Errorf("expected normalized tags [go web], got %v", publisher.lastTags)
		}

		if len(archiver.records) != 1 {
			t.Fatalf("expected 1 archived run, got %d", len(archiver.records))
		}
		if archiver.records[0].Status() != models.StatusSuccess {
			t.Errorf("expected archived Success, got %s", archiver.records[0].Status())
		}
		if archiver.records[0].VideoID() != "abc123" {
			t.Errorf("expected archived video ID, got %s", archiver.records[0].VideoID())
		}
	})

	t.Run("Dedup Flows Into Count", func(t *testing.T) {
		publisher := &fakePublisher{}
		store := &fakeStore{}
		engine := newTestEngine(publisher, store)

		req := validRequest()
		req.SuggestedTags = "go, golang ,go;web"

		result := engine.Publish(context.Background(), nil, req)

		if !result.Outcome.Succeeded() {
			t.Fatalf("expected success, got %+v", result.Outcome)
		}
		if result.Outcome.TagsCount != 3 {
			t.Errorf("expected 3 unique tags, got %d", result.Outcome.TagsCount)
		}
		if result.Outcome.Message != "Tags published successfully. Updated with 3 tags" {
			t.Errorf("unexpected message %q", result.Outcome.Message)
		}
		if len(publisher.lastTags) != 3 {
			t.Errorf("expected deduped tags published, got %v", publisher.lastTags)
		}
	})

	t.Run("Missing Record ID", func(t *testing.T) {
		publisher := &fakePublisher{}
		store := &fakeStore{}
		archiver := &fakeArchiver{}
		engine := newTestEngine(publisher, store)
		engine.SetHistoryArchiver(archiver)

		req := validRequest()
		req.RecordID = "  "

		result := engine.Publish(context.Background(), nil, req)

		if result.Outcome.Succeeded() {
			t.Fatal("expected failure")
		}
		if result.Outcome.Message != "Missing record_id" {
			t.Errorf("unexpected message %q", result.Outcome.Message)
		}
		if store.markCalls != 0 || store.copyCalls != 0 || store.statusCalls != 0 {
			t.Errorf("expected no record writes, got mark=%d copy=%d status=%d", store.markCalls, store.copyCalls, store.statusCalls)
		}
		if publisher.applyCalls != 0 {
			t.Errorf("expected no platform calls, got %d", publisher.applyCalls)
		}
		if len(archiver.records) != 0 {
			t.Errorf("expected nothing archived, got %d", len(archiver.records))
		}
	})

	t.Run("Missing Tags", func(t *testing.T) {
		publisher := &fakePublisher{}
		store := &fakeStore{}
		engine := newTestEngine(publisher, store)

		req := validRequest()
		req.SuggestedTags = "   "

		result := engine.Publish(context.Background(), nil, req)

		if result.Outcome.Message != "No suggested tags found to publish" {
			t.Errorf("unexpected message %q", result.Outcome.Message)
		}
		if store.markCalls != 1 {
			t.Errorf("expected processing write before the check, got %d", store.markCalls)
		}
		if store.statusCalls != 1 || store.lastOutcome.Status != models.StatusFailed {
			t.Errorf("expected one Failed report, got %d calls with %s", store.statusCalls, store.lastOutcome.Status)
		}
		if store.copyCalls != 0 || publisher.applyCalls != 0 {
			t.Errorf("expected no copy or platform calls, got copy=%d apply=%d", store.copyCalls, publisher.applyCalls)
		}
	})

	t.Run("Unresolvable URL", func(t *testing.T) {
		publisher := &fakePublisher{}
		store := &fakeStore{}
		engine := newTestEngine(publisher, store)

		req := validRequest()
		req.ContentURL = "https://example.com/video/42"

		result := engine.Publish(context.Background(), nil, req)

		if result.Outcome.Message != "Could not extract video ID from URL" {
			t.Errorf("unexpected message %q", result.Outcome.Message)
		}
		if store.copyCalls != 0 {
			t.Errorf("expected no tags copy after resolve failure, got %d", store.copyCalls)
		}
		if store.statusCalls != 1 {
			t.Errorf("expected one Failed report, got %d", store.statusCalls)
		}
	})

	t.Run("Copy Failure Is Terminal", func(t *testing.T) {
		publisher := &fakePublisher{}
		store := &fakeStore{copyErr: errors.New("field rejected")}
		engine := newTestEngine(publisher, store)

		result := engine.Publish(context.Background(), nil, validRequest())

		if result.Outcome.Message != "Failed to copy tags to Tags field" {
			t.Errorf("unexpected message %q", result.Outcome.Message)
		}
		if publisher.applyCalls != 0 {
			t.Errorf("expected no platform call after copy failure, got %d", publisher.applyCalls)
		}
		if store.statusCalls != 1 {
			t.Errorf("expected one Failed report, got %d", store.statusCalls)
		}
	})

	t.Run("Tags Copied Before Validation", func(t *testing.T) {
		publisher := &fakePublisher{}
		store := &fakeStore{}
		engine := newTestEngine(publisher, store)

		req := validRequest()
		req.SuggestedTags = "go, " + strings.Repeat("x", 31)

		result := engine.Publish(context.Background(), nil, req)

		if !strings.HasPrefix(result.Outcome.Message, "Tag validation failed:") {
			t.Errorf("unexpected message %q", result.Outcome.Message)
		}
		if store.copyCalls != 1 {
			t.Errorf("expected tags copied before validation, got %d copies", store.copyCalls)
		}
		if publisher.applyCalls != 0 {
			t.Errorf("expected no platform call for invalid tags, got %d", publisher.applyCalls)
		}
	})

	t.Run("Platform Failures", func(t *testing.T) {
		tests := []struct {
			name        string
			err         error
			wantMessage string
			wantPrefix  string
		}{
			{
				name:        "quota exceeded",
				err:         fmt.Errorf("%w: daily limit", shared.ErrQuotaExceeded),
				wantMessage: "YouTube API quota exceeded. Please try again later.",
			},
			{
				name:        "video not found",
				err:         fmt.Errorf("%w: abc123", shared.ErrVideoNotFound),
				wantMessage: "Video not found on YouTube. Check the video URL.",
			},
			{
				name:        "access denied",
				err:         fmt.Errorf("%w: credentials rejected after refresh", shared.ErrAccessDenied),
				wantMessage: "Access denied. Check YouTube API permissions.",
			},
			{
				name:       "refresh failure",
				err:        fmt.Errorf("%w: invalid_grant", shared.ErrRefreshFailed),
				wantPrefix: "YouTube API error:",
			},
			{
				name:       "unclassified",
				err:        errors.New("backend exploded"),
				wantPrefix: "YouTube API error:",
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				publisher := &fakePublisher{err: tt.err}
				store := &fakeStore{}
				engine := newTestEngine(publisher, store)

				result := engine.Publish(context.Background(), nil, validRequest())

				if result.Outcome.Succeeded() {
					t.Fatal("expected failure")
				}
				if tt.wantMessage != "" && result.Outcome.Message != tt.wantMessage {
					t.Errorf("expected message %q, got %q", tt.wantMessage, result.Outcome.Message)
				}
				if tt.wantPrefix != "" && !strings.HasPrefix(result.Outcome.Message, tt.wantPrefix) {
					t.Errorf("expected prefix %q, got %q", tt.wantPrefix, result.Outcome.Message)
				}
				if store.statusCalls != 1 {
					t.Errorf("expected one Failed report, got %d", store.statusCalls)
				}
				if store.lastOutcome.ErrorDetail != result.Outcome.Message {
					t.Errorf("expected reported detail to match message, got %q", store.lastOutcome.ErrorDetail)
				}
			})
		}
	})

	t.Run("Processing Write Failure Is Not Terminal", func(t *testing.T) {
		publisher := &fakePublisher{}
		store := &fakeStore{markErr: errors.New("record store down")}
		engine := newTestEngine(publisher, store)

		result := engine.Publish(context.Background(), nil, validRequest())

		if !result.Outcome.Succeeded() {
			t.Fatalf("expected success despite processing write failure, got %+v", result.Outcome)
		}
	})

	t.Run("Report Failure Does Not Overturn Outcome", func(t *testing.T) {
		publisher := &fakePublisher{}
		store := &fakeStore{statusErr: errors.New("record store down")}
		engine := newTestEngine(publisher, store)

		result := engine.Publish(context.Background(), nil, validRequest())

		if !result.Outcome.Succeeded() {
			t.Fatalf("expected success despite report failure, got %+v", result.Outcome)
		}
		if store.statusCalls != 1 {
			t.Errorf("expected a single report attempt, got %d", store.statusCalls)
		}
	})

	t.Run("Archive Failure Is Silent", func(t *testing.T) {
		publisher := &fakePublisher{}
		store := &fakeStore{}
		archiver := &fakeArchiver{err: errors.New("disk full")}
		engine := newTestEngine(publisher, store)
		engine.SetHistoryArchiver(archiver)

		result := engine.Publish(context.Background(), nil, validRequest())

		if !result.Outcome.Succeeded() {
			t.Fatalf("expected success despite archive failure, got %+v", result.Outcome)
		}
	})

	t.Run("Failed Runs Are Archived", func(t *testing.T) {
		publisher := &fakePublisher{err: fmt.Errorf("%w: abc123", shared.ErrVideoNotFound)}
		store := &fakeStore{}
		archiver := &fakeArchiver{}
		engine := newTestEngine(publisher, store)
		engine.SetHistoryArchiver(archiver)

		engine.Publish(context.Background(), nil, validRequest())

		if len(archiver.records) != 1 {
			t.Fatalf("expected failed run archived, got %d", len(archiver.records))
		}
		if archiver.records[0].Status() != models.StatusFailed {
			t.Errorf("expected archived Failed, got %s", archiver.records[0].Status())
		}
		if archiver.records[0].ErrorDetail() == "" {
			t.Error("expected error detail archived")
		}
	})

	t.Run("Nil Publisher", func(t *testing.T) {
		store := &fakeStore{}
		engine := NewPublishEngine(nil, store, shared.NewLogger(io.Discard))

		result := engine.Publish(context.Background(), nil, validRequest())

		if result.Outcome.Message != "YouTube API not initialized" {
			t.Errorf("unexpected message %q", result.Outcome.Message)
		}
		if store.statusCalls != 1 {
			t.Errorf("expected Failed report, got %d", store.statusCalls)
		}
	})

	t.Run("Progress Updates", func(t *testing.T) {
		t.Run("Emits Each Phase", func(t *testing.T) {
			publisher := &fakePublisher{}
			store := &fakeStore{}
			engine := newTestEngine(publisher, store)

			progressCh := make(chan ProgressUpdate, 32)
			result := engine.Publish(context.Background(), progressCh, validRequest())
			close(progressCh)

			if !result.Outcome.Succeeded() {
				t.Fatalf("expected success, got %+v", result.Outcome)
			}

			seen := make(map[Phase]bool)
			for update := range progressCh {
				seen[update.Phase] = true
				if update.Total != pipelineSteps {
					t.Errorf("expected total %d, got %d", pipelineSteps, update.Total)
				}
			}

			for _, phase := range []Phase{Validate, Resolve, CopyTags, Normalize, Update, Report} {
				if !seen[phase] {
					t.Errorf("expected %s phase update", phase)
				}
			}
		})

		t.Run("Full Channel Does Not Block", func(t *testing.T) {
			publisher := &fakePublisher{}
			store := &fakeStore{}
			engine := newTestEngine(publisher, store)

			progressCh := make(chan ProgressUpdate, 1)
			result := engine.Publish(context.Background(), progressCh, validRequest())

			if !result.Outcome.Succeeded() {
				t.Fatalf("expected success with a full channel, got %+v", result.Outcome)
			}
		})
	})
}

func TestPhaseString(t *testing.T) {
	tests := []struct {
		phase Phase
		want  string
	}{
		{Validate, "validate"},
		{Resolve, "resolve"},
		{CopyTags, "copy_tags"},
		{Normalize, "normalize"},
		{Update, "update"},
		{Report, "report"},
		{Phase(99), ""},
	}

	for _, tt := range tests {
		if got := tt.phase.String(); got != tt.want {
			t.Errorf("Phase(%d).String() = %q, want %q", tt.phase, got, tt.want)
		}
	}
}
