// YouTube Data API v3 client for video tag updates
//
// Wraps the generated google.golang.org/api client. Each publish is a
// read-modify-write: videos.list fetches the current snippet, then
// videos.update writes it back with the replaced tag list.
package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/desertthunder/tagsync/internal/models"
	"github.com/desertthunder/tagsync/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// Invalidator drops cached platform credentials. Implemented by [TokenProvider].
type Invalidator interface {
	Invalidate()
}

// PublisherService updates video tags through the YouTube Data API v3.
//
// Remote calls pass through a client-side rate limiter. When the platform
// rejects credentials on an API step, the cached token is invalidated and
// that step retried exactly once; a second rejection surfaces as
// ErrAccessDenied. Non-auth errors are never retried.
type PublisherService struct {
	service *youtube.Service
	tokens  Invalidator
	limiter *rate.Limiter
}

// NewPublisherService builds the typed YouTube client around the token
// provider. Extra options are appended after the auth client so tests can
// point the client at a local endpoint.
func NewPublisherService(ctx context.Context, provider *TokenProvider, rps float64, burst int, opts ...option.ClientOption) (*PublisherService, error) {
	if provider == nil {
		return nil, fmt.Errorf("%w: token provider is required", shared.ErrMissingCredentials)
	}
	if rps <= 0 {
		rps = 4
	}
	if burst <= 0 {
		burst = 1
	}

	// The provider is consulted on every request rather than wrapped in the
	// client library's own cache, so Invalidate takes effect on the retry.
	authClient := &http.Client{
		Transport: &oauth2.Transport{Source: provider},
		Timeout:   30 * time.Second,
	}

	clientOpts := append([]option.ClientOption{option.WithHTTPClient(authClient)}, opts...)
	service, err := youtube.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create youtube service: %w", err)
	}

	return &PublisherService{
		service: service,
		tokens:  provider,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}, nil
}

// ApplyTags replaces the video's tags with the normalized set.
func (p *PublisherService) ApplyTags(ctx context.Context, videoID string, tags models.TagSet) (*UpdateResult, error) {
	video, err := p.withAuthRetry(func() (*youtube.Video, error) {
		return p.fetchVideo(ctx, videoID)
	})
	if err != nil {
		return nil, classify(err)
	}

	video.Snippet.Tags = tags.Strings()

	if _, err := p.withAuthRetry(func() (*youtube.Video, error) {
		return p.updateVideo(ctx, video)
	}); err != nil {
		return nil, classify(err)
	}

	return &UpdateResult{
		VideoID:   videoID,
		Title:     video.Snippet.Title,
		TagsCount: len(tags),
	}, nil
}

// withAuthRetry runs one API step, invalidating cached credentials and
// retrying that step exactly once if the platform rejects them.
func (p *PublisherService) withAuthRetry(step func() (*youtube.Video, error)) (*youtube.Video, error) {
	video, err := step()
	if !isAuthError(err) {
		return video, err
	}

	p.tokens.Invalidate()

	video, err = step()
	if isAuthError(err) {
		return nil, fmt.Errorf("%w: credentials rejected after refresh", shared.ErrAccessDenied)
	}
	return video, err
}

// fetchVideo retrieves the video's current snippet via videos.list.
func (p *PublisherService) fetchVideo(ctx context.Context, videoID string) (*youtube.Video, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := p.service.Videos.List([]string{"snippet"}).Id(videoID).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	if len(resp.Items) == 0 {
		return nil, fmt.Errorf("%w: %s", shared.ErrVideoNotFound, videoID)
	}

	return resp.Items[0], nil
}

// updateVideo writes the modified snippet back via videos.update.
func (p *PublisherService) updateVideo(ctx context.Context, video *youtube.Video) (*youtube.Video, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	update := &youtube.Video{Id: video.Id, Snippet: video.Snippet}
	return p.service.Videos.Update([]string{"snippet"}, update).Context(ctx).Do()
}

// classify maps platform errors onto the shared error taxonomy.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, shared.ErrVideoNotFound),
		errors.Is(err, shared.ErrAccessDenied),
		errors.Is(err, shared.ErrRefreshFailed):
		return err
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == http.StatusNotFound:
			return fmt.Errorf("%w: %v", shared.ErrVideoNotFound, err)
		case apiErr.Code == http.StatusForbidden && hasReason(apiErr, "quotaExceeded", "rateLimitExceeded"):
			return fmt.Errorf("%w: %v", shared.ErrQuotaExceeded, err)
		case apiErr.Code == http.StatusForbidden:
			return fmt.Errorf("%w: %v", shared.ErrAccessDenied, err)
		}
	}

	// Older API error payloads only surface the reason in the message text.
	msg := err.Error()
	switch {
	case strings.Contains(msg, "quotaExceeded"), strings.Contains(msg, "rateLimitExceeded"):
		return fmt.Errorf("%w: %v", shared.ErrQuotaExceeded, err)
	case strings.Contains(msg, "videoNotFound"):
		return fmt.Errorf("%w: %v", shared.ErrVideoNotFound, err)
	case strings.Contains(msg, "forbidden"):
		return fmt.Errorf("%w: %v", shared.ErrAccessDenied, err)
	}

	return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
}

// hasReason reports whether the API error carries one of the given reasons.
func hasReason(apiErr *googleapi.Error, reasons ...string) bool {
	for _, item := range apiErr.Errors {
		for _, reason := range reasons {
			if item.Reason == reason {
				return true
			}
		}
	}
	return false
}

// isAuthError reports whether the platform rejected our credentials.
func isAuthError(err error) bool {
	if err == nil {
		return false
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusUnauthorized
	}
	return false
}
