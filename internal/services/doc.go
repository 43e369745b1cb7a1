// Package services defines clients for the remote systems the publish pipeline talks to.
//
// # Video Publisher
//
// [PublisherService] implements [VideoPublisher] on the YouTube Data API v3.
// ApplyTags reads the video snippet, replaces its tags, and writes the
// snippet back, so title, description, and category survive the update.
//
// # Record Store
//
// [AirtableService] implements [RecordStore] against the Airtable REST API.
// Every status write stamps the sync date and sets or clears the error
// field; a successful publish also unchecks the record's publish trigger.
//
// # Credentials
//
// [TokenProvider] exchanges a long-lived OAuth refresh token for short-lived
// access tokens and caches them until shortly before expiry. Concurrent
// callers share one refresh; Invalidate discards the cache when the API
// rejects a token mid-flight.
//
// # Error Handling
//
// Services return typed errors from the shared package:
//   - [shared.ErrRefreshFailed] : token exchange rejected
//   - [shared.ErrAccessDenied] : API rejected credentials after a refresh
//   - [shared.ErrVideoNotFound] : video ID unknown to YouTube
//   - [shared.ErrQuotaExceeded] : daily quota or rate limit exhausted
//   - [shared.ErrRecordUpdate] : Airtable write failed
//   - [shared.ErrAPIRequest] : any other HTTP failure
package services
