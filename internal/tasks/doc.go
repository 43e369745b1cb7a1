// Package tasks orchestrates the webhook-triggered tag publish pipeline with real-time progress reporting.
//
// # Core Operation
//
// The [SyncEngine] interface defines one operation:
//
//	[SyncEngine.Publish] : Full record → video tag publish
//	  - Validates the request and flags the record as Processing
//	  - Resolves the video reference from the content URL
//	  - Mirrors the suggested tags into the record's Tags field
//	  - Normalizes tags and applies them through the platform client
//	  - Reports the terminal outcome back to the record exactly once
//
// Failures are encoded in the returned [PublishResult] rather than returned
// as errors; every terminal path carries the curator-facing message that the
// webhook response and the record's error field both use.
//
// # Progress Reporting
//
// All steps emit non-blocking channel updates.
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data for advanced UI rendering.
// Updates use select with default to prevent blocking.
//
// # History
//
// The optional [HistoryArchiver] interface persists finished runs
//
// Runs are archived best-effort (errors logged) so history never disrupts publishing.
//
// # Implementation
//
// [PublishEngine] implements [SyncEngine] with dependencies on:
//   - [services.VideoPublisher] : video platform client
//   - [services.RecordStore] : record store client
//   - [HistoryArchiver] : optional persistence layer (repositories.SyncArchiveAdapter)
package tasks
