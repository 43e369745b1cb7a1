// Package web is the planned HTMX dashboard over the local sync history.
//
// # Architecture
//
// Server-side rendering with HTMX partial swaps, reusing the repositories
// and tasks packages the CLI already depends on. Three views:
//
//  1. History table: server-rendered rows over SyncRecordRepository.ListRecent,
//     with hx-get polling for new runs
//  2. Run detail: HTMX partial showing one run's outcome, message, and a link
//     to the video's watch page
//  3. Replay: hx-post that re-runs a failed record through tasks.SyncEngine,
//     streaming ProgressUpdate values over SSE
//
// Routes
//
//	GET  /dashboard              → history table (most recent first)
//	GET  /dashboard/runs/{id}    → HTMX partial: run detail
//	POST /dashboard/runs/{id}/replay → start replay, return SSE endpoint
//	GET  /dashboard/runs/{id}/stream → SSE progress stream
//
// The dashboard mounts on the existing server.BasicRouter behind the same
// secret middleware as the webhook route, so the deployment surface stays a
// single listener.
//
// # Progress streaming
//
// Replay reuses the engine's non-blocking progress channel: the SSE handler
// owns the channel, forwards each ProgressUpdate as an event, and closes the
// stream when Publish returns with the terminal outcome.
//
// Implementation tasks
//
//  1. Template structure (base, history table, run detail partial)
//  2. Handlers over SyncRecordRepository and the publish engine
//  3. SSE handler bridging ProgressUpdate to events
//  4. Route registration on the webhook router
//
// # Testing strategy
//
// httptest against the assembled router with an engine fake, asserting HTMX
// response fragments and SSE event framing.
package web
